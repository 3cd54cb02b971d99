package slot

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// SimulationOptions 模拟参数
type SimulationOptions struct {
	Spins   int             // 旋转次数
	Bet     decimal.Decimal // 每次下注
	Workers int             // 并发数，<=0时使用CPU核数
	Seed    uint64          // 随机种子，0表示使用加密随机种子
}

// SimulationResult 模拟结果
type SimulationResult struct {
	TotalSpins       int                `json:"total_spins"`
	TotalBet         decimal.Decimal    `json:"total_bet"`
	TotalWin         decimal.Decimal    `json:"total_win"`
	RTP              float64            `json:"rtp"`
	HitFrequency     float64            `json:"hit_frequency"`
	FreeSpinTriggers int                `json:"free_spin_triggers"`
	FreeSpinRate     float64            `json:"free_spin_rate"`
	FreeSpinsTotal   int64              `json:"free_spins_total"`
	BonusTriggers    int                `json:"bonus_triggers"`
	BonusRate        float64            `json:"bonus_rate"`
	MaxMultiplier    int64              `json:"max_multiplier"`
	MaxWin           decimal.Decimal    `json:"max_win"`
	SymbolReturn     map[Symbol]float64 `json:"symbol_return"` // 各符号连线返还占总下注比例
	Seed             uint64             `json:"seed"`
	Duration         time.Duration      `json:"duration"`
}

// simTally 单个worker的累计数据，以下注倍数计
type simTally struct {
	spins         int
	hits          int
	multiplier    int64
	freeTriggers  int
	freeSpins     int64
	bonusTriggers int
	maxMultiplier int64
	bySymbol      map[Symbol]int64
}

func (t *simTally) merge(o *simTally) {
	t.spins += o.spins
	t.hits += o.hits
	t.multiplier += o.multiplier
	t.freeTriggers += o.freeTriggers
	t.freeSpins += o.freeSpins
	t.bonusTriggers += o.bonusTriggers
	if o.maxMultiplier > t.maxMultiplier {
		t.maxMultiplier = o.maxMultiplier
	}
	for s, m := range o.bySymbol {
		t.bySymbol[s] += m
	}
}

// Simulate 批量模拟，用于统计RTP。每个worker持有独立的PCG随机源
func Simulate(engine *Engine, opts SimulationOptions) (*SimulationResult, error) {
	if opts.Spins <= 0 {
		return nil, fmt.Errorf("模拟次数必须为正数: %d", opts.Spins)
	}
	if err := validateBet(opts.Bet); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > opts.Spins {
		workers = opts.Spins
	}
	seed := opts.Seed
	if seed == 0 {
		seed = CryptoSource{}.Uint64()
	}

	start := time.Now()
	tallies := make([]*simTally, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		n := opts.Spins / workers
		if w < opts.Spins%workers {
			n++
		}
		wg.Add(1)
		go func(w, n int) {
			defer wg.Done()
			tallies[w] = engine.simulateWorker(NewSeededSource(seed, uint64(w)), n)
		}(w, n)
	}
	wg.Wait()

	total := &simTally{bySymbol: make(map[Symbol]int64)}
	for _, t := range tallies {
		total.merge(t)
	}

	spins := float64(total.spins)
	result := &SimulationResult{
		TotalSpins:       total.spins,
		TotalBet:         opts.Bet.Mul(decimal.NewFromInt(int64(total.spins))),
		TotalWin:         opts.Bet.Mul(decimal.NewFromInt(total.multiplier)),
		RTP:              float64(total.multiplier) / spins,
		HitFrequency:     float64(total.hits) / spins,
		FreeSpinTriggers: total.freeTriggers,
		FreeSpinRate:     float64(total.freeTriggers) / spins,
		FreeSpinsTotal:   total.freeSpins,
		BonusTriggers:    total.bonusTriggers,
		BonusRate:        float64(total.bonusTriggers) / spins,
		MaxMultiplier:    total.maxMultiplier,
		MaxWin:           opts.Bet.Mul(decimal.NewFromInt(total.maxMultiplier)),
		SymbolReturn:     make(map[Symbol]float64, len(total.bySymbol)),
		Seed:             seed,
		Duration:         time.Since(start),
	}
	for s, m := range total.bySymbol {
		result.SymbolReturn[s] = float64(m) / spins
	}
	return result, nil
}

// simulateWorker 以单位下注执行n次旋转，只累计倍数
func (e *Engine) simulateWorker(src Source, n int) *simTally {
	tally := &simTally{bySymbol: make(map[Symbol]int64)}
	for i := 0; i < n; i++ {
		grid := e.generator.Generate(src)
		lines := e.evaluator.EvaluateAll(grid, decimal.NewFromInt(1))
		features := e.detector.Detect(grid)

		var spinMultiplier int64
		for _, w := range lines {
			spinMultiplier += w.Multiplier
			tally.bySymbol[w.Symbol] += w.Multiplier
		}
		tally.spins++
		tally.multiplier += spinMultiplier
		if len(lines) > 0 {
			tally.hits++
		}
		if spinMultiplier > tally.maxMultiplier {
			tally.maxMultiplier = spinMultiplier
		}
		if features.FreeSpinsAwarded > 0 {
			tally.freeTriggers++
			tally.freeSpins += int64(features.FreeSpinsAwarded)
		}
		if features.BonusTriggered {
			tally.bonusTriggers++
		}
	}
	return tally
}
