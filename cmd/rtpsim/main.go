package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wfunc/slot-engine/internal/config"
	"github.com/wfunc/slot-engine/internal/game/slot"
	"github.com/wfunc/slot-engine/internal/logger"
)

func main() {
	// 命令行参数
	var (
		tablesFile = flag.String("tables", "", "游戏表文件，为空使用内置表")
		spins      = flag.Int("spins", 1_000_000, "模拟旋转次数")
		bet        = flag.String("bet", "1", "每次下注")
		workers    = flag.Int("workers", 0, "并发数，0表示CPU核数")
		seed       = flag.Uint64("seed", 0, "随机种子，0表示随机")
		asJSON     = flag.Bool("json", false, "以JSON输出结果")
		logLevel   = flag.String("log", "warn", "日志级别(debug/info/warn/error)")
	)
	flag.Parse()

	if err := logger.Init(&config.LogConfig{Level: *logLevel, Format: "console", Output: "stdout"}); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.GetModuleLogger("rtpsim")

	betAmount, err := decimal.NewFromString(*bet)
	if err != nil {
		fmt.Printf("下注金额无效: %v\n", err)
		os.Exit(1)
	}

	tables, err := slot.LoadTables(*tablesFile)
	if err != nil {
		log.Error("加载游戏表失败", zap.String("path", *tablesFile), zap.Error(err))
		os.Exit(1)
	}
	engine, err := slot.NewEngine(tables)
	if err != nil {
		log.Error("游戏表校验失败", zap.Error(err))
		os.Exit(1)
	}

	log.Info("开始模拟", zap.Int("spins", *spins), zap.String("bet", betAmount.String()))
	result, err := slot.Simulate(engine, slot.SimulationOptions{
		Spins:   *spins,
		Bet:     betAmount,
		Workers: *workers,
		Seed:    *seed,
	})
	if err != nil {
		log.Error("模拟失败", zap.Error(err))
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			os.Exit(1)
		}
		return
	}
	printResult(result)
}

// printResult 打印模拟报告
func printResult(r *slot.SimulationResult) {
	fmt.Println("=== RTP 模拟结果 ===")
	fmt.Printf("旋转次数:     %d\n", r.TotalSpins)
	fmt.Printf("总下注:       %s\n", r.TotalBet.StringFixed(2))
	fmt.Printf("总赢分:       %s\n", r.TotalWin.StringFixed(2))
	fmt.Printf("RTP:          %.4f%%\n", r.RTP*100)
	fmt.Printf("中奖频率:     %.4f%%\n", r.HitFrequency*100)
	fmt.Printf("免费旋转触发: %d (%.4f%%), 共 %d 次\n", r.FreeSpinTriggers, r.FreeSpinRate*100, r.FreeSpinsTotal)
	fmt.Printf("奖励回合触发: %d (%.4f%%)\n", r.BonusTriggers, r.BonusRate*100)
	fmt.Printf("最大赢分:     %s (x%d)\n", r.MaxWin.StringFixed(2), r.MaxMultiplier)
	fmt.Printf("随机种子:     %d\n", r.Seed)
	fmt.Printf("耗时:         %s\n", r.Duration)

	symbols := make([]slot.Symbol, 0, len(r.SymbolReturn))
	for s := range r.SymbolReturn {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool {
		return r.SymbolReturn[symbols[i]] > r.SymbolReturn[symbols[j]]
	})

	fmt.Println("--- 各符号返还 ---")
	for _, s := range symbols {
		fmt.Printf("%-10s %.4f%%\n", s, r.SymbolReturn[s]*100)
	}
}
