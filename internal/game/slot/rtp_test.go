package slot

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSimulate(t *testing.T) {
	e := NewDefaultEngine()
	opts := SimulationOptions{
		Spins:   20000,
		Bet:     decimal.NewFromInt(1),
		Workers: 4,
		Seed:    12345,
	}

	res, err := Simulate(e, opts)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if res.TotalSpins != opts.Spins {
		t.Errorf("TotalSpins = %d, want %d", res.TotalSpins, opts.Spins)
	}
	if !res.TotalBet.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("TotalBet = %s, want 20000", res.TotalBet)
	}
	if res.RTP <= 0 {
		t.Errorf("RTP = %v, want > 0", res.RTP)
	}
	if res.HitFrequency <= 0 || res.HitFrequency >= 1 {
		t.Errorf("HitFrequency = %v, want (0,1)", res.HitFrequency)
	}

	var symbolSum float64
	for _, r := range res.SymbolReturn {
		symbolSum += r
	}
	if diff := symbolSum - res.RTP; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("各符号返还之和 %v 与 RTP %v 不一致", symbolSum, res.RTP)
	}
}

func TestSimulate_Reproducible(t *testing.T) {
	e := NewDefaultEngine()
	opts := SimulationOptions{Spins: 5000, Bet: decimal.NewFromInt(1), Workers: 3, Seed: 99}

	a, err := Simulate(e, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Simulate(e, opts)
	if !a.TotalWin.Equal(b.TotalWin) || a.BonusTriggers != b.BonusTriggers || a.FreeSpinTriggers != b.FreeSpinTriggers {
		t.Errorf("相同种子模拟结果不同: %s/%s", a.TotalWin, b.TotalWin)
	}
}

func TestSimulate_InvalidOptions(t *testing.T) {
	e := NewDefaultEngine()
	if _, err := Simulate(e, SimulationOptions{Spins: 0, Bet: decimal.NewFromInt(1)}); err == nil {
		t.Error("Spins=0 应返回错误")
	}
	if _, err := Simulate(e, SimulationOptions{Spins: 10, Bet: decimal.Zero}); err == nil {
		t.Error("Bet=0 应返回错误")
	}
}
