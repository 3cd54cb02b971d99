package slot

import (
	"math"
	"testing"
)

// seqSource 按顺序循环返回预设值
type seqSource struct {
	values []uint64
	pos    int
}

func (s *seqSource) Uint64() uint64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

func TestDistribution_Draw(t *testing.T) {
	c, err := NewCatalog(DefaultSymbolDefs())
	if err != nil {
		t.Fatal(err)
	}
	d, err := NewDistribution(c)
	if err != nil {
		t.Fatal(err)
	}

	var wantTotal uint64
	for _, def := range DefaultSymbolDefs() {
		wantTotal += uint64(def.Weight)
	}
	if d.Total() != wantTotal {
		t.Fatalf("Total() = %d, want %d", d.Total(), wantTotal)
	}

	tests := []struct {
		name string
		u    uint64
		want Symbol
	}{
		{"第一个区间起点", 0, SymbolCherry},
		{"第一个区间终点", 59, SymbolCherry},
		{"第二个区间起点", 60, SymbolLemon},
		{"第二个区间终点", 114, SymbolLemon},
		{"最后一个区间终点", wantTotal - 1, SymbolBonus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Draw(tt.u); got != tt.want {
				t.Errorf("Draw(%d) = %s, want %s", tt.u, got, tt.want)
			}
		})
	}
}

func TestDistribution_DrawCoversWeights(t *testing.T) {
	c, _ := NewCatalog(DefaultSymbolDefs())
	d, _ := NewDistribution(c)

	counts := make(map[Symbol]uint64)
	for u := uint64(0); u < d.Total(); u++ {
		counts[d.Draw(u)]++
	}
	for _, def := range DefaultSymbolDefs() {
		if counts[def.Symbol] != uint64(def.Weight) {
			t.Errorf("%s 区间长度 = %d, want %d", def.Symbol, counts[def.Symbol], def.Weight)
		}
	}
}

func TestUniform_RejectsBiasedTail(t *testing.T) {
	n := uint64(10)
	limit := math.MaxUint64 - math.MaxUint64%n
	src := &seqSource{values: []uint64{math.MaxUint64, limit, 17}}

	if got := uniform(src, n); got != 7 {
		t.Errorf("uniform() = %d, want 7", got)
	}
	if src.pos != 3 {
		t.Errorf("应拒绝前两个值, 实际读取 %d 次", src.pos)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	c, _ := NewCatalog(DefaultSymbolDefs())
	g, err := NewGenerator(c)
	if err != nil {
		t.Fatal(err)
	}

	a := g.Generate(NewSeededSource(42, 7))
	b := g.Generate(NewSeededSource(42, 7))
	if a != b {
		t.Errorf("相同种子生成的盘面不同:\n%v\n%v", a, b)
	}

	for _, s := range a.Cells() {
		if !c.Contains(s) {
			t.Errorf("盘面包含未知符号 %q", s)
		}
	}
}

func TestGenerator_ColumnMajorOrder(t *testing.T) {
	c, _ := NewCatalog(DefaultSymbolDefs())
	g, _ := NewGenerator(c)

	// 依次取 u = 0, 60, 0, 60 ... 使得每列自上而下为 CHERRY, LEMON, CHERRY
	src := &seqSource{values: []uint64{0, 60, 0}}
	grid := g.Generate(src)

	for col := 0; col < Reels; col++ {
		want := [Rows]Symbol{SymbolCherry, SymbolLemon, SymbolCherry}
		if grid[col] != want {
			t.Errorf("第%d列 = %v, want %v", col, grid[col], want)
		}
	}
	if src.pos != Reels*Rows {
		t.Errorf("读取次数 = %d, want %d", src.pos, Reels*Rows)
	}
}

func TestGenerator_Frequencies(t *testing.T) {
	c, _ := NewCatalog(DefaultSymbolDefs())
	g, _ := NewGenerator(c)
	src := NewSeededSource(1, 2)

	counts := make(map[Symbol]int)
	const spins = 20000
	for i := 0; i < spins; i++ {
		for _, s := range g.Generate(src).Cells() {
			counts[s]++
		}
	}

	cells := float64(spins * Reels * Rows)
	for _, def := range DefaultSymbolDefs() {
		want := g.Distribution().Probability(def.Symbol)
		got := float64(counts[def.Symbol]) / cells
		if math.Abs(got-want) > 0.005 {
			t.Errorf("%s 频率 = %.4f, want %.4f", def.Symbol, got, want)
		}
	}
}

func TestCryptoSource(t *testing.T) {
	src := NewCryptoSource()
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		seen[src.Uint64()] = true
	}
	if len(seen) < 99 {
		t.Errorf("加密随机数重复过多: %d 个不同值", len(seen))
	}
}
