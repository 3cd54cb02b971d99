package slot

import (
	"testing"

	"github.com/shopspring/decimal"
)

func newTestEvaluator(t *testing.T) *LineEvaluator {
	t.Helper()
	tables := DefaultTables()
	return NewLineEvaluator(tables.Catalog, tables.PayTable, tables.Paylines)
}

// middleRow 构造中间行为指定符号的盘面，上下两行交替填充不会连成线的符号
func middleRow(symbols [Reels]Symbol) Grid {
	return GridFromRows([Rows][Reels]Symbol{
		{SymbolCherry, SymbolLemon, SymbolOrange, SymbolPlum, SymbolGrape},
		symbols,
		{SymbolGrape, SymbolPlum, SymbolOrange, SymbolLemon, SymbolCherry},
	})
}

func TestEvaluateLine(t *testing.T) {
	e := newTestEvaluator(t)
	bet := decimal.NewFromInt(1)
	middle := DefaultPaylines()[0]

	tests := []struct {
		name       string
		symbols    [Reels]Symbol
		wantWin    bool
		wantSymbol Symbol
		wantRun    int
		wantWilds  int
		wantBase   int64
		wantMult   int64
	}{
		{
			name:       "史诗5连",
			symbols:    [Reels]Symbol{SymbolCrown, SymbolCrown, SymbolCrown, SymbolCrown, SymbolCrown},
			wantWin:    true,
			wantSymbol: SymbolCrown, wantRun: 5, wantBase: 500, wantMult: 500,
		},
		{
			name:       "百搭开头延迟确定身份",
			symbols:    [Reels]Symbol{SymbolWild, SymbolBell, SymbolBell, SymbolBell, SymbolCherry},
			wantWin:    true,
			wantSymbol: SymbolBell, wantRun: 4, wantWilds: 1, wantBase: 15, wantMult: 30,
		},
		{
			name:       "中间百搭",
			symbols:    [Reels]Symbol{SymbolBar, SymbolWild, SymbolBar, SymbolLemon, SymbolBar},
			wantWin:    true,
			wantSymbol: SymbolBar, wantRun: 3, wantWilds: 1, wantBase: 6, wantMult: 12,
		},
		{
			name:       "两个百搭翻四倍",
			symbols:    [Reels]Symbol{SymbolWild, SymbolWild, SymbolCherry, SymbolLemon, SymbolLemon},
			wantWin:    true,
			wantSymbol: SymbolCherry, wantRun: 3, wantWilds: 2, wantBase: 2, wantMult: 8,
		},
		{
			name:       "全百搭使用百搭赔率",
			symbols:    [Reels]Symbol{SymbolWild, SymbolWild, SymbolWild, SymbolWild, SymbolWild},
			wantWin:    true,
			wantSymbol: SymbolWild, wantRun: 5, wantWilds: 5, wantBase: 20, wantMult: 640,
		},
		{
			name:       "百搭之后身份确定不再改变",
			symbols:    [Reels]Symbol{SymbolWild, SymbolSeven, SymbolWild, SymbolDiamond, SymbolSeven},
			wantWin:    true,
			wantSymbol: SymbolSeven, wantRun: 3, wantWilds: 2, wantBase: 15, wantMult: 60,
		},
		{
			name:       "分散符号按普通符号连线",
			symbols:    [Reels]Symbol{SymbolScatter, SymbolScatter, SymbolScatter, SymbolLemon, SymbolLemon},
			wantWin:    true,
			wantSymbol: SymbolScatter, wantRun: 3, wantBase: 2, wantMult: 2,
		},
		{
			name:    "只有两个不中奖",
			symbols: [Reels]Symbol{SymbolStar, SymbolStar, SymbolLemon, SymbolStar, SymbolStar},
			wantWin: false,
		},
		{
			name:    "中断后不再计入",
			symbols: [Reels]Symbol{SymbolLemon, SymbolStar, SymbolStar, SymbolStar, SymbolStar},
			wantWin: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.EvaluateLine(middleRow(tt.symbols), 0, middle, bet)
			if ok != tt.wantWin {
				t.Fatalf("EvaluateLine() win = %v, want %v", ok, tt.wantWin)
			}
			if !ok {
				return
			}
			if got.Symbol != tt.wantSymbol {
				t.Errorf("Symbol = %s, want %s", got.Symbol, tt.wantSymbol)
			}
			if got.RunLength != tt.wantRun {
				t.Errorf("RunLength = %d, want %d", got.RunLength, tt.wantRun)
			}
			if got.WildCount != tt.wantWilds {
				t.Errorf("WildCount = %d, want %d", got.WildCount, tt.wantWilds)
			}
			if got.BaseMultiplier != tt.wantBase {
				t.Errorf("BaseMultiplier = %d, want %d", got.BaseMultiplier, tt.wantBase)
			}
			if got.Multiplier != tt.wantMult {
				t.Errorf("Multiplier = %d, want %d", got.Multiplier, tt.wantMult)
			}
			if !got.WinAmount.Equal(decimal.NewFromInt(tt.wantMult)) {
				t.Errorf("WinAmount = %s, want %d", got.WinAmount, tt.wantMult)
			}
			if len(got.Positions) != got.RunLength || len(got.Symbols) != got.RunLength {
				t.Errorf("位置/符号数量与连线长度不符: %d/%d vs %d", len(got.Positions), len(got.Symbols), got.RunLength)
			}
		})
	}
}

func TestEvaluateLine_WinAmountScalesWithBet(t *testing.T) {
	e := newTestEvaluator(t)
	grid := middleRow([Reels]Symbol{SymbolWild, SymbolBell, SymbolBell, SymbolBell, SymbolCherry})

	got, ok := e.EvaluateLine(grid, 0, DefaultPaylines()[0], decimal.RequireFromString("2.50"))
	if !ok {
		t.Fatal("期望中奖")
	}
	if want := decimal.RequireFromString("75"); !got.WinAmount.Equal(want) {
		t.Errorf("WinAmount = %s, want %s", got.WinAmount, want)
	}
}

func TestEvaluateAll_NoWins(t *testing.T) {
	e := newTestEvaluator(t)
	// 前两列没有共同符号也没有百搭，任何支付线都无法连到3个
	grid := GridFromRows([Rows][Reels]Symbol{
		{SymbolCherry, SymbolLemon, SymbolCrown, SymbolCrown, SymbolCrown},
		{SymbolCherry, SymbolLemon, SymbolCrown, SymbolCrown, SymbolCrown},
		{SymbolCherry, SymbolLemon, SymbolCrown, SymbolCrown, SymbolCrown},
	})
	if wins := e.EvaluateAll(grid, decimal.NewFromInt(1)); len(wins) != 0 {
		t.Errorf("EvaluateAll() = %d 条中奖线, want 0", len(wins))
	}
}

func TestEvaluateAll_OrderedByLineIndex(t *testing.T) {
	e := newTestEvaluator(t)
	// 全盘同一符号，20条线全部5连
	var grid Grid
	for col := 0; col < Reels; col++ {
		for row := 0; row < Rows; row++ {
			grid[col][row] = SymbolCherry
		}
	}
	wins := e.EvaluateAll(grid, decimal.NewFromInt(1))
	if len(wins) != PaylineCount {
		t.Fatalf("中奖线数量 = %d, want %d", len(wins), PaylineCount)
	}
	for i, w := range wins {
		if w.LineIndex != i {
			t.Errorf("wins[%d].LineIndex = %d", i, w.LineIndex)
		}
		if w.RunLength != 5 || w.Multiplier != 10 {
			t.Errorf("wins[%d] = %d连 ×%d, want 5连 ×10", i, w.RunLength, w.Multiplier)
		}
	}
}
