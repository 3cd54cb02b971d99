package slot

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Outcome 一次旋转的最终结果，创建后不可修改。
// 展示层只能使用其中的盘面，不允许为同一次旋转另行生成盘面。
type Outcome struct {
	grid     Grid
	winLines []WinLine
	totalWin decimal.Decimal
	bet      decimal.Decimal
	features FeatureResult
}

func newOutcome(grid Grid, bet decimal.Decimal, winLines []WinLine, features FeatureResult) *Outcome {
	total := decimal.Zero
	for _, w := range winLines {
		total = total.Add(w.WinAmount)
	}
	return &Outcome{
		grid:     grid,
		winLines: winLines,
		totalWin: total,
		bet:      bet,
		features: features,
	}
}

// Grid 盘面（值拷贝）
func (o *Outcome) Grid() Grid { return o.grid }

// WinLines 中奖线副本，按支付线索引排序
func (o *Outcome) WinLines() []WinLine {
	out := make([]WinLine, len(o.winLines))
	for i, w := range o.winLines {
		w.Symbols = append([]Symbol(nil), w.Symbols...)
		w.Positions = append([]Position(nil), w.Positions...)
		out[i] = w
	}
	return out
}

// TotalWin 总赢额
func (o *Outcome) TotalWin() decimal.Decimal { return o.totalWin }

// Bet 下注金额
func (o *Outcome) Bet() decimal.Decimal { return o.bet }

// Features 特殊功能结果
func (o *Outcome) Features() FeatureResult { return o.features }

// ScatterCount 分散符号数量
func (o *Outcome) ScatterCount() int { return o.features.ScatterCount }

// BonusCount 奖励符号数量
func (o *Outcome) BonusCount() int { return o.features.BonusCount }

// BonusTriggered 是否触发奖励回合
func (o *Outcome) BonusTriggered() bool { return o.features.BonusTriggered }

// FreeSpinsAwarded 奖励的免费旋转次数
func (o *Outcome) FreeSpinsAwarded() int { return o.features.FreeSpinsAwarded }

// IsWin 是否有中奖线
func (o *Outcome) IsWin() bool { return len(o.winLines) > 0 }

type outcomeJSON struct {
	Grid             Grid            `json:"grid"`
	WinLines         []WinLine       `json:"winLines"`
	TotalWin         decimal.Decimal `json:"totalWin"`
	Bet              decimal.Decimal `json:"bet"`
	ScatterCount     int             `json:"scatterCount"`
	BonusCount       int             `json:"bonusCount"`
	BonusTriggered   bool            `json:"bonusTriggered"`
	FreeSpinsAwarded int             `json:"freeSpinsAwarded"`
}

// MarshalJSON 实现json.Marshaler
func (o *Outcome) MarshalJSON() ([]byte, error) {
	lines := o.winLines
	if lines == nil {
		lines = []WinLine{}
	}
	return json.Marshal(outcomeJSON{
		Grid:             o.grid,
		WinLines:         lines,
		TotalWin:         o.totalWin,
		Bet:              o.bet,
		ScatterCount:     o.features.ScatterCount,
		BonusCount:       o.features.BonusCount,
		BonusTriggered:   o.features.BonusTriggered,
		FreeSpinsAwarded: o.features.FreeSpinsAwarded,
	})
}
