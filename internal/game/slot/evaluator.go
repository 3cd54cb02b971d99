package slot

import "github.com/shopspring/decimal"

// LineEvaluator 支付线评估器
type LineEvaluator struct {
	catalog  *Catalog
	payTable *PayTable
	paylines []Payline
}

// NewLineEvaluator 创建支付线评估器
func NewLineEvaluator(catalog *Catalog, payTable *PayTable, paylines []Payline) *LineEvaluator {
	return &LineEvaluator{
		catalog:  catalog,
		payTable: payTable,
		paylines: append([]Payline(nil), paylines...),
	}
}

// resolveMatch 百搭延迟确定身份：当前匹配符号为百搭且遇到非百搭时，匹配符号变为该符号
func (e *LineEvaluator) resolveMatch(match, current Symbol) Symbol {
	if e.catalog.IsWild(match) && !e.catalog.IsWild(current) {
		return current
	}
	return match
}

// extends 判断current能否延续以match为身份的连线
func (e *LineEvaluator) extends(match, current Symbol) bool {
	return current == match || e.catalog.IsWild(current) || e.catalog.IsWild(match)
}

// EvaluateLine 从最左列开始计算一条支付线的最长连续匹配
func (e *LineEvaluator) EvaluateLine(grid Grid, index int, line Payline, bet decimal.Decimal) (WinLine, bool) {
	// 1. 读取支付线符号
	symbols := line.Read(grid)

	// 2. 首个符号作为匹配符号（可能是百搭）
	match := symbols[0]
	run := 1

	// 3. 向右延续
	for i := 1; i < Reels; i++ {
		current := symbols[i]
		if !e.extends(match, current) {
			break
		}
		match = e.resolveMatch(match, current)
		run++
	}

	// 4. 不足3个不中奖
	if run < MinRunLength {
		return WinLine{}, false
	}

	// 5. 统计百搭数量
	wildCount := 0
	for _, s := range symbols[:run] {
		if e.catalog.IsWild(s) {
			wildCount++
		}
	}

	// 6. 查询基础倍数（全百搭时使用百搭的赔率行）
	base, err := e.payTable.MultiplierFor(match, run)
	if err != nil {
		panic(err)
	}

	// 7. 每个百搭翻倍
	multiplier := base << uint(wildCount)

	positions := make([]Position, run)
	copy(positions, line[:run])
	matched := make([]Symbol, run)
	copy(matched, symbols[:run])

	// 8. 中奖金额
	return WinLine{
		LineIndex:      index,
		Symbol:         match,
		RunLength:      run,
		WildCount:      wildCount,
		Symbols:        matched,
		Positions:      positions,
		BaseMultiplier: base,
		Multiplier:     multiplier,
		WinAmount:      bet.Mul(decimal.NewFromInt(multiplier)),
	}, true
}

// EvaluateAll 依次评估全部支付线，结果按支付线索引排序
func (e *LineEvaluator) EvaluateAll(grid Grid, bet decimal.Decimal) []WinLine {
	var wins []WinLine
	for i, line := range e.paylines {
		if w, ok := e.EvaluateLine(grid, i, line, bet); ok {
			wins = append(wins, w)
		}
	}
	return wins
}
