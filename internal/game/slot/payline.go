package slot

// PaylineCount 固定支付线数量
const PaylineCount = 20

// Payline 支付线，每列一个坐标
type Payline [Reels]Position

// NewPayline 由每列的行索引构造支付线
func NewPayline(rows [Reels]int) Payline {
	var p Payline
	for col, row := range rows {
		p[col] = Position{Row: row, Col: col}
	}
	return p
}

// RowPattern 返回每列的行索引
func (p Payline) RowPattern() [Reels]int {
	var rows [Reels]int
	for col, pos := range p {
		rows[col] = pos.Row
	}
	return rows
}

// Read 读取支付线上的5个符号
func (p Payline) Read(grid Grid) [Reels]Symbol {
	var out [Reels]Symbol
	for i, pos := range p {
		out[i] = grid.At(pos.Row, pos.Col)
	}
	return out
}

// defaultPaylineRows 20条支付线的行模式，索引0为中线
var defaultPaylineRows = [PaylineCount][Reels]int{
	{1, 1, 1, 1, 1}, // 中线
	{0, 0, 0, 0, 0}, // 上线
	{2, 2, 2, 2, 2}, // 下线
	{0, 1, 2, 1, 0}, // V形
	{2, 1, 0, 1, 2}, // 倒V形
	{0, 0, 1, 2, 2},
	{2, 2, 1, 0, 0},
	{1, 0, 0, 0, 1},
	{1, 2, 2, 2, 1},
	{0, 1, 1, 1, 0},
	{2, 1, 1, 1, 2},
	{1, 0, 1, 0, 1}, // 锯齿
	{1, 2, 1, 2, 1},
	{0, 1, 0, 1, 0},
	{2, 1, 2, 1, 2},
	{1, 1, 0, 1, 1},
	{1, 1, 2, 1, 1},
	{0, 2, 0, 2, 0},
	{2, 0, 2, 0, 2},
	{0, 2, 2, 2, 0},
}

// DefaultPaylines 默认20条支付线
func DefaultPaylines() []Payline {
	lines := make([]Payline, PaylineCount)
	for i, rows := range defaultPaylineRows {
		lines[i] = NewPayline(rows)
	}
	return lines
}

// ValidatePaylines 校验支付线：数量固定、列顺序为0..4、行在范围内且互不重复
func ValidatePaylines(lines []Payline) error {
	if len(lines) != PaylineCount {
		return configErrorf("paylines", "支付线必须为%d条，实际%d条", PaylineCount, len(lines))
	}
	seen := make(map[[Reels]int]int, len(lines))
	for i, line := range lines {
		for col, pos := range line {
			if pos.Col != col {
				return configErrorf("paylines", "第%d条支付线第%d个坐标列索引为%d", i, col, pos.Col)
			}
			if pos.Row < 0 || pos.Row >= Rows {
				return configErrorf("paylines", "第%d条支付线行索引越界: %d", i, pos.Row)
			}
		}
		pattern := line.RowPattern()
		if j, dup := seen[pattern]; dup {
			return configErrorf("paylines", "第%d条与第%d条支付线重复", i, j)
		}
		seen[pattern] = i
	}
	return nil
}
