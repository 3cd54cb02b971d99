package slot

import "sort"

// PayRow 某符号3/4/5连的基础倍数
type PayRow [Reels - MinRunLength + 1]int64

// At 返回连续n个的倍数，n须在[3,5]
func (r PayRow) At(n int) int64 {
	return r[n-MinRunLength]
}

// PayTable 赔率表，构造后只读
type PayTable struct {
	rows map[Symbol]PayRow
}

// NewPayTable 创建并校验赔率表
func NewPayTable(catalog *Catalog, rows map[Symbol]PayRow) (*PayTable, error) {
	pt := &PayTable{rows: make(map[Symbol]PayRow, len(rows))}
	for s, r := range rows {
		if !catalog.Contains(s) {
			return nil, configErrorf("paytable", "赔率表包含未知符号: %s", s)
		}
		pt.rows[s] = r
	}
	if err := pt.validate(catalog); err != nil {
		return nil, err
	}
	return pt, nil
}

func (pt *PayTable) validate(catalog *Catalog) error {
	var top int64 = -1
	var epicTop int64 = -1

	// 各连线长度下每个稀有度的最小/最大值（仅普通符号）
	type band struct {
		min, max int64
		set      bool
	}
	bands := make([]map[Tier]*band, len(PayRow{}))
	for i := range bands {
		bands[i] = make(map[Tier]*band)
	}

	for _, s := range catalog.Symbols() {
		row, ok := pt.rows[s]
		if !ok {
			return configErrorf("paytable", "符号 %s 缺少赔率", s)
		}
		for i, v := range row {
			if v < 0 {
				return configErrorf("paytable", "符号 %s %d连倍数为负: %d", s, i+MinRunLength, v)
			}
			if i > 0 && v <= row[i-1] {
				return configErrorf("paytable", "符号 %s 倍数必须随连线长度严格递增", s)
			}
			if v > top {
				top = v
			}
		}
		if catalog.RoleOf(s) != RoleNormal {
			continue
		}
		if catalog.RarityOf(s) == TierEpic && row.At(Reels) > epicTop {
			epicTop = row.At(Reels)
		}
		tier := catalog.RarityOf(s)
		for i, v := range row {
			b, ok := bands[i][tier]
			if !ok {
				b = &band{}
				bands[i][tier] = b
			}
			if !b.set || v < b.min {
				b.min = v
			}
			if !b.set || v > b.max {
				b.max = v
			}
			b.set = true
		}
	}

	for i, m := range bands {
		n := i + MinRunLength
		for _, pair := range [][2]Tier{{TierCommon, TierRare}, {TierRare, TierEpic}} {
			lo, hi := m[pair[0]], m[pair[1]]
			if lo == nil || hi == nil {
				continue
			}
			if lo.max >= hi.min {
				return configErrorf("paytable", "%d连时 %s 最高倍数(%d)须低于 %s 最低倍数(%d)",
					n, pair[0], lo.max, pair[1], hi.min)
			}
		}
	}

	if epicTop < 0 || epicTop != top {
		return configErrorf("paytable", "最高倍数(%d)必须为史诗普通符号5连", top)
	}
	return nil
}

// MultiplierFor 查询基础倍数
func (pt *PayTable) MultiplierFor(s Symbol, n int) (int64, error) {
	if n < MinRunLength || n > Reels {
		return 0, configErrorf("paytable", "连线长度超出范围: %d", n)
	}
	row, ok := pt.rows[s]
	if !ok {
		return 0, configErrorf("paytable", "未知符号: %s", s)
	}
	return row.At(n), nil
}

// Row 返回某符号的赔率行
func (pt *PayTable) Row(s Symbol) (PayRow, bool) {
	row, ok := pt.rows[s]
	return row, ok
}

// Symbols 按名称排序返回已配置的符号
func (pt *PayTable) Symbols() []Symbol {
	out := make([]Symbol, 0, len(pt.rows))
	for s := range pt.rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefaultPayRows 默认赔率表
func DefaultPayRows() map[Symbol]PayRow {
	return map[Symbol]PayRow{
		SymbolCherry:     {2, 5, 10},
		SymbolLemon:      {2, 6, 12},
		SymbolOrange:     {3, 7, 15},
		SymbolPlum:       {3, 8, 18},
		SymbolGrape:      {4, 9, 20},
		SymbolWatermelon: {4, 10, 25},

		SymbolBell:      {5, 15, 40},
		SymbolBar:       {6, 18, 50},
		SymbolDoubleBar: {8, 20, 60},
		SymbolStar:      {9, 25, 75},
		SymbolHorseshoe: {10, 30, 90},

		SymbolSeven:   {15, 50, 150},
		SymbolDiamond: {20, 75, 250},
		SymbolCrown:   {25, 100, 500},

		SymbolWild:    {5, 10, 20},
		SymbolScatter: {2, 4, 8},
		SymbolBonus:   {2, 4, 8},
	}
}
