package slot

// Catalog 符号目录，构造后只读
type Catalog struct {
	defs  []SymbolDef
	index map[Symbol]int

	wild    Symbol
	scatter Symbol
	bonus   Symbol
}

// NewCatalog 创建并校验符号目录
func NewCatalog(defs []SymbolDef) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, configErrorf("catalog", "符号表为空")
	}

	c := &Catalog{
		defs:  make([]SymbolDef, len(defs)),
		index: make(map[Symbol]int, len(defs)),
	}
	copy(c.defs, defs)

	roleCount := make(map[Role]int)
	normalTiers := make(map[Tier]bool)

	for i, d := range c.defs {
		if d.Symbol == "" {
			return nil, configErrorf("catalog", "第%d个符号名称为空", i)
		}
		if _, dup := c.index[d.Symbol]; dup {
			return nil, configErrorf("catalog", "符号重复: %s", d.Symbol)
		}
		if d.Weight <= 0 {
			return nil, configErrorf("catalog", "符号 %s 权重必须为正数: %d", d.Symbol, d.Weight)
		}
		if d.Tier < TierCommon || d.Tier > TierEpic {
			return nil, configErrorf("catalog", "符号 %s 稀有度无效: %d", d.Symbol, d.Tier)
		}
		c.index[d.Symbol] = i
		roleCount[d.Role]++

		switch d.Role {
		case RoleWild:
			c.wild = d.Symbol
		case RoleScatter:
			c.scatter = d.Symbol
		case RoleBonus:
			c.bonus = d.Symbol
		case RoleNormal:
			normalTiers[d.Tier] = true
		default:
			return nil, configErrorf("catalog", "符号 %s 角色无效: %d", d.Symbol, d.Role)
		}
	}

	for _, r := range []Role{RoleWild, RoleScatter, RoleBonus} {
		if roleCount[r] != 1 {
			return nil, configErrorf("catalog", "%s 符号必须恰好一个，实际 %d 个", r, roleCount[r])
		}
	}
	if len(normalTiers) < 3 {
		return nil, configErrorf("catalog", "普通符号需覆盖三个稀有度，实际 %d 个", len(normalTiers))
	}

	return c, nil
}

// Symbols 按定义顺序返回全部符号
func (c *Catalog) Symbols() []Symbol {
	out := make([]Symbol, len(c.defs))
	for i, d := range c.defs {
		out[i] = d.Symbol
	}
	return out
}

// Defs 返回符号定义副本
func (c *Catalog) Defs() []SymbolDef {
	out := make([]SymbolDef, len(c.defs))
	copy(out, c.defs)
	return out
}

// Contains 判断符号是否在目录中
func (c *Catalog) Contains(s Symbol) bool {
	_, ok := c.index[s]
	return ok
}

func (c *Catalog) def(s Symbol) SymbolDef {
	i, ok := c.index[s]
	if !ok {
		panic(configErrorf("catalog", "未知符号: %q", s))
	}
	return c.defs[i]
}

// WeightOf 符号权重，未知符号会panic
func (c *Catalog) WeightOf(s Symbol) int { return c.def(s).Weight }

// RarityOf 符号稀有度，未知符号会panic
func (c *Catalog) RarityOf(s Symbol) Tier { return c.def(s).Tier }

// RoleOf 符号角色，未知符号会panic
func (c *Catalog) RoleOf(s Symbol) Role { return c.def(s).Role }

// Wild 百搭符号
func (c *Catalog) Wild() Symbol { return c.wild }

// Scatter 分散符号
func (c *Catalog) Scatter() Symbol { return c.scatter }

// Bonus 奖励符号
func (c *Catalog) Bonus() Symbol { return c.bonus }

// IsWild 判断是否为百搭
func (c *Catalog) IsWild(s Symbol) bool { return s == c.wild }
