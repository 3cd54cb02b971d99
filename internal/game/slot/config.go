package slot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Tables 引擎使用的全部静态表，构造后只读
type Tables struct {
	Catalog  *Catalog
	Paylines []Payline
	PayTable *PayTable
	Features FeatureRules
}

// NewTables 创建并校验整套游戏表
func NewTables(defs []SymbolDef, paylines []Payline, rows map[Symbol]PayRow, features FeatureRules) (*Tables, error) {
	catalog, err := NewCatalog(defs)
	if err != nil {
		return nil, err
	}
	if err := ValidatePaylines(paylines); err != nil {
		return nil, err
	}
	payTable, err := NewPayTable(catalog, rows)
	if err != nil {
		return nil, err
	}
	if err := features.Validate(); err != nil {
		return nil, err
	}

	lines := make([]Payline, len(paylines))
	copy(lines, paylines)
	return &Tables{
		Catalog:  catalog,
		Paylines: lines,
		PayTable: payTable,
		Features: features,
	}, nil
}

// clone 复制切片字段，Catalog和PayTable本身只读可共享
func (t *Tables) clone() *Tables {
	c := *t
	c.Paylines = append([]Payline(nil), t.Paylines...)
	c.Features.FreeSpins = append([]FreeSpinTier(nil), t.Features.FreeSpins...)
	return &c
}

// DefaultTables 默认游戏表
func DefaultTables() *Tables {
	t, err := NewTables(DefaultSymbolDefs(), DefaultPaylines(), DefaultPayRows(), DefaultFeatureRules())
	if err != nil {
		// 内置表必须合法
		panic(err)
	}
	return t
}

// SymbolSpec 表文件中的符号条目
type SymbolSpec struct {
	Name   Symbol  `json:"name" yaml:"name"`
	Tier   string  `json:"tier" yaml:"tier"`
	Role   string  `json:"role,omitempty" yaml:"role,omitempty"`
	Weight int     `json:"weight" yaml:"weight"`
	Pays   []int64 `json:"pays" yaml:"pays"`
}

// TablesSpec 游戏表文件格式（YAML），同时用于API输出
type TablesSpec struct {
	Symbols  []SymbolSpec  `json:"symbols" yaml:"symbols"`
	Paylines [][]int       `json:"paylines,omitempty" yaml:"paylines,omitempty"`
	Features *FeatureRules `json:"features,omitempty" yaml:"features,omitempty"`
}

// Build 把表文件内容转换为Tables，缺省的支付线与功能规则使用内置值
func (s TablesSpec) Build() (*Tables, error) {
	defs := make([]SymbolDef, 0, len(s.Symbols))
	rows := make(map[Symbol]PayRow, len(s.Symbols))
	for _, sym := range s.Symbols {
		tier, err := ParseTier(sym.Tier)
		if err != nil {
			return nil, configErrorf("catalog", "符号 %s: %v", sym.Name, err)
		}
		role, err := ParseRole(sym.Role)
		if err != nil {
			return nil, configErrorf("catalog", "符号 %s: %v", sym.Name, err)
		}
		var row PayRow
		if len(sym.Pays) != len(row) {
			return nil, configErrorf("paytable", "符号 %s 需要%d个倍数，实际%d个", sym.Name, len(row), len(sym.Pays))
		}
		copy(row[:], sym.Pays)

		defs = append(defs, SymbolDef{Symbol: sym.Name, Tier: tier, Role: role, Weight: sym.Weight})
		rows[sym.Name] = row
	}

	paylines := DefaultPaylines()
	if len(s.Paylines) > 0 {
		paylines = make([]Payline, 0, len(s.Paylines))
		for i, rs := range s.Paylines {
			if len(rs) != Reels {
				return nil, configErrorf("paylines", "第%d条支付线需要%d个行索引", i, Reels)
			}
			var pattern [Reels]int
			copy(pattern[:], rs)
			paylines = append(paylines, NewPayline(pattern))
		}
	}

	features := DefaultFeatureRules()
	if s.Features != nil {
		features = *s.Features
	}

	return NewTables(defs, paylines, rows, features)
}

// Spec 导出为表文件格式
func (t *Tables) Spec() TablesSpec {
	spec := TablesSpec{
		Symbols:  make([]SymbolSpec, 0, len(t.Catalog.defs)),
		Paylines: make([][]int, 0, len(t.Paylines)),
	}
	for _, d := range t.Catalog.Defs() {
		row, _ := t.PayTable.Row(d.Symbol)
		spec.Symbols = append(spec.Symbols, SymbolSpec{
			Name:   d.Symbol,
			Tier:   d.Tier.String(),
			Role:   d.Role.String(),
			Weight: d.Weight,
			Pays:   append([]int64(nil), row[:]...),
		})
	}
	for _, line := range t.Paylines {
		pattern := line.RowPattern()
		spec.Paylines = append(spec.Paylines, append([]int(nil), pattern[:]...))
	}
	features := t.Features
	spec.Features = &features
	return spec
}

// ParseTables 解析YAML格式的游戏表
func ParseTables(data []byte) (*Tables, error) {
	var spec TablesSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, configErrorf("tables", "解析YAML失败: %v", err)
	}
	return spec.Build()
}

// LoadTables 从文件加载游戏表，文件不存在时返回内置默认表
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultTables(), nil
		}
		return nil, fmt.Errorf("读取游戏表文件失败: %w", err)
	}
	return ParseTables(data)
}
