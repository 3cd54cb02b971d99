package slot

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

func TestDefaultTables(t *testing.T) {
	tables := DefaultTables()
	if len(tables.Paylines) != PaylineCount {
		t.Errorf("len(Paylines) = %d, want %d", len(tables.Paylines), PaylineCount)
	}
	if len(tables.Catalog.Symbols()) != 17 {
		t.Errorf("符号数量 = %d, want 17", len(tables.Catalog.Symbols()))
	}
}

func TestTablesSpec_RoundTrip(t *testing.T) {
	spec := DefaultTables().Spec()
	data, err := yaml.Marshal(spec)
	if err != nil {
		t.Fatal(err)
	}

	tables, err := ParseTables(data)
	if err != nil {
		t.Fatalf("ParseTables() error = %v\n%s", err, data)
	}
	for _, s := range DefaultTables().Catalog.Symbols() {
		want, _ := DefaultTables().PayTable.Row(s)
		got, ok := tables.PayTable.Row(s)
		if !ok || got != want {
			t.Errorf("%s 赔率 = %v, want %v", s, got, want)
		}
		if tables.Catalog.WeightOf(s) != DefaultTables().Catalog.WeightOf(s) {
			t.Errorf("%s 权重不一致", s)
		}
	}
}

const customTables = `
symbols:
  - {name: A, tier: common, weight: 10, pays: [1, 2, 3]}
  - {name: B, tier: rare, weight: 5, pays: [4, 5, 6]}
  - {name: C, tier: epic, weight: 2, pays: [7, 8, 50]}
  - {name: W, tier: epic, role: wild, weight: 1, pays: [2, 4, 6]}
  - {name: S, tier: rare, role: scatter, weight: 1, pays: [1, 2, 3]}
  - {name: X, tier: rare, role: bonus, weight: 1, pays: [1, 2, 3]}
features:
  free_spins:
    - {min_count: 3, spins: 5}
  bonus_threshold: 4
`

func TestParseTables_Custom(t *testing.T) {
	tables, err := ParseTables([]byte(customTables))
	if err != nil {
		t.Fatalf("ParseTables() error = %v", err)
	}
	if tables.Catalog.Wild() != "W" || tables.Catalog.Scatter() != "S" || tables.Catalog.Bonus() != "X" {
		t.Errorf("特殊符号解析错误")
	}
	if len(tables.Paylines) != PaylineCount {
		t.Errorf("未配置支付线时应使用默认支付线")
	}
	if tables.Features.BonusThreshold != 4 {
		t.Errorf("BonusThreshold = %d, want 4", tables.Features.BonusThreshold)
	}

	e, err := NewEngine(tables)
	if err != nil {
		t.Fatal(err)
	}
	out, err := e.Evaluate(gridWith("A", map[Position]Symbol{
		{Row: 0, Col: 0}: "S", {Row: 1, Col: 1}: "S", {Row: 2, Col: 2}: "S",
	}), decimal.NewFromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	if out.FreeSpinsAwarded() != 5 {
		t.Errorf("FreeSpinsAwarded = %d, want 5", out.FreeSpinsAwarded())
	}
}

func TestParseTables_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"YAML格式错误", "symbols: [\n"},
		{"未知稀有度", strings.Replace(customTables, "tier: common", "tier: legendary", 1)},
		{"未知角色", strings.Replace(customTables, "role: wild", "role: joker", 1)},
		{"倍数个数错误", strings.Replace(customTables, "pays: [1, 2, 3]}", "pays: [1, 2]}", 1)},
		{"支付线长度错误", customTables + "paylines:\n  - [1, 1, 1]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTables([]byte(tt.data)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ParseTables() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadTables(t *testing.T) {
	t.Run("文件不存在使用默认表", func(t *testing.T) {
		tables, err := LoadTables(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		if len(tables.Catalog.Symbols()) != 17 {
			t.Errorf("应返回默认表")
		}
	})

	t.Run("读取文件", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tables.yaml")
		if err := os.WriteFile(path, []byte(customTables), 0o644); err != nil {
			t.Fatal(err)
		}
		tables, err := LoadTables(path)
		if err != nil {
			t.Fatal(err)
		}
		if !tables.Catalog.Contains("A") {
			t.Errorf("未加载自定义符号")
		}
	})
}
