package slot

import (
	"errors"
	"testing"
)

func TestNewCatalog_Default(t *testing.T) {
	c, err := NewCatalog(DefaultSymbolDefs())
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	if got := len(c.Symbols()); got != 17 {
		t.Errorf("len(Symbols()) = %d, want 17", got)
	}
	if c.Wild() != SymbolWild || c.Scatter() != SymbolScatter || c.Bonus() != SymbolBonus {
		t.Errorf("特殊符号识别错误: wild=%s scatter=%s bonus=%s", c.Wild(), c.Scatter(), c.Bonus())
	}
	if c.RarityOf(SymbolCrown) != TierEpic {
		t.Errorf("RarityOf(CROWN) = %s, want epic", c.RarityOf(SymbolCrown))
	}
	if c.RoleOf(SymbolScatter) != RoleScatter {
		t.Errorf("RoleOf(SCATTER) = %s, want scatter", c.RoleOf(SymbolScatter))
	}
	if c.WeightOf(SymbolCherry) != 60 {
		t.Errorf("WeightOf(CHERRY) = %d, want 60", c.WeightOf(SymbolCherry))
	}
}

func TestNewCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]SymbolDef) []SymbolDef
	}{
		{
			name:   "空符号表",
			mutate: func([]SymbolDef) []SymbolDef { return nil },
		},
		{
			name: "重复符号",
			mutate: func(d []SymbolDef) []SymbolDef {
				return append(d, SymbolDef{Symbol: SymbolCherry, Tier: TierCommon, Weight: 1})
			},
		},
		{
			name: "权重为0",
			mutate: func(d []SymbolDef) []SymbolDef {
				d[0].Weight = 0
				return d
			},
		},
		{
			name: "负权重",
			mutate: func(d []SymbolDef) []SymbolDef {
				d[3].Weight = -5
				return d
			},
		},
		{
			name: "两个百搭",
			mutate: func(d []SymbolDef) []SymbolDef {
				return append(d, SymbolDef{Symbol: "WILD2", Tier: TierEpic, Role: RoleWild, Weight: 1})
			},
		},
		{
			name: "缺少分散符号",
			mutate: func(d []SymbolDef) []SymbolDef {
				out := d[:0]
				for _, s := range d {
					if s.Role != RoleScatter {
						out = append(out, s)
					}
				}
				return out
			},
		},
		{
			name: "普通符号缺少史诗稀有度",
			mutate: func(d []SymbolDef) []SymbolDef {
				out := d[:0]
				for _, s := range d {
					if s.Role == RoleNormal && s.Tier == TierEpic {
						continue
					}
					out = append(out, s)
				}
				return out
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.mutate(DefaultSymbolDefs()))
			if err == nil {
				t.Fatal("期望配置错误，实际为nil")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("errors.Is(err, ErrInvalidConfig) = false, err = %v", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Component != "catalog" {
				t.Errorf("期望catalog配置错误, 实际 %v", err)
			}
		})
	}
}

func TestCatalog_UnknownSymbolPanics(t *testing.T) {
	c, err := NewCatalog(DefaultSymbolDefs())
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("未知符号应当panic")
		}
		if err, ok := r.(error); !ok || !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("panic值应为配置错误, 实际 %v", r)
		}
	}()
	c.WeightOf("PINEAPPLE")
}
