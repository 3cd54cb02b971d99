package slot

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// 盘面尺寸
const (
	Reels = 5 // 卷轴数（列）
	Rows  = 3 // 行数

	// MinRunLength 最小中奖连线长度
	MinRunLength = 3
)

// Symbol 游戏符号
type Symbol string

// Tier 稀有度
type Tier int

const (
	TierCommon Tier = iota // 普通
	TierRare               // 稀有
	TierEpic               // 史诗
)

// String 返回稀有度名称
func (t Tier) String() string {
	switch t {
	case TierCommon:
		return "common"
	case TierRare:
		return "rare"
	case TierEpic:
		return "epic"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier 解析稀有度名称
func ParseTier(s string) (Tier, error) {
	switch s {
	case "common":
		return TierCommon, nil
	case "rare":
		return TierRare, nil
	case "epic":
		return TierEpic, nil
	}
	return 0, fmt.Errorf("未知稀有度: %q", s)
}

// MarshalText 实现encoding.TextMarshaler
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Role 符号特殊角色
type Role int

const (
	RoleNormal  Role = iota // 普通符号
	RoleWild                // 百搭
	RoleScatter             // 分散
	RoleBonus               // 奖励
)

// String 返回角色名称
func (r Role) String() string {
	switch r {
	case RoleNormal:
		return "normal"
	case RoleWild:
		return "wild"
	case RoleScatter:
		return "scatter"
	case RoleBonus:
		return "bonus"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole 解析角色名称，空串视为普通符号
func ParseRole(s string) (Role, error) {
	switch s {
	case "", "normal":
		return RoleNormal, nil
	case "wild":
		return RoleWild, nil
	case "scatter":
		return RoleScatter, nil
	case "bonus":
		return RoleBonus, nil
	}
	return 0, fmt.Errorf("未知符号角色: %q", s)
}

// MarshalText 实现encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Position 盘面坐标
type Position struct {
	Row int `json:"row"` // 行索引 (0-based)
	Col int `json:"col"` // 列索引 (0-based)
}

// Grid 5x3盘面，按列存储：Grid[col][row]
type Grid [Reels][Rows]Symbol

// At 按(行, 列)读取符号
func (g Grid) At(row, col int) Symbol {
	return g[col][row]
}

// Cells 按列优先顺序遍历所有格子
func (g Grid) Cells() []Symbol {
	cells := make([]Symbol, 0, Reels*Rows)
	for col := 0; col < Reels; col++ {
		for row := 0; row < Rows; row++ {
			cells = append(cells, g[col][row])
		}
	}
	return cells
}

// GridFromRows 由行优先的二维数组构造盘面（测试与校验常用）
func GridFromRows(rows [Rows][Reels]Symbol) Grid {
	var g Grid
	for row := 0; row < Rows; row++ {
		for col := 0; col < Reels; col++ {
			g[col][row] = rows[row][col]
		}
	}
	return g
}

// WinLine 中奖线
type WinLine struct {
	LineIndex      int             `json:"lineIndex"`      // 支付线索引
	Symbol         Symbol          `json:"symbol"`         // 中奖符号（百搭已替换为实际符号）
	RunLength      int             `json:"runLength"`      // 连续个数
	WildCount      int             `json:"wildCount"`      // 连线中百搭数量
	Symbols        []Symbol        `json:"symbols"`        // 连线上实际出现的符号
	Positions      []Position      `json:"positions"`      // 连线位置
	BaseMultiplier int64           `json:"baseMultiplier"` // 赔率表倍数
	Multiplier     int64           `json:"multiplier"`     // 最终倍数
	WinAmount      decimal.Decimal `json:"winAmount"`      // 中奖金额
}

// FeatureResult 特殊功能检测结果
type FeatureResult struct {
	ScatterCount     int  `json:"scatterCount"`     // 分散符号数量
	BonusCount       int  `json:"bonusCount"`       // 奖励符号数量
	FreeSpinsAwarded int  `json:"freeSpinsAwarded"` // 免费旋转次数
	BonusTriggered   bool `json:"bonusTriggered"`   // 是否触发奖励回合
}
