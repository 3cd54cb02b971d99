package slot

// 默认符号定义
const (
	// 普通稀有度
	SymbolCherry     Symbol = "CHERRY"     // 樱桃
	SymbolLemon      Symbol = "LEMON"      // 柠檬
	SymbolOrange     Symbol = "ORANGE"     // 橙子
	SymbolPlum       Symbol = "PLUM"       // 李子
	SymbolGrape      Symbol = "GRAPE"      // 葡萄
	SymbolWatermelon Symbol = "WATERMELON" // 西瓜

	// 稀有
	SymbolBell      Symbol = "BELL"       // 铃铛
	SymbolBar       Symbol = "BAR"        // BAR
	SymbolDoubleBar Symbol = "DOUBLE_BAR" // 双BAR
	SymbolStar      Symbol = "STAR"       // 星星
	SymbolHorseshoe Symbol = "HORSESHOE"  // 马蹄铁

	// 史诗
	SymbolSeven   Symbol = "SEVEN"   // 7
	SymbolDiamond Symbol = "DIAMOND" // 钻石
	SymbolCrown   Symbol = "CROWN"   // 皇冠

	// 特殊符号
	SymbolWild    Symbol = "WILD"    // 百搭
	SymbolScatter Symbol = "SCATTER" // 分散
	SymbolBonus   Symbol = "BONUS"   // 奖励
)

// SymbolDef 符号定义
type SymbolDef struct {
	Symbol Symbol `json:"symbol"`
	Tier   Tier   `json:"tier"`
	Role   Role   `json:"role"`
	Weight int    `json:"weight"`
}

// IsSpecial 判断是否为特殊符号
func (d SymbolDef) IsSpecial() bool {
	return d.Role != RoleNormal
}

// DefaultSymbolDefs 默认符号表（17个符号）
func DefaultSymbolDefs() []SymbolDef {
	return []SymbolDef{
		{Symbol: SymbolCherry, Tier: TierCommon, Weight: 60},
		{Symbol: SymbolLemon, Tier: TierCommon, Weight: 55},
		{Symbol: SymbolOrange, Tier: TierCommon, Weight: 50},
		{Symbol: SymbolPlum, Tier: TierCommon, Weight: 45},
		{Symbol: SymbolGrape, Tier: TierCommon, Weight: 40},
		{Symbol: SymbolWatermelon, Tier: TierCommon, Weight: 35},

		{Symbol: SymbolBell, Tier: TierRare, Weight: 20},
		{Symbol: SymbolBar, Tier: TierRare, Weight: 18},
		{Symbol: SymbolDoubleBar, Tier: TierRare, Weight: 16},
		{Symbol: SymbolStar, Tier: TierRare, Weight: 14},
		{Symbol: SymbolHorseshoe, Tier: TierRare, Weight: 12},

		{Symbol: SymbolSeven, Tier: TierEpic, Weight: 6},
		{Symbol: SymbolDiamond, Tier: TierEpic, Weight: 4},
		{Symbol: SymbolCrown, Tier: TierEpic, Weight: 3},

		{Symbol: SymbolWild, Tier: TierEpic, Role: RoleWild, Weight: 5},
		{Symbol: SymbolScatter, Tier: TierRare, Role: RoleScatter, Weight: 6},
		{Symbol: SymbolBonus, Tier: TierRare, Role: RoleBonus, Weight: 6},
	}
}
