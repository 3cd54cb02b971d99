package slot

// FreeSpinTier 分散符号数量达到MinCount时奖励Spins次免费旋转
type FreeSpinTier struct {
	MinCount int `json:"minCount" yaml:"min_count"`
	Spins    int `json:"spins" yaml:"spins"`
}

// FeatureRules 特殊功能规则
type FeatureRules struct {
	FreeSpins      []FreeSpinTier `json:"freeSpins" yaml:"free_spins"`
	BonusThreshold int            `json:"bonusThreshold" yaml:"bonus_threshold"`
}

// DefaultFeatureRules 3个分散10次，4个15次，5个及以上25次；3个奖励符号触发奖励回合
func DefaultFeatureRules() FeatureRules {
	return FeatureRules{
		FreeSpins: []FreeSpinTier{
			{MinCount: 3, Spins: 10},
			{MinCount: 4, Spins: 15},
			{MinCount: 5, Spins: 25},
		},
		BonusThreshold: 3,
	}
}

// Validate 校验功能规则
func (r FeatureRules) Validate() error {
	if r.BonusThreshold < 1 || r.BonusThreshold > Reels*Rows {
		return configErrorf("features", "奖励触发阈值超出范围: %d", r.BonusThreshold)
	}
	for i, t := range r.FreeSpins {
		if t.MinCount < 1 || t.MinCount > Reels*Rows {
			return configErrorf("features", "免费旋转触发数量超出范围: %d", t.MinCount)
		}
		if t.Spins <= 0 {
			return configErrorf("features", "免费旋转次数必须为正数: %d", t.Spins)
		}
		if i > 0 {
			prev := r.FreeSpins[i-1]
			if t.MinCount <= prev.MinCount || t.Spins <= prev.Spins {
				return configErrorf("features", "免费旋转档位必须按数量与次数递增")
			}
		}
	}
	return nil
}

// FeatureDetector 分散/奖励符号检测器
type FeatureDetector struct {
	scatter Symbol
	bonus   Symbol
	rules   FeatureRules
}

// NewFeatureDetector 创建特殊功能检测器
func NewFeatureDetector(catalog *Catalog, rules FeatureRules) (*FeatureDetector, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	tiers := make([]FreeSpinTier, len(rules.FreeSpins))
	copy(tiers, rules.FreeSpins)

	return &FeatureDetector{
		scatter: catalog.Scatter(),
		bonus:   catalog.Bonus(),
		rules:   FeatureRules{FreeSpins: tiers, BonusThreshold: rules.BonusThreshold},
	}, nil
}

// FreeSpinsFor 根据分散符号数量计算免费旋转次数
func (d *FeatureDetector) FreeSpinsFor(scatterCount int) int {
	spins := 0
	for _, t := range d.rules.FreeSpins {
		if scatterCount >= t.MinCount {
			spins = t.Spins
		}
	}
	return spins
}

// Detect 统计全盘分散与奖励符号，与位置无关
func (d *FeatureDetector) Detect(grid Grid) FeatureResult {
	var res FeatureResult
	for _, s := range grid.Cells() {
		switch s {
		case d.scatter:
			res.ScatterCount++
		case d.bonus:
			res.BonusCount++
		}
	}
	res.FreeSpinsAwarded = d.FreeSpinsFor(res.ScatterCount)
	res.BonusTriggered = res.BonusCount >= d.rules.BonusThreshold
	return res
}
