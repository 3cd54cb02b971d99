package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wfunc/slot-engine/internal/config"
	"github.com/wfunc/slot-engine/internal/fairness"
	"github.com/wfunc/slot-engine/internal/game/slot"
	"github.com/wfunc/slot-engine/internal/metrics"
	"github.com/wfunc/slot-engine/internal/repository"
)

// Config 服务配置
type Config struct {
	MinBet            decimal.Decimal
	MaxBet            decimal.Decimal
	DefaultBet        decimal.Decimal // 请求未指定下注时使用
	ClientSeedDefault string          // 为空时每个种子对随机生成
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		MinBet:     decimal.RequireFromString("0.10"),
		MaxBet:     decimal.NewFromInt(100),
		DefaultBet: decimal.NewFromInt(1),
	}
}

// ConfigFrom 从应用配置构建服务配置
func ConfigFrom(cfg *config.Config) (*Config, error) {
	minBet, maxBet, err := cfg.Game.BetLimits()
	if err != nil {
		return nil, err
	}
	defaultBet := minBet
	if cfg.Game.DefaultBet != "" {
		if defaultBet, err = decimal.NewFromString(cfg.Game.DefaultBet); err != nil {
			return nil, fmt.Errorf("game.default_bet 无效: %w", err)
		}
	}
	return &Config{
		MinBet:            minBet,
		MaxBet:            maxBet,
		DefaultBet:        defaultBet,
		ClientSeedDefault: cfg.Fairness.ClientSeedDefault,
	}, nil
}

// Validate 校验服务配置
func (c *Config) Validate() error {
	if !c.MinBet.IsPositive() || c.MaxBet.LessThan(c.MinBet) {
		return fmt.Errorf("下注范围无效: [%s, %s]", c.MinBet, c.MaxBet)
	}
	if c.DefaultBet.IsZero() {
		c.DefaultBet = c.MinBet
	}
	if c.DefaultBet.LessThan(c.MinBet) || c.DefaultBet.GreaterThan(c.MaxBet) {
		return fmt.Errorf("默认下注 %s 不在下注范围内", c.DefaultBet)
	}
	if c.ClientSeedDefault != "" {
		if err := fairness.ValidateClientSeed(c.ClientSeedDefault); err != nil {
			return fmt.Errorf("默认客户端种子: %w", err)
		}
	}
	return nil
}

// Services 服务集合
type Services struct {
	Spin SpinService
}

// NewServices 创建服务集合，metrics与publisher可以为nil
func NewServices(db *gorm.DB, engine *slot.Engine, cfg *Config, m *metrics.Metrics, publisher Publisher) (*Services, error) {
	// 初始化仓储
	repos := repository.NewManager(db)

	spin, err := NewSpinService(repos, engine, cfg, m, publisher)
	if err != nil {
		return nil, err
	}

	return &Services{
		Spin: spin,
	}, nil
}
