package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wfunc/slot-engine/internal/game/slot"
	"github.com/wfunc/slot-engine/internal/models"
	"github.com/wfunc/slot-engine/internal/repository"
)

// SpinService 旋转服务接口
type SpinService interface {
	// 旋转
	Spin(ctx context.Context, playerID string, bet decimal.Decimal) (*SpinReceipt, error)

	// 种子
	CurrentSeed(ctx context.Context, playerID string) (*SeedInfo, error)
	RotateSeed(ctx context.Context, playerID, clientSeed string) (*SeedRotation, error)
	RevealedSeeds(ctx context.Context, playerID string, page, pageSize int) (*SeedPage, error)
	Verify(ctx context.Context, req *VerifyRequest) (*VerifyResult, error)

	// 记录
	History(ctx context.Context, playerID string, page, pageSize int) (*HistoryPage, error)
	GetSpin(ctx context.Context, playerID, spinID string) (*models.SpinRecord, error)
	Stats(ctx context.Context, playerID string) (*repository.SpinStatistics, error)

	// 配置表
	Tables() *TablesInfo
	ReloadTables(tables *slot.Tables) error
	UpdateConfig(cfg *Config) error
}

// Publisher 结果推送接口
type Publisher interface {
	PublishToPlayer(playerID, msgType string, data interface{}) error
}

// SpinReceipt 旋转回执
type SpinReceipt struct {
	SpinID         string        `json:"spin_id"`
	Outcome        *slot.Outcome `json:"outcome"`
	ServerSeedHash string        `json:"server_seed_hash"`
	ClientSeed     string        `json:"client_seed"`
	Nonce          uint64        `json:"nonce"`
	CreatedAt      time.Time     `json:"created_at"`
}

// SeedInfo 当前种子对的公开信息
type SeedInfo struct {
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          uint64 `json:"nonce"` // 下一次旋转使用的nonce
}

// RevealedSeed 已公开的种子对
type RevealedSeed struct {
	ServerSeed     string    `json:"server_seed"`
	ServerSeedHash string    `json:"server_seed_hash"`
	ClientSeed     string    `json:"client_seed"`
	Spins          uint64    `json:"spins"` // 使用过的nonce数量
	RevealedAt     time.Time `json:"revealed_at"`
}

// SeedRotation 种子轮换结果
type SeedRotation struct {
	Previous *RevealedSeed `json:"previous,omitempty"`
	Current  *SeedInfo     `json:"current"`
}

// SeedPage 已公开种子分页
type SeedPage struct {
	Items      []*RevealedSeed `json:"items"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"total_pages"`
}

// VerifyRequest 验证请求
type VerifyRequest struct {
	ServerSeed     string          `json:"server_seed" binding:"required"`
	ServerSeedHash string          `json:"server_seed_hash"` // 可选，提供时校验承诺
	ClientSeed     string          `json:"client_seed" binding:"required"`
	Nonce          uint64          `json:"nonce"`
	Bet            decimal.Decimal `json:"bet"`
}

// VerifyResult 验证结果
type VerifyResult struct {
	ServerSeedHash string        `json:"server_seed_hash"`
	Outcome        *slot.Outcome `json:"outcome"`
}

// HistoryPage 旋转记录分页
type HistoryPage struct {
	Items      []*models.SpinRecord `json:"items"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	Total      int64                `json:"total"`
	TotalPages int                  `json:"total_pages"`
}

// TablesInfo 当前配置表和下注范围
type TablesInfo struct {
	Tables     slot.TablesSpec `json:"tables"`
	MinBet     decimal.Decimal `json:"min_bet"`
	MaxBet     decimal.Decimal `json:"max_bet"`
	DefaultBet decimal.Decimal `json:"default_bet"`
}
