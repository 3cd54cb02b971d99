package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeedPair 玩家的种子对。激活期间只公开服务端种子的哈希，轮换后公开原种子
type SeedPair struct {
	BaseModel
	PlayerID       string     `gorm:"size:64;not null;index:idx_seed_player_active" json:"player_id"`
	ServerSeed     string     `gorm:"size:64;not null" json:"-"`
	ServerSeedHash string     `gorm:"size:64;not null;uniqueIndex" json:"server_seed_hash"`
	ClientSeed     string     `gorm:"size:64;not null" json:"client_seed"`
	Nonce          uint64     `gorm:"not null;default:0" json:"nonce"` // 下一次旋转使用的nonce
	Active         bool       `gorm:"not null;default:true;index:idx_seed_player_active" json:"active"`
	RevealedAt     *time.Time `json:"revealed_at,omitempty"`
}

// TableName 表名
func (SeedPair) TableName() string {
	return "seed_pairs"
}

// SpinRecord 旋转记录
type SpinRecord struct {
	BaseModel
	SpinID           string          `gorm:"size:36;not null;uniqueIndex" json:"spin_id"`
	PlayerID         string          `gorm:"size:64;not null;index" json:"player_id"`
	SeedPairID       uint            `gorm:"not null;index" json:"seed_pair_id"`
	ServerSeedHash   string          `gorm:"size:64;not null" json:"server_seed_hash"`
	ClientSeed       string          `gorm:"size:64;not null" json:"client_seed"`
	Nonce            uint64          `gorm:"not null" json:"nonce"`
	Bet              decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"bet"`
	TotalWin         decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"total_win"`
	WinLines         int             `gorm:"not null;default:0" json:"win_lines"`
	ScatterCount     int             `gorm:"not null;default:0" json:"scatter_count"`
	BonusCount       int             `gorm:"not null;default:0" json:"bonus_count"`
	FreeSpinsAwarded int             `gorm:"not null;default:0" json:"free_spins_awarded"`
	BonusTriggered   bool            `gorm:"not null;default:false" json:"bonus_triggered"`
	Outcome          RawJSON         `gorm:"type:text" json:"outcome"`
}

// TableName 表名
func (SpinRecord) TableName() string {
	return "spin_records"
}

// AllModels 需要迁移的全部模型
func AllModels() []interface{} {
	return []interface{}{
		&SeedPair{},
		&SpinRecord{},
	}
}
