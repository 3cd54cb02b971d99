package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wfunc/slot-engine/internal/models"
)

// ErrSpinRecordNotFound 旋转记录不存在
var ErrSpinRecordNotFound = errors.New("旋转记录不存在")

// SpinRecordRepository 旋转记录仓储接口
type SpinRecordRepository interface {
	BaseRepository
	Create(ctx context.Context, record *models.SpinRecord) error
	FindBySpinID(ctx context.Context, spinID string) (*models.SpinRecord, error)
	FindByPlayer(ctx context.Context, playerID string, p *Pagination) ([]*models.SpinRecord, error)
	GetPlayerStatistics(ctx context.Context, playerID string) (*SpinStatistics, error)
}

// SpinStatistics 玩家旋转统计
type SpinStatistics struct {
	TotalSpins       int64           `json:"total_spins"`
	WinSpins         int64           `json:"win_spins"`
	TotalBet         decimal.Decimal `json:"total_bet"`
	TotalWin         decimal.Decimal `json:"total_win"`
	FreeSpinTriggers int64           `json:"free_spin_triggers"`
	BonusTriggers    int64           `json:"bonus_triggers"`
}

// spinRecordRepo 旋转记录仓储实现
type spinRecordRepo struct {
	*BaseRepo
}

// NewSpinRecordRepository 创建旋转记录仓储
func NewSpinRecordRepository(db *gorm.DB) SpinRecordRepository {
	return &spinRecordRepo{
		BaseRepo: NewBaseRepo(db),
	}
}

// Create 创建旋转记录
func (r *spinRecordRepo) Create(ctx context.Context, record *models.SpinRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindBySpinID 根据旋转ID查找
func (r *spinRecordRepo) FindBySpinID(ctx context.Context, spinID string) (*models.SpinRecord, error) {
	var record models.SpinRecord
	err := r.db.WithContext(ctx).Where("spin_id = ?", spinID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpinRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByPlayer 分页查询玩家旋转记录，最新的在前
func (r *spinRecordRepo) FindByPlayer(ctx context.Context, playerID string, p *Pagination) ([]*models.SpinRecord, error) {
	// 查询总数
	err := r.db.WithContext(ctx).
		Model(&models.SpinRecord{}).
		Where("player_id = ?", playerID).
		Count(&p.Total).Error
	if err != nil {
		return nil, err
	}

	// 查询数据
	var records []*models.SpinRecord
	err = r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("created_at desc, id desc").
		Scopes(Paginate(p)).
		Find(&records).Error
	return records, err
}

// GetPlayerStatistics 获取玩家旋转统计
func (r *spinRecordRepo) GetPlayerStatistics(ctx context.Context, playerID string) (*SpinStatistics, error) {
	var records []struct {
		Bet              decimal.Decimal
		TotalWin         decimal.Decimal
		FreeSpinsAwarded int
		BonusTriggered   bool
	}
	// 金额在内存中累加，避免不同数据库SUM返回类型不一致
	err := r.db.WithContext(ctx).Model(&models.SpinRecord{}).
		Select("bet, total_win, free_spins_awarded, bonus_triggered").
		Where("player_id = ?", playerID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	stats := &SpinStatistics{
		TotalBet: decimal.Zero,
		TotalWin: decimal.Zero,
	}
	for _, rec := range records {
		stats.TotalSpins++
		stats.TotalBet = stats.TotalBet.Add(rec.Bet)
		stats.TotalWin = stats.TotalWin.Add(rec.TotalWin)
		if rec.TotalWin.IsPositive() {
			stats.WinSpins++
		}
		if rec.FreeSpinsAwarded > 0 {
			stats.FreeSpinTriggers++
		}
		if rec.BonusTriggered {
			stats.BonusTriggers++
		}
	}
	return stats, nil
}
