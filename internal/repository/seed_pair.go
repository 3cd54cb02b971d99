package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wfunc/slot-engine/internal/models"
)

// ErrSeedPairNotFound 种子对不存在
var ErrSeedPairNotFound = errors.New("种子对不存在")

// SeedPairRepository 种子对仓储接口
type SeedPairRepository interface {
	BaseRepository
	Create(ctx context.Context, pair *models.SeedPair) error
	FindActive(ctx context.Context, playerID string) (*models.SeedPair, error)
	FindByHash(ctx context.Context, hash string) (*models.SeedPair, error)
	ConsumeNonce(ctx context.Context, id uint) (uint64, error)
	Reveal(ctx context.Context, id uint, at time.Time) error
	FindRevealed(ctx context.Context, playerID string, p *Pagination) ([]*models.SeedPair, error)
}

// seedPairRepo 种子对仓储实现
type seedPairRepo struct {
	*BaseRepo
}

// NewSeedPairRepository 创建种子对仓储
func NewSeedPairRepository(db *gorm.DB) SeedPairRepository {
	return &seedPairRepo{
		BaseRepo: NewBaseRepo(db),
	}
}

// Create 创建种子对
func (r *seedPairRepo) Create(ctx context.Context, pair *models.SeedPair) error {
	return r.db.WithContext(ctx).Create(pair).Error
}

// FindActive 查找玩家当前激活的种子对
func (r *seedPairRepo) FindActive(ctx context.Context, playerID string) (*models.SeedPair, error) {
	var pair models.SeedPair
	err := r.db.WithContext(ctx).
		Where("player_id = ? AND active = ?", playerID, true).
		Order("id DESC").
		First(&pair).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeedPairNotFound
		}
		return nil, err
	}
	return &pair, nil
}

// FindByHash 根据服务端种子哈希查找
func (r *seedPairRepo) FindByHash(ctx context.Context, hash string) (*models.SeedPair, error) {
	var pair models.SeedPair
	err := r.db.WithContext(ctx).Where("server_seed_hash = ?", hash).First(&pair).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeedPairNotFound
		}
		return nil, err
	}
	return &pair, nil
}

// ConsumeNonce 占用下一个nonce并返回其值，种子对必须处于激活状态
func (r *seedPairRepo) ConsumeNonce(ctx context.Context, id uint) (uint64, error) {
	var nonce uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先写后读，写锁保证并发旋转拿到不同的nonce
		result := tx.Model(&models.SeedPair{}).
			Where("id = ? AND active = ?", id, true).
			UpdateColumn("nonce", gorm.Expr("nonce + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSeedPairNotFound
		}

		var pair models.SeedPair
		if err := tx.Select("nonce").First(&pair, id).Error; err != nil {
			return err
		}
		nonce = pair.Nonce - 1
		return nil
	})
	return nonce, err
}

// Reveal 停用种子对并记录公开时间
func (r *seedPairRepo) Reveal(ctx context.Context, id uint, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.SeedPair{}).
		Where("id = ? AND active = ?", id, true).
		Updates(map[string]interface{}{
			"active":      false,
			"revealed_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSeedPairNotFound
	}
	return nil
}

// FindRevealed 查询玩家已公开的历史种子对
func (r *seedPairRepo) FindRevealed(ctx context.Context, playerID string, p *Pagination) ([]*models.SeedPair, error) {
	// 查询总数
	err := r.db.WithContext(ctx).
		Model(&models.SeedPair{}).
		Where("player_id = ? AND active = ?", playerID, false).
		Count(&p.Total).Error
	if err != nil {
		return nil, err
	}

	// 查询数据
	var pairs []*models.SeedPair
	err = r.db.WithContext(ctx).
		Where("player_id = ? AND active = ?", playerID, false).
		Order("id desc").
		Scopes(Paginate(p)).
		Find(&pairs).Error
	return pairs, err
}
