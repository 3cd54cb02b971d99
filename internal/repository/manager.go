package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Manager 仓储管理器，提供所有仓储的统一访问接口
type Manager struct {
	db *gorm.DB

	// 事务管理器
	txManager TransactionManager

	// 仓储实例（使用懒加载）
	seedPairOnce sync.Once
	seedPair     SeedPairRepository

	spinRecordOnce sync.Once
	spinRecord     SpinRecordRepository
}

// NewManager 创建仓储管理器
func NewManager(db *gorm.DB) *Manager {
	return &Manager{
		db:        db,
		txManager: NewTransactionManager(db),
	}
}

// GetDB 获取数据库实例
func (m *Manager) GetDB() *gorm.DB {
	return m.db
}

// SeedPairs 获取种子对仓储
func (m *Manager) SeedPairs() SeedPairRepository {
	m.seedPairOnce.Do(func() {
		m.seedPair = NewSeedPairRepository(m.db)
	})
	return m.seedPair
}

// SpinRecords 获取旋转记录仓储
func (m *Manager) SpinRecords() SpinRecordRepository {
	m.spinRecordOnce.Do(func() {
		m.spinRecord = NewSpinRecordRepository(m.db)
	})
	return m.spinRecord
}

// WithTransaction 在事务中执行操作
func (m *Manager) WithTransaction(ctx context.Context, fn func(tx *Transaction) error) error {
	return m.txManager.WithTransaction(ctx, fn)
}
