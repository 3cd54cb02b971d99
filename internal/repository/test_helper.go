package repository

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/slot-engine/internal/models"
)

// TestDB 创建测试数据库，每个测试一个独立的SQLite文件
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateTestSeedPair 创建测试种子对（未入库）
func CreateTestSeedPair(playerID string) *models.SeedPair {
	seed := uuid.NewString()
	return &models.SeedPair{
		PlayerID:       playerID,
		ServerSeed:     "server-" + seed,
		ServerSeedHash: "hash-" + seed,
		ClientSeed:     "client-" + playerID,
		Active:         true,
	}
}

// CreateTestSpinRecord 创建测试旋转记录（未入库）
func CreateTestSpinRecord(pair *models.SeedPair, nonce uint64, bet, win int64) *models.SpinRecord {
	return &models.SpinRecord{
		SpinID:         uuid.NewString(),
		PlayerID:       pair.PlayerID,
		SeedPairID:     pair.ID,
		ServerSeedHash: pair.ServerSeedHash,
		ClientSeed:     pair.ClientSeed,
		Nonce:          nonce,
		Bet:            decimal.NewFromInt(bet),
		TotalWin:       decimal.NewFromInt(win),
		Outcome:        models.RawJSON(fmt.Sprintf(`{"nonce":%d}`, nonce)),
	}
}

// SeedSpins 为种子对写入n条旋转记录，第i条的赢分为i*bet
func SeedSpins(t *testing.T, db *gorm.DB, pair *models.SeedPair, n int, bet int64) []*models.SpinRecord {
	t.Helper()
	records := make([]*models.SpinRecord, n)
	base := time.Now().Add(-time.Duration(n) * time.Second)
	for i := 0; i < n; i++ {
		records[i] = CreateTestSpinRecord(pair, uint64(i), bet, int64(i)*bet)
		records[i].CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, db.Create(records[i]).Error)
	}
	return records
}

// AssertSpinRecord 验证旋转记录
func AssertSpinRecord(t *testing.T, expected, actual *models.SpinRecord) {
	t.Helper()
	assert.Equal(t, expected.SpinID, actual.SpinID)
	assert.Equal(t, expected.PlayerID, actual.PlayerID)
	assert.Equal(t, expected.Nonce, actual.Nonce)
	assert.True(t, expected.Bet.Equal(actual.Bet), "bet %s != %s", expected.Bet, actual.Bet)
	assert.True(t, expected.TotalWin.Equal(actual.TotalWin), "win %s != %s", expected.TotalWin, actual.TotalWin)
}
