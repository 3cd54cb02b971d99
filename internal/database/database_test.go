package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/slot-engine/internal/config"
	"github.com/wfunc/slot-engine/internal/models"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestOpenAndMigrate_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "engine.db")
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", DSN: path, LogLevel: "silent"})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable(&models.SeedPair{}))
	assert.True(t, db.Migrator().HasTable(&models.SpinRecord{}))
	assert.True(t, db.Migrator().HasIndex(&models.SpinRecord{}, "idx_spin_records_player_created"))

	// 锁已释放
	assert.NoFileExists(t, path+".migration.lock")

	// 重复迁移幂等
	require.NoError(t, Migrate(db))

	require.NoError(t, DropAllTables(db))
	assert.False(t, db.Migrator().HasTable(&models.SpinRecord{}))
}

func TestMigrate_NilDB(t *testing.T) {
	assert.Error(t, Migrate(nil))
}

func TestMigrationLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock.db")
	lock, err := acquireMigrationLock(path)
	require.NoError(t, err)
	assert.FileExists(t, path+".migration.lock")

	releaseMigrationLock(lock)
	assert.NoFileExists(t, path+".migration.lock")
}

func TestParseLogLevel(t *testing.T) {
	assert.EqualValues(t, 1, parseLogLevel("silent"))
	assert.EqualValues(t, 4, parseLogLevel("anything"))
}
