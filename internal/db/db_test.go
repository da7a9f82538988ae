package db

import (
	"path/filepath"
	"testing"
	"time"

	"blogs/internal/config"
	"blogs/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Connect("mysql", "whatever", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func openTemp(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := ConnectWithPool(config.DriverSQLite, filepath.Join(t.TempDir(), "t.db"), false,
		PoolOptions{MaxIdle: 1, MaxOpen: 1, MaxLifetime: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })
	require.NoError(t, Migrate(gdb))
	return gdb
}

func TestMigrateCreatesTables(t *testing.T) {
	gdb := openTemp(t)
	for _, m := range []any{&models.User{}, &models.Session{}, &models.Post{}} {
		assert.True(t, gdb.Migrator().HasTable(m), "%T", m)
	}
	// 重复迁移应当是幂等的。
	require.NoError(t, Migrate(gdb))
}

func TestSQLiteEnforcesForeignKeys(t *testing.T) {
	gdb := openTemp(t)
	err := gdb.Create(&models.Post{Title: "t", Body: "b", Username: "ghost", CreatedAt: time.Now()}).Error
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)
}

func TestSQLiteTranslatesDuplicateKey(t *testing.T) {
	gdb := openTemp(t)
	u := models.User{Username: "alice", PasswordHash: "h", JoinedDate: time.Now()}
	require.NoError(t, gdb.Create(&u).Error)
	err := gdb.Create(&models.User{Username: "alice", PasswordHash: "h", JoinedDate: time.Now()}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
