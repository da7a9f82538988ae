// Package dbtest 为各包测试提供一次性的 SQLite 数据库。
package dbtest

import (
	"path/filepath"
	"testing"
	"time"

	"blogs/internal/config"
	"blogs/internal/db"

	"gorm.io/gorm"
)

// Open 在 t.TempDir 中创建已迁移的数据库，测试结束时自动关闭。
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blogs_test.db")
	gdb, err := db.ConnectWithPool(config.DriverSQLite, path, false, db.PoolOptions{MaxIdle: 1, MaxOpen: 1, MaxLifetime: time.Hour})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("db migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}
