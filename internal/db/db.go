package db

import (
	"fmt"
	"strings"
	"time"

	"blogs/internal/config"
	"blogs/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PoolOptions 控制底层 database/sql 连接池。
type PoolOptions struct {
	MaxIdle     int
	MaxOpen     int
	MaxLifetime time.Duration
}

var DefaultPool = PoolOptions{MaxIdle: 5, MaxOpen: 20, MaxLifetime: time.Hour}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		// SQLite 默认不校验外键，需要显式打开。
		if !strings.Contains(dsn, "_foreign_keys") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_foreign_keys=on"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}
}

// Connect 建立数据库连接，并带有简单的重试来等待容器就绪。
func Connect(driver, dsn string, verbose bool) (*gorm.DB, error) {
	return ConnectWithPool(driver, dsn, verbose, DefaultPool)
}

func ConnectWithPool(driver, dsn string, verbose bool, pool PoolOptions) (*gorm.DB, error) {
	dial, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	gormLogger := logger.Default.LogMode(logger.Silent)
	if verbose {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}
	cfg := &gorm.Config{Logger: gormLogger, TranslateError: true}

	attempts := 10
	if driver == config.DriverSQLite {
		attempts = 1
	}
	var gdb *gorm.DB
	for i := 0; i < attempts; i++ {
		gdb, err = gorm.Open(dial, cfg)
		if err == nil {
			sqlDB, err2 := gdb.DB()
			if err2 == nil {
				sqlDB.SetMaxIdleConns(pool.MaxIdle)
				sqlDB.SetMaxOpenConns(pool.MaxOpen)
				sqlDB.SetConnMaxLifetime(pool.MaxLifetime)
				return gdb, nil
			}
			err = err2
		}
		time.Sleep(time.Duration(500+i*200) * time.Millisecond)
	}
	return nil, err
}

// Migrate 自动迁移 users、sessions、posts 三张表，外键由子表的 belongs-to 关系创建。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.User{}, &models.Session{}, &models.Post{})
}

// Close 释放连接池。
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
