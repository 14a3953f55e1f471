// Package store 打开 gorm 连接并迁移表结构。
package store

import (
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/golivishiva/Digital-Notice-Board/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open 按驱动名打开数据库：mysql / postgres / sqlite
func Open(driver, dsn string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres", "postgresql", "pg":
		dialector = postgres.Open(dsn)
	case "sqlite", "sqlite3", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormLogger := gormlogger.Discard
	if debug {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		// 级联删除由 service 在事务中显式完成
		DisableForeignKeyConstraintWhenMigrating: true,
		// 唯一键冲突统一成 gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

// AutoMigrate 迁移全部表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Notice{},
		&models.Attachment{},
		&models.Interaction{},
		&models.Comment{},
		&models.ActivityLog{},
		&models.Notification{},
	)
}

// OpenRedis addr 为空返回 nil（功能降级：无会话缓存、无登录限流）
func OpenRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}
