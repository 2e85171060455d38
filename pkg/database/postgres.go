package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options 连接参数
type Options struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool // 开发环境下打印所有 SQL
}

// Open 初始化 PostgreSQL 连接
func Open(opts Options, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(opts.DSN), Config(log, opts.LogSQL))
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	// 获取底层的 sqlDB 对象，用于设置连接池参数
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 SQL DB 失败: %w", err)
	}

	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	log.Info("数据库连接成功")
	return db, nil
}

// Config GORM 配置
// TranslateError 将唯一索引冲突统一转换为 gorm.ErrDuplicatedKey
func Config(log *zap.Logger, logSQL bool) *gorm.Config {
	level := logger.Warn
	if logSQL {
		level = logger.Info
	}
	if log == nil {
		log = zap.NewNop()
		level = logger.Silent
	}

	return &gorm.Config{
		Logger: logger.New(zap.NewStdLog(log), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	}
}

// Migrate 自动建表/迁移
func Migrate(ctx context.Context, db *gorm.DB, models ...any) error {
	if len(models) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("自动建表出错: %w", err)
	}
	return nil
}

// Ping 健康检查
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
