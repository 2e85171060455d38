// Package testutil 测试辅助，仅供 _test.go 使用
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB 创建独立的内存 SQLite 数据库并完成迁移
// 仅使用一个连接，保证并发测试访问同一个库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), database.Config(nil, false))
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层 SQL DB 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	middleware.RegisterAuditCallbacks(db)
	if err := database.Migrate(context.Background(), db, model.AllModels()...); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	return db
}
