package middleware

import (
	"context"
	"reflect"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// ==================== 审计上下文 ====================

type auditContextKey struct{}

// AuditInfo 写操作的发起主体
type AuditInfo struct {
	SubjectID   int64
	SubjectType model.SubjectType
}

// WithAuditInfo 显式指定审计主体（定时任务等非 HTTP 场景使用）
func WithAuditInfo(ctx context.Context, subjectID int64, subjectType model.SubjectType) context.Context {
	return context.WithValue(ctx, auditContextKey{}, &AuditInfo{
		SubjectID:   subjectID,
		SubjectType: subjectType,
	})
}

// GetAuditInfo 从 context 获取审计主体
// 优先使用显式注入的信息，其次使用鉴权中间件写入的 Claims
func GetAuditInfo(ctx context.Context) *AuditInfo {
	if ctx == nil {
		return nil
	}
	if info, ok := ctx.Value(auditContextKey{}).(*AuditInfo); ok {
		return info
	}
	if claims := ClaimsFromContext(ctx); claims != nil {
		return &AuditInfo{SubjectID: claims.SubjectID, SubjectType: claims.SubjectType}
	}
	return nil
}

// ==================== GORM 回调 ====================

// RegisterAuditCallbacks 注册审计回调
// 新建时补齐 CreatedBy/UpdatedBy（已赋值的不覆盖），更新时总是写 UpdatedBy
func RegisterAuditCallbacks(db *gorm.DB) {
	_ = db.Callback().Create().Before("gorm:create").Register("audit:create", func(tx *gorm.DB) {
		info := GetAuditInfo(tx.Statement.Context)
		if info == nil || tx.Statement.Schema == nil {
			return
		}
		fillZero(tx, "CreatedBy", info.SubjectID)
		fillZero(tx, "CreatedByType", info.SubjectType)
		fillZero(tx, "UpdatedBy", info.SubjectID)
		fillZero(tx, "UpdatedByType", info.SubjectType)
	})

	// SetColumn 同时覆盖 Save(struct) 与 Update(column) 两种写法
	_ = db.Callback().Update().Before("gorm:update").Register("audit:update", func(tx *gorm.DB) {
		info := GetAuditInfo(tx.Statement.Context)
		if info == nil || tx.Statement.Schema == nil {
			return
		}
		if tx.Statement.Schema.LookUpField("UpdatedBy") == nil {
			return
		}
		tx.Statement.SetColumn("UpdatedBy", info.SubjectID, true)
		tx.Statement.SetColumn("UpdatedByType", info.SubjectType, true)
	})
}

// fillZero 仅在字段为零值时赋值，支持单条与批量插入
func fillZero(tx *gorm.DB, fieldName string, value any) {
	field := tx.Statement.Schema.LookUpField(fieldName)
	if field == nil {
		return
	}
	ctx := tx.Statement.Context

	switch rv := tx.Statement.ReflectValue; rv.Kind() {
	case reflect.Struct:
		if _, isZero := field.ValueOf(ctx, rv); isZero {
			_ = field.Set(ctx, rv, value)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			elem := reflect.Indirect(rv.Index(i))
			if _, isZero := field.ValueOf(ctx, elem); isZero {
				_ = field.Set(ctx, elem, value)
			}
		}
	}
}
