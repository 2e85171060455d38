package model

import (
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// --- 审计字段 ---
	// 不同主体的 ID 各自独立，需与类型一起看
	CreatedBy     int64       `gorm:"comment:创建人ID" json:"createdBy"`
	CreatedByType SubjectType `gorm:"size:16;comment:创建人类型" json:"createdByType,omitempty"`
	UpdatedBy     int64       `gorm:"comment:更新人ID" json:"updatedBy"`
	UpdatedByType SubjectType `gorm:"size:16;comment:更新人类型" json:"updatedByType,omitempty"`
}

// AllModels 需要迁移的全部模型
func AllModels() []any {
	return []any{
		&Role{},
		&Admin{},
		&Tenant{},
		&User{},
		&Category{},
		&Brand{},
		&Warehouse{},
		&Product{},
		&Sku{},
		&Coupon{},
		&Transaction{},
		&Invoice{},
		&Settings{},
		&HomePage{},
	}
}
