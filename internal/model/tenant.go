package model

// Tenant 商户（卖家）
type Tenant struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"size:32" json:"phone"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	StoreName    string `gorm:"size:200" json:"storeName"`
	GSTNumber    string `gorm:"size:32" json:"gstNumber"`

	RoleID  *int64 `gorm:"index" json:"roleId"`
	Blocked bool   `gorm:"default:false;index" json:"blocked"`

	// 平台佣金比例，为 0 时使用全局设置
	CommissionPercent float64 `json:"commissionPercent"`
}

func (Tenant) TableName() string { return "tenants" }
