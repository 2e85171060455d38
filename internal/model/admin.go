package model

// Admin 平台管理员
type Admin struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"size:32" json:"phone"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// 为空时视为超级管理员，拥有全部权限
	RoleID *int64 `gorm:"index" json:"roleId"`
	Active bool   `json:"active"`
}

func (Admin) TableName() string { return "admins" }
