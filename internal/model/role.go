package model

import "gorm.io/datatypes"

// Role 权限角色
// 删除角色不会级联到引用它的商户/用户
type Role struct {
	BaseModel
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`

	UserPermissions    datatypes.JSONType[UserPermissions]    `json:"userPermissions"`
	ProductPermissions datatypes.JSONType[ProductPermissions] `json:"productPermissions"`
	Capacity           datatypes.JSONType[Capacity]           `json:"capacity"`
}

func (Role) TableName() string { return "roles" }
