package dto

import "mall_saas_202610/internal/model"

// ==================== Admin ====================

type CreateAdminReq struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
	RoleID   *int64 `json:"roleId" binding:"omitempty,min=1"`
}

type UpdateAdminReq struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,phone"`
	Password  *string `json:"password" binding:"omitempty,password"`
	RoleID    *int64  `json:"roleId" binding:"omitempty,min=1"`
	ClearRole bool    `json:"clearRole" binding:"excluded_with=RoleID"` // 解绑角色，恢复为超级管理员
	Active    *bool   `json:"active"`
}

type AdminAuthResp struct {
	Token string       `json:"token"`
	Admin *model.Admin `json:"admin"`
}

// ==================== Role ====================

type RoleReq struct {
	Name               string                   `json:"name" binding:"required,min=2,max=100"`
	Description        string                   `json:"description" binding:"max=500"`
	UserPermissions    model.UserPermissions    `json:"userPermissions"`
	ProductPermissions model.ProductPermissions `json:"productPermissions"`
	Capacity           model.Capacity           `json:"capacity"`
}

// ==================== Tenant ====================

type TenantSignupReq struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,password"`
	Phone     string `json:"phone" binding:"required,phone"`
	StoreName string `json:"storeName" binding:"required,max=200"`
	GSTNumber string `json:"gstNumber" binding:"omitempty,alphanum,len=15"`
}

type UpdateTenantReq struct {
	Name              *string  `json:"name" binding:"omitempty,min=2,max=100"`
	Phone             *string  `json:"phone" binding:"omitempty,phone"`
	StoreName         *string  `json:"storeName" binding:"omitempty,max=200"`
	RoleID            *int64   `json:"roleId" binding:"omitempty,min=1"`
	CommissionPercent *float64 `json:"commissionPercent" binding:"omitempty,min=0,max=100"`
}

type TenantListQuery struct {
	PageQuery
	Blocked *bool `form:"blocked"`
}

type TenantAuthResp struct {
	Token  string        `json:"token"`
	Tenant *model.Tenant `json:"tenant"`
}

// ==================== User ====================

type UserSignupReq struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,phone"`
	Password string `json:"password" binding:"required,password"`
}

type UpdateMeReq struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=100"`
	Password *string `json:"password" binding:"omitempty,password"`
}

// SendOTPReq identifier 为邮箱或手机号
type SendOTPReq struct {
	Identifier string `json:"identifier" binding:"required,max=255"`
	Channel    string `json:"channel" binding:"required,oneof=sms email"`
}

type VerifyOTPReq struct {
	Identifier string `json:"identifier" binding:"required,max=255"`
	Code       string `json:"code" binding:"required,len=6,numeric"`
}

type UserAuthResp struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}
