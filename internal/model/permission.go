package model

import (
	"strconv"
)

// ==================== 主体类型 ====================

// SubjectType 凭证主体类型
type SubjectType string

const (
	SubjectAdmin  SubjectType = "admin"  // 平台管理员
	SubjectTenant SubjectType = "tenant" // 商户
	SubjectUser   SubjectType = "user"   // 终端用户

	// SubjectSystem 定时任务等内部写入，仅用于审计，不会出现在凭证中
	SubjectSystem SubjectType = "system"
)

// Valid 是否为可签发凭证的主体类型
func (s SubjectType) Valid() bool {
	switch s {
	case SubjectAdmin, SubjectTenant, SubjectUser:
		return true
	}
	return false
}

// ==================== 权限值 ====================

type valueKind uint8

const (
	valueNone valueKind = iota
	valueBool
	valueNumber
)

// PermissionValue 权限值：布尔或数值
// 布尔值与数值永不相等
type PermissionValue struct {
	kind valueKind
	b    bool
	n    float64
}

func Bool(b bool) PermissionValue {
	return PermissionValue{kind: valueBool, b: b}
}

func Number(n float64) PermissionValue {
	return PermissionValue{kind: valueNumber, n: n}
}

// Equal 精确相等
func (v PermissionValue) Equal(o PermissionValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case valueBool:
		return v.b == o.b
	case valueNumber:
		return v.n == o.n
	}
	return true
}

// IsZero 未赋值
func (v PermissionValue) IsZero() bool {
	return v.kind == valueNone
}

func (v PermissionValue) String() string {
	switch v.kind {
	case valueBool:
		return strconv.FormatBool(v.b)
	case valueNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	}
	return "<none>"
}

// ==================== 用户域权限 ====================

// UserPermissionKey 用户域权限键（封闭枚举）
type UserPermissionKey uint8

const (
	UserManageAdmins UserPermissionKey = iota
	UserManageRoles
	UserManageTenants
	UserBlockTenant
	UserManageUsers
	UserSalesReports
	UserViewSupplierPayoutReport
	UserManageSettings
	UserManageHomePage
	UserViewTransactions
	UserMaxCommissionPercent
	UserMinCommissionPercent
)

func (k UserPermissionKey) String() string {
	switch k {
	case UserManageAdmins:
		return "manageAdmins"
	case UserManageRoles:
		return "manageRoles"
	case UserManageTenants:
		return "manageTenants"
	case UserBlockTenant:
		return "blockTenant"
	case UserManageUsers:
		return "manageUsers"
	case UserSalesReports:
		return "salesReports"
	case UserViewSupplierPayoutReport:
		return "viewSupplierPayoutReport"
	case UserManageSettings:
		return "manageSettings"
	case UserManageHomePage:
		return "manageHomePage"
	case UserViewTransactions:
		return "viewTransactions"
	case UserMaxCommissionPercent:
		return "maxCommissionPercent"
	case UserMinCommissionPercent:
		return "minCommissionPercent"
	}
	return "UserPermissionKey(" + strconv.Itoa(int(k)) + ")"
}

// UserPermissions 用户域权限取值
type UserPermissions struct {
	ManageAdmins             bool    `json:"manageAdmins"`
	ManageRoles              bool    `json:"manageRoles"`
	ManageTenants            bool    `json:"manageTenants"`
	BlockTenant              bool    `json:"blockTenant"`
	ManageUsers              bool    `json:"manageUsers"`
	SalesReports             bool    `json:"salesReports"`
	ViewSupplierPayoutReport bool    `json:"viewSupplierPayoutReport"`
	ManageSettings           bool    `json:"manageSettings"`
	ManageHomePage           bool    `json:"manageHomePage"`
	ViewTransactions         bool    `json:"viewTransactions"`
	MaxCommissionPercent     float64 `json:"maxCommissionPercent"`
	MinCommissionPercent     float64 `json:"minCommissionPercent"`
}

// Lookup 按键取值，未知键返回 false
func (p UserPermissions) Lookup(k UserPermissionKey) (PermissionValue, bool) {
	switch k {
	case UserManageAdmins:
		return Bool(p.ManageAdmins), true
	case UserManageRoles:
		return Bool(p.ManageRoles), true
	case UserManageTenants:
		return Bool(p.ManageTenants), true
	case UserBlockTenant:
		return Bool(p.BlockTenant), true
	case UserManageUsers:
		return Bool(p.ManageUsers), true
	case UserSalesReports:
		return Bool(p.SalesReports), true
	case UserViewSupplierPayoutReport:
		return Bool(p.ViewSupplierPayoutReport), true
	case UserManageSettings:
		return Bool(p.ManageSettings), true
	case UserManageHomePage:
		return Bool(p.ManageHomePage), true
	case UserViewTransactions:
		return Bool(p.ViewTransactions), true
	case UserMaxCommissionPercent:
		return Number(p.MaxCommissionPercent), true
	case UserMinCommissionPercent:
		return Number(p.MinCommissionPercent), true
	}
	return PermissionValue{}, false
}

// ==================== 商品域权限 ====================

// ProductPermissionKey 商品域权限键（封闭枚举）
type ProductPermissionKey uint8

const (
	ProductManageProducts ProductPermissionKey = iota
	ProductManageCategories
	ProductManageSkus
	ProductManageCoupons
	ProductManageBrands
	ProductManageWarehouses
	ProductManageOrders
	ProductApproveProducts
	ProductProductLimit
	ProductCouponLimit
)

func (k ProductPermissionKey) String() string {
	switch k {
	case ProductManageProducts:
		return "manageProducts"
	case ProductManageCategories:
		return "manageCategories"
	case ProductManageSkus:
		return "manageSkus"
	case ProductManageCoupons:
		return "manageCoupons"
	case ProductManageBrands:
		return "manageBrands"
	case ProductManageWarehouses:
		return "manageWarehouses"
	case ProductManageOrders:
		return "manageOrders"
	case ProductApproveProducts:
		return "approveProducts"
	case ProductProductLimit:
		return "productLimit"
	case ProductCouponLimit:
		return "couponLimit"
	}
	return "ProductPermissionKey(" + strconv.Itoa(int(k)) + ")"
}

// ProductPermissions 商品域权限取值
type ProductPermissions struct {
	ManageProducts   bool    `json:"manageProducts"`
	ManageCategories bool    `json:"manageCategories"`
	ManageSkus       bool    `json:"manageSkus"`
	ManageCoupons    bool    `json:"manageCoupons"`
	ManageBrands     bool    `json:"manageBrands"`
	ManageWarehouses bool    `json:"manageWarehouses"`
	ManageOrders     bool    `json:"manageOrders"`
	ApproveProducts  bool    `json:"approveProducts"`
	ProductLimit     float64 `json:"productLimit"`
	CouponLimit      float64 `json:"couponLimit"`
}

// Lookup 按键取值，未知键返回 false
func (p ProductPermissions) Lookup(k ProductPermissionKey) (PermissionValue, bool) {
	switch k {
	case ProductManageProducts:
		return Bool(p.ManageProducts), true
	case ProductManageCategories:
		return Bool(p.ManageCategories), true
	case ProductManageSkus:
		return Bool(p.ManageSkus), true
	case ProductManageCoupons:
		return Bool(p.ManageCoupons), true
	case ProductManageBrands:
		return Bool(p.ManageBrands), true
	case ProductManageWarehouses:
		return Bool(p.ManageWarehouses), true
	case ProductManageOrders:
		return Bool(p.ManageOrders), true
	case ProductApproveProducts:
		return Bool(p.ApproveProducts), true
	case ProductProductLimit:
		return Number(p.ProductLimit), true
	case ProductCouponLimit:
		return Number(p.CouponLimit), true
	}
	return PermissionValue{}, false
}

// ==================== 容量 ====================

// Capacity 账号容量限制（非权限）
type Capacity struct {
	ThemeSlots     int `json:"themeSlots"`
	StaffAccounts  int `json:"staffAccounts"`
	WarehouseLimit int `json:"warehouseLimit"`
}

// ==================== 权限快照 ====================

// PermissionSnapshot 签发凭证时复制的权限
// 之后角色变更不影响已签发的凭证，直到凭证过期重新签发
type PermissionSnapshot struct {
	UserPermissions    UserPermissions    `json:"userPermissions"`
	ProductPermissions ProductPermissions `json:"productPermissions"`
	Capacity           Capacity           `json:"capacity"`
}

// SuperLimits 超级管理员的数值型权限
type SuperLimits struct {
	MaxCommissionPercent float64
	MinCommissionPercent float64
	ProductLimit         float64
	CouponLimit          float64
}

// SuperSnapshot 全部布尔权限为 true
func SuperSnapshot(limits SuperLimits) PermissionSnapshot {
	return PermissionSnapshot{
		UserPermissions: UserPermissions{
			ManageAdmins:             true,
			ManageRoles:              true,
			ManageTenants:            true,
			BlockTenant:              true,
			ManageUsers:              true,
			SalesReports:             true,
			ViewSupplierPayoutReport: true,
			ManageSettings:           true,
			ManageHomePage:           true,
			ViewTransactions:         true,
			MaxCommissionPercent:     limits.MaxCommissionPercent,
			MinCommissionPercent:     limits.MinCommissionPercent,
		},
		ProductPermissions: ProductPermissions{
			ManageProducts:   true,
			ManageCategories: true,
			ManageSkus:       true,
			ManageCoupons:    true,
			ManageBrands:     true,
			ManageWarehouses: true,
			ManageOrders:     true,
			ApproveProducts:  true,
			ProductLimit:     limits.ProductLimit,
			CouponLimit:      limits.CouponLimit,
		},
	}
}

// SnapshotOf 从角色复制权限，角色为空时返回全 false/0 的快照
func SnapshotOf(role *Role) PermissionSnapshot {
	if role == nil {
		return PermissionSnapshot{}
	}
	return PermissionSnapshot{
		UserPermissions:    role.UserPermissions.Data(),
		ProductPermissions: role.ProductPermissions.Data(),
		Capacity:           role.Capacity.Data(),
	}
}

// ==================== 权限要求 ====================

// UserRule 用户域权限要求：键对应的值必须与 Value 精确相等
type UserRule struct {
	Key   UserPermissionKey
	Value PermissionValue
}

// ProductRule 商品域权限要求
type ProductRule struct {
	Key   ProductPermissionKey
	Value PermissionValue
}

// RequireUser 要求若干布尔权限为 true
func RequireUser(keys ...UserPermissionKey) []UserRule {
	rules := make([]UserRule, 0, len(keys))
	for _, k := range keys {
		rules = append(rules, UserRule{Key: k, Value: Bool(true)})
	}
	return rules
}

// RequireProduct 要求若干布尔权限为 true
func RequireProduct(keys ...ProductPermissionKey) []ProductRule {
	rules := make([]ProductRule, 0, len(keys))
	for _, k := range keys {
		rules = append(rules, ProductRule{Key: k, Value: Bool(true)})
	}
	return rules
}

// MatchUser 全部要求都满足时返回 true，空列表恒为 true
// 返回第一个不满足的键便于日志
func (s PermissionSnapshot) MatchUser(rules []UserRule) (UserPermissionKey, bool) {
	for _, r := range rules {
		v, ok := s.UserPermissions.Lookup(r.Key)
		if !ok || !v.Equal(r.Value) {
			return r.Key, false
		}
	}
	return 0, true
}

// MatchProduct 同 MatchUser
func (s PermissionSnapshot) MatchProduct(rules []ProductRule) (ProductPermissionKey, bool) {
	for _, r := range rules {
		v, ok := s.ProductPermissions.Lookup(r.Key)
		if !ok || !v.Equal(r.Value) {
			return r.Key, false
		}
	}
	return 0, true
}
