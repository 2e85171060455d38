package model

import "gorm.io/datatypes"

// ==================== 商品范围 ====================

// ProductScope 商品所属范围
const (
	ScopeMarketplace = "marketplace" // 平台自营
	ScopeTenant      = "tenant"      // 商户商品
	ScopeLegacy      = "legacy"      // 旧版导入商品
)

// ProductStatus 审核状态
const (
	ProductStatusPending  = "pending"  // 待审核
	ProductStatusApproved = "approved" // 已上架
	ProductStatusRejected = "rejected" // 已驳回
)

// Product 商品，三种范围共用一张表
type Product struct {
	BaseModel
	Scope    string `gorm:"size:20;index;not null;default:tenant" json:"scope"`
	TenantID *int64 `gorm:"index" json:"tenantId"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Slug        string `gorm:"size:255;index" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	CategoryID int64  `gorm:"index" json:"categoryId"`
	BrandID    *int64 `gorm:"index" json:"brandId"`

	// 金额（分为单位存储）
	Price int64 `json:"price"`
	MRP   int64 `json:"mrp"`

	Images datatypes.JSONSlice[string] `json:"images"`
	SkuIDs datatypes.JSONSlice[int64]  `json:"skuIds"`
	Tags   datatypes.JSONSlice[string] `json:"tags"`

	Status string `gorm:"size:20;index;default:pending" json:"status"`
}

func (Product) TableName() string { return "products" }

// OwnedBy 商户是否拥有该商品
func (p *Product) OwnedBy(tenantID int64) bool {
	return p.TenantID != nil && *p.TenantID == tenantID
}

// Sku 库存单元
type Sku struct {
	BaseModel
	TenantID  int64  `gorm:"uniqueIndex:idx_sku_tenant_code;not null" json:"tenantId"`
	ProductID int64  `gorm:"index;not null" json:"productId"`
	Code      string `gorm:"size:64;uniqueIndex:idx_sku_tenant_code;not null" json:"code"`

	Attributes  datatypes.JSONMap `json:"attributes"`
	Price       int64             `json:"price"`
	Stock       int               `json:"stock"`
	WarehouseID *int64            `gorm:"index" json:"warehouseId"`
}

func (Sku) TableName() string { return "skus" }

// ==================== 分类 ====================

// CategoryLevel 分类层级
const (
	CategoryLevelRoot  = 1 // 一级
	CategoryLevelMain  = 2 // 二级
	CategoryLevelChild = 3 // 三级
)

// Category 三级分类树
// ParentIDs 为所有上级（根在前），ChildrenIDs 为所有下级
type Category struct {
	BaseModel
	Name        string                     `gorm:"size:100;not null" json:"name"`
	Slug        string                     `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Level       int                        `gorm:"index;not null" json:"level"`
	ParentIDs   datatypes.JSONSlice[int64] `json:"parentIds"`
	ChildrenIDs datatypes.JSONSlice[int64] `json:"childrenIds"`
	Image       string                     `gorm:"size:500" json:"image"`
	Active      bool                       `json:"active"`
}

func (Category) TableName() string { return "categories" }

// ParentID 直接上级，根分类返回 0
func (c *Category) ParentID() int64 {
	if len(c.ParentIDs) == 0 {
		return 0
	}
	return c.ParentIDs[len(c.ParentIDs)-1]
}

// ==================== 品牌 / 仓库 ====================

// Brand 品牌，名称在商户内唯一
type Brand struct {
	BaseModel
	TenantID int64  `gorm:"uniqueIndex:idx_brand_tenant_name;not null" json:"tenantId"`
	Name     string `gorm:"size:100;uniqueIndex:idx_brand_tenant_name;not null" json:"name"`
	Logo     string `gorm:"size:500" json:"logo"`
}

func (Brand) TableName() string { return "brands" }

// Warehouse 仓库
type Warehouse struct {
	BaseModel
	TenantID int64  `gorm:"index;not null" json:"tenantId"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Address  string `gorm:"size:500" json:"address"`
	City     string `gorm:"size:100" json:"city"`
	Pincode  string `gorm:"size:16" json:"pincode"`
	Active   bool   `json:"active"`
}

func (Warehouse) TableName() string { return "warehouses" }
