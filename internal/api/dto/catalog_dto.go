package dto

// ==================== Product ====================

type CreateProductReq struct {
	Name        string   `json:"name" binding:"required,min=2,max=255"`
	Slug        string   `json:"slug" binding:"omitempty,slug,max=255"`
	Description string   `json:"description" binding:"max=10000"`
	CategoryID  int64    `json:"categoryId" binding:"required,min=1"`
	BrandID     *int64   `json:"brandId" binding:"omitempty,min=1"`
	Price       int64    `json:"price" binding:"min=0"`
	MRP         int64    `json:"mrp" binding:"omitempty,gtefield=Price"`
	Images      []string `json:"images" binding:"omitempty,max=20,dive,url"`
	Tags        []string `json:"tags" binding:"omitempty,max=30,dive,max=50"`
	// 仅管理员可创建平台/旧版商品，商户创建时忽略
	Scope string `json:"scope" binding:"omitempty,oneof=marketplace tenant legacy"`
}

type UpdateProductReq struct {
	Name        *string  `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=10000"`
	CategoryID  *int64   `json:"categoryId" binding:"omitempty,min=1"`
	BrandID     *int64   `json:"brandId" binding:"omitempty,min=1"`
	Price       *int64   `json:"price" binding:"omitempty,min=0"`
	MRP         *int64   `json:"mrp" binding:"omitempty,min=0"`
	Images      []string `json:"images" binding:"omitempty,max=20,dive,url"`
	Tags        []string `json:"tags" binding:"omitempty,max=30,dive,max=50"`
}

type ApproveProductReq struct {
	Approved bool `json:"approved"`
}

type ProductListQuery struct {
	PageQuery
	Scope      string `form:"scope" binding:"omitempty,oneof=marketplace tenant legacy"`
	TenantID   int64  `form:"tenantId" binding:"omitempty,min=1"`
	CategoryID int64  `form:"categoryId" binding:"omitempty,min=1"`
	BrandID    int64  `form:"brandId" binding:"omitempty,min=1"`
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// ==================== SKU ====================

type CreateSkuReq struct {
	ProductID   int64          `json:"productId" binding:"required,min=1"`
	Code        string         `json:"code" binding:"required,alphanum,max=64"`
	Attributes  map[string]any `json:"attributes"`
	Price       int64          `json:"price" binding:"min=0"`
	Stock       int            `json:"stock" binding:"min=0"`
	WarehouseID *int64         `json:"warehouseId" binding:"omitempty,min=1"`
}

type UpdateSkuReq struct {
	Attributes  map[string]any `json:"attributes"`
	Price       *int64         `json:"price" binding:"omitempty,min=0"`
	Stock       *int           `json:"stock" binding:"omitempty,min=0"`
	WarehouseID *int64         `json:"warehouseId" binding:"omitempty,min=1"`
}

// ==================== Category ====================

type CreateCategoryReq struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Slug     string `json:"slug" binding:"required,slug,max=120"`
	ParentID int64  `json:"parentId" binding:"omitempty,min=1"`
	Image    string `json:"image" binding:"omitempty,url"`
}

type UpdateCategoryReq struct {
	Name   *string `json:"name" binding:"omitempty,min=2,max=100"`
	Image  *string `json:"image" binding:"omitempty,url"`
	Active *bool   `json:"active"`
}

type CategoryListQuery struct {
	PageQuery
	Level int `form:"level" binding:"omitempty,oneof=1 2 3"`
}

// ==================== Brand / Warehouse ====================

type BrandReq struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Logo string `json:"logo" binding:"omitempty,url"`
}

type WarehouseReq struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Address string `json:"address" binding:"required,max=500"`
	City    string `json:"city" binding:"required,max=100"`
	Pincode string `json:"pincode" binding:"required,numeric,min=4,max=10"`
	Active  *bool  `json:"active"`
}

// TenantQuery 管理员可按商户筛选
type TenantQuery struct {
	PageQuery
	TenantID int64 `form:"tenantId" binding:"omitempty,min=1"`
}
