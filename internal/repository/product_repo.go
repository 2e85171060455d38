package repository

import (
	"context"
	"slices"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// ProductFilter 商品筛选条件
type ProductFilter struct {
	Search     string
	Scope      string
	TenantID   int64
	CategoryID int64
	BrandID    int64
	Status     string
}

// ProductRepository 商品仓库接口
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	CountByTenant(ctx context.Context, tenantID int64) (int64, error)
	List(ctx context.Context, filter ProductFilter, p Pagination) ([]model.Product, int64, error)
	AppendSku(ctx context.Context, productID, skuID int64) error
	RemoveSku(ctx context.Context, productID, skuID int64) error
}

type productRepository struct {
	crudRepo[model.Product]
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{crudRepo[model.Product]{db: db}}
}

// UpdateStatus 更新审核状态
func (r *productRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CountByTenant 商户商品数量
func (r *productRepository) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	return r.count(ctx, "tenant_id = ?", tenantID)
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter, p Pagination) ([]model.Product, int64, error) {
	return r.page(ctx, func(db *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			db = db.Where("name LIKE ? OR description LIKE ?", like, like)
		}
		if filter.Scope != "" {
			db = db.Where("scope = ?", filter.Scope)
		}
		if filter.TenantID > 0 {
			db = db.Where("tenant_id = ?", filter.TenantID)
		}
		if filter.CategoryID > 0 {
			db = db.Where("category_id = ?", filter.CategoryID)
		}
		if filter.BrandID > 0 {
			db = db.Where("brand_id = ?", filter.BrandID)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		return db
	}, p)
}

// AppendSku 追加 SKU ID（读-改-写，非原子）
func (r *productRepository) AppendSku(ctx context.Context, productID, skuID int64) error {
	return r.mutateSkuIDs(ctx, productID, func(ids []int64) []int64 {
		if slices.Contains(ids, skuID) {
			return ids
		}
		return append(ids, skuID)
	})
}

// RemoveSku 移除 SKU ID
func (r *productRepository) RemoveSku(ctx context.Context, productID, skuID int64) error {
	return r.mutateSkuIDs(ctx, productID, func(ids []int64) []int64 {
		return slices.DeleteFunc(ids, func(id int64) bool { return id == skuID })
	})
}

func (r *productRepository) mutateSkuIDs(ctx context.Context, productID int64, fn func([]int64) []int64) error {
	var product model.Product
	if err := r.db.WithContext(ctx).Select("id", "sku_ids").First(&product, productID).Error; err != nil {
		return err
	}
	ids := fn(slices.Clone(product.SkuIDs))
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("sku_ids", datatypesSlice(ids)).Error
}
