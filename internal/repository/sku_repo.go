package repository

import (
	"context"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// SkuRepository SKU 仓库接口
type SkuRepository interface {
	Create(ctx context.Context, sku *model.Sku) error
	GetByID(ctx context.Context, id int64) (*model.Sku, error)
	GetByCode(ctx context.Context, tenantID int64, code string) (*model.Sku, error)
	Update(ctx context.Context, sku *model.Sku) error
	Delete(ctx context.Context, id int64) (bool, error)
	ListByProduct(ctx context.Context, productID int64, p Pagination) ([]model.Sku, int64, error)
}

type skuRepository struct {
	crudRepo[model.Sku]
}

// NewSkuRepository 创建 SKU 仓库
func NewSkuRepository(db *gorm.DB) SkuRepository {
	return &skuRepository{crudRepo[model.Sku]{db: db}}
}

// GetByCode 商户内按编码查找
func (r *skuRepository) GetByCode(ctx context.Context, tenantID int64, code string) (*model.Sku, error) {
	return r.findOne(ctx, "tenant_id = ? AND code = ?", tenantID, code)
}

func (r *skuRepository) ListByProduct(ctx context.Context, productID int64, p Pagination) ([]model.Sku, int64, error) {
	return r.page(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("product_id = ?", productID)
	}, p)
}
