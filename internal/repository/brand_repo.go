package repository

import (
	"context"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// BrandRepository 品牌仓库接口
type BrandRepository interface {
	Create(ctx context.Context, brand *model.Brand) error
	GetByID(ctx context.Context, id int64) (*model.Brand, error)
	GetByName(ctx context.Context, tenantID int64, name string) (*model.Brand, error)
	Update(ctx context.Context, brand *model.Brand) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, tenantID int64, p Pagination) ([]model.Brand, int64, error)
}

type brandRepository struct {
	crudRepo[model.Brand]
}

// NewBrandRepository 创建品牌仓库
func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{crudRepo[model.Brand]{db: db}}
}

// GetByName 商户内按名称查找
func (r *brandRepository) GetByName(ctx context.Context, tenantID int64, name string) (*model.Brand, error) {
	return r.findOne(ctx, "tenant_id = ? AND name = ?", tenantID, name)
}

// List tenantID 为 0 时返回全部
func (r *brandRepository) List(ctx context.Context, tenantID int64, p Pagination) ([]model.Brand, int64, error) {
	return r.page(ctx, tenantScope(tenantID), p)
}

// tenantScope 按商户过滤
func tenantScope(tenantID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID > 0 {
			db = db.Where("tenant_id = ?", tenantID)
		}
		return db
	}
}
