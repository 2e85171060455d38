package repository

import (
	"context"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// WarehouseRepository 仓库接口
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *model.Warehouse) error
	GetByID(ctx context.Context, id int64) (*model.Warehouse, error)
	Update(ctx context.Context, warehouse *model.Warehouse) error
	Delete(ctx context.Context, id int64) (bool, error)
	CountByTenant(ctx context.Context, tenantID int64) (int64, error)
	List(ctx context.Context, tenantID int64, p Pagination) ([]model.Warehouse, int64, error)
}

type warehouseRepository struct {
	crudRepo[model.Warehouse]
}

// NewWarehouseRepository 创建仓库仓储
func NewWarehouseRepository(db *gorm.DB) WarehouseRepository {
	return &warehouseRepository{crudRepo[model.Warehouse]{db: db}}
}

func (r *warehouseRepository) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	return r.count(ctx, "tenant_id = ?", tenantID)
}

func (r *warehouseRepository) List(ctx context.Context, tenantID int64, p Pagination) ([]model.Warehouse, int64, error) {
	return r.page(ctx, tenantScope(tenantID), p)
}
