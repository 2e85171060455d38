package repository

import (
	"context"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// TenantFilter 商户筛选条件
type TenantFilter struct {
	Search  string // 名称/邮箱模糊搜索
	Blocked *bool
}

// TenantRepository 商户仓库接口
type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	GetByID(ctx context.Context, id int64) (*model.Tenant, error)
	GetByEmail(ctx context.Context, email string) (*model.Tenant, error)
	Update(ctx context.Context, tenant *model.Tenant) error
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	List(ctx context.Context, filter TenantFilter, p Pagination) ([]model.Tenant, int64, error)
}

type tenantRepository struct {
	crudRepo[model.Tenant]
}

// NewTenantRepository 创建商户仓库
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{crudRepo[model.Tenant]{db: db}}
}

func (r *tenantRepository) GetByEmail(ctx context.Context, email string) (*model.Tenant, error) {
	return r.findOne(ctx, "email = ?", email)
}

// SetBlocked 更新封禁状态
func (r *tenantRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Tenant{}).
		Where("id = ?", id).
		Update("blocked", blocked).Error
}

func (r *tenantRepository) List(ctx context.Context, filter TenantFilter, p Pagination) ([]model.Tenant, int64, error) {
	return r.page(ctx, func(db *gorm.DB) *gorm.DB {
		// 动态构建查询条件
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			db = db.Where("name LIKE ? OR email LIKE ? OR store_name LIKE ?", like, like, like)
		}
		if filter.Blocked != nil {
			db = db.Where("blocked = ?", *filter.Blocked)
		}
		return db
	}, p)
}
