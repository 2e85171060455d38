package repository

import (
	"context"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// ==================== AdminRepository 管理员仓库 ====================

// AdminRepository 管理员仓库接口
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	GetByID(ctx context.Context, id int64) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	Update(ctx context.Context, admin *model.Admin) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, p Pagination) ([]model.Admin, int64, error)
}

type adminRepository struct {
	crudRepo[model.Admin]
}

// NewAdminRepository 创建管理员仓库
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{crudRepo[model.Admin]{db: db}}
}

// GetByEmail 根据邮箱获取
func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.findOne(ctx, "email = ?", email)
}

// List 分页列表
func (r *adminRepository) List(ctx context.Context, p Pagination) ([]model.Admin, int64, error) {
	return r.page(ctx, nil, p)
}
