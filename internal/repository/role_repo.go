package repository

import (
	"context"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// RoleRepository 角色仓库接口
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	GetByID(ctx context.Context, id int64) (*model.Role, error)
	GetByName(ctx context.Context, name string) (*model.Role, error)
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, p Pagination) ([]model.Role, int64, error)
}

type roleRepository struct {
	crudRepo[model.Role]
}

// NewRoleRepository 创建角色仓库
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{crudRepo[model.Role]{db: db}}
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*model.Role, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *roleRepository) List(ctx context.Context, p Pagination) ([]model.Role, int64, error) {
	return r.page(ctx, nil, p)
}
