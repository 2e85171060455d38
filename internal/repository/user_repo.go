package repository

import (
	"context"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// UserRepository 终端用户仓库接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	MarkVerified(ctx context.Context, id int64) error
	List(ctx context.Context, search string, p Pagination) ([]model.User, int64, error)
}

type userRepository struct {
	crudRepo[model.User]
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{crudRepo[model.User]{db: db}}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

// MarkVerified 标记已通过验证码校验
func (r *userRepository) MarkVerified(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("verified", true).Error
}

func (r *userRepository) List(ctx context.Context, search string, p Pagination) ([]model.User, int64, error) {
	return r.page(ctx, func(db *gorm.DB) *gorm.DB {
		if search != "" {
			like := "%" + search + "%"
			db = db.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
		}
		return db
	}, p)
}
