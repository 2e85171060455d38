package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ==================== 分页 ====================

const (
	DefaultItemsPerPage = 10
	DefaultPage         = 1
	MaxItemsPerPage     = 100
)

// Pagination 分页参数
type Pagination struct {
	Page         int
	ItemsPerPage int
}

// Normalize 补全默认值：每页 10 条，第 1 页
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.ItemsPerPage < 1 {
		p.ItemsPerPage = DefaultItemsPerPage
	}
	if p.ItemsPerPage > MaxItemsPerPage {
		p.ItemsPerPage = MaxItemsPerPage
	}
	return p
}

// Offset 偏移量
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.ItemsPerPage
}

// ==================== 通用 CRUD ====================

// crudRepo 通用增删改查，具体仓库通过嵌入复用
type crudRepo[T any] struct {
	db *gorm.DB
}

// Create 新建
func (r *crudRepo[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// GetByID 根据 ID 获取，不存在时返回 nil, nil
func (r *crudRepo[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).First(&entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Update 整体保存
func (r *crudRepo[T]) Update(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

// Delete 软删除，返回是否删除了记录
func (r *crudRepo[T]) Delete(ctx context.Context, id int64) (bool, error) {
	var entity T
	res := r.db.WithContext(ctx).Delete(&entity, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// findOne 按条件获取一条，不存在时返回 nil, nil
func (r *crudRepo[T]) findOne(ctx context.Context, query string, args ...any) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).Where(query, args...).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// count 按条件计数
func (r *crudRepo[T]) count(ctx context.Context, query string, args ...any) (int64, error) {
	var (
		entity T
		total  int64
	)
	err := r.db.WithContext(ctx).Model(&entity).Where(query, args...).Count(&total).Error
	return total, err
}

// page 分页查询：先计数，再按 id 升序取当前页（两次查询）
func (r *crudRepo[T]) page(ctx context.Context, scope func(*gorm.DB) *gorm.DB, p Pagination) ([]T, int64, error) {
	var (
		entity T
		list   []T
		total  int64
	)
	p = p.Normalize()

	base := func() *gorm.DB {
		db := r.db.WithContext(ctx).Model(&entity)
		if scope != nil {
			db = scope(db)
		}
		return db
	}

	// 计算总数
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 || int64(p.Offset()) >= total {
		return []T{}, total, nil
	}

	// 分页查询
	err := base().Order("id ASC").
		Limit(p.ItemsPerPage).
		Offset(p.Offset()).
		Find(&list).Error
	return list, total, err
}

// IsDuplicate 是否为唯一索引冲突
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
