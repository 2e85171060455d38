package repository

import (
	"context"
	"slices"

	"mall_saas_202610/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CategoryRepository 分类仓库接口
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id int64) (bool, error)
	ListByLevel(ctx context.Context, level int) ([]model.Category, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Category, error)
	List(ctx context.Context, level int, p Pagination) ([]model.Category, int64, error)
	AppendChild(ctx context.Context, parentID, childID int64) error
	RemoveChild(ctx context.Context, parentID, childID int64) error
}

type categoryRepository struct {
	crudRepo[model.Category]
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{crudRepo[model.Category]{db: db}}
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

// ListByLevel 按层级获取全部分类
func (r *categoryRepository) ListByLevel(ctx context.Context, level int) ([]model.Category, error) {
	var list []model.Category
	err := r.db.WithContext(ctx).
		Where("level = ?", level).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// ListByIDs 按 ID 批量获取
func (r *categoryRepository) ListByIDs(ctx context.Context, ids []int64) ([]model.Category, error) {
	if len(ids) == 0 {
		return []model.Category{}, nil
	}
	var list []model.Category
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *categoryRepository) List(ctx context.Context, level int, p Pagination) ([]model.Category, int64, error) {
	return r.page(ctx, func(db *gorm.DB) *gorm.DB {
		if level > 0 {
			db = db.Where("level = ?", level)
		}
		return db
	}, p)
}

// AppendChild 追加下级 ID（读-改-写，非原子）
func (r *categoryRepository) AppendChild(ctx context.Context, parentID, childID int64) error {
	return r.mutateChildren(ctx, parentID, func(ids []int64) []int64 {
		if slices.Contains(ids, childID) {
			return ids
		}
		return append(ids, childID)
	})
}

// RemoveChild 移除下级 ID
func (r *categoryRepository) RemoveChild(ctx context.Context, parentID, childID int64) error {
	return r.mutateChildren(ctx, parentID, func(ids []int64) []int64 {
		return slices.DeleteFunc(ids, func(id int64) bool { return id == childID })
	})
}

func (r *categoryRepository) mutateChildren(ctx context.Context, parentID int64, fn func([]int64) []int64) error {
	var parent model.Category
	if err := r.db.WithContext(ctx).Select("id", "children_ids").First(&parent, parentID).Error; err != nil {
		return err
	}
	ids := fn(slices.Clone(parent.ChildrenIDs))
	return r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", parentID).
		Update("children_ids", datatypesSlice(ids)).Error
}

// datatypesSlice nil 切片存储为 []
func datatypesSlice(ids []int64) datatypes.JSONSlice[int64] {
	if ids == nil {
		ids = []int64{}
	}
	return datatypes.NewJSONSlice(ids)
}
