package service

import (
	"context"
	"slices"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"
	"mall_saas_202610/pkg/fanout"

	"gorm.io/datatypes"
)

// CategoryService 三级分类：根 -> 主分类 -> 子分类
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create 新建分类，层级由上级决定
// 新分类 ID 并发追加到每个上级的 childrenIds，单个上级更新失败不影响其他上级
func (s *CategoryService) Create(ctx context.Context, req *dto.CreateCategoryReq) (*model.Category, []fanout.Outcome, error) {
	existing, err := s.categoryRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, nil, internal(err)
	}
	if existing != nil {
		return nil, nil, ErrCategorySlugExists
	}

	category := &model.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Level:       model.CategoryLevelRoot,
		ParentIDs:   datatypes.NewJSONSlice([]int64{}),
		ChildrenIDs: datatypes.NewJSONSlice([]int64{}),
		Image:       req.Image,
		Active:      true,
	}

	if req.ParentID > 0 {
		parent, err := s.categoryRepo.GetByID(ctx, req.ParentID)
		if err != nil {
			return nil, nil, internal(err)
		}
		if parent == nil {
			return nil, nil, ErrParentCategoryNotFound
		}
		if parent.Level >= model.CategoryLevelChild {
			return nil, nil, ErrCategoryTooDeep
		}
		category.Level = parent.Level + 1
		category.ParentIDs = datatypes.NewJSONSlice(append(slices.Clone([]int64(parent.ParentIDs)), parent.ID))
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repository.IsDuplicate(err) {
			return nil, nil, ErrCategorySlugExists
		}
		return nil, nil, internal(err)
	}

	tasks := make([]fanout.Task, 0, len(category.ParentIDs))
	for _, pid := range category.ParentIDs {
		tasks = append(tasks, func(ctx context.Context) error {
			return s.categoryRepo.AppendChild(ctx, pid, category.ID)
		})
	}
	return category, settle(ctx, "category.append_child", tasks...), nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// Roots 根分类，为空时视为服务端数据问题
func (s *CategoryService) Roots(ctx context.Context) ([]model.Category, error) {
	roots, err := s.categoryRepo.ListByLevel(ctx, model.CategoryLevelRoot)
	if err != nil {
		return nil, internal(err)
	}
	if len(roots) == 0 {
		return nil, ErrNoRootCategories
	}
	return roots, nil
}

// Children 直接下级
func (s *CategoryService) Children(ctx context.Context, id int64) ([]model.Category, error) {
	parent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.categoryRepo.ListByIDs(ctx, parent.ChildrenIDs)
	if err != nil {
		return nil, internal(err)
	}
	children := make([]model.Category, 0, len(all))
	for _, c := range all {
		if c.Level == parent.Level+1 {
			children = append(children, c)
		}
	}
	return children, nil
}

func (s *CategoryService) List(ctx context.Context, q *dto.CategoryListQuery) ([]model.Category, int64, error) {
	list, total, err := s.categoryRepo.List(ctx, q.Level, PageOf(q.PageQuery))
	return list, total, internal(err)
}

func (s *CategoryService) Update(ctx context.Context, id int64, req *dto.UpdateCategoryReq) (*model.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Image != nil {
		category.Image = *req.Image
	}
	if req.Active != nil {
		category.Active = *req.Active
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, internal(err)
	}
	return category, nil
}

// Delete 删除叶子分类，并从所有上级的 childrenIds 中移除
func (s *CategoryService) Delete(ctx context.Context, id int64) ([]fanout.Outcome, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(category.ChildrenIDs) > 0 {
		return nil, ErrCategoryHasChildren
	}
	if _, err := s.categoryRepo.Delete(ctx, id); err != nil {
		return nil, internal(err)
	}

	tasks := make([]fanout.Task, 0, len(category.ParentIDs))
	for _, pid := range category.ParentIDs {
		tasks = append(tasks, func(ctx context.Context) error {
			return s.categoryRepo.RemoveChild(ctx, pid, id)
		})
	}
	return settle(ctx, "category.remove_child", tasks...), nil
}

var (
	ErrCategoryNotFound       = apperr.NotFound("Category not found")
	ErrParentCategoryNotFound = apperr.NotFound("Parent category not found")
	ErrCategorySlugExists     = apperr.BadRequest("Category slug already exists")
	ErrCategoryTooDeep        = apperr.BadRequest("Child categories cannot have sub categories")
	ErrCategoryHasChildren    = apperr.BadRequest("Category has sub categories")
	ErrNoRootCategories       = apperr.NoData("Unable to get root categories")
)
