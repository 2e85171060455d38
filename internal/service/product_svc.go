package service

import (
	"context"
	"regexp"
	"strings"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"

	"gorm.io/datatypes"
)

type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	brandRepo repository.BrandRepository,
) *ProductService {
	return &ProductService{productRepo: productRepo, categoryRepo: categoryRepo, brandRepo: brandRepo}
}

// Create 新建商品
// 商户创建的商品进入待审核，数量受快照中 productLimit 限制
func (s *ProductService) Create(ctx context.Context, actor Actor, req *dto.CreateProductReq) (*model.Product, error) {
	if err := s.checkRefs(ctx, req.CategoryID, req.BrandID); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		Price:       req.Price,
		MRP:         req.MRP,
		Images:      datatypes.NewJSONSlice(nonNil(req.Images)),
		SkuIDs:      datatypes.NewJSONSlice([]int64{}),
		Tags:        datatypes.NewJSONSlice(nonNil(req.Tags)),
	}
	if product.Slug == "" {
		product.Slug = Slugify(req.Name)
	}

	switch {
	case actor.IsTenant():
		count, err := s.productRepo.CountByTenant(ctx, actor.ID)
		if err != nil {
			return nil, internal(err)
		}
		if float64(count) >= actor.Snapshot.ProductPermissions.ProductLimit {
			return nil, ErrProductLimitReached
		}
		tenantID := actor.ID
		product.Scope = model.ScopeTenant
		product.TenantID = &tenantID
		product.Status = model.ProductStatusPending
	case actor.IsAdmin():
		product.Scope = req.Scope
		if product.Scope == "" {
			product.Scope = model.ScopeMarketplace
		}
		product.Status = model.ProductStatusApproved
	default:
		return nil, ErrForbiddenResource
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, internal(err)
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, q *dto.ProductListQuery) ([]model.Product, int64, error) {
	filter := repository.ProductFilter{
		Search:     q.Search,
		Scope:      q.Scope,
		TenantID:   q.TenantID,
		CategoryID: q.CategoryID,
		BrandID:    q.BrandID,
		Status:     q.Status,
	}
	list, total, err := s.productRepo.List(ctx, filter, PageOf(q.PageQuery))
	return list, total, internal(err)
}

func (s *ProductService) Update(ctx context.Context, actor Actor, id int64, req *dto.UpdateProductReq) (*model.Product, error) {
	product, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	categoryID := product.CategoryID
	if req.CategoryID != nil {
		categoryID = *req.CategoryID
	}
	if err := s.checkRefs(ctx, categoryID, req.BrandID); err != nil {
		return nil, err
	}

	product.CategoryID = categoryID
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.BrandID != nil {
		product.BrandID = req.BrandID
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.MRP != nil {
		product.MRP = *req.MRP
	}
	if req.Images != nil {
		product.Images = datatypes.NewJSONSlice(req.Images)
	}
	if req.Tags != nil {
		product.Tags = datatypes.NewJSONSlice(req.Tags)
	}
	if product.MRP > 0 && product.MRP < product.Price {
		return nil, ErrPriceAboveMRP
	}
	// 商户修改后重新审核
	if actor.IsTenant() {
		product.Status = model.ProductStatusPending
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, internal(err)
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, actor Actor, id int64) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if _, err := s.productRepo.Delete(ctx, id); err != nil {
		return internal(err)
	}
	return nil
}

// Approve 审核商品
func (s *ProductService) Approve(ctx context.Context, id int64, approved bool) (*model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	status := model.ProductStatusRejected
	if approved {
		status = model.ProductStatusApproved
	}
	if err := s.productRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, internal(err)
	}
	product.Status = status
	return product, nil
}

// owned 管理员可操作任意商品，商户只能操作自己的商品
func (s *ProductService) owned(ctx context.Context, actor Actor, id int64) (*model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || (actor.IsTenant() && product.OwnedBy(actor.ID)) {
		return product, nil
	}
	return nil, ErrForbiddenResource
}

func (s *ProductService) checkRefs(ctx context.Context, categoryID int64, brandID *int64) error {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return internal(err)
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	if brandID == nil {
		return nil
	}
	brand, err := s.brandRepo.GetByID(ctx, *brandID)
	if err != nil {
		return internal(err)
	}
	if brand == nil {
		return ErrBrandNotFound
	}
	return nil
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify "Red Shoes!" -> "red-shoes"
func Slugify(s string) string {
	return strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

var (
	ErrProductNotFound     = apperr.NotFound("Product not found")
	ErrProductLimitReached = apperr.BadRequest("Product limit reached").WithCode("PRODUCT_LIMIT")
	ErrPriceAboveMRP       = apperr.BadRequest("Price cannot exceed MRP")
)
