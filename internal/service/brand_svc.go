package service

import (
	"context"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"
)

// tenantOf 商户调用方返回自身 ID，其他调用方返回 0（平台）
func tenantOf(actor Actor) int64 {
	if actor.IsTenant() {
		return actor.ID
	}
	return 0
}

// listTenant 商户只能查看自己的数据，管理员可按商户筛选
func listTenant(actor Actor, requested int64) int64 {
	if actor.IsTenant() {
		return actor.ID
	}
	return requested
}

type BrandService struct {
	brandRepo repository.BrandRepository
}

func NewBrandService(brandRepo repository.BrandRepository) *BrandService {
	return &BrandService{brandRepo: brandRepo}
}

// Create 品牌名称在商户内唯一
func (s *BrandService) Create(ctx context.Context, actor Actor, req *dto.BrandReq) (*model.Brand, error) {
	tenantID := tenantOf(actor)
	existing, err := s.brandRepo.GetByName(ctx, tenantID, req.Name)
	if err != nil {
		return nil, internal(err)
	}
	if existing != nil {
		return nil, ErrBrandExists
	}

	brand := &model.Brand{TenantID: tenantID, Name: req.Name, Logo: req.Logo}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrBrandExists
		}
		return nil, internal(err)
	}
	return brand, nil
}

func (s *BrandService) List(ctx context.Context, actor Actor, q *dto.TenantQuery) ([]model.Brand, int64, error) {
	list, total, err := s.brandRepo.List(ctx, listTenant(actor, q.TenantID), PageOf(q.PageQuery))
	return list, total, internal(err)
}

func (s *BrandService) Update(ctx context.Context, actor Actor, id int64, req *dto.BrandReq) (*model.Brand, error) {
	brand, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Name != brand.Name {
		existing, err := s.brandRepo.GetByName(ctx, brand.TenantID, req.Name)
		if err != nil {
			return nil, internal(err)
		}
		if existing != nil {
			return nil, ErrBrandExists
		}
	}

	brand.Name = req.Name
	brand.Logo = req.Logo
	if err := s.brandRepo.Update(ctx, brand); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrBrandExists
		}
		return nil, internal(err)
	}
	return brand, nil
}

func (s *BrandService) Delete(ctx context.Context, actor Actor, id int64) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if _, err := s.brandRepo.Delete(ctx, id); err != nil {
		return internal(err)
	}
	return nil
}

func (s *BrandService) owned(ctx context.Context, actor Actor, id int64) (*model.Brand, error) {
	brand, err := s.brandRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}
	if actor.IsTenant() && brand.TenantID != actor.ID {
		return nil, ErrForbiddenResource
	}
	return brand, nil
}

var (
	ErrBrandNotFound = apperr.NotFound("Brand not found")
	ErrBrandExists   = apperr.BadRequest("Brand name already exists")
)
