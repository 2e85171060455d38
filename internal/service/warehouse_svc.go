package service

import (
	"context"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"
)

type WarehouseService struct {
	warehouseRepo repository.WarehouseRepository
}

func NewWarehouseService(warehouseRepo repository.WarehouseRepository) *WarehouseService {
	return &WarehouseService{warehouseRepo: warehouseRepo}
}

// Create 商户仓库数量受快照容量 warehouseLimit 限制
func (s *WarehouseService) Create(ctx context.Context, actor Actor, req *dto.WarehouseReq) (*model.Warehouse, error) {
	tenantID := tenantOf(actor)
	if actor.IsTenant() {
		count, err := s.warehouseRepo.CountByTenant(ctx, tenantID)
		if err != nil {
			return nil, internal(err)
		}
		if count >= int64(actor.Snapshot.Capacity.WarehouseLimit) {
			return nil, ErrWarehouseLimitReached
		}
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	wh := &model.Warehouse{
		TenantID: tenantID,
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Pincode:  req.Pincode,
		Active:   active,
	}
	if err := s.warehouseRepo.Create(ctx, wh); err != nil {
		return nil, internal(err)
	}
	return wh, nil
}

func (s *WarehouseService) List(ctx context.Context, actor Actor, q *dto.TenantQuery) ([]model.Warehouse, int64, error) {
	list, total, err := s.warehouseRepo.List(ctx, listTenant(actor, q.TenantID), PageOf(q.PageQuery))
	return list, total, internal(err)
}

func (s *WarehouseService) Update(ctx context.Context, actor Actor, id int64, req *dto.WarehouseReq) (*model.Warehouse, error) {
	wh, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	wh.Name = req.Name
	wh.Address = req.Address
	wh.City = req.City
	wh.Pincode = req.Pincode
	if req.Active != nil {
		wh.Active = *req.Active
	}
	if err := s.warehouseRepo.Update(ctx, wh); err != nil {
		return nil, internal(err)
	}
	return wh, nil
}

func (s *WarehouseService) Delete(ctx context.Context, actor Actor, id int64) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if _, err := s.warehouseRepo.Delete(ctx, id); err != nil {
		return internal(err)
	}
	return nil
}

func (s *WarehouseService) owned(ctx context.Context, actor Actor, id int64) (*model.Warehouse, error) {
	wh, err := s.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if wh == nil {
		return nil, ErrWarehouseNotFound
	}
	if actor.IsTenant() && wh.TenantID != actor.ID {
		return nil, ErrForbiddenResource
	}
	return wh, nil
}

var (
	ErrWarehouseNotFound     = apperr.NotFound("Warehouse not found")
	ErrWarehouseLimitReached = apperr.BadRequest("Warehouse limit reached").WithCode("WAREHOUSE_LIMIT")
)
