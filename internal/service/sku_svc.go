package service

import (
	"context"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"

	"gorm.io/datatypes"
)

type SkuService struct {
	skuRepo       repository.SkuRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

func NewSkuService(
	skuRepo repository.SkuRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *SkuService {
	return &SkuService{skuRepo: skuRepo, productRepo: productRepo, warehouseRepo: warehouseRepo}
}

// Create 新建 SKU，编码在商户内唯一
// 成功后把 SKU ID 追加到商品的 skuIds，追加失败不影响创建结果
func (s *SkuService) Create(ctx context.Context, actor Actor, req *dto.CreateSkuReq) (*model.Sku, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, internal(err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if actor.IsTenant() && !product.OwnedBy(actor.ID) {
		return nil, ErrForbiddenResource
	}

	var tenantID int64
	if product.TenantID != nil {
		tenantID = *product.TenantID
	}
	if err := s.checkWarehouse(ctx, tenantID, req.WarehouseID); err != nil {
		return nil, err
	}

	existing, err := s.skuRepo.GetByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, internal(err)
	}
	if existing != nil {
		return nil, ErrSkuCodeExists
	}

	sku := &model.Sku{
		TenantID:    tenantID,
		ProductID:   product.ID,
		Code:        req.Code,
		Attributes:  datatypes.JSONMap(req.Attributes),
		Price:       req.Price,
		Stock:       req.Stock,
		WarehouseID: req.WarehouseID,
	}
	if err := s.skuRepo.Create(ctx, sku); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrSkuCodeExists
		}
		return nil, internal(err)
	}

	settle(ctx, "sku.append", func(ctx context.Context) error {
		return s.productRepo.AppendSku(ctx, product.ID, sku.ID)
	})
	return sku, nil
}

func (s *SkuService) Get(ctx context.Context, id int64) (*model.Sku, error) {
	sku, err := s.skuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if sku == nil {
		return nil, ErrSkuNotFound
	}
	return sku, nil
}

func (s *SkuService) ListByProduct(ctx context.Context, productID int64, p repository.Pagination) ([]model.Sku, int64, error) {
	list, total, err := s.skuRepo.ListByProduct(ctx, productID, p)
	return list, total, internal(err)
}

func (s *SkuService) Update(ctx context.Context, actor Actor, id int64, req *dto.UpdateSkuReq) (*model.Sku, error) {
	sku, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkWarehouse(ctx, sku.TenantID, req.WarehouseID); err != nil {
		return nil, err
	}

	if req.Attributes != nil {
		sku.Attributes = datatypes.JSONMap(req.Attributes)
	}
	if req.Price != nil {
		sku.Price = *req.Price
	}
	if req.Stock != nil {
		sku.Stock = *req.Stock
	}
	if req.WarehouseID != nil {
		sku.WarehouseID = req.WarehouseID
	}
	if err := s.skuRepo.Update(ctx, sku); err != nil {
		return nil, internal(err)
	}
	return sku, nil
}

// Delete 删除 SKU 并从商品的 skuIds 中移除
func (s *SkuService) Delete(ctx context.Context, actor Actor, id int64) error {
	sku, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if _, err := s.skuRepo.Delete(ctx, id); err != nil {
		return internal(err)
	}
	settle(ctx, "sku.remove", func(ctx context.Context) error {
		return s.productRepo.RemoveSku(ctx, sku.ProductID, sku.ID)
	})
	return nil
}

func (s *SkuService) owned(ctx context.Context, actor Actor, id int64) (*model.Sku, error) {
	sku, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsTenant() && sku.TenantID != actor.ID {
		return nil, ErrForbiddenResource
	}
	return sku, nil
}

func (s *SkuService) checkWarehouse(ctx context.Context, tenantID int64, warehouseID *int64) error {
	if warehouseID == nil {
		return nil
	}
	wh, err := s.warehouseRepo.GetByID(ctx, *warehouseID)
	if err != nil {
		return internal(err)
	}
	if wh == nil || (tenantID > 0 && wh.TenantID != tenantID) {
		return ErrWarehouseNotFound
	}
	return nil
}

var (
	ErrSkuNotFound   = apperr.NotFound("SKU not found")
	ErrSkuCodeExists = apperr.BadRequest("SKU code already exists")
)
