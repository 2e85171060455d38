package controller

import (
	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/api/response"
	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/service"
	"mall_saas_202610/pkg/fanout"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categorySvc *service.CategoryService
}

func NewCategoryController(categorySvc *service.CategoryService) *CategoryController {
	return &CategoryController{categorySvc: categorySvc}
}

// relatedResult 关联更新结果，部分失败不影响主操作
type relatedResult struct {
	Total  int `json:"total"`
	Failed int `json:"failed"`
}

func relatedOf(outcomes []fanout.Outcome) relatedResult {
	return relatedResult{Total: len(outcomes), Failed: len(fanout.Failed(outcomes))}
}

// Create 新建分类
// @Summary 新建分类
// @Description 层级由上级决定（最多三级），新分类 ID 追加到所有上级的 childrenIds
// @Tags Category (分类)
// @Param request body dto.CreateCategoryReq true "分类"
// @Router /api/v1/categories [post]
func (c *CategoryController) Create(ctx *gin.Context) error {
	category, outcomes, err := c.categorySvc.Create(ctx.Request.Context(), middleware.Body[dto.CreateCategoryReq](ctx))
	if err != nil {
		return err
	}
	response.Created(ctx, "Category created", gin.H{
		"category": category,
		"parents":  relatedOf(outcomes),
	})
	return nil
}

// Roots 根分类
// @Failure 500 {object} response.ErrorBody "Unable to get root categories"
// @Router /api/v1/categories/root [get]
func (c *CategoryController) Roots(ctx *gin.Context) error {
	roots, err := c.categorySvc.Roots(ctx.Request.Context())
	if err != nil {
		return err
	}
	response.OK(ctx, "Root categories fetched", roots)
	return nil
}

func (c *CategoryController) Children(ctx *gin.Context) error {
	children, err := c.categorySvc.Children(ctx.Request.Context(), idParam(ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Sub categories fetched", children)
	return nil
}

func (c *CategoryController) List(ctx *gin.Context) error {
	q := middleware.Query[dto.CategoryListQuery](ctx)
	list, total, err := c.categorySvc.List(ctx.Request.Context(), q)
	if err != nil {
		return err
	}
	return okPage(ctx, "Categories fetched", list, total, q.PageQuery)
}

func (c *CategoryController) Update(ctx *gin.Context) error {
	category, err := c.categorySvc.Update(ctx.Request.Context(), idParam(ctx), middleware.Body[dto.UpdateCategoryReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Category updated", category)
	return nil
}

func (c *CategoryController) Delete(ctx *gin.Context) error {
	outcomes, err := c.categorySvc.Delete(ctx.Request.Context(), idParam(ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Category deleted", gin.H{"parents": relatedOf(outcomes)})
	return nil
}

// ==================== 品牌 ====================

type BrandController struct {
	brandSvc *service.BrandService
}

func NewBrandController(brandSvc *service.BrandService) *BrandController {
	return &BrandController{brandSvc: brandSvc}
}

func (c *BrandController) Create(ctx *gin.Context) error {
	brand, err := c.brandSvc.Create(ctx.Request.Context(), actorOf(ctx), middleware.Body[dto.BrandReq](ctx))
	if err != nil {
		return err
	}
	response.Created(ctx, "Brand created", brand)
	return nil
}

func (c *BrandController) List(ctx *gin.Context) error {
	q := middleware.Query[dto.TenantQuery](ctx)
	list, total, err := c.brandSvc.List(ctx.Request.Context(), actorOf(ctx), q)
	if err != nil {
		return err
	}
	return okPage(ctx, "Brands fetched", list, total, q.PageQuery)
}

func (c *BrandController) Update(ctx *gin.Context) error {
	brand, err := c.brandSvc.Update(ctx.Request.Context(), actorOf(ctx), idParam(ctx), middleware.Body[dto.BrandReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Brand updated", brand)
	return nil
}

func (c *BrandController) Delete(ctx *gin.Context) error {
	if err := c.brandSvc.Delete(ctx.Request.Context(), actorOf(ctx), idParam(ctx)); err != nil {
		return err
	}
	response.OK(ctx, "Brand deleted", nil)
	return nil
}

// ==================== 仓库 ====================

type WarehouseController struct {
	warehouseSvc *service.WarehouseService
}

func NewWarehouseController(warehouseSvc *service.WarehouseService) *WarehouseController {
	return &WarehouseController{warehouseSvc: warehouseSvc}
}

// Create 新建仓库，数量受容量 warehouseLimit 限制
// @Router /api/v1/warehouses [post]
func (c *WarehouseController) Create(ctx *gin.Context) error {
	wh, err := c.warehouseSvc.Create(ctx.Request.Context(), actorOf(ctx), middleware.Body[dto.WarehouseReq](ctx))
	if err != nil {
		return err
	}
	response.Created(ctx, "Warehouse created", wh)
	return nil
}

func (c *WarehouseController) List(ctx *gin.Context) error {
	q := middleware.Query[dto.TenantQuery](ctx)
	list, total, err := c.warehouseSvc.List(ctx.Request.Context(), actorOf(ctx), q)
	if err != nil {
		return err
	}
	return okPage(ctx, "Warehouses fetched", list, total, q.PageQuery)
}

func (c *WarehouseController) Update(ctx *gin.Context) error {
	wh, err := c.warehouseSvc.Update(ctx.Request.Context(), actorOf(ctx), idParam(ctx), middleware.Body[dto.WarehouseReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Warehouse updated", wh)
	return nil
}

func (c *WarehouseController) Delete(ctx *gin.Context) error {
	if err := c.warehouseSvc.Delete(ctx.Request.Context(), actorOf(ctx), idParam(ctx)); err != nil {
		return err
	}
	response.OK(ctx, "Warehouse deleted", nil)
	return nil
}
