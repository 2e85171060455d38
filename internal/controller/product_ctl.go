package controller

import (
	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/api/response"
	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productSvc *service.ProductService
	skuSvc     *service.SkuService
}

func NewProductController(productSvc *service.ProductService, skuSvc *service.SkuService) *ProductController {
	return &ProductController{productSvc: productSvc, skuSvc: skuSvc}
}

// Create 新建商品
// @Summary 新建商品
// @Description 商户商品进入待审核，数量受 productLimit 限制；管理员可创建平台商品
// @Tags Product (商品)
// @Accept json
// @Produce json
// @Param request body dto.CreateProductReq true "商品"
// @Success 201 {object} model.Product
// @Failure 400 {object} response.ErrorBody "超出商品数量限制"
// @Router /api/v1/products [post]
func (c *ProductController) Create(ctx *gin.Context) error {
	product, err := c.productSvc.Create(ctx.Request.Context(), actorOf(ctx), middleware.Body[dto.CreateProductReq](ctx))
	if err != nil {
		return err
	}
	response.Created(ctx, "Product created", product)
	return nil
}

// List 商品列表
// @Summary 商品列表
// @Tags Product (商品)
// @Param itemsPerPage query int false "每页数量" default(10)
// @Param pageNo query int false "页码" default(1)
// @Param search query string false "名称关键词"
// @Param categoryId query int false "分类"
// @Param brandId query int false "品牌"
// @Param scope query string false "marketplace/tenant/legacy"
// @Router /api/v1/products [get]
func (c *ProductController) List(ctx *gin.Context) error {
	q := middleware.Query[dto.ProductListQuery](ctx)
	list, total, err := c.productSvc.List(ctx.Request.Context(), q)
	if err != nil {
		return err
	}
	return okPage(ctx, "Products fetched", list, total, q.PageQuery)
}

func (c *ProductController) Get(ctx *gin.Context) error {
	product, err := c.productSvc.Get(ctx.Request.Context(), idParam(ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Product fetched", product)
	return nil
}

func (c *ProductController) Update(ctx *gin.Context) error {
	product, err := c.productSvc.Update(ctx.Request.Context(), actorOf(ctx), idParam(ctx), middleware.Body[dto.UpdateProductReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Product updated", product)
	return nil
}

func (c *ProductController) Delete(ctx *gin.Context) error {
	if err := c.productSvc.Delete(ctx.Request.Context(), actorOf(ctx), idParam(ctx)); err != nil {
		return err
	}
	response.OK(ctx, "Product deleted", nil)
	return nil
}

// Approve 审核商品
// @Router /api/v1/products/{id}/approve [patch]
func (c *ProductController) Approve(ctx *gin.Context) error {
	req := middleware.Body[dto.ApproveProductReq](ctx)
	product, err := c.productSvc.Approve(ctx.Request.Context(), idParam(ctx), req.Approved)
	if err != nil {
		return err
	}
	response.OK(ctx, "Product "+product.Status, product)
	return nil
}

// ==================== SKU ====================

// CreateSku 新建 SKU，SKU ID 追加到商品
// @Router /api/v1/skus [post]
func (c *ProductController) CreateSku(ctx *gin.Context) error {
	sku, err := c.skuSvc.Create(ctx.Request.Context(), actorOf(ctx), middleware.Body[dto.CreateSkuReq](ctx))
	if err != nil {
		return err
	}
	response.Created(ctx, "SKU created", sku)
	return nil
}

// ListSkus 商品下的 SKU
// @Router /api/v1/products/{id}/skus [get]
func (c *ProductController) ListSkus(ctx *gin.Context) error {
	q := middleware.Query[dto.PageQuery](ctx)
	list, total, err := c.skuSvc.ListByProduct(ctx.Request.Context(), idParam(ctx), service.PageOf(*q))
	if err != nil {
		return err
	}
	return okPage(ctx, "SKUs fetched", list, total, *q)
}

func (c *ProductController) GetSku(ctx *gin.Context) error {
	sku, err := c.skuSvc.Get(ctx.Request.Context(), idParam(ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "SKU fetched", sku)
	return nil
}

func (c *ProductController) UpdateSku(ctx *gin.Context) error {
	sku, err := c.skuSvc.Update(ctx.Request.Context(), actorOf(ctx), idParam(ctx), middleware.Body[dto.UpdateSkuReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "SKU updated", sku)
	return nil
}

func (c *ProductController) DeleteSku(ctx *gin.Context) error {
	if err := c.skuSvc.Delete(ctx.Request.Context(), actorOf(ctx), idParam(ctx)); err != nil {
		return err
	}
	response.OK(ctx, "SKU deleted", nil)
	return nil
}
