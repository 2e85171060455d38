package controller

import (
	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/api/response"
	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/service"

	"github.com/gin-gonic/gin"
)

type TenantController struct {
	tenantSvc *service.TenantService
}

func NewTenantController(tenantSvc *service.TenantService) *TenantController {
	return &TenantController{tenantSvc: tenantSvc}
}

// Signup 商户注册
// @Summary 商户注册
// @Tags Tenant (商户)
// @Param request body dto.TenantSignupReq true "注册信息"
// @Success 201 {object} dto.TenantAuthResp
// @Router /api/v1/tenant/signup [post]
func (c *TenantController) Signup(ctx *gin.Context) error {
	resp, err := c.tenantSvc.Signup(ctx.Request.Context(), middleware.Body[dto.TenantSignupReq](ctx))
	if err != nil {
		return err
	}
	response.Created(ctx, "Signup successful", resp)
	return nil
}

// Login 商户登录，被封禁的商户返回 401
// @Router /api/v1/tenant/login [post]
func (c *TenantController) Login(ctx *gin.Context) error {
	resp, err := c.tenantSvc.Login(ctx.Request.Context(), middleware.Body[dto.LoginReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Login successful", resp)
	return nil
}

// Me 当前商户
// @Router /api/v1/tenant/me [get]
func (c *TenantController) Me(ctx *gin.Context) error {
	actor := actorOf(ctx)
	if !actor.IsTenant() {
		return service.ErrForbiddenResource
	}
	tenant, err := c.tenantSvc.Get(ctx.Request.Context(), actor.ID)
	if err != nil {
		return err
	}
	response.OK(ctx, "Tenant fetched", tenant)
	return nil
}

// List 商户列表，search 匹配名称和邮箱
// @Router /api/v1/tenants [get]
func (c *TenantController) List(ctx *gin.Context) error {
	q := middleware.Query[dto.TenantListQuery](ctx)
	list, total, err := c.tenantSvc.List(ctx.Request.Context(), q)
	if err != nil {
		return err
	}
	return okPage(ctx, "Tenants fetched", list, total, q.PageQuery)
}

func (c *TenantController) Get(ctx *gin.Context) error {
	tenant, err := c.tenantSvc.Get(ctx.Request.Context(), idParam(ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Tenant fetched", tenant)
	return nil
}

// Update 修改商户，佣金比例受调用方快照中的上下限约束
// @Router /api/v1/tenants/{id} [put]
func (c *TenantController) Update(ctx *gin.Context) error {
	tenant, err := c.tenantSvc.Update(ctx.Request.Context(), actorOf(ctx), idParam(ctx), middleware.Body[dto.UpdateTenantReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Tenant updated", tenant)
	return nil
}

// ToggleBlock 封禁/解封
// @Router /api/v1/tenants/{id}/block [patch]
func (c *TenantController) ToggleBlock(ctx *gin.Context) error {
	tenant, err := c.tenantSvc.ToggleBlock(ctx.Request.Context(), idParam(ctx))
	if err != nil {
		return err
	}
	message := "Tenant unblocked"
	if tenant.Blocked {
		message = "Tenant blocked"
	}
	response.OK(ctx, message, tenant)
	return nil
}
