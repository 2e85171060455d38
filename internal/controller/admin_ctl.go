package controller

import (
	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/api/response"
	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	adminSvc *service.AdminService
}

func NewAdminController(adminSvc *service.AdminService) *AdminController {
	return &AdminController{adminSvc: adminSvc}
}

// Login 管理员登录
// @Summary 管理员登录
// @Tags Admin (管理员)
// @Accept json
// @Produce json
// @Param request body dto.LoginReq true "登录参数"
// @Success 200 {object} dto.AdminAuthResp
// @Failure 401 {object} response.ErrorBody "邮箱或密码错误"
// @Router /api/v1/admin/login [post]
func (c *AdminController) Login(ctx *gin.Context) error {
	resp, err := c.adminSvc.Login(ctx.Request.Context(), middleware.Body[dto.LoginReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Login successful", resp)
	return nil
}

// Create 新建管理员
// @Summary 新建管理员
// @Tags Admin (管理员)
// @Param request body dto.CreateAdminReq true "管理员信息"
// @Success 201 {object} model.Admin
// @Failure 400 {object} response.ErrorBody "邮箱已存在"
// @Failure 403 {object} response.ErrorBody "无 manageAdmins 权限"
// @Router /api/v1/admins [post]
func (c *AdminController) Create(ctx *gin.Context) error {
	admin, err := c.adminSvc.Create(ctx.Request.Context(), middleware.Body[dto.CreateAdminReq](ctx))
	if err != nil {
		return err
	}
	response.Created(ctx, "Admin created", admin)
	return nil
}

// List 管理员列表
// @Router /api/v1/admins [get]
func (c *AdminController) List(ctx *gin.Context) error {
	q := middleware.Query[dto.PageQuery](ctx)
	list, total, err := c.adminSvc.List(ctx.Request.Context(), service.PageOf(*q))
	if err != nil {
		return err
	}
	return okPage(ctx, "Admins fetched", list, total, *q)
}

// Get 管理员详情
// @Router /api/v1/admins/{id} [get]
func (c *AdminController) Get(ctx *gin.Context) error {
	admin, err := c.adminSvc.Get(ctx.Request.Context(), idParam(ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Admin fetched", admin)
	return nil
}

// Update 修改管理员
// @Router /api/v1/admins/{id} [put]
func (c *AdminController) Update(ctx *gin.Context) error {
	admin, err := c.adminSvc.Update(ctx.Request.Context(), idParam(ctx), middleware.Body[dto.UpdateAdminReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Admin updated", admin)
	return nil
}

// Delete 删除管理员
// @Summary 删除管理员
// @Tags Admin (管理员)
// @Param id path int true "管理员ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody "Admin not found"
// @Router /api/v1/admins/{id} [delete]
func (c *AdminController) Delete(ctx *gin.Context) error {
	if err := c.adminSvc.Delete(ctx.Request.Context(), idParam(ctx)); err != nil {
		return err
	}
	response.OK(ctx, "Admin deleted", nil)
	return nil
}

// ==================== 角色 ====================

type RoleController struct {
	roleSvc *service.RoleService
}

func NewRoleController(roleSvc *service.RoleService) *RoleController {
	return &RoleController{roleSvc: roleSvc}
}

// Create 新建角色
// @Summary 新建角色
// @Description 角色保存用户域、商品域权限和容量限制，修改后只影响之后签发的凭证
// @Tags Role (角色)
// @Param request body dto.RoleReq true "角色"
// @Router /api/v1/roles [post]
func (c *RoleController) Create(ctx *gin.Context) error {
	role, err := c.roleSvc.Create(ctx.Request.Context(), middleware.Body[dto.RoleReq](ctx))
	if err != nil {
		return err
	}
	response.Created(ctx, "Role created", role)
	return nil
}

func (c *RoleController) List(ctx *gin.Context) error {
	q := middleware.Query[dto.PageQuery](ctx)
	list, total, err := c.roleSvc.List(ctx.Request.Context(), service.PageOf(*q))
	if err != nil {
		return err
	}
	return okPage(ctx, "Roles fetched", list, total, *q)
}

func (c *RoleController) Get(ctx *gin.Context) error {
	role, err := c.roleSvc.Get(ctx.Request.Context(), idParam(ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Role fetched", role)
	return nil
}

func (c *RoleController) Update(ctx *gin.Context) error {
	role, err := c.roleSvc.Update(ctx.Request.Context(), idParam(ctx), middleware.Body[dto.RoleReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Role updated", role)
	return nil
}

func (c *RoleController) Delete(ctx *gin.Context) error {
	if err := c.roleSvc.Delete(ctx.Request.Context(), idParam(ctx)); err != nil {
		return err
	}
	response.OK(ctx, "Role deleted", nil)
	return nil
}
