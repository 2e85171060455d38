package controller

import (
	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/api/response"
	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/service"

	"github.com/gin-gonic/gin"
)

// ==================== 报表 ====================

type ReportController struct {
	reportSvc *service.ReportService
}

func NewReportController(reportSvc *service.ReportService) *ReportController {
	return &ReportController{reportSvc: reportSvc}
}

// Sales 销售报表
// @Summary 销售报表
// @Tags Report (报表)
// @Param from query string false "起始日期 2006-01-02"
// @Param to query string false "结束日期（不含）"
// @Failure 403 {object} response.ErrorBody "无 salesReports 权限"
// @Router /api/v1/reports/sales [get]
func (c *ReportController) Sales(ctx *gin.Context) error {
	rows, err := c.reportSvc.Sales(ctx.Request.Context(), middleware.Query[dto.ReportQuery](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Sales report", rows)
	return nil
}

// Payouts 商户结算报表
// @Router /api/v1/reports/payouts [get]
func (c *ReportController) Payouts(ctx *gin.Context) error {
	rows, err := c.reportSvc.Payouts(ctx.Request.Context(), middleware.Query[dto.ReportQuery](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Supplier payout report", rows)
	return nil
}

// ==================== 设置 / 首页 ====================

type SettingsController struct {
	settingsSvc *service.SettingsService
}

func NewSettingsController(settingsSvc *service.SettingsService) *SettingsController {
	return &SettingsController{settingsSvc: settingsSvc}
}

func (c *SettingsController) Get(ctx *gin.Context) error {
	settings, err := c.settingsSvc.Get(ctx.Request.Context())
	if err != nil {
		return err
	}
	response.OK(ctx, "Settings fetched", settings)
	return nil
}

func (c *SettingsController) Update(ctx *gin.Context) error {
	settings, err := c.settingsSvc.Update(ctx.Request.Context(), middleware.Body[dto.SettingsReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Settings updated", settings)
	return nil
}

// HomePage 首页配置，未配置时返回 500 NoData
// @Router /api/v1/home [get]
func (c *SettingsController) HomePage(ctx *gin.Context) error {
	home, err := c.settingsSvc.HomePage(ctx.Request.Context())
	if err != nil {
		return err
	}
	response.OK(ctx, "Home page fetched", home)
	return nil
}

func (c *SettingsController) UpdateHomePage(ctx *gin.Context) error {
	home, err := c.settingsSvc.UpdateHomePage(ctx.Request.Context(), middleware.Body[dto.HomePageReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Home page updated", home)
	return nil
}
