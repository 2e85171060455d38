package router

import (
	"net/http"
	"time"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/api/response"
	"mall_saas_202610/internal/controller"
	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/pkg/apperr"
	"mall_saas_202610/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Controllers 控制器集合
type Controllers struct {
	Admin     *controller.AdminController
	Role      *controller.RoleController
	Tenant    *controller.TenantController
	User      *controller.UserController
	Product   *controller.ProductController
	Category  *controller.CategoryController
	Brand     *controller.BrandController
	Warehouse *controller.WarehouseController
	Coupon    *controller.CouponController
	Payment   *controller.PaymentController
	Report    *controller.ReportController
	Settings  *controller.SettingsController
}

// Infra 路由依赖的基础设施
type Infra struct {
	Codec    *middleware.TokenCodec
	DB       *gorm.DB
	Log      *zap.Logger
	Metrics  *middleware.HTTPMetrics
	Gatherer prometheus.Gatherer
	Cooldown *middleware.CooldownLimiter
	// UploadsDir 本地存储目录，非空时以 /uploads 对外提供
	UploadsDir string
}

// otpSendInterval 同一 IP 发送验证码的最小间隔，账号级 60 秒冷却在服务层
const otpSendInterval = 5 * time.Second

// SetupRouter 创建 Engine 并注册全局中间件和所有路由
func SetupRouter(infra Infra, ctl *Controllers) *gin.Engine {
	if infra.Cooldown == nil {
		infra.Cooldown = middleware.NewCooldownLimiter()
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(infra.Log),
		infra.Metrics.Handler(),
	)
	if infra.UploadsDir != "" {
		r.Static("/uploads", infra.UploadsDir)
	}
	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, apperr.NotFound("Route not found"))
	})

	InitRoutes(r, infra, ctl)
	return r
}

// ==================== 权限要求 ====================

// anyone 任意已登录主体
var anyone = middleware.Requirement{}

func userPerm(keys ...model.UserPermissionKey) middleware.Requirement {
	return middleware.Requirement{UserPermissions: model.RequireUser(keys...)}
}

func productPerm(keys ...model.ProductPermissionKey) middleware.Requirement {
	return middleware.Requirement{ProductPermissions: model.RequireProduct(keys...)}
}

// ==================== 路由 ====================

// InitRoutes 注册所有路由
// 处理顺序：参数校验 -> 鉴权 -> 控制器
func InitRoutes(r *gin.Engine, infra Infra, ctl *Controllers) {
	auth := func(req middleware.Requirement) gin.HandlerFunc {
		return middleware.Authorize(infra.Codec, req)
	}
	h := response.Wrap

	var (
		id    = middleware.ValidateURI[dto.IDURI]()
		page  = middleware.ValidateQuery[dto.PageQuery]()
		login = middleware.ValidateBody[dto.LoginReq]()
	)

	// 运维
	r.GET("/healthz", func(c *gin.Context) {
		if err := database.Ping(c.Request.Context(), infra.DB); err != nil {
			response.Fail(c, apperr.Internal("Database unavailable", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	gatherer := infra.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")

	// 管理员
	api.POST("/admin/login", login, h(ctl.Admin.Login))
	admins := api.Group("/admins")
	{
		manage := userPerm(model.UserManageAdmins)
		admins.POST("", middleware.ValidateBody[dto.CreateAdminReq](), auth(manage), h(ctl.Admin.Create))
		admins.GET("", page, auth(manage), h(ctl.Admin.List))
		admins.GET("/:id", id, auth(manage), h(ctl.Admin.Get))
		admins.PUT("/:id", id, middleware.ValidateBody[dto.UpdateAdminReq](), auth(manage), h(ctl.Admin.Update))
		admins.DELETE("/:id", id, auth(manage), h(ctl.Admin.Delete))
	}

	// 角色
	roles := api.Group("/roles")
	{
		manage := userPerm(model.UserManageRoles)
		body := middleware.ValidateBody[dto.RoleReq]()
		roles.POST("", body, auth(manage), h(ctl.Role.Create))
		roles.GET("", page, auth(manage), h(ctl.Role.List))
		roles.GET("/:id", id, auth(manage), h(ctl.Role.Get))
		roles.PUT("/:id", id, body, auth(manage), h(ctl.Role.Update))
		roles.DELETE("/:id", id, auth(manage), h(ctl.Role.Delete))
	}

	// 商户
	api.POST("/tenant/signup", middleware.ValidateBody[dto.TenantSignupReq](), h(ctl.Tenant.Signup))
	api.POST("/tenant/login", login, h(ctl.Tenant.Login))
	api.GET("/tenant/me", auth(anyone), h(ctl.Tenant.Me))
	tenants := api.Group("/tenants")
	{
		manage := userPerm(model.UserManageTenants)
		tenants.GET("", middleware.ValidateQuery[dto.TenantListQuery](), auth(manage), h(ctl.Tenant.List))
		tenants.GET("/:id", id, auth(manage), h(ctl.Tenant.Get))
		tenants.PUT("/:id", id, middleware.ValidateBody[dto.UpdateTenantReq](), auth(manage), h(ctl.Tenant.Update))
		tenants.PATCH("/:id/block", id, auth(userPerm(model.UserBlockTenant)), h(ctl.Tenant.ToggleBlock))
	}

	// 用户
	user := api.Group("/user")
	{
		user.POST("/signup", middleware.ValidateBody[dto.UserSignupReq](), h(ctl.User.Signup))
		user.POST("/login", login, h(ctl.User.Login))
		user.POST("/otp/send",
			middleware.ValidateBody[dto.SendOTPReq](),
			middleware.Cooldown(infra.Cooldown, "otp_send", otpSendInterval),
			h(ctl.User.SendOTP))
		user.POST("/otp/verify", middleware.ValidateBody[dto.VerifyOTPReq](), h(ctl.User.VerifyOTP))
		user.GET("/me", auth(anyone), h(ctl.User.Me))
		user.PUT("/me", middleware.ValidateBody[dto.UpdateMeReq](), auth(anyone), h(ctl.User.UpdateMe))
	}
	api.GET("/users", page, auth(userPerm(model.UserManageUsers)), h(ctl.User.List))

	// 商品
	products := api.Group("/products")
	{
		manage := productPerm(model.ProductManageProducts)
		products.POST("", middleware.ValidateBody[dto.CreateProductReq](), auth(manage), h(ctl.Product.Create))
		products.GET("", middleware.ValidateQuery[dto.ProductListQuery](), h(ctl.Product.List))
		products.GET("/:id", id, h(ctl.Product.Get))
		products.PUT("/:id", id, middleware.ValidateBody[dto.UpdateProductReq](), auth(manage), h(ctl.Product.Update))
		products.DELETE("/:id", id, auth(manage), h(ctl.Product.Delete))
		products.PATCH("/:id/approve", id, middleware.ValidateBody[dto.ApproveProductReq](),
			auth(productPerm(model.ProductApproveProducts)), h(ctl.Product.Approve))
		products.GET("/:id/skus", id, page, h(ctl.Product.ListSkus))
	}

	// SKU
	skus := api.Group("/skus")
	{
		manage := productPerm(model.ProductManageSkus)
		skus.POST("", middleware.ValidateBody[dto.CreateSkuReq](), auth(manage), h(ctl.Product.CreateSku))
		skus.GET("/:id", id, auth(manage), h(ctl.Product.GetSku))
		skus.PUT("/:id", id, middleware.ValidateBody[dto.UpdateSkuReq](), auth(manage), h(ctl.Product.UpdateSku))
		skus.DELETE("/:id", id, auth(manage), h(ctl.Product.DeleteSku))
	}

	// 分类
	categories := api.Group("/categories")
	{
		manage := productPerm(model.ProductManageCategories)
		categories.POST("", middleware.ValidateBody[dto.CreateCategoryReq](), auth(manage), h(ctl.Category.Create))
		categories.GET("", middleware.ValidateQuery[dto.CategoryListQuery](), h(ctl.Category.List))
		categories.GET("/root", h(ctl.Category.Roots))
		categories.GET("/:id/children", id, h(ctl.Category.Children))
		categories.PUT("/:id", id, middleware.ValidateBody[dto.UpdateCategoryReq](), auth(manage), h(ctl.Category.Update))
		categories.DELETE("/:id", id, auth(manage), h(ctl.Category.Delete))
	}

	// 品牌
	brands := api.Group("/brands")
	{
		manage := productPerm(model.ProductManageBrands)
		body := middleware.ValidateBody[dto.BrandReq]()
		brands.POST("", body, auth(manage), h(ctl.Brand.Create))
		brands.GET("", middleware.ValidateQuery[dto.TenantQuery](), auth(manage), h(ctl.Brand.List))
		brands.PUT("/:id", id, body, auth(manage), h(ctl.Brand.Update))
		brands.DELETE("/:id", id, auth(manage), h(ctl.Brand.Delete))
	}

	// 仓库
	warehouses := api.Group("/warehouses")
	{
		manage := productPerm(model.ProductManageWarehouses)
		body := middleware.ValidateBody[dto.WarehouseReq]()
		warehouses.POST("", body, auth(manage), h(ctl.Warehouse.Create))
		warehouses.GET("", middleware.ValidateQuery[dto.TenantQuery](), auth(manage), h(ctl.Warehouse.List))
		warehouses.PUT("/:id", id, body, auth(manage), h(ctl.Warehouse.Update))
		warehouses.DELETE("/:id", id, auth(manage), h(ctl.Warehouse.Delete))
	}

	// 优惠券
	coupons := api.Group("/coupons")
	{
		manage := productPerm(model.ProductManageCoupons)
		coupons.POST("", middleware.ValidateBody[dto.CreateCouponReq](), auth(manage), h(ctl.Coupon.Create))
		coupons.GET("", middleware.ValidateQuery[dto.TenantQuery](), auth(manage), h(ctl.Coupon.List))
		coupons.POST("/apply", middleware.ValidateBody[dto.ApplyCouponReq](), auth(anyone), h(ctl.Coupon.Apply))
		coupons.GET("/:id", id, auth(manage), h(ctl.Coupon.Get))
		coupons.PUT("/:id", id, middleware.ValidateBody[dto.UpdateCouponReq](), auth(manage), h(ctl.Coupon.Update))
		coupons.DELETE("/:id", id, auth(manage), h(ctl.Coupon.Delete))
	}

	// 支付 / 发票
	api.POST("/payments/order", middleware.ValidateBody[dto.CreatePaymentOrderReq](), auth(anyone), h(ctl.Payment.CreateOrder))
	api.POST("/payments/verify", middleware.ValidateBody[dto.VerifyPaymentReq](), auth(anyone), h(ctl.Payment.VerifyPayment))
	txQuery := middleware.ValidateQuery[dto.TransactionListQuery]()
	api.GET("/transactions", txQuery, auth(userPerm(model.UserViewTransactions)), h(ctl.Payment.Transactions))
	api.GET("/invoices", txQuery, auth(anyone), h(ctl.Payment.Invoices))
	api.GET("/invoices/:id", id, auth(anyone), h(ctl.Payment.Invoice))
	api.GET("/invoices/:id/pdf", id, auth(anyone), h(ctl.Payment.InvoicePDF))

	// 报表
	reports := api.Group("/reports")
	{
		q := middleware.ValidateQuery[dto.ReportQuery]()
		reports.GET("/sales", q, auth(userPerm(model.UserSalesReports)), h(ctl.Report.Sales))
		reports.GET("/payouts", q, auth(userPerm(model.UserViewSupplierPayoutReport)), h(ctl.Report.Payouts))
	}

	// 设置 / 首页
	api.GET("/settings", h(ctl.Settings.Get))
	api.PUT("/settings", middleware.ValidateBody[dto.SettingsReq](), auth(userPerm(model.UserManageSettings)), h(ctl.Settings.Update))
	api.GET("/home", h(ctl.Settings.HomePage))
	api.PUT("/home", middleware.ValidateBody[dto.HomePageReq](), auth(userPerm(model.UserManageHomePage)), h(ctl.Settings.UpdateHomePage))
}
