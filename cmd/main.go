package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/config"
	"mall_saas_202610/internal/controller"
	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/internal/router"
	"mall_saas_202610/internal/service"
	"mall_saas_202610/internal/task"
	"mall_saas_202610/pkg/database"
	"mall_saas_202610/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. 读取配置，必填项缺失时立即退出
	cfg, err := config.Load("./configs")
	if err != nil {
		_, _ = os.Stderr.WriteString("配置加载失败: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		_, _ = os.Stderr.WriteString("日志初始化失败: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. 初始化数据库
	db := initDatabase(cfg, log)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db, log)

	// 4. 启动定时任务
	tasks := initTasks(cfg, deps, log)

	// 5. 初始化路由
	r := router.SetupRouter(deps.Infra, deps.Controllers)

	// 6. 启动服务
	startServer(cfg, r, tasks, deps, log)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
	Infra       router.Infra
}

// Repositories 仓库集合
type Repositories struct {
	Admin       repository.AdminRepository
	Role        repository.RoleRepository
	Tenant      repository.TenantRepository
	User        repository.UserRepository
	Product     repository.ProductRepository
	Sku         repository.SkuRepository
	Category    repository.CategoryRepository
	Brand       repository.BrandRepository
	Warehouse   repository.WarehouseRepository
	Coupon      repository.CouponRepository
	Transaction repository.TransactionRepository
	Invoice     repository.InvoiceRepository
	Settings    repository.SettingsRepository
	OTP         repository.OTPRepository
}

// Services 服务集合
type Services struct {
	Auth      *service.Authenticator
	Admin     *service.AdminService
	Role      *service.RoleService
	Tenant    *service.TenantService
	User      *service.UserService
	Product   *service.ProductService
	Sku       *service.SkuService
	Category  *service.CategoryService
	Brand     *service.BrandService
	Warehouse *service.WarehouseService
	Coupon    *service.CouponService
	Payment   *service.PaymentService
	Invoice   *service.InvoiceService
	Report    *service.ReportService
	Settings  *service.SettingsService
}

// ==================== 初始化函数 ====================

// initDatabase 连接数据库、迁移表结构并注册审计回调
func initDatabase(cfg *config.AppConfig, log *zap.Logger) *gorm.DB {
	db, err := database.Open(database.Options{
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogSQL:          cfg.Database.LogSQL,
	}, log)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}

	middleware.RegisterAuditCallbacks(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := database.Migrate(ctx, db, model.AllModels()...); err != nil {
		log.Fatal("数据库迁移失败", zap.Error(err))
	}
	return db
}

// initRedis 连接 Redis，验证码依赖它
func initRedis(cfg *config.AppConfig, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis 连接失败", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	return client
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.AppConfig, db *gorm.DB, log *zap.Logger) *Dependencies {
	if err := dto.RegisterValidators(); err != nil {
		log.Fatal("注册校验规则失败", zap.Error(err))
	}

	// -------- Repo 层 --------
	rdb := initRedis(cfg, log)
	repos := initRepositories(db, rdb)

	// -------- 凭证 --------
	codec := middleware.NewTokenCodec(middleware.JWTConfig{
		SecretKey: cfg.JWT.Secret,
		TokenTTL:  cfg.JWT.TokenTTL,
		Issuer:    cfg.JWT.Issuer,
	})

	// -------- 外部服务 --------
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	storage, err := service.NewStorageProvider(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("存储服务初始化失败", zap.String("provider", cfg.Storage.Provider), zap.Error(err))
	}
	mailer := service.NewMailer(cfg.Mail)
	sms := service.NewSMSSender(cfg.SMS)
	gateway := service.NewPaymentGateway(cfg.Payment)
	renderer := service.NewPDFRenderer(cfg.Renderer)

	// -------- 业务服务 --------
	services := initServices(cfg, repos, codec, storage, mailer, sms, gateway, renderer)

	if err := services.Admin.Bootstrap(ctx, cfg.Admin.BootstrapEmail, cfg.Admin.BootstrapPassword); err != nil {
		log.Fatal("初始化超级管理员失败", zap.Error(err))
	}

	// -------- 指标 --------
	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		log.Fatal("注册指标失败", zap.Error(err))
	}

	infra := router.Infra{
		Codec:   codec,
		DB:      db,
		Log:     log,
		Metrics: metrics,
	}
	if cfg.Storage.Provider == "local" && cfg.Storage.CDNDomain == "" {
		infra.UploadsDir = cfg.Storage.LocalDir
	}

	return &Dependencies{
		DB:          db,
		Redis:       rdb,
		Repos:       repos,
		Services:    services,
		Controllers: initControllers(services),
		Infra:       infra,
	}
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB, rdb *redis.Client) *Repositories {
	return &Repositories{
		Admin:       repository.NewAdminRepository(db),
		Role:        repository.NewRoleRepository(db),
		Tenant:      repository.NewTenantRepository(db),
		User:        repository.NewUserRepository(db),
		Product:     repository.NewProductRepository(db),
		Sku:         repository.NewSkuRepository(db),
		Category:    repository.NewCategoryRepository(db),
		Brand:       repository.NewBrandRepository(db),
		Warehouse:   repository.NewWarehouseRepository(db),
		Coupon:      repository.NewCouponRepository(db),
		Transaction: repository.NewTransactionRepository(db),
		Invoice:     repository.NewInvoiceRepository(db),
		Settings:    repository.NewSettingsRepository(db),
		OTP:         repository.NewOTPRepository(rdb),
	}
}

// initServices 初始化业务服务
func initServices(
	cfg *config.AppConfig,
	repos *Repositories,
	codec *middleware.TokenCodec,
	storage service.StorageProvider,
	mailer service.Mailer,
	sms service.SMSSender,
	gateway service.PaymentGateway,
	renderer service.PDFRenderer,
) *Services {
	auth := service.NewAuthenticator(codec, repos.Role, model.SuperLimits{
		MaxCommissionPercent: cfg.Admin.MaxCommissionPercent,
		MinCommissionPercent: cfg.Admin.MinCommissionPercent,
		ProductLimit:         cfg.Admin.ProductLimit,
		CouponLimit:          cfg.Admin.CouponLimit,
	})

	s := &Services{Auth: auth}
	s.Admin = service.NewAdminService(repos.Admin, repos.Role, auth)
	s.Role = service.NewRoleService(repos.Role)
	s.Tenant = service.NewTenantService(repos.Tenant, repos.Role, auth)
	s.User = service.NewUserService(repos.User, repos.OTP, auth, mailer, sms)
	s.Product = service.NewProductService(repos.Product, repos.Category, repos.Brand)
	s.Sku = service.NewSkuService(repos.Sku, repos.Product, repos.Warehouse)
	s.Category = service.NewCategoryService(repos.Category)
	s.Brand = service.NewBrandService(repos.Brand)
	s.Warehouse = service.NewWarehouseService(repos.Warehouse)
	s.Coupon = service.NewCouponService(repos.Coupon)
	s.Invoice = service.NewInvoiceService(repos.Invoice, repos.Transaction, repos.Tenant, repos.User, repos.Settings, renderer, storage)
	s.Payment = service.NewPaymentService(
		repos.Transaction, repos.Product, repos.Sku, repos.User,
		s.Coupon, s.Invoice, gateway, mailer, cfg.Payment.Currency,
	)
	s.Report = service.NewReportService(repos.Transaction, repos.Tenant, repos.Settings)
	s.Settings = service.NewSettingsService(repos.Settings, cfg.Payment.Currency)
	return s
}

// initControllers 初始化所有控制器
func initControllers(svc *Services) *router.Controllers {
	return &router.Controllers{
		Admin:     controller.NewAdminController(svc.Admin),
		Role:      controller.NewRoleController(svc.Role),
		Tenant:    controller.NewTenantController(svc.Tenant),
		User:      controller.NewUserController(svc.User),
		Product:   controller.NewProductController(svc.Product, svc.Sku),
		Category:  controller.NewCategoryController(svc.Category),
		Brand:     controller.NewBrandController(svc.Brand),
		Warehouse: controller.NewWarehouseController(svc.Warehouse),
		Coupon:    controller.NewCouponController(svc.Coupon),
		Payment:   controller.NewPaymentController(svc.Payment, svc.Invoice),
		Report:    controller.NewReportController(svc.Report),
		Settings:  controller.NewSettingsController(svc.Settings),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(cfg *config.AppConfig, deps *Dependencies, log *zap.Logger) *task.TaskManager {
	tm, err := task.NewTaskManager(&task.TaskManagerDeps{
		Coupons: deps.Services.Coupon,
	}, &task.TaskManagerConfig{
		CouponSweepEnabled: cfg.Tasks.CouponSweepEnabled,
		CouponSweepSpec:    cfg.Tasks.CouponSweepSpec,
	})
	if err != nil {
		log.Fatal("定时任务初始化失败", zap.Error(err))
	}
	tm.Start()
	return tm
}

// ==================== 服务启动 ====================

// startServer 启动服务，收到退出信号后依次关闭 HTTP、定时任务和连接
func startServer(cfg *config.AppConfig, r *gin.Engine, tasks *task.TaskManager, deps *Dependencies, log *zap.Logger) {
	addr := ":" + strconv.Itoa(cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 异步启动服务
	go func() {
		log.Info("服务启动", zap.String("addr", addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("服务强制关闭", zap.Error(err))
	}
	if err := tasks.Stop(ctx); err != nil {
		log.Warn("定时任务未能按时停止", zap.Error(err))
	}
	if err := deps.Redis.Close(); err != nil {
		log.Warn("关闭 Redis 失败", zap.Error(err))
	}
	if sqlDB, err := deps.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("服务已退出")
}
