package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/controller"
	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/internal/service"
	"mall_saas_202610/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}
}

// ==================== 外部依赖替身 ====================

type nopMailer struct{}

func (nopMailer) Send(context.Context, service.MailMessage) error { return nil }

type nopSMS struct{}

func (nopSMS) Send(context.Context, string, string) error { return nil }

type nopGateway struct{}

func (nopGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*service.GatewayOrder, error) {
	return &service.GatewayOrder{ID: "order_" + receipt, Amount: amount, Currency: currency, Receipt: receipt}, nil
}
func (nopGateway) VerifySignature(string, string, string) bool { return false }
func (nopGateway) KeyID() string                               { return "key_test" }

type nopRenderer struct{}

func (nopRenderer) Render(_ context.Context, html []byte) ([]byte, error) { return html, nil }

type nopStorage struct{}

func (nopStorage) Upload(_ context.Context, _ []byte, filename, _ string) (string, error) {
	return "https://cdn.test/" + filename, nil
}
func (nopStorage) Delete(context.Context, string) error { return nil }

// ==================== 测试环境 ====================

var super = model.SuperLimits{MaxCommissionPercent: 40, MinCommissionPercent: 1, ProductLimit: 100, CouponLimit: 100}

type server struct {
	engine *gin.Engine
	codec  *middleware.TokenCodec
}

func newServer(t *testing.T) *server {
	t.Helper()
	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	codec := middleware.NewTokenCodec(middleware.JWTConfig{SecretKey: "router-test-secret-0123", TokenTTL: time.Hour, Issuer: "mall-test"})

	adminRepo := repository.NewAdminRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	skuRepo := repository.NewSkuRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	otpRepo := repository.NewOTPRepository(rdb)

	auth := service.NewAuthenticator(codec, roleRepo, super)
	coupons := service.NewCouponService(couponRepo)
	invoices := service.NewInvoiceService(invoiceRepo, txRepo, tenantRepo, userRepo, settingsRepo, nopRenderer{}, nopStorage{})
	srv := &server{codec: codec}

	ctl := &Controllers{
		Admin:     controller.NewAdminController(service.NewAdminService(adminRepo, roleRepo, auth)),
		Role:      controller.NewRoleController(service.NewRoleService(roleRepo)),
		Tenant:    controller.NewTenantController(service.NewTenantService(tenantRepo, roleRepo, auth)),
		User:      controller.NewUserController(service.NewUserService(userRepo, otpRepo, auth, nopMailer{}, nopSMS{})),
		Product:   controller.NewProductController(service.NewProductService(productRepo, categoryRepo, brandRepo), service.NewSkuService(skuRepo, productRepo, warehouseRepo)),
		Category:  controller.NewCategoryController(service.NewCategoryService(categoryRepo)),
		Brand:     controller.NewBrandController(service.NewBrandService(brandRepo)),
		Warehouse: controller.NewWarehouseController(service.NewWarehouseService(warehouseRepo)),
		Coupon:    controller.NewCouponController(coupons),
		Payment: controller.NewPaymentController(
			service.NewPaymentService(txRepo, productRepo, skuRepo, userRepo, coupons, invoices, nopGateway{}, nopMailer{}, "INR"),
			invoices,
		),
		Report:   controller.NewReportController(service.NewReportService(txRepo, tenantRepo, settingsRepo)),
		Settings: controller.NewSettingsController(service.NewSettingsService(settingsRepo, "INR")),
	}

	reg := prometheus.NewRegistry()
	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{Registerer: reg})
	require.NoError(t, err)

	srv.engine = SetupRouter(Infra{Codec: codec, DB: db, Metrics: metrics, Gatherer: reg}, ctl)
	return srv
}

func (s *server) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out map[string]any
	if bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func (s *server) token(t *testing.T, id int64, typ model.SubjectType, snapshot model.PermissionSnapshot) string {
	t.Helper()
	token, err := s.codec.Issue(middleware.TokenPayload{SubjectID: id, SubjectType: typ, Snapshot: snapshot})
	require.NoError(t, err)
	return token
}

func (s *server) superToken(t *testing.T) string {
	return s.token(t, 1, model.SubjectAdmin, model.SuperSnapshot(super))
}

// ==================== 场景 ====================

func TestTenantSignupAndLogin(t *testing.T) {
	s := newServer(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/tenant/signup", "", dto.TenantSignupReq{
		Name: "Asha", Email: "Asha@Shop.com", Password: "Secret1!x", Phone: "+919876543210", StoreName: "Asha Crafts",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tenantID := int64(body["data"].(map[string]any)["tenant"].(map[string]any)["id"].(float64))

	w, body = s.do(t, http.MethodPost, "/api/v1/tenant/login", "", dto.LoginReq{Email: "asha@shop.com", Password: "Secret1!x"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := body["data"].(map[string]any)["token"].(string)

	claims, ok := s.codec.Verify(token)
	require.True(t, ok)
	assert.Equal(t, tenantID, claims.SubjectID)
	assert.Equal(t, model.SubjectTenant, claims.SubjectType)
	assert.False(t, claims.ProductPermissions.ManageProducts)

	w, body = s.do(t, http.MethodGet, "/api/v1/tenant/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Asha Crafts", body["data"].(map[string]any)["storeName"])

	w, body = s.do(t, http.MethodPost, "/api/v1/tenant/login", "", dto.LoginReq{Email: "asha@shop.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", body["message"])
}

func TestInsufficientPermissionIsForbidden(t *testing.T) {
	s := newServer(t)
	snapshot := model.PermissionSnapshot{UserPermissions: model.UserPermissions{SalesReports: false, ManageAdmins: true}}
	token := s.token(t, 5, model.SubjectAdmin, snapshot)

	w, body := s.do(t, http.MethodGet, "/api/v1/reports/sales", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized", body["message"])

	// 同一凭证可访问 manageAdmins 路由
	w, _ = s.do(t, http.MethodGet, "/api/v1/admins", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissingAndInvalidCredential(t *testing.T) {
	s := newServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/v1/tenant/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/tenant/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 公开路由不需要凭证
	w, _ = s.do(t, http.MethodGet, "/api/v1/settings", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteMissingAdmin(t *testing.T) {
	s := newServer(t)

	w, body := s.do(t, http.MethodDelete, "/api/v1/admins/9999", s.superToken(t), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Admin not found", body["message"])
	assert.Equal(t, "NotFound", body["kind"])
}

func TestAdminCRUDAndPagination(t *testing.T) {
	s := newServer(t)
	token := s.superToken(t)

	for i := 0; i < 3; i++ {
		w, _ := s.do(t, http.MethodPost, "/api/v1/admins", token, dto.CreateAdminReq{
			Name: "Ops " + strconv.Itoa(i), Email: "ops" + strconv.Itoa(i) + "@mall.com", Password: "Secret1!x",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, body := s.do(t, http.MethodPost, "/api/v1/admins", token, dto.CreateAdminReq{
		Name: "Dup", Email: "ops0@mall.com", Password: "Secret1!x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already exists", body["message"])

	w, body = s.do(t, http.MethodGet, "/api/v1/admins?itemsPerPage=2&pageNo=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(3), data["total"])
	assert.Equal(t, float64(2), data["totalPages"])
	assert.Equal(t, float64(2), data["page"])
	assert.Len(t, data["items"], 1)

	// pageCount 与 pageNo 等价
	w, body = s.do(t, http.MethodGet, "/api/v1/admins?itemsPerPage=2&pageCount=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"].(map[string]any)["items"], 2)
}

func TestValidationRejectsBeforeGate(t *testing.T) {
	s := newServer(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/admin/login", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/admins/abc", s.superToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCouponDuplicateOverHTTP(t *testing.T) {
	s := newServer(t)
	token := s.superToken(t)
	now := time.Now()
	req := dto.CreateCouponReq{
		Code: "SAVE10", DiscountType: model.DiscountPercent, DiscountValue: 10,
		StartsAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Hour),
	}

	w, _ := s.do(t, http.MethodPost, "/api/v1/coupons", token, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, body := s.do(t, http.MethodPost, "/api/v1/coupons", token, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Coupon code already exists", body["message"])
}

func TestNoDataMapsTo500(t *testing.T) {
	s := newServer(t)

	w, body := s.do(t, http.MethodGet, "/api/v1/categories/root", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Unable to get root categories", body["message"])
	assert.Equal(t, "NoData", body["kind"])
}

func TestPaymentVerifyUnknownOrder(t *testing.T) {
	s := newServer(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/payments/verify", s.token(t, 3, model.SubjectUser, model.PermissionSnapshot{}), dto.VerifyPaymentReq{
		OrderID: "order_missing", PaymentID: "pay_1", Signature: "ab" + string(bytes.Repeat([]byte("0"), 62)),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Transaction not found", body["message"])
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	w, body := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	s.do(t, http.MethodGet, "/api/v1/reports/sales", "", nil)

	w, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mall_http_requests_total")
	assert.Contains(t, w.Body.String(), `reason="missing_credential"`)
}

func TestUnknownRoute(t *testing.T) {
	s := newServer(t)
	w, body := s.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", body["message"])
}
