package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/internal/testutil"
	"mall_saas_202610/pkg/apperr"
	"mall_saas_202610/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ==================== 外部依赖替身 ====================

type fakeMailer struct {
	mu   sync.Mutex
	sent []MailMessage
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) Sent() []MailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MailMessage(nil), m.sent...)
}

type smsRecord struct {
	To   string
	Body string
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []smsRecord
	err  error
}

func (s *fakeSMS) Send(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, smsRecord{To: to, Body: body})
	return nil
}

func (s *fakeSMS) Last() smsRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return smsRecord{}
	}
	return s.sent[len(s.sent)-1]
}

const gatewaySecret = "gateway-secret"

type fakeGateway struct {
	mu     sync.Mutex
	seq    int
	orders []GatewayOrder
	err    error
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.seq++
	order := GatewayOrder{
		ID:       "order_" + string(rune('A'+g.seq-1)),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}
	g.orders = append(g.orders, order)
	return &order, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return utils.VerifyHMACSHA256(gatewaySecret, orderID+"|"+paymentID, signature)
}

func (g *fakeGateway) KeyID() string { return "key_test" }

type fakeRenderer struct {
	calls int
	err   error
}

func (r *fakeRenderer) Render(_ context.Context, html []byte) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return append([]byte("%PDF-1.4\n"), html[:16]...), nil
}

// ==================== 测试环境 ====================

type fixture struct {
	db    *gorm.DB
	codec *middleware.TokenCodec
	auth  *Authenticator
	mr    *miniredis.Miniredis

	adminRepo     repository.AdminRepository
	roleRepo      repository.RoleRepository
	tenantRepo    repository.TenantRepository
	userRepo      repository.UserRepository
	productRepo   repository.ProductRepository
	skuRepo       repository.SkuRepository
	categoryRepo  repository.CategoryRepository
	brandRepo     repository.BrandRepository
	warehouseRepo repository.WarehouseRepository
	couponRepo    repository.CouponRepository
	txRepo        repository.TransactionRepository
	invoiceRepo   repository.InvoiceRepository
	settingsRepo  repository.SettingsRepository
	otpRepo       repository.OTPRepository

	mailer   *fakeMailer
	sms      *fakeSMS
	gateway  *fakeGateway
	renderer *fakeRenderer
}

var testSuper = model.SuperLimits{MaxCommissionPercent: 50, MinCommissionPercent: 1, ProductLimit: 1000, CouponLimit: 1000}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		db: db,
		codec: middleware.NewTokenCodec(middleware.JWTConfig{
			SecretKey: "service-test-secret-0123",
			TokenTTL:  time.Hour,
			Issuer:    "mall-test",
		}),
		mr:            mr,
		adminRepo:     repository.NewAdminRepository(db),
		roleRepo:      repository.NewRoleRepository(db),
		tenantRepo:    repository.NewTenantRepository(db),
		userRepo:      repository.NewUserRepository(db),
		productRepo:   repository.NewProductRepository(db),
		skuRepo:       repository.NewSkuRepository(db),
		categoryRepo:  repository.NewCategoryRepository(db),
		brandRepo:     repository.NewBrandRepository(db),
		warehouseRepo: repository.NewWarehouseRepository(db),
		couponRepo:    repository.NewCouponRepository(db),
		txRepo:        repository.NewTransactionRepository(db),
		invoiceRepo:   repository.NewInvoiceRepository(db),
		settingsRepo:  repository.NewSettingsRepository(db),
		otpRepo:       repository.NewOTPRepository(client),
		mailer:        &fakeMailer{},
		sms:           &fakeSMS{},
		gateway:       &fakeGateway{},
		renderer:      &fakeRenderer{},
	}
	f.auth = NewAuthenticator(f.codec, f.roleRepo, testSuper)
	return f
}

// seedTenant 创建商户，密码为 Secret1!
func (f *fixture) seedTenant(t *testing.T, email string, roleID *int64) *model.Tenant {
	t.Helper()
	hash, err := HashPassword("Secret1!")
	require.NoError(t, err)
	tenant := &model.Tenant{Name: "Seller", Email: email, PasswordHash: hash, StoreName: "Store " + email, RoleID: roleID}
	require.NoError(t, f.tenantRepo.Create(context.Background(), tenant))
	return tenant
}

func (f *fixture) seedUser(t *testing.T, email, phone string) *model.User {
	t.Helper()
	hash, err := HashPassword("Secret1!")
	require.NoError(t, err)
	user := &model.User{Name: "Buyer", Email: email, Phone: phone, PasswordHash: hash}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user
}

func (f *fixture) seedCategory(t *testing.T, slug string) *model.Category {
	t.Helper()
	c := &model.Category{Name: slug, Slug: slug, Level: model.CategoryLevelRoot, Active: true}
	require.NoError(t, f.categoryRepo.Create(context.Background(), c))
	return c
}

func tenantActor(id int64, p model.ProductPermissions) Actor {
	return Actor{ID: id, Type: model.SubjectTenant, Snapshot: model.PermissionSnapshot{ProductPermissions: p}}
}

func adminActor() Actor {
	return Actor{ID: 1, Type: model.SubjectAdmin, Snapshot: model.SuperSnapshot(testSuper)}
}

func userActor(id int64) Actor {
	return Actor{ID: id, Type: model.SubjectUser}
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected *apperr.Error, got %T: %v", err, err)
	require.Equal(t, kind, appErr.Kind, appErr.Message)
}
