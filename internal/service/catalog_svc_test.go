package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== 优惠券 ====================

func couponReq(code string) *dto.CreateCouponReq {
	now := time.Now()
	return &dto.CreateCouponReq{
		Code:          code,
		DiscountType:  model.DiscountPercent,
		DiscountValue: 10,
		MaxDiscount:   5000,
		StartsAt:      now.Add(-time.Hour),
		ExpiresAt:     now.Add(24 * time.Hour),
	}
}

func TestCouponService_DuplicateCodeSequential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCouponService(f.couponRepo)

	_, err := svc.Create(ctx, adminActor(), couponReq("SAVE10"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, adminActor(), couponReq("SAVE10"))
	require.ErrorIs(t, err, ErrCouponExists)
	requireKind(t, err, apperr.KindBadRequest)
}

func TestCouponService_DuplicateCodeConcurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCouponService(f.couponRepo)

	const n = 2
	var (
		wg   sync.WaitGroup
		errs = make([]error, n)
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Create(ctx, adminActor(), couponReq("SAVE10"))
		}(i)
	}
	close(start)
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		// 预检查或唯一索引任一层拦截均可
		assert.ErrorIs(t, err, ErrCouponExists)
	}
	assert.Equal(t, 1, ok)
}

func TestCouponService_Apply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCouponService(f.couponRepo)

	req := couponReq("save10")
	req.MinOrderAmount = 10000
	req.MaxDiscount = 1500
	coupon, err := svc.Create(ctx, adminActor(), req)
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", coupon.Code)

	resp, err := svc.Apply(ctx, &dto.ApplyCouponReq{Code: "SAVE10", OrderAmount: 12000})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), resp.Discount)
	assert.Equal(t, int64(10800), resp.FinalAmount)

	// 上限
	resp, err = svc.Apply(ctx, &dto.ApplyCouponReq{Code: "save10", OrderAmount: 50000})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), resp.Discount)

	_, err = svc.Apply(ctx, &dto.ApplyCouponReq{Code: "SAVE10", OrderAmount: 5000})
	assert.ErrorIs(t, err, ErrCouponMinOrder)

	_, err = svc.Apply(ctx, &dto.ApplyCouponReq{Code: "NOPE", OrderAmount: 5000})
	assert.ErrorIs(t, err, ErrCouponNotFound)

	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = svc.Apply(ctx, &dto.ApplyCouponReq{Code: "SAVE10", OrderAmount: 12000})
	assert.ErrorIs(t, err, ErrCouponExpired)

	n, err := svc.DeactivateExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = svc.Apply(ctx, &dto.ApplyCouponReq{Code: "SAVE10", OrderAmount: 12000})
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestCouponService_UsageLimitAndTenantScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCouponService(f.couponRepo)
	seller := tenantActor(7, model.ProductPermissions{ManageCoupons: true, CouponLimit: 1})

	req := couponReq("ONCE")
	req.DiscountType = model.DiscountFlat
	req.DiscountValue = 300
	req.UsageLimit = 1
	_, err := svc.Create(ctx, seller, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, seller, couponReq("TWICE"))
	assert.ErrorIs(t, err, ErrCouponLimitReached)

	_, err = svc.Apply(ctx, &dto.ApplyCouponReq{Code: "ONCE", OrderAmount: 1000, TenantID: 8})
	assert.ErrorIs(t, err, ErrCouponNotApplicable)

	resp, err := svc.Apply(ctx, &dto.ApplyCouponReq{Code: "ONCE", OrderAmount: 1000, TenantID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(300), resp.Discount)

	require.NoError(t, svc.Redeem(ctx, "ONCE"))
	_, err = svc.Apply(ctx, &dto.ApplyCouponReq{Code: "ONCE", OrderAmount: 1000, TenantID: 7})
	assert.ErrorIs(t, err, ErrCouponUsedUp)

	// 其他商户无法查看
	list, total, err := svc.List(ctx, tenantActor(8, model.ProductPermissions{}), &dto.TenantQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

// ==================== 分类 ====================

func TestCategoryService_TreeFanOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCategoryService(f.categoryRepo)

	_, err := svc.Roots(ctx)
	require.ErrorIs(t, err, ErrNoRootCategories)
	requireKind(t, err, apperr.KindNoData)

	root, outcomes, err := svc.Create(ctx, &dto.CreateCategoryReq{Name: "Fashion", Slug: "fashion"})
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.Equal(t, model.CategoryLevelRoot, root.Level)

	main, outcomes, err := svc.Create(ctx, &dto.CreateCategoryReq{Name: "Men", Slug: "men", ParentID: root.ID})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].OK())
	assert.Equal(t, model.CategoryLevelMain, main.Level)

	child, outcomes, err := svc.Create(ctx, &dto.CreateCategoryReq{Name: "Shirts", Slug: "shirts", ParentID: main.ID})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, model.CategoryLevelChild, child.Level)
	assert.Equal(t, []int64{root.ID, main.ID}, []int64(child.ParentIDs))

	_, _, err = svc.Create(ctx, &dto.CreateCategoryReq{Name: "Too deep", Slug: "too-deep", ParentID: child.ID})
	assert.ErrorIs(t, err, ErrCategoryTooDeep)

	_, _, err = svc.Create(ctx, &dto.CreateCategoryReq{Name: "Dup", Slug: "men"})
	assert.ErrorIs(t, err, ErrCategorySlugExists)

	storedRoot, err := svc.Get(ctx, root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{main.ID, child.ID}, []int64(storedRoot.ChildrenIDs))

	children, err := svc.Children(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, main.ID, children[0].ID)

	roots, err := svc.Roots(ctx)
	require.NoError(t, err)
	assert.Len(t, roots, 1)

	_, err = svc.Delete(ctx, main.ID)
	assert.ErrorIs(t, err, ErrCategoryHasChildren)

	outcomes, err = svc.Delete(ctx, child.ID)
	require.NoError(t, err)
	assert.Len(t, outcomes, 2)

	storedRoot, err = svc.Get(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{main.ID}, []int64(storedRoot.ChildrenIDs))
}

func TestCategoryService_FanOutToleratesMissingParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCategoryService(f.categoryRepo)

	root, _, err := svc.Create(ctx, &dto.CreateCategoryReq{Name: "Home", Slug: "home"})
	require.NoError(t, err)
	main, _, err := svc.Create(ctx, &dto.CreateCategoryReq{Name: "Kitchen", Slug: "kitchen", ParentID: root.ID})
	require.NoError(t, err)

	// 根分类被直接删除后，子分类创建仍成功，仅该上级更新失败
	_, err = f.categoryRepo.Delete(ctx, root.ID)
	require.NoError(t, err)

	child, outcomes, err := svc.Create(ctx, &dto.CreateCategoryReq{Name: "Pans", Slug: "pans", ParentID: main.ID})
	require.NoError(t, err)
	require.NotNil(t, child)
	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].OK())
	assert.True(t, outcomes[1].OK())
}

// ==================== 商品 / SKU ====================

func TestProductService_LimitAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewProductService(f.productRepo, f.categoryRepo, f.brandRepo)
	category := f.seedCategory(t, "books")

	seller := tenantActor(10, model.ProductPermissions{ManageProducts: true, ProductLimit: 1})
	product, err := svc.Create(ctx, seller, &dto.CreateProductReq{Name: "Go Book", CategoryID: category.ID, Price: 49900})
	require.NoError(t, err)
	assert.Equal(t, model.ScopeTenant, product.Scope)
	assert.Equal(t, model.ProductStatusPending, product.Status)
	assert.Equal(t, "go-book", product.Slug)

	_, err = svc.Create(ctx, seller, &dto.CreateProductReq{Name: "Second", CategoryID: category.ID})
	assert.ErrorIs(t, err, ErrProductLimitReached)

	_, err = svc.Create(ctx, seller, &dto.CreateProductReq{Name: "Orphan", CategoryID: 999})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	other := tenantActor(11, model.ProductPermissions{ManageProducts: true, ProductLimit: 10})
	name := "Hijacked"
	_, err = svc.Update(ctx, other, product.ID, &dto.UpdateProductReq{Name: &name})
	requireKind(t, err, apperr.KindForbidden)
	requireKind(t, svc.Delete(ctx, other, product.ID), apperr.KindForbidden)

	approved, err := svc.Approve(ctx, product.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusApproved, approved.Status)

	// 商户修改后重新进入审核
	price := int64(39900)
	updated, err := svc.Update(ctx, seller, product.ID, &dto.UpdateProductReq{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusPending, updated.Status)

	require.NoError(t, svc.Delete(ctx, adminActor(), product.ID))
	_, err = svc.Get(ctx, product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSkuService_CreateAppendsToProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	products := NewProductService(f.productRepo, f.categoryRepo, f.brandRepo)
	svc := NewSkuService(f.skuRepo, f.productRepo, f.warehouseRepo)
	category := f.seedCategory(t, "shoes")

	seller := tenantActor(3, model.ProductPermissions{ManageProducts: true, ManageSkus: true, ProductLimit: 5})
	product, err := products.Create(ctx, seller, &dto.CreateProductReq{Name: "Runner", CategoryID: category.ID})
	require.NoError(t, err)

	sku, err := svc.Create(ctx, seller, &dto.CreateSkuReq{
		ProductID: product.ID, Code: "RUN42", Price: 2999, Stock: 5,
		Attributes: map[string]any{"size": "42"},
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, seller, &dto.CreateSkuReq{ProductID: product.ID, Code: "RUN42"})
	assert.ErrorIs(t, err, ErrSkuCodeExists)

	stored, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{sku.ID}, []int64(stored.SkuIDs))

	_, err = svc.Create(ctx, tenantActor(4, model.ProductPermissions{ManageSkus: true}), &dto.CreateSkuReq{ProductID: product.ID, Code: "X1"})
	requireKind(t, err, apperr.KindForbidden)

	require.NoError(t, svc.Delete(ctx, seller, sku.ID))
	stored, err = products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.SkuIDs)
}

// ==================== 品牌 / 仓库 ====================

func TestBrandService_NameUniqueWithinTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewBrandService(f.brandRepo)

	_, err := svc.Create(ctx, tenantActor(1, model.ProductPermissions{}), &dto.BrandReq{Name: "Acme"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, tenantActor(1, model.ProductPermissions{}), &dto.BrandReq{Name: "Acme"})
	assert.ErrorIs(t, err, ErrBrandExists)

	// 不同商户可使用同名品牌
	_, err = svc.Create(ctx, tenantActor(2, model.ProductPermissions{}), &dto.BrandReq{Name: "Acme"})
	require.NoError(t, err)

	list, total, err := svc.List(ctx, tenantActor(2, model.ProductPermissions{}), &dto.TenantQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(2), list[0].TenantID)
}

func TestWarehouseService_CapacityLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewWarehouseService(f.warehouseRepo)

	seller := Actor{ID: 5, Type: model.SubjectTenant, Snapshot: model.PermissionSnapshot{
		Capacity: model.Capacity{WarehouseLimit: 1},
	}}
	req := &dto.WarehouseReq{Name: "Main", Address: "1 Road", City: "Pune", Pincode: "411001"}

	wh, err := svc.Create(ctx, seller, req)
	require.NoError(t, err)
	assert.True(t, wh.Active)

	_, err = svc.Create(ctx, seller, req)
	assert.ErrorIs(t, err, ErrWarehouseLimitReached)

	err = svc.Delete(ctx, Actor{ID: 6, Type: model.SubjectTenant}, wh.ID)
	requireKind(t, err, apperr.KindForbidden)
	require.NoError(t, svc.Delete(ctx, seller, wh.ID))
}
