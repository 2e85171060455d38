package middleware_test

import (
	"context"
	"testing"
	"time"

	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditCallbacks_StampSubject(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCouponRepository(db)
	now := time.Now()

	tenantCtx := middleware.WithAuditInfo(context.Background(), 7, model.SubjectTenant)
	coupon := &model.Coupon{
		Code: "AUDIT1", DiscountType: model.DiscountFlat, DiscountValue: 100,
		StartsAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour), Active: true,
	}
	require.NoError(t, repo.Create(tenantCtx, coupon))
	assert.Equal(t, int64(7), coupon.CreatedBy)
	assert.Equal(t, model.SubjectTenant, coupon.CreatedByType)
	assert.Equal(t, model.SubjectTenant, coupon.UpdatedByType)

	// 按列更新同样写入更新人
	adminCtx := middleware.WithAuditInfo(context.Background(), 3, model.SubjectAdmin)
	n, err := repo.DeactivateExpired(adminCtx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(context.Background(), coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.CreatedBy)
	assert.Equal(t, int64(3), got.UpdatedBy)
	assert.Equal(t, model.SubjectAdmin, got.UpdatedByType)

	// 无审计主体时保持原值
	got.MaxDiscount = 50
	require.NoError(t, repo.Update(context.Background(), got))
	got, err = repo.GetByID(context.Background(), coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.UpdatedBy)
	assert.Equal(t, model.SubjectAdmin, got.UpdatedByType)
}

func TestGetAuditInfo_PrefersExplicit(t *testing.T) {
	assert.Nil(t, middleware.GetAuditInfo(context.Background()))

	ctx := middleware.WithAuditInfo(context.Background(), 0, model.SubjectSystem)
	info := middleware.GetAuditInfo(ctx)
	require.NotNil(t, info)
	assert.Equal(t, model.SubjectSystem, info.SubjectType)
}
