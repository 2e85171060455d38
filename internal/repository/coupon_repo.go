package repository

import (
	"context"
	"time"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// CouponRepository 优惠券仓库接口
type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	GetByID(ctx context.Context, id int64) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id int64) (bool, error)
	CountByTenant(ctx context.Context, tenantID int64) (int64, error)
	List(ctx context.Context, tenantID int64, p Pagination) ([]model.Coupon, int64, error)
	IncrementUsage(ctx context.Context, id int64) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type couponRepository struct {
	crudRepo[model.Coupon]
}

// NewCouponRepository 创建优惠券仓库
func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{crudRepo[model.Coupon]{db: db}}
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return r.findOne(ctx, "code = ?", code)
}

func (r *couponRepository) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	return r.count(ctx, "tenant_id = ?", tenantID)
}

func (r *couponRepository) List(ctx context.Context, tenantID int64, p Pagination) ([]model.Coupon, int64, error) {
	return r.page(ctx, tenantScope(tenantID), p)
}

// IncrementUsage 使用次数 +1
func (r *couponRepository) IncrementUsage(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1)).Error
}

// DeactivateExpired 停用已过期的优惠券，返回影响行数
func (r *couponRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("active = ? AND expires_at < ?", true, now).
		Update("active", false)
	return res.RowsAffected, res.Error
}
