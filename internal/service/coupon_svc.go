package service

import (
	"context"
	"strings"
	"time"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"
)

type CouponService struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
}

func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo, now: time.Now}
}

// Create 新建优惠券
// 先查重再写入，并发写入时由唯一索引兜底
func (s *CouponService) Create(ctx context.Context, actor Actor, req *dto.CreateCouponReq) (*model.Coupon, error) {
	if req.DiscountType == model.DiscountPercent && req.DiscountValue > 100 {
		return nil, ErrCouponPercent
	}

	code := strings.ToUpper(req.Code)
	existing, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, internal(err)
	}
	if existing != nil {
		return nil, ErrCouponExists
	}

	coupon := &model.Coupon{
		Code:           code,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MaxDiscount:    req.MaxDiscount,
		MinOrderAmount: req.MinOrderAmount,
		UsageLimit:     req.UsageLimit,
		StartsAt:       req.StartsAt,
		ExpiresAt:      req.ExpiresAt,
		Active:         true,
	}

	if actor.IsTenant() {
		count, err := s.couponRepo.CountByTenant(ctx, actor.ID)
		if err != nil {
			return nil, internal(err)
		}
		if float64(count) >= actor.Snapshot.ProductPermissions.CouponLimit {
			return nil, ErrCouponLimitReached
		}
		tenantID := actor.ID
		coupon.TenantID = &tenantID
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrCouponExists
		}
		return nil, internal(err)
	}
	return coupon, nil
}

func (s *CouponService) Get(ctx context.Context, actor Actor, id int64) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if actor.IsTenant() && (coupon.TenantID == nil || *coupon.TenantID != actor.ID) {
		return nil, ErrForbiddenResource
	}
	return coupon, nil
}

func (s *CouponService) List(ctx context.Context, actor Actor, q *dto.TenantQuery) ([]model.Coupon, int64, error) {
	list, total, err := s.couponRepo.List(ctx, listTenant(actor, q.TenantID), PageOf(q.PageQuery))
	return list, total, internal(err)
}

func (s *CouponService) Update(ctx context.Context, actor Actor, id int64, req *dto.UpdateCouponReq) (*model.Coupon, error) {
	coupon, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.DiscountValue != nil {
		if coupon.DiscountType == model.DiscountPercent && *req.DiscountValue > 100 {
			return nil, ErrCouponPercent
		}
		coupon.DiscountValue = *req.DiscountValue
	}
	if req.MaxDiscount != nil {
		coupon.MaxDiscount = *req.MaxDiscount
	}
	if req.MinOrderAmount != nil {
		coupon.MinOrderAmount = *req.MinOrderAmount
	}
	if req.UsageLimit != nil {
		coupon.UsageLimit = *req.UsageLimit
	}
	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(coupon.StartsAt) {
			return nil, ErrCouponWindow
		}
		coupon.ExpiresAt = *req.ExpiresAt
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}
	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, internal(err)
	}
	return coupon, nil
}

func (s *CouponService) Delete(ctx context.Context, actor Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if _, err := s.couponRepo.Delete(ctx, id); err != nil {
		return internal(err)
	}
	return nil
}

// Apply 计算优惠金额，不占用使用次数
func (s *CouponService) Apply(ctx context.Context, req *dto.ApplyCouponReq) (*dto.ApplyCouponResp, error) {
	coupon, err := s.usable(ctx, req.Code, req.TenantID, req.OrderAmount)
	if err != nil {
		return nil, err
	}
	discount := coupon.Discount(req.OrderAmount)
	return &dto.ApplyCouponResp{
		Code:        coupon.Code,
		Discount:    discount,
		FinalAmount: req.OrderAmount - discount,
	}, nil
}

// usable 校验优惠券当前可用：启用、在有效期内、满足最低金额、未超次数、商户匹配
func (s *CouponService) usable(ctx context.Context, code string, tenantID, orderAmount int64) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, internal(err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	now := s.now()
	switch {
	case !coupon.Active:
		return nil, ErrCouponInactive
	case now.Before(coupon.StartsAt) || !now.Before(coupon.ExpiresAt):
		return nil, ErrCouponExpired
	case orderAmount < coupon.MinOrderAmount:
		return nil, ErrCouponMinOrder.WithDetails(map[string]int64{"minOrderAmount": coupon.MinOrderAmount})
	case coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit:
		return nil, ErrCouponUsedUp
	case coupon.TenantID != nil && *coupon.TenantID != tenantID:
		return nil, ErrCouponNotApplicable
	}
	return coupon, nil
}

// Redeem 支付成功后占用一次
func (s *CouponService) Redeem(ctx context.Context, code string) error {
	coupon, err := s.couponRepo.GetByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return internal(err)
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	return internal(s.couponRepo.IncrementUsage(ctx, coupon.ID))
}

// DeactivateExpired 停用已过期的优惠券
func (s *CouponService) DeactivateExpired(ctx context.Context) (int64, error) {
	n, err := s.couponRepo.DeactivateExpired(ctx, s.now())
	return n, internal(err)
}

var (
	ErrCouponNotFound      = apperr.NotFound("Coupon not found")
	ErrCouponExists        = apperr.BadRequest("Coupon code already exists")
	ErrCouponLimitReached  = apperr.BadRequest("Coupon limit reached").WithCode("COUPON_LIMIT")
	ErrCouponPercent       = apperr.BadRequest("Percent discount cannot exceed 100")
	ErrCouponWindow        = apperr.BadRequest("Coupon must expire after it starts")
	ErrCouponInactive      = apperr.BadRequest("Coupon is not active").WithCode("COUPON_INACTIVE")
	ErrCouponExpired       = apperr.BadRequest("Coupon is expired or not yet valid").WithCode("COUPON_EXPIRED")
	ErrCouponMinOrder      = apperr.BadRequest("Order amount is below the coupon minimum").WithCode("COUPON_MIN_ORDER")
	ErrCouponUsedUp        = apperr.BadRequest("Coupon usage limit reached").WithCode("COUPON_USED_UP")
	ErrCouponNotApplicable = apperr.BadRequest("Coupon is not valid for this store").WithCode("COUPON_TENANT")
)
