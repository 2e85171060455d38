package task

import (
	"context"
	"sync/atomic"
	"time"

	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/pkg/logger"

	"go.uber.org/zap"
)

// CouponSweeper 停用过期优惠券
type CouponSweeper interface {
	DeactivateExpired(ctx context.Context) (int64, error)
}

// CouponExpiryTask 过期优惠券清理
// 仅做状态收敛：应用优惠券时仍会按有效期实时校验
type CouponExpiryTask struct {
	sweeper CouponSweeper
	timeout time.Duration
	running atomic.Bool
}

func NewCouponExpiryTask(sweeper CouponSweeper) *CouponExpiryTask {
	return &CouponExpiryTask{
		sweeper: sweeper,
		timeout: 2 * time.Minute,
	}
}

// SetTimeout 单轮超时
func (t *CouponExpiryTask) SetTimeout(d time.Duration) {
	if d > 0 {
		t.timeout = d
	}
}

// Run 执行一轮清理，上一轮尚未结束时直接跳过
func (t *CouponExpiryTask) Run(ctx context.Context) (int64, error) {
	if !t.running.CompareAndSwap(false, true) {
		return 0, ErrTaskRunning
	}
	defer t.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	ctx = middleware.WithAuditInfo(ctx, 0, model.SubjectSystem)

	start := time.Now()
	n, err := t.sweeper.DeactivateExpired(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("[Task] 过期优惠券清理失败", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		logger.WithContext(ctx).Info("[Task] 已停用过期优惠券",
			zap.Int64("count", n),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return n, nil
}
