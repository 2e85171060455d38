package task

import (
	"context"
	"fmt"

	"mall_saas_202610/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ==================== TaskManager 定时任务管理器 ====================

// TaskManager 统一管理后台定时任务
// 所有任务共用一个 cron 调度器，panic 由 Recover 兜底
type TaskManager struct {
	cron       *cron.Cron
	couponTask *CouponExpiryTask
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	Coupons CouponSweeper
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	// 过期优惠券清理，cron 表达式带秒字段
	CouponSweepEnabled bool
	CouponSweepSpec    string
}

// DefaultConfig 默认配置：每 10 分钟清理一次
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		CouponSweepEnabled: true,
		CouponSweepSpec:    "0 */10 * * * *",
	}
}

// NewTaskManager 创建任务管理器，表达式非法时返回错误
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) (*TaskManager, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	log := cronLogger{l: logger.L()}
	tm := &TaskManager{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(log),
			cron.WithChain(cron.Recover(log)),
		),
	}

	// 过期优惠券清理
	if cfg.CouponSweepEnabled && deps.Coupons != nil {
		tm.couponTask = NewCouponExpiryTask(deps.Coupons)
		_, err := tm.cron.AddFunc(cfg.CouponSweepSpec, func() {
			_, _ = tm.couponTask.Run(context.Background())
		})
		if err != nil {
			return nil, fmt.Errorf("coupon sweep spec %q: %w", cfg.CouponSweepSpec, err)
		}
	}

	return tm, nil
}

// ==================== 生命周期管理 ====================

// Start 启动调度，启动时先执行一次清理
func (tm *TaskManager) Start() {
	logger.L().Info("[TaskManager] 正在启动定时任务...")

	if tm.couponTask != nil {
		go func() {
			_, _ = tm.couponTask.Run(context.Background())
		}()
	}
	tm.cron.Start()

	logger.L().Info("[TaskManager] 定时任务已启动", zap.Int("jobs", len(tm.cron.Entries())))
}

// Stop 停止调度并等待运行中的任务结束，ctx 到期时不再等待
func (tm *TaskManager) Stop(ctx context.Context) error {
	logger.L().Info("[TaskManager] 正在停止定时任务...")

	done := tm.cron.Stop()
	select {
	case <-done.Done():
		logger.L().Info("[TaskManager] 定时任务已全部停止")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ==================== 手动触发接口 ====================

// TriggerCouponSweep 立即执行一次过期优惠券清理
func (tm *TaskManager) TriggerCouponSweep(ctx context.Context) (int64, error) {
	if tm.couponTask == nil {
		return 0, ErrTaskDisabled
	}
	return tm.couponTask.Run(ctx)
}

// ==================== 状态查询 ====================

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"coupon_sweep": tm.couponTask != nil,
	}
}

// ==================== cron 日志适配 ====================

type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Debugw("[Cron] "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw("[Cron] "+msg, append(keysAndValues, "error", err)...)
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
	ErrTaskRunning  TaskError = "task is already running"
)
