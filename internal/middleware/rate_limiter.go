package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"mall_saas_202610/internal/api/response"
	"mall_saas_202610/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// ==================== CooldownLimiter 冷却限流器 ====================

// CooldownLimiter 进程内冷却限流器
// 同一个 key 在冷却间隔内只允许执行一次
type CooldownLimiter struct {
	locks sync.Map // key -> *lockEntry
	now   func() time.Time
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

func NewCooldownLimiter() *CooldownLimiter {
	return &CooldownLimiter{now: time.Now}
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行，允许时记录本次执行时间
func (r *CooldownLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := r.now()
	elapsed := now.Sub(entry.lastTime)

	if !entry.lastTime.IsZero() && elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Reset 重置指定 key
func (r *CooldownLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Gin 中间件 ====================

// Cooldown 按客户端 IP 冷却限流
// scope 用于区分不同接口
func Cooldown(limiter *CooldownLimiter, scope string, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		result := limiter.Check(key, interval)
		if !result.Allowed {
			seconds := int(math.Ceil(result.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
			response.Fail(c, apperr.BadRequest("Too many requests, please retry later").
				WithCode("COOLDOWN").
				WithDetails(gin.H{"retryAfter": seconds}))
			return
		}

		c.Next()
	}
}
