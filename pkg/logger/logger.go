package logger

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	lg   *zap.Logger
	once sync.Once
)

// RequestIDKey 请求 ID 在 context 中的 key
type RequestIDKey struct{}

// New 创建全局 zap.Logger（单例）
// env 为 production 时使用 JSON 输出，否则使用彩色开发模式
func New(env string) (*zap.Logger, error) {
	var err error
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		if env != "production" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		lg, err = cfg.Build()
	})
	return lg, err
}

// L 获取全局 Logger，未初始化时返回 Nop
func L() *zap.Logger {
	if lg == nil {
		return zap.NewNop()
	}
	return lg
}

// WithContext 附带请求级字段
func WithContext(ctx context.Context) *zap.Logger {
	l := L()
	if ctx == nil {
		return l
	}
	if id, ok := ctx.Value(RequestIDKey{}).(string); ok && id != "" {
		return l.With(zap.String("request_id", id))
	}
	return l
}

// ==================== 脱敏 ====================

// MaskEmail 邮箱脱敏: john.doe@example.com -> joh***@example.com
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	prefix := email[:at]
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return prefix + "***" + email[at:]
}

// MaskPhone 手机号脱敏，仅保留后 4 位
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return "***"
	}
	return "***" + phone[len(phone)-4:]
}

// MaskIP IPv4 仅保留前两段
func MaskIP(ip string) string {
	parts := strings.Split(ip, ".")
	if len(parts) == 4 {
		return parts[0] + "." + parts[1] + ".*.*"
	}
	if strings.Contains(ip, ":") {
		groups := strings.Split(ip, ":")
		if len(groups) >= 4 {
			return strings.Join(groups[:4], ":") + ":*:*:*:*"
		}
	}
	return "***"
}
