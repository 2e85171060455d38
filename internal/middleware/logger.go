package middleware

import (
	"time"

	"mall_saas_202610/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog 访问日志，客户端 IP 脱敏
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", logger.MaskIP(c.ClientIP())),
		}
		if id, ok := c.Request.Context().Value(logger.RequestIDKey{}).(string); ok {
			fields = append(fields, zap.String("request_id", id))
		}
		if claims := GetClaims(c); claims != nil {
			fields = append(fields,
				zap.Int64("subject_id", claims.SubjectID),
				zap.String("subject_type", string(claims.SubjectType)),
			)
		}

		// 5xx 记为 error，其余错误（4xx）记为 warn
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			if c.Writer.Status() >= 500 {
				log.Error("request failed", fields...)
			} else {
				log.Warn("request rejected", fields...)
			}
			return
		}

		log.Info("request completed", fields...)
	}
}
