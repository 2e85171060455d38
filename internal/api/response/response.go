package response

import (
	"errors"
	"net/http"

	"mall_saas_202610/pkg/apperr"
	"mall_saas_202610/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ==================== 响应结构 ====================

// Envelope 成功响应
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorBody 错误响应
type ErrorBody struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// HandlerFunc 返回 error 的处理函数，由 Wrap 统一转换为错误响应
type HandlerFunc func(c *gin.Context) error

// ==================== 成功响应 ====================

// OK 200
func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Message: message, Data: data})
}

// Created 201
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Message: message, Data: data})
}

// ==================== 错误响应 ====================

// Wrap 统一包装处理函数：返回的任何错误都交给 Fail 处理
func Wrap(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {
			Fail(c, err)
		}
	}
}

// Fail 集中的错误格式化
// 已知分类按对应状态码返回，无法识别的错误按 500 返回且不泄露原始信息
func Fail(c *gin.Context, err error) {
	if err == nil {
		return
	}
	appErr := apperr.From(err)

	if appErr.Kind == apperr.KindInternal || appErr.Kind == apperr.KindNoData {
		logger.WithContext(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", appErr.Kind.String()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)

	c.AbortWithStatusJSON(appErr.Kind.Status(), ErrorBody{
		Message: appErr.Message,
		Kind:    appErr.Kind.String(),
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

// IsKind 判断错误分类
func IsKind(err error, kind apperr.Kind) bool {
	var appErr *apperr.Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
