package middleware

import (
	"errors"
	"strings"

	"mall_saas_202610/internal/api/response"
	"mall_saas_202610/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ==================== 请求校验 ====================

// 校验后的输入在 Context 中的 key
const (
	ContextKeyBody  = "input.body"
	ContextKeyQuery = "input.query"
	ContextKeyURI   = "input.uri"
)

// FieldError 字段校验错误
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidateBody 校验 JSON Body，失败时直接返回 400，不进入后续处理
func ValidateBody[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var in T
		if err := c.ShouldBindJSON(&in); err != nil {
			response.Fail(c, validationError(err, "Invalid request body"))
			return
		}
		c.Set(ContextKeyBody, &in)
		c.Next()
	}
}

// ValidateQuery 校验 Query 参数
func ValidateQuery[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var in T
		if err := c.ShouldBindQuery(&in); err != nil {
			response.Fail(c, validationError(err, "Invalid query parameters"))
			return
		}
		c.Set(ContextKeyQuery, &in)
		c.Next()
	}
}

// ValidateURI 校验路径参数
func ValidateURI[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var in T
		if err := c.ShouldBindUri(&in); err != nil {
			response.Fail(c, validationError(err, "Invalid path parameters"))
			return
		}
		c.Set(ContextKeyURI, &in)
		c.Next()
	}
}

// Body 获取已校验的 Body
func Body[T any](c *gin.Context) *T {
	return input[T](c, ContextKeyBody)
}

// Query 获取已校验的 Query
func Query[T any](c *gin.Context) *T {
	return input[T](c, ContextKeyQuery)
}

// URI 获取已校验的路径参数
func URI[T any](c *gin.Context) *T {
	return input[T](c, ContextKeyURI)
}

// input 未经校验中间件时返回零值，避免 handler 中出现 nil
func input[T any](c *gin.Context, key string) *T {
	if v, ok := c.Get(key); ok {
		if in, ok := v.(*T); ok {
			return in
		}
	}
	return new(T)
}

// validationError 将 validator 错误转换为字段列表
func validationError(err error, message string) *apperr.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.BadRequest(message).WithCode("VALIDATION_FAILED")
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field: lowerFirst(fe.Field()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return apperr.BadRequest("Validation failed").
		WithCode("VALIDATION_FAILED").
		WithDetails(fields)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
