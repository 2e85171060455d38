package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ==================== 错误类型 ====================

// Kind 错误分类，每种分类对应一个 HTTP 状态码
type Kind int

const (
	KindInternal    Kind = iota // 下游调用失败（存储、邮件、PDF、支付网关）
	KindBadRequest              // 输入错误、自然键冲突、非法状态变更
	KindAuthFailure             // 缺少/无效/过期凭证，登录密码错误
	KindForbidden               // 权限不足、回调签名校验失败
	KindNotFound                // 引用的实体不存在
	KindNoData                  // 本应有数据但读不到（服务端数据问题）
)

// String 返回错误分类名称，用于响应体中的 kind 字段
func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "BadRequest"
	case KindAuthFailure:
		return "AuthFailure"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "NotFound"
	case KindNoData:
		return "NoData"
	default:
		return "Internal"
	}
}

// Status 错误分类对应的 HTTP 状态码
// NoData 属于服务端数据可用性问题，按 500 返回
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindAuthFailure:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ==================== Error ====================

// Error 应用错误
type Error struct {
	Kind    Kind
	Code    string // 机器可读的细分原因，可为空
	Message string // 返回给调用方的消息
	Details any    // 附加信息（如字段校验错误）
	Err     error  // 原始错误，不对外暴露
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 同 Kind 同 Code 视为同一类错误，便于 errors.Is 比较哨兵错误
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code && (t.Message == "" || t.Message == e.Message)
}

// WithCode 设置细分原因
func (e *Error) WithCode(code string) *Error {
	cp := *e
	cp.Code = code
	return &cp
}

// WithDetails 附加详情
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// ==================== 构造函数 ====================

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

func AuthFailure(message string) *Error {
	return New(KindAuthFailure, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func NoData(message string) *Error {
	return New(KindNoData, message)
}

// Internal 包装下游错误
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// ==================== 辅助函数 ====================

// From 将任意错误归类为 *Error，无法识别的一律视为 Internal
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// KindOf 获取错误分类
func KindOf(err error) Kind {
	return From(err).Kind
}
