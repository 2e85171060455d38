package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientOptions 外部服务客户端配置
type ClientOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Debug     bool
}

// NewClient 创建配置好基础地址和超时的 Resty 客户端
// 它是全系统统一的外部请求入口（邮件、短信、支付网关、PDF 渲染）
func NewClient(opts ClientOptions) *resty.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mall-SaaS/1.0"
	}

	client := resty.New().
		SetDebug(opts.Debug).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent)

	if opts.BaseURL != "" {
		client.SetBaseURL(opts.BaseURL)
	}
	return client
}
