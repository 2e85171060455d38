package service

import (
	"context"
	"fmt"

	"mall_saas_202610/internal/config"
	"mall_saas_202610/pkg/utils"

	"github.com/go-resty/resty/v2"
)

// ==================== 邮件 ====================

// MailMessage 邮件内容
type MailMessage struct {
	To          string           `json:"to"`
	Subject     string           `json:"subject"`
	HTML        string           `json:"html"`
	Attachments []MailAttachment `json:"attachments,omitempty"`
}

// MailAttachment 通过 URL 引用的附件
type MailAttachment struct {
	Filename string `json:"filename"`
	URL      string `json:"path"`
}

// Mailer 邮件发送
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

type restMailer struct {
	client *resty.Client
	from   string
}

// NewMailer 基于 HTTP API 的邮件发送
func NewMailer(cfg config.MailSettings) Mailer {
	client := utils.NewClient(utils.ClientOptions{BaseURL: cfg.BaseURL}).
		SetAuthToken(cfg.APIKey)
	return &restMailer{client: client, from: cfg.From}
}

func (m *restMailer) Send(ctx context.Context, msg MailMessage) error {
	body := struct {
		From string `json:"from"`
		MailMessage
	}{From: m.from, MailMessage: msg}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail api rejected (status %d): %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// ==================== 短信 ====================

// SMSSender 短信发送
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

type restSMSSender struct {
	client     *resty.Client
	accountSID string
	from       string
}

// NewSMSSender 基于 HTTP API 的短信发送（账号 SID + Token 基本认证）
func NewSMSSender(cfg config.SMSSettings) SMSSender {
	client := utils.NewClient(utils.ClientOptions{BaseURL: cfg.BaseURL}).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken)
	return &restSMSSender{client: client, accountSID: cfg.AccountSID, from: cfg.From}
}

func (s *restSMSSender) Send(ctx context.Context, to, body string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("sid", s.accountSID).
		SetFormData(map[string]string{
			"To":   to,
			"From": s.from,
			"Body": body,
		}).
		Post("/Accounts/{sid}/Messages.json")
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms api rejected (status %d): %s", resp.StatusCode(), resp.String())
	}
	return nil
}
