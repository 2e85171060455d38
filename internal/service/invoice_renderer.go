package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"mall_saas_202610/internal/config"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/pkg/utils"

	"github.com/go-resty/resty/v2"
)

//go:embed templates/invoice.html
var templateFS embed.FS

var invoiceTmpl = template.Must(template.New("invoice.html").Funcs(template.FuncMap{
	"money": formatMoney,
	"lineTotal": func(it model.LineItem) int64 {
		return it.UnitPrice * int64(it.Quantity)
	},
}).ParseFS(templateFS, "templates/invoice.html"))

// InvoiceView 发票模板数据
type InvoiceView struct {
	Invoice     *model.Invoice
	Transaction *model.Transaction
	Tenant      *model.Tenant
	User        *model.User
	Items       []model.LineItem
}

// RenderInvoiceHTML 渲染发票 HTML
func RenderInvoiceHTML(view InvoiceView) ([]byte, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render invoice template: %w", err)
	}
	return buf.Bytes(), nil
}

// formatMoney 分 -> "1234.50"
func formatMoney(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// ==================== PDF 渲染 ====================

// PDFRenderer HTML 转 PDF
type PDFRenderer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

type gotenbergRenderer struct {
	client *resty.Client
}

// NewPDFRenderer 基于 Gotenberg Chromium 路由的 PDF 渲染
func NewPDFRenderer(cfg config.RendererSettings) PDFRenderer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &gotenbergRenderer{
		client: utils.NewClient(utils.ClientOptions{BaseURL: cfg.GotenbergURL, Timeout: timeout}),
	}
}

func (r *gotenbergRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetFileReader("files", "index.html", bytes.NewReader(html)).
		SetMultipartFormData(map[string]string{"printBackground": "true"}).
		Post("/forms/chromium/convert/html")
	if err != nil {
		return nil, fmt.Errorf("pdf render request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("pdf renderer rejected (status %d): %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}
