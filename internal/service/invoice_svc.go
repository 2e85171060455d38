package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"

	"github.com/google/uuid"
)

type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	txRepo       repository.TransactionRepository
	tenantRepo   repository.TenantRepository
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
	renderer     PDFRenderer
	storage      StorageProvider
	now          func() time.Time
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	txRepo repository.TransactionRepository,
	tenantRepo repository.TenantRepository,
	userRepo repository.UserRepository,
	settingsRepo repository.SettingsRepository,
	renderer PDFRenderer,
	storage StorageProvider,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		txRepo:       txRepo,
		tenantRepo:   tenantRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		renderer:     renderer,
		storage:      storage,
		now:          time.Now,
	}
}

// Issue 为已支付交易开具发票，重复调用返回已有发票
// 税额按平台设置的税率从含税金额中拆出
func (s *InvoiceService) Issue(ctx context.Context, tx *model.Transaction) (*model.Invoice, error) {
	existing, err := s.invoiceRepo.GetByTransactionID(ctx, tx.ID)
	if err != nil {
		return nil, internal(err)
	}
	if existing != nil {
		return existing, nil
	}

	var taxPercent float64
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, internal(err)
	}
	if settings != nil {
		taxPercent = settings.TaxPercent
	}

	now := s.now()
	invoice := &model.Invoice{
		Number:        invoiceNumber(now),
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		TenantID:      tx.TenantID,
		Amount:        tx.Amount,
		TaxAmount:     int64(float64(tx.Amount) * taxPercent / (100 + taxPercent)),
		Currency:      tx.Currency,
		IssuedAt:      now,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		if repository.IsDuplicate(err) {
			existing, err := s.invoiceRepo.GetByTransactionID(ctx, tx.ID)
			return existing, internal(err)
		}
		return nil, internal(err)
	}
	return invoice, nil
}

// invoiceNumber INV-20261018-3F2A9C1B
func invoiceNumber(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), id[:8])
}

// Get 用户和商户只能查看自己的发票，管理员需要 viewTransactions
func (s *InvoiceService) Get(ctx context.Context, actor Actor, id int64) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	if !canViewInvoice(actor, invoice) {
		return nil, ErrForbiddenResource
	}
	return invoice, nil
}

func canViewInvoice(actor Actor, invoice *model.Invoice) bool {
	switch {
	case actor.Snapshot.UserPermissions.ViewTransactions:
		return true
	case actor.IsUser():
		return invoice.UserID == actor.ID
	case actor.IsTenant():
		return invoice.TenantID == actor.ID
	}
	return false
}

// PDF 生成发票 PDF 并上传，返回访问地址
// 已生成过的直接返回
func (s *InvoiceService) PDF(ctx context.Context, actor Actor, id int64) (string, error) {
	invoice, err := s.Get(ctx, actor, id)
	if err != nil {
		return "", err
	}
	if invoice.PDFURL != "" {
		return invoice.PDFURL, nil
	}

	view, err := s.view(ctx, invoice)
	if err != nil {
		return "", err
	}
	html, err := RenderInvoiceHTML(view)
	if err != nil {
		return "", apperr.Internal("Failed to render invoice", err)
	}
	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		return "", apperr.Internal("Failed to generate invoice PDF", err)
	}
	url, err := s.storage.Upload(ctx, pdf, invoice.Number+".pdf", "application/pdf")
	if err != nil {
		return "", apperr.Internal("Failed to upload invoice PDF", err)
	}
	if err := s.invoiceRepo.UpdatePDFURL(ctx, invoice.ID, url); err != nil {
		return "", internal(err)
	}
	return url, nil
}

func (s *InvoiceService) view(ctx context.Context, invoice *model.Invoice) (InvoiceView, error) {
	tx, err := s.txRepo.GetByID(ctx, invoice.TransactionID)
	if err != nil {
		return InvoiceView{}, internal(err)
	}
	if tx == nil {
		return InvoiceView{}, ErrTransactionNotFound
	}
	tenant, err := s.tenantRepo.GetByID(ctx, invoice.TenantID)
	if err != nil {
		return InvoiceView{}, internal(err)
	}
	if tenant == nil {
		tenant = &model.Tenant{}
	}
	user, err := s.userRepo.GetByID(ctx, invoice.UserID)
	if err != nil {
		return InvoiceView{}, internal(err)
	}
	if user == nil {
		user = &model.User{}
	}
	return InvoiceView{Invoice: invoice, Transaction: tx, Tenant: tenant, User: user, Items: tx.Items}, nil
}

// ListInvoices 用户/商户只能看到自己的
func (s *InvoiceService) ListInvoices(ctx context.Context, actor Actor, q *dto.TransactionListQuery) ([]model.Invoice, int64, error) {
	list, total, err := s.invoiceRepo.List(ctx, scopedFilter(actor, q), PageOf(q.PageQuery))
	return list, total, internal(err)
}

// ListTransactions 交易列表
func (s *InvoiceService) ListTransactions(ctx context.Context, actor Actor, q *dto.TransactionListQuery) ([]model.Transaction, int64, error) {
	list, total, err := s.txRepo.List(ctx, scopedFilter(actor, q), PageOf(q.PageQuery))
	return list, total, internal(err)
}

func scopedFilter(actor Actor, q *dto.TransactionListQuery) repository.TransactionFilter {
	filter := repository.TransactionFilter{UserID: q.UserID, TenantID: q.TenantID, Status: q.Status}
	switch {
	case actor.IsUser():
		filter.UserID = actor.ID
	case actor.IsTenant():
		filter.TenantID = actor.ID
	}
	return filter
}

var (
	ErrInvoiceNotFound     = apperr.NotFound("Invoice not found")
	ErrTransactionNotFound = apperr.NotFound("Transaction not found")
)
