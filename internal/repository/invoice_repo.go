package repository

import (
	"context"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// InvoiceRepository 发票仓库接口
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	GetByID(ctx context.Context, id int64) (*model.Invoice, error)
	GetByTransactionID(ctx context.Context, transactionID int64) (*model.Invoice, error)
	UpdatePDFURL(ctx context.Context, id int64, url string) error
	List(ctx context.Context, filter TransactionFilter, p Pagination) ([]model.Invoice, int64, error)
}

type invoiceRepository struct {
	crudRepo[model.Invoice]
}

// NewInvoiceRepository 创建发票仓库
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{crudRepo[model.Invoice]{db: db}}
}

func (r *invoiceRepository) GetByTransactionID(ctx context.Context, transactionID int64) (*model.Invoice, error) {
	return r.findOne(ctx, "transaction_id = ?", transactionID)
}

func (r *invoiceRepository) UpdatePDFURL(ctx context.Context, id int64, url string) error {
	return r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("id = ?", id).
		Update("pdf_url", url).Error
}

func (r *invoiceRepository) List(ctx context.Context, filter TransactionFilter, p Pagination) ([]model.Invoice, int64, error) {
	return r.page(ctx, func(db *gorm.DB) *gorm.DB {
		if filter.UserID > 0 {
			db = db.Where("user_id = ?", filter.UserID)
		}
		if filter.TenantID > 0 {
			db = db.Where("tenant_id = ?", filter.TenantID)
		}
		return db
	}, p)
}
