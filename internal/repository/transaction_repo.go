package repository

import (
	"context"
	"time"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// TransactionFilter 交易筛选条件
type TransactionFilter struct {
	UserID   int64
	TenantID int64
	Status   string
}

// TenantSales 商户销售汇总
type TenantSales struct {
	TenantID   int64 `json:"tenantId"`
	OrderCount int64 `json:"orderCount"`
	Gross      int64 `json:"gross"`
	Discount   int64 `json:"discount"`
}

// TransactionRepository 交易仓库接口
type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
	GetByGatewayOrderID(ctx context.Context, orderID string) (*model.Transaction, error)
	MarkPaid(ctx context.Context, id int64, paymentID string, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, id int64) error
	List(ctx context.Context, filter TransactionFilter, p Pagination) ([]model.Transaction, int64, error)
	SalesByTenant(ctx context.Context, from, to time.Time) ([]TenantSales, error)
}

type transactionRepository struct {
	crudRepo[model.Transaction]
}

// NewTransactionRepository 创建交易仓库
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{crudRepo[model.Transaction]{db: db}}
}

func (r *transactionRepository) GetByGatewayOrderID(ctx context.Context, orderID string) (*model.Transaction, error) {
	return r.findOne(ctx, "gateway_order_id = ?", orderID)
}

// MarkPaid 仅 pending 状态可更新为 paid，返回是否更新成功
func (r *transactionRepository) MarkPaid(ctx context.Context, id int64, paymentID string, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TransactionPending).
		Updates(map[string]interface{}{
			"status":             model.TransactionPaid,
			"gateway_payment_id": paymentID,
			"paid_at":            paidAt,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkFailed 标记支付失败
func (r *transactionRepository) MarkFailed(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TransactionPending).
		Update("status", model.TransactionFailed).Error
}

func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter, p Pagination) ([]model.Transaction, int64, error) {
	return r.page(ctx, func(db *gorm.DB) *gorm.DB {
		if filter.UserID > 0 {
			db = db.Where("user_id = ?", filter.UserID)
		}
		if filter.TenantID > 0 {
			db = db.Where("tenant_id = ?", filter.TenantID)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		return db
	}, p)
}

// SalesByTenant 按商户汇总已支付交易
func (r *transactionRepository) SalesByTenant(ctx context.Context, from, to time.Time) ([]TenantSales, error) {
	var rows []TenantSales
	db := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Select("tenant_id, COUNT(*) AS order_count, COALESCE(SUM(amount), 0) AS gross, COALESCE(SUM(discount), 0) AS discount").
		Where("status = ?", model.TransactionPaid)
	if !from.IsZero() {
		db = db.Where("paid_at >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("paid_at < ?", to)
	}
	err := db.Group("tenant_id").Order("tenant_id ASC").Scan(&rows).Error
	return rows, err
}
