package model

import (
	"time"

	"gorm.io/datatypes"
)

// TransactionStatus 交易状态
const (
	TransactionPending = "pending" // 待支付
	TransactionPaid    = "paid"    // 已支付
	TransactionFailed  = "failed"  // 支付失败
)

// LineItem 订单行
type LineItem struct {
	ProductID int64  `json:"productId"`
	SkuID     int64  `json:"skuId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// Transaction 支付交易
type Transaction struct {
	BaseModel
	UserID   int64 `gorm:"index;not null" json:"userId"`
	TenantID int64 `gorm:"index;not null" json:"tenantId"`

	// 金额（分为单位存储）
	Amount     int64  `json:"amount"`
	Discount   int64  `json:"discount"`
	Currency   string `gorm:"size:3" json:"currency"`
	CouponCode string `gorm:"size:32" json:"couponCode"`

	Items datatypes.JSONSlice[LineItem] `json:"items"`

	GatewayOrderID   string     `gorm:"size:64;uniqueIndex;not null" json:"gatewayOrderId"`
	GatewayPaymentID string     `gorm:"size:64" json:"gatewayPaymentId"`
	Receipt          string     `gorm:"size:64" json:"receipt"`
	Status           string     `gorm:"size:16;index;default:pending" json:"status"`
	PaidAt           *time.Time `json:"paidAt"`
}

func (Transaction) TableName() string { return "transactions" }

// Invoice 发票
type Invoice struct {
	BaseModel
	Number        string    `gorm:"size:64;uniqueIndex;not null" json:"number"`
	TransactionID int64     `gorm:"uniqueIndex;not null" json:"transactionId"`
	UserID        int64     `gorm:"index;not null" json:"userId"`
	TenantID      int64     `gorm:"index;not null" json:"tenantId"`
	Amount        int64     `json:"amount"`
	TaxAmount     int64     `json:"taxAmount"`
	Currency      string    `gorm:"size:3" json:"currency"`
	PDFURL        string    `gorm:"size:500" json:"pdfUrl"`
	IssuedAt      time.Time `json:"issuedAt"`
}

func (Invoice) TableName() string { return "invoices" }
