package dto

import "time"

// ==================== Coupon ====================

type CreateCouponReq struct {
	Code           string    `json:"code" binding:"required,couponcode"`
	DiscountType   string    `json:"discountType" binding:"required,oneof=percent flat"`
	DiscountValue  float64   `json:"discountValue" binding:"required,gt=0"`
	MaxDiscount    int64     `json:"maxDiscount" binding:"min=0"`
	MinOrderAmount int64     `json:"minOrderAmount" binding:"min=0"`
	UsageLimit     int       `json:"usageLimit" binding:"min=0"`
	StartsAt       time.Time `json:"startsAt" binding:"required"`
	ExpiresAt      time.Time `json:"expiresAt" binding:"required,gtfield=StartsAt"`
}

type UpdateCouponReq struct {
	DiscountValue  *float64   `json:"discountValue" binding:"omitempty,gt=0"`
	MaxDiscount    *int64     `json:"maxDiscount" binding:"omitempty,min=0"`
	MinOrderAmount *int64     `json:"minOrderAmount" binding:"omitempty,min=0"`
	UsageLimit     *int       `json:"usageLimit" binding:"omitempty,min=0"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	Active         *bool      `json:"active"`
}

type ApplyCouponReq struct {
	Code        string `json:"code" binding:"required,max=32"`
	OrderAmount int64  `json:"orderAmount" binding:"required,min=1"`
	TenantID    int64  `json:"tenantId" binding:"omitempty,min=1"`
}

type ApplyCouponResp struct {
	Code        string `json:"code"`
	Discount    int64  `json:"discount"`
	FinalAmount int64  `json:"finalAmount"`
}

// ==================== Payment ====================

type LineItemReq struct {
	ProductID int64 `json:"productId" binding:"required,min=1"`
	SkuID     int64 `json:"skuId" binding:"omitempty,min=1"`
	Quantity  int   `json:"quantity" binding:"required,min=1,max=1000"`
}

type CreatePaymentOrderReq struct {
	TenantID   int64         `json:"tenantId" binding:"required,min=1"`
	Items      []LineItemReq `json:"items" binding:"required,min=1,max=100,dive"`
	CouponCode string        `json:"couponCode" binding:"omitempty,max=32"`
}

type PaymentOrderResp struct {
	TransactionID  int64  `json:"transactionId"`
	GatewayOrderID string `json:"orderId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"keyId"`
}

type VerifyPaymentReq struct {
	OrderID   string `json:"orderId" binding:"required,max=64"`
	PaymentID string `json:"paymentId" binding:"required,max=64"`
	Signature string `json:"signature" binding:"required,hexadecimal,len=64"`
}

// ==================== Report ====================

type ReportQuery struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}

// ==================== Settings / Home ====================

type SettingsReq struct {
	CommissionPercent float64 `json:"commissionPercent" binding:"min=0,max=100"`
	TaxPercent        float64 `json:"taxPercent" binding:"min=0,max=100"`
	Currency          string  `json:"currency" binding:"required,len=3,uppercase"`
	SupportEmail      string  `json:"supportEmail" binding:"omitempty,email"`
	SupportPhone      string  `json:"supportPhone" binding:"omitempty,phone"`
	MaintenanceMode   bool    `json:"maintenanceMode"`
}

type BannerReq struct {
	Image string `json:"image" binding:"required,url"`
	Link  string `json:"link" binding:"omitempty,url"`
	Title string `json:"title" binding:"max=200"`
}

type HomePageReq struct {
	Banners             []BannerReq `json:"banners" binding:"omitempty,max=20,dive"`
	FeaturedProductIDs  []int64     `json:"featuredProductIds" binding:"omitempty,max=50,dive,min=1"`
	FeaturedCategoryIDs []int64     `json:"featuredCategoryIds" binding:"omitempty,max=50,dive,min=1"`
}

// ==================== Transaction ====================

type TransactionListQuery struct {
	PageQuery
	UserID   int64  `form:"userId" binding:"omitempty,min=1"`
	TenantID int64  `form:"tenantId" binding:"omitempty,min=1"`
	Status   string `form:"status" binding:"omitempty,oneof=pending paid failed"`
}

type InvoicePDFResp struct {
	URL string `json:"url"`
}
