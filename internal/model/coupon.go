package model

import "time"

// DiscountType 折扣类型
const (
	DiscountPercent = "percent" // 按比例
	DiscountFlat    = "flat"    // 固定金额
)

// Coupon 优惠券，code 全局唯一
type Coupon struct {
	BaseModel
	Code     string `gorm:"size:32;uniqueIndex;not null" json:"code"`
	TenantID *int64 `gorm:"index" json:"tenantId"`

	DiscountType  string  `gorm:"size:16;not null" json:"discountType"`
	DiscountValue float64 `json:"discountValue"`

	// 金额（分为单位存储）
	MaxDiscount    int64 `json:"maxDiscount"`
	MinOrderAmount int64 `json:"minOrderAmount"`

	UsageLimit int `json:"usageLimit"` // 0 表示不限
	UsedCount  int `json:"usedCount"`

	StartsAt  time.Time `json:"startsAt"`
	ExpiresAt time.Time `gorm:"index" json:"expiresAt"`
	Active    bool      `gorm:"index" json:"active"`
}

func (Coupon) TableName() string { return "coupons" }

// Discount 计算订单金额可抵扣的金额
func (c *Coupon) Discount(orderAmount int64) int64 {
	var d int64
	switch c.DiscountType {
	case DiscountPercent:
		d = int64(float64(orderAmount) * c.DiscountValue / 100)
	case DiscountFlat:
		d = int64(c.DiscountValue)
	}
	if c.MaxDiscount > 0 && d > c.MaxDiscount {
		d = c.MaxDiscount
	}
	if d > orderAmount {
		d = orderAmount
	}
	return d
}
