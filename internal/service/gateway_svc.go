package service

import (
	"context"
	"fmt"

	"mall_saas_202610/internal/config"
	"mall_saas_202610/pkg/utils"

	"github.com/go-resty/resty/v2"
)

// GatewayOrder 支付网关订单
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentGateway 支付网关
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error)
	// VerifySignature 回调签名：HMAC-SHA256("orderId|paymentId", keySecret)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

type restGateway struct {
	client    *resty.Client
	keyID     string
	keySecret string
}

// NewPaymentGateway 创建支付网关客户端
func NewPaymentGateway(cfg config.PaymentSettings) PaymentGateway {
	client := utils.NewClient(utils.ClientOptions{BaseURL: cfg.BaseURL}).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret)
	return &restGateway{client: client, keyID: cfg.KeyID, keySecret: cfg.KeySecret}
}

func (g *restGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	var order GatewayOrder
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"amount":   amount,
			"currency": currency,
			"receipt":  receipt,
		}).
		SetResult(&order).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gateway rejected (status %d): %s", resp.StatusCode(), resp.String())
	}
	if order.ID == "" {
		return nil, fmt.Errorf("gateway returned no order id: %s", resp.String())
	}
	return &order, nil
}

func (g *restGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return utils.VerifyHMACSHA256(g.keySecret, orderID+"|"+paymentID, signature)
}

func (g *restGateway) KeyID() string {
	return g.keyID
}
