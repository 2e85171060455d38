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
	"mall_saas_202610/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type PaymentService struct {
	txRepo      repository.TransactionRepository
	productRepo repository.ProductRepository
	skuRepo     repository.SkuRepository
	userRepo    repository.UserRepository
	coupons     *CouponService
	invoices    *InvoiceService
	gateway     PaymentGateway
	mailer      Mailer
	currency    string
	now         func() time.Time
}

func NewPaymentService(
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	skuRepo repository.SkuRepository,
	userRepo repository.UserRepository,
	coupons *CouponService,
	invoices *InvoiceService,
	gateway PaymentGateway,
	mailer Mailer,
	currency string,
) *PaymentService {
	return &PaymentService{
		txRepo:      txRepo,
		productRepo: productRepo,
		skuRepo:     skuRepo,
		userRepo:    userRepo,
		coupons:     coupons,
		invoices:    invoices,
		gateway:     gateway,
		mailer:      mailer,
		currency:    currency,
		now:         time.Now,
	}
}

// CreateOrder 计算金额，在支付网关下单并保存待支付交易
func (s *PaymentService) CreateOrder(ctx context.Context, actor Actor, req *dto.CreatePaymentOrderReq) (*dto.PaymentOrderResp, error) {
	if !actor.IsUser() {
		return nil, ErrForbiddenResource
	}

	items, amount, err := s.lineItems(ctx, req.TenantID, req.Items)
	if err != nil {
		return nil, err
	}

	var discount int64
	code := strings.ToUpper(req.CouponCode)
	if code != "" {
		coupon, err := s.coupons.usable(ctx, code, req.TenantID, amount)
		if err != nil {
			return nil, err
		}
		discount = coupon.Discount(amount)
	}

	receipt := "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
	order, err := s.gateway.CreateOrder(ctx, amount-discount, s.currency, receipt)
	if err != nil {
		return nil, apperr.Internal("Failed to create payment order", err)
	}

	tx := &model.Transaction{
		UserID:         actor.ID,
		TenantID:       req.TenantID,
		Amount:         amount - discount,
		Discount:       discount,
		Currency:       s.currency,
		CouponCode:     code,
		Items:          datatypes.NewJSONSlice(items),
		GatewayOrderID: order.ID,
		Receipt:        receipt,
		Status:         model.TransactionPending,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, internal(err)
	}

	return &dto.PaymentOrderResp{
		TransactionID:  tx.ID,
		GatewayOrderID: order.ID,
		Amount:         tx.Amount,
		Currency:       tx.Currency,
		KeyID:          s.gateway.KeyID(),
	}, nil
}

// lineItems 以服务端价格计算订单行
func (s *PaymentService) lineItems(ctx context.Context, tenantID int64, reqs []dto.LineItemReq) ([]model.LineItem, int64, error) {
	items := make([]model.LineItem, 0, len(reqs))
	var total int64
	for _, r := range reqs {
		product, err := s.productRepo.GetByID(ctx, r.ProductID)
		if err != nil {
			return nil, 0, internal(err)
		}
		if product == nil || product.Status != model.ProductStatusApproved {
			return nil, 0, ErrProductNotFound
		}
		if !product.OwnedBy(tenantID) {
			return nil, 0, ErrProductNotInStore.WithDetails(map[string]int64{"productId": product.ID})
		}

		price := product.Price
		if r.SkuID > 0 {
			sku, err := s.skuRepo.GetByID(ctx, r.SkuID)
			if err != nil {
				return nil, 0, internal(err)
			}
			if sku == nil || sku.ProductID != product.ID {
				return nil, 0, ErrSkuNotFound
			}
			if sku.Stock < r.Quantity {
				return nil, 0, ErrInsufficientStock.WithDetails(map[string]int64{"skuId": sku.ID})
			}
			price = sku.Price
		}

		items = append(items, model.LineItem{
			ProductID: product.ID,
			SkuID:     r.SkuID,
			Name:      product.Name,
			Quantity:  r.Quantity,
			UnitPrice: price,
		})
		total += price * int64(r.Quantity)
	}
	if total <= 0 {
		return nil, 0, ErrEmptyOrder
	}
	return items, total, nil
}

// VerifyPayment 校验网关回调签名：HMAC-SHA256("orderId|paymentId")
// 成功后标记已支付、开具发票并邮件通知（邮件失败只记录日志）
func (s *PaymentService) VerifyPayment(ctx context.Context, actor Actor, req *dto.VerifyPaymentReq) (*model.Invoice, error) {
	if !actor.IsUser() {
		return nil, ErrForbiddenResource
	}
	tx, err := s.txRepo.GetByGatewayOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, internal(err)
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	if tx.UserID != actor.ID {
		return nil, ErrForbiddenResource
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		if err := s.txRepo.MarkFailed(ctx, tx.ID); err != nil {
			logger.WithContext(ctx).Error("mark transaction failed", zap.Int64("transaction_id", tx.ID), zap.Error(err))
		}
		return nil, ErrInvalidSignature
	}

	// 重复回调只补开发票，邮件仅在首次支付成功时发送
	firstPaid := tx.Status != model.TransactionPaid
	if firstPaid {
		now := s.now()
		ok, err := s.txRepo.MarkPaid(ctx, tx.ID, req.PaymentID, now)
		if err != nil {
			return nil, internal(err)
		}
		if !ok {
			return nil, ErrTransactionNotPending
		}
		tx.Status = model.TransactionPaid
		tx.GatewayPaymentID = req.PaymentID
		tx.PaidAt = &now

		if tx.CouponCode != "" {
			if err := s.coupons.Redeem(ctx, tx.CouponCode); err != nil {
				logger.WithContext(ctx).Warn("coupon redeem failed", zap.String("code", tx.CouponCode), zap.Error(err))
			}
		}
	}

	invoice, err := s.invoices.Issue(ctx, tx)
	if err != nil {
		return nil, err
	}
	if firstPaid {
		s.mailInvoice(ctx, tx, invoice)
	}
	return invoice, nil
}

func (s *PaymentService) mailInvoice(ctx context.Context, tx *model.Transaction, invoice *model.Invoice) {
	user, err := s.userRepo.GetByID(ctx, tx.UserID)
	if err != nil || user == nil {
		logger.WithContext(ctx).Warn("invoice mail skipped, user not loaded", zap.Int64("user_id", tx.UserID), zap.Error(err))
		return
	}
	msg := MailMessage{
		To:      user.Email,
		Subject: "Your invoice " + invoice.Number,
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>Thanks for your order. Invoice %s for %s %s has been issued.</p>",
			user.Name, invoice.Number, invoice.Currency, formatMoney(invoice.Amount)),
	}
	if invoice.PDFURL != "" {
		msg.Attachments = []MailAttachment{{Filename: invoice.Number + ".pdf", URL: invoice.PDFURL}}
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.WithContext(ctx).Error("invoice mail failed",
			zap.String("invoice", invoice.Number), zap.String("to", logger.MaskEmail(user.Email)), zap.Error(err))
	}
}

var (
	ErrInvalidSignature      = apperr.Forbidden("Invalid payment signature").WithCode("INVALID_SIGNATURE")
	ErrTransactionNotPending = apperr.BadRequest("Transaction is not pending")
	ErrProductNotInStore     = apperr.BadRequest("Product does not belong to this store")
	ErrInsufficientStock     = apperr.BadRequest("Insufficient stock")
	ErrEmptyOrder            = apperr.BadRequest("Order amount must be greater than zero")
)
