package controller

import (
	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/api/response"
	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/service"

	"github.com/gin-gonic/gin"
)

// ==================== 优惠券 ====================

type CouponController struct {
	couponSvc *service.CouponService
}

func NewCouponController(couponSvc *service.CouponService) *CouponController {
	return &CouponController{couponSvc: couponSvc}
}

// Create 新建优惠券
// @Summary 新建优惠券
// @Description 优惠码全局唯一（不区分大小写），重复返回 400
// @Tags Coupon (优惠券)
// @Param request body dto.CreateCouponReq true "优惠券"
// @Success 201 {object} model.Coupon
// @Failure 400 {object} response.ErrorBody "Coupon code already exists"
// @Router /api/v1/coupons [post]
func (c *CouponController) Create(ctx *gin.Context) error {
	coupon, err := c.couponSvc.Create(ctx.Request.Context(), actorOf(ctx), middleware.Body[dto.CreateCouponReq](ctx))
	if err != nil {
		return err
	}
	response.Created(ctx, "Coupon created", coupon)
	return nil
}

func (c *CouponController) List(ctx *gin.Context) error {
	q := middleware.Query[dto.TenantQuery](ctx)
	list, total, err := c.couponSvc.List(ctx.Request.Context(), actorOf(ctx), q)
	if err != nil {
		return err
	}
	return okPage(ctx, "Coupons fetched", list, total, q.PageQuery)
}

func (c *CouponController) Get(ctx *gin.Context) error {
	coupon, err := c.couponSvc.Get(ctx.Request.Context(), actorOf(ctx), idParam(ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Coupon fetched", coupon)
	return nil
}

func (c *CouponController) Update(ctx *gin.Context) error {
	coupon, err := c.couponSvc.Update(ctx.Request.Context(), actorOf(ctx), idParam(ctx), middleware.Body[dto.UpdateCouponReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Coupon updated", coupon)
	return nil
}

func (c *CouponController) Delete(ctx *gin.Context) error {
	if err := c.couponSvc.Delete(ctx.Request.Context(), actorOf(ctx), idParam(ctx)); err != nil {
		return err
	}
	response.OK(ctx, "Coupon deleted", nil)
	return nil
}

// Apply 试算优惠
// @Router /api/v1/coupons/apply [post]
func (c *CouponController) Apply(ctx *gin.Context) error {
	resp, err := c.couponSvc.Apply(ctx.Request.Context(), middleware.Body[dto.ApplyCouponReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Coupon applied", resp)
	return nil
}

// ==================== 支付 ====================

type PaymentController struct {
	paymentSvc *service.PaymentService
	invoiceSvc *service.InvoiceService
}

func NewPaymentController(paymentSvc *service.PaymentService, invoiceSvc *service.InvoiceService) *PaymentController {
	return &PaymentController{paymentSvc: paymentSvc, invoiceSvc: invoiceSvc}
}

// CreateOrder 创建支付订单
// @Summary 创建支付订单
// @Description 按服务端价格计算金额，在支付网关下单并保存待支付交易
// @Tags Payment (支付)
// @Param request body dto.CreatePaymentOrderReq true "订单"
// @Success 201 {object} dto.PaymentOrderResp
// @Router /api/v1/payments/order [post]
func (c *PaymentController) CreateOrder(ctx *gin.Context) error {
	resp, err := c.paymentSvc.CreateOrder(ctx.Request.Context(), actorOf(ctx), middleware.Body[dto.CreatePaymentOrderReq](ctx))
	if err != nil {
		return err
	}
	response.Created(ctx, "Payment order created", resp)
	return nil
}

// VerifyPayment 校验支付签名
// @Summary 校验支付签名
// @Tags Payment (支付)
// @Param request body dto.VerifyPaymentReq true "网关回调参数"
// @Success 200 {object} model.Invoice
// @Failure 403 {object} response.ErrorBody "Invalid payment signature"
// @Router /api/v1/payments/verify [post]
func (c *PaymentController) VerifyPayment(ctx *gin.Context) error {
	invoice, err := c.paymentSvc.VerifyPayment(ctx.Request.Context(), actorOf(ctx), middleware.Body[dto.VerifyPaymentReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Payment verified", invoice)
	return nil
}

// Transactions 交易列表
// @Router /api/v1/transactions [get]
func (c *PaymentController) Transactions(ctx *gin.Context) error {
	q := middleware.Query[dto.TransactionListQuery](ctx)
	list, total, err := c.invoiceSvc.ListTransactions(ctx.Request.Context(), actorOf(ctx), q)
	if err != nil {
		return err
	}
	return okPage(ctx, "Transactions fetched", list, total, q.PageQuery)
}

func (c *PaymentController) Invoices(ctx *gin.Context) error {
	q := middleware.Query[dto.TransactionListQuery](ctx)
	list, total, err := c.invoiceSvc.ListInvoices(ctx.Request.Context(), actorOf(ctx), q)
	if err != nil {
		return err
	}
	return okPage(ctx, "Invoices fetched", list, total, q.PageQuery)
}

func (c *PaymentController) Invoice(ctx *gin.Context) error {
	invoice, err := c.invoiceSvc.Get(ctx.Request.Context(), actorOf(ctx), idParam(ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Invoice fetched", invoice)
	return nil
}

// InvoicePDF 生成并返回发票 PDF 地址
// @Router /api/v1/invoices/{id}/pdf [get]
func (c *PaymentController) InvoicePDF(ctx *gin.Context) error {
	url, err := c.invoiceSvc.PDF(ctx.Request.Context(), actorOf(ctx), idParam(ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Invoice PDF ready", dto.InvoicePDFResp{URL: url})
	return nil
}
