package controller

import (
	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/api/response"
	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/service"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userSvc *service.UserService
}

func NewUserController(userSvc *service.UserService) *UserController {
	return &UserController{userSvc: userSvc}
}

// Signup 用户注册
// @Router /api/v1/user/signup [post]
func (c *UserController) Signup(ctx *gin.Context) error {
	resp, err := c.userSvc.Signup(ctx.Request.Context(), middleware.Body[dto.UserSignupReq](ctx))
	if err != nil {
		return err
	}
	response.Created(ctx, "Signup successful", resp)
	return nil
}

// Login 用户密码登录
// @Router /api/v1/user/login [post]
func (c *UserController) Login(ctx *gin.Context) error {
	resp, err := c.userSvc.Login(ctx.Request.Context(), middleware.Body[dto.LoginReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Login successful", resp)
	return nil
}

// SendOTP 发送验证码
// @Summary 发送验证码
// @Description 通过短信或邮件发送 6 位验证码，5 分钟有效，同一账号 60 秒内只能发送一次
// @Tags User (用户)
// @Param request body dto.SendOTPReq true "手机号或邮箱"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.ErrorBody "发送过于频繁"
// @Router /api/v1/user/otp/send [post]
func (c *UserController) SendOTP(ctx *gin.Context) error {
	if err := c.userSvc.SendOTP(ctx.Request.Context(), middleware.Body[dto.SendOTPReq](ctx)); err != nil {
		return err
	}
	response.OK(ctx, "Verification code sent", nil)
	return nil
}

// VerifyOTP 验证码登录
// @Router /api/v1/user/otp/verify [post]
func (c *UserController) VerifyOTP(ctx *gin.Context) error {
	resp, err := c.userSvc.VerifyOTP(ctx.Request.Context(), middleware.Body[dto.VerifyOTPReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Login successful", resp)
	return nil
}

func (c *UserController) Me(ctx *gin.Context) error {
	actor := actorOf(ctx)
	if !actor.IsUser() {
		return service.ErrForbiddenResource
	}
	user, err := c.userSvc.Get(ctx.Request.Context(), actor.ID)
	if err != nil {
		return err
	}
	response.OK(ctx, "User fetched", user)
	return nil
}

func (c *UserController) UpdateMe(ctx *gin.Context) error {
	actor := actorOf(ctx)
	if !actor.IsUser() {
		return service.ErrForbiddenResource
	}
	user, err := c.userSvc.UpdateMe(ctx.Request.Context(), actor.ID, middleware.Body[dto.UpdateMeReq](ctx))
	if err != nil {
		return err
	}
	response.OK(ctx, "Profile updated", user)
	return nil
}

func (c *UserController) List(ctx *gin.Context) error {
	q := middleware.Query[dto.PageQuery](ctx)
	list, total, err := c.userSvc.List(ctx.Request.Context(), q)
	if err != nil {
		return err
	}
	return okPage(ctx, "Users fetched", list, total, *q)
}
