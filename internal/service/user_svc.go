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
	"mall_saas_202610/pkg/utils"

	"go.uber.org/zap"
)

const (
	otpLength      = 6
	otpTTL         = 5 * time.Minute
	otpCooldown    = 60 * time.Second
	otpMaxAttempts = 5
)

type UserService struct {
	userRepo repository.UserRepository
	otpRepo  repository.OTPRepository
	auth     *Authenticator
	mailer   Mailer
	sms      SMSSender
}

func NewUserService(
	userRepo repository.UserRepository,
	otpRepo repository.OTPRepository,
	auth *Authenticator,
	mailer Mailer,
	sms SMSSender,
) *UserService {
	return &UserService{userRepo: userRepo, otpRepo: otpRepo, auth: auth, mailer: mailer, sms: sms}
}

// ==================== 注册 / 登录 ====================

func (s *UserService) Signup(ctx context.Context, req *dto.UserSignupReq) (*dto.UserAuthResp, error) {
	email := strings.ToLower(req.Email)
	byEmail, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, internal(err)
	}
	if byEmail != nil {
		return nil, ErrEmailExists
	}
	byPhone, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, internal(err)
	}
	if byPhone != nil {
		return nil, ErrPhoneExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{Name: req.Name, Email: email, Phone: req.Phone, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrEmailExists
		}
		return nil, internal(err)
	}
	return s.authResp(ctx, user)
}

func (s *UserService) Login(ctx context.Context, req *dto.LoginReq) (*dto.UserAuthResp, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, internal(err)
	}
	if user == nil || !CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.authResp(ctx, user)
}

func (s *UserService) authResp(ctx context.Context, user *model.User) (*dto.UserAuthResp, error) {
	token, err := s.auth.Issue(ctx, user.ID, model.SubjectUser, user.RoleID)
	if err != nil {
		return nil, err
	}
	return &dto.UserAuthResp{Token: token, User: user}, nil
}

// ==================== 验证码 ====================

// SendOTP 发送验证码，同一用户 60 秒内只能发送一次
func (s *UserService) SendOTP(ctx context.Context, req *dto.SendOTPReq) error {
	user, err := s.findByIdentifier(ctx, req.Identifier)
	if err != nil {
		return err
	}

	ok, err := s.otpRepo.AcquireCooldown(ctx, user.ID, otpCooldown)
	if err != nil {
		return apperr.Internal("Failed to send verification code", err)
	}
	if !ok {
		return ErrOTPCooldown
	}

	code, err := utils.RandomDigits(otpLength)
	if err != nil {
		return apperr.Internal("Failed to generate verification code", err)
	}
	codeHash, err := HashPassword(code)
	if err != nil {
		return err
	}
	if err := s.otpRepo.Store(ctx, user.ID, req.Channel, codeHash, otpTTL); err != nil {
		return apperr.Internal("Failed to send verification code", err)
	}

	if err := s.deliverOTP(ctx, user, req.Channel, code); err != nil {
		_ = s.otpRepo.Delete(ctx, user.ID)
		if rerr := s.otpRepo.ReleaseCooldown(ctx, user.ID); rerr != nil {
			logger.WithContext(ctx).Warn("release otp cooldown failed", zap.Int64("user_id", user.ID), zap.Error(rerr))
		}
		return apperr.Internal("Failed to send verification code", err)
	}

	logger.WithContext(ctx).Info("otp sent",
		zap.Int64("user_id", user.ID), zap.String("channel", req.Channel))
	return nil
}

func (s *UserService) deliverOTP(ctx context.Context, user *model.User, channel, code string) error {
	text := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(otpTTL.Minutes()))
	if channel == model.OTPChannelSMS {
		return s.sms.Send(ctx, user.Phone, text)
	}
	return s.mailer.Send(ctx, MailMessage{
		To:      user.Email,
		Subject: "Your verification code",
		HTML:    "<p>" + text + "</p>",
	})
}

// VerifyOTP 校验验证码，成功后标记为已验证并签发凭证
func (s *UserService) VerifyOTP(ctx context.Context, req *dto.VerifyOTPReq) (*dto.UserAuthResp, error) {
	user, err := s.findByIdentifier(ctx, req.Identifier)
	if err != nil {
		return nil, err
	}

	record, err := s.otpRepo.Fetch(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to verify code", err)
	}
	if record == nil {
		return nil, ErrOTPExpired
	}
	if record.Attempts >= otpMaxAttempts {
		return nil, ErrOTPTooManyAttempts
	}
	if !CheckPassword(record.CodeHash, req.Code) {
		if _, err := s.otpRepo.IncrAttempts(ctx, user.ID); err != nil {
			return nil, apperr.Internal("Failed to verify code", err)
		}
		return nil, ErrOTPInvalid
	}

	if err := s.otpRepo.Delete(ctx, user.ID); err != nil {
		return nil, apperr.Internal("Failed to verify code", err)
	}
	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return nil, internal(err)
	}
	user.Verified = true
	return s.authResp(ctx, user)
}

// findByIdentifier 包含 @ 视为邮箱，否则视为手机号
func (s *UserService) findByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	var (
		user *model.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.GetByPhone(ctx, identifier)
	}
	if err != nil {
		return nil, internal(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ==================== 资料 ====================

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) UpdateMe(ctx context.Context, id int64, req *dto.UpdateMeReq) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, internal(err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, q *dto.PageQuery) ([]model.User, int64, error) {
	list, total, err := s.userRepo.List(ctx, q.Search, PageOf(*q))
	return list, total, internal(err)
}

var (
	ErrUserNotFound       = apperr.NotFound("User not found")
	ErrPhoneExists        = apperr.BadRequest("Phone already exists")
	ErrOTPCooldown        = apperr.BadRequest("Please wait before requesting another code").WithCode("OTP_COOLDOWN")
	ErrOTPExpired         = apperr.BadRequest("Verification code expired or not found").WithCode("OTP_EXPIRED")
	ErrOTPInvalid         = apperr.BadRequest("Invalid verification code").WithCode("OTP_INVALID")
	ErrOTPTooManyAttempts = apperr.BadRequest("Too many attempts, request a new code").WithCode("OTP_ATTEMPTS")
)
