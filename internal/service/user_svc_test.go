package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

func newUserService(f *fixture) *UserService {
	return NewUserService(f.userRepo, f.otpRepo, f.auth, f.mailer, f.sms)
}

func TestUserService_SignupLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newUserService(f)

	resp, err := svc.Signup(ctx, &dto.UserSignupReq{
		Name: "Buyer", Email: "buyer@x.com", Phone: "+919000000001", Password: "Secret1!",
	})
	require.NoError(t, err)
	claims, ok := f.codec.Verify(resp.Token)
	require.True(t, ok)
	assert.Equal(t, model.SubjectUser, claims.SubjectType)

	_, err = svc.Signup(ctx, &dto.UserSignupReq{
		Name: "Other", Email: "other@x.com", Phone: "+919000000001", Password: "Secret1!",
	})
	assert.ErrorIs(t, err, ErrPhoneExists)

	_, err = svc.Login(ctx, &dto.LoginReq{Email: "buyer@x.com", Password: "Secret1!"})
	require.NoError(t, err)
}

func TestUserService_OTPFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newUserService(f)
	user := f.seedUser(t, "buyer@x.com", "+919000000001")

	require.NoError(t, svc.SendOTP(ctx, &dto.SendOTPReq{Identifier: user.Phone, Channel: model.OTPChannelSMS}))
	last := f.sms.Last()
	assert.Equal(t, user.Phone, last.To)
	m := codePattern.FindStringSubmatch(last.Body)
	require.Len(t, m, 2)
	code := m[1]

	// 60 秒内重复发送被拒绝
	err := svc.SendOTP(ctx, &dto.SendOTPReq{Identifier: user.Phone, Channel: model.OTPChannelSMS})
	assert.ErrorIs(t, err, ErrOTPCooldown)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = svc.VerifyOTP(ctx, &dto.VerifyOTPReq{Identifier: user.Phone, Code: wrong})
	assert.ErrorIs(t, err, ErrOTPInvalid)

	resp, err := svc.VerifyOTP(ctx, &dto.VerifyOTPReq{Identifier: user.Phone, Code: code})
	require.NoError(t, err)
	assert.True(t, resp.User.Verified)

	// 验证码一次性
	_, err = svc.VerifyOTP(ctx, &dto.VerifyOTPReq{Identifier: user.Phone, Code: code})
	assert.ErrorIs(t, err, ErrOTPExpired)

	stored, err := f.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Verified)
}

func TestUserService_OTPExpiresAndCooldownResets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newUserService(f)
	user := f.seedUser(t, "buyer@x.com", "+919000000001")

	require.NoError(t, svc.SendOTP(ctx, &dto.SendOTPReq{Identifier: "buyer@x.com", Channel: model.OTPChannelEmail}))
	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, user.Email, sent[0].To)
	code := codePattern.FindStringSubmatch(sent[0].HTML)[1]

	f.mr.FastForward(otpTTL + time.Second)

	_, err := svc.VerifyOTP(ctx, &dto.VerifyOTPReq{Identifier: "buyer@x.com", Code: code})
	assert.ErrorIs(t, err, ErrOTPExpired)

	require.NoError(t, svc.SendOTP(ctx, &dto.SendOTPReq{Identifier: "buyer@x.com", Channel: model.OTPChannelEmail}))
}

func TestUserService_OTPTooManyAttempts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newUserService(f)
	user := f.seedUser(t, "buyer@x.com", "+919000000001")

	require.NoError(t, svc.SendOTP(ctx, &dto.SendOTPReq{Identifier: user.Phone, Channel: model.OTPChannelSMS}))
	code := codePattern.FindStringSubmatch(f.sms.Last().Body)[1]
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	for i := 0; i < otpMaxAttempts; i++ {
		_, err := svc.VerifyOTP(ctx, &dto.VerifyOTPReq{Identifier: user.Phone, Code: wrong})
		require.ErrorIs(t, err, ErrOTPInvalid)
	}
	_, err := svc.VerifyOTP(ctx, &dto.VerifyOTPReq{Identifier: user.Phone, Code: code})
	assert.ErrorIs(t, err, ErrOTPTooManyAttempts)
}

func TestUserService_OTPDeliveryFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sms.err = errors.New("provider down")
	svc := newUserService(f)
	user := f.seedUser(t, "buyer@x.com", "+919000000001")

	err := svc.SendOTP(ctx, &dto.SendOTPReq{Identifier: user.Phone, Channel: model.OTPChannelSMS})
	require.Error(t, err)

	rec, err := f.otpRepo.Fetch(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, rec, "发送失败时删除验证码")

	// 冷却已释放，服务恢复后可立即重发
	f.sms.err = nil
	require.NoError(t, svc.SendOTP(ctx, &dto.SendOTPReq{Identifier: user.Phone, Channel: model.OTPChannelSMS}))

	assert.ErrorIs(t, svc.SendOTP(ctx, &dto.SendOTPReq{Identifier: "nobody@x.com", Channel: model.OTPChannelEmail}), ErrUserNotFound)
}
