package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("SHOP_DATABASE_DSN", "host=localhost user=shop dbname=shop sslmode=disable")
	t.Setenv("SHOP_JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("SHOP_MAIL_BASE_URL", "https://mail.example.com")
	t.Setenv("SHOP_MAIL_API_KEY", "mail-key")
	t.Setenv("SHOP_MAIL_FROM", "noreply@example.com")
	t.Setenv("SHOP_SMS_BASE_URL", "https://sms.example.com")
	t.Setenv("SHOP_SMS_ACCOUNT_SID", "AC123")
	t.Setenv("SHOP_SMS_AUTH_TOKEN", "sms-token")
	t.Setenv("SHOP_SMS_FROM", "+10000000000")
	t.Setenv("SHOP_PAYMENT_BASE_URL", "https://pay.example.com")
	t.Setenv("SHOP_PAYMENT_KEY_ID", "key_id")
	t.Setenv("SHOP_PAYMENT_KEY_SECRET", "key_secret")
	t.Setenv("SHOP_STORAGE_BUCKET", "invoices")
	t.Setenv("SHOP_STORAGE_REGION", "ap-south-1")
}

func TestLoad_FromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHOP_APP_PORT", "9090")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0123456789abcdef0123", cfg.JWT.Secret)
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.Equal(t, "s3", cfg.Storage.Provider)
	assert.Positive(t, cfg.JWT.TokenTTL)
	assert.True(t, cfg.Tasks.CouponSweepEnabled)
	assert.Equal(t, "0 */10 * * * *", cfg.Tasks.CouponSweepSpec)
}

func TestLoad_MissingSecretFailsFast(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHOP_JWT_SECRET", "")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHOP_JWT_SECRET")
}

func TestLoad_MissingDSNFailsFast(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHOP_DATABASE_DSN", "")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHOP_DATABASE_DSN")
}

func TestLoad_MalformedURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHOP_MAIL_BASE_URL", "not a url")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHOP_MAIL_BASE_URL")
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "SHOP_JWT_SECRET", envName("AppConfig.jwt.secret"))
	assert.Equal(t, "SHOP_DATABASE_DSN", envName("AppConfig.database.dsn"))
	assert.Equal(t, "SHOP_MAIL_BASE_URL", envName("AppConfig.mail.base_url"))
}
