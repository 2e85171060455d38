package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// AppConfig 应用配置
type AppConfig struct {
	App      AppSettings      `mapstructure:"app"`
	Database DatabaseSettings `mapstructure:"database"`
	Redis    RedisSettings    `mapstructure:"redis"`
	JWT      JWTSettings      `mapstructure:"jwt"`
	Mail     MailSettings     `mapstructure:"mail"`
	SMS      SMSSettings      `mapstructure:"sms"`
	Payment  PaymentSettings  `mapstructure:"payment"`
	Storage  StorageSettings  `mapstructure:"storage"`
	Renderer RendererSettings `mapstructure:"renderer"`
	Admin    AdminSettings    `mapstructure:"admin"`
	Tasks    TaskSettings     `mapstructure:"tasks"`
}

type AppSettings struct {
	Name string `mapstructure:"name" validate:"required"`
	Env  string `mapstructure:"env" validate:"oneof=development test production"`
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`
}

type DatabaseSettings struct {
	DSN             string        `mapstructure:"dsn" validate:"required"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=1"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogSQL          bool          `mapstructure:"log_sql"`
}

type RedisSettings struct {
	Addr     string `mapstructure:"addr" validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

type JWTSettings struct {
	Secret   string        `mapstructure:"secret" validate:"required,min=16"`
	Issuer   string        `mapstructure:"issuer" validate:"required"`
	TokenTTL time.Duration `mapstructure:"token_ttl" validate:"required"`
}

type MailSettings struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key" validate:"required"`
	From    string `mapstructure:"from" validate:"required,email"`
}

type SMSSettings struct {
	BaseURL    string `mapstructure:"base_url" validate:"required,url"`
	AccountSID string `mapstructure:"account_sid" validate:"required"`
	AuthToken  string `mapstructure:"auth_token" validate:"required"`
	From       string `mapstructure:"from" validate:"required"`
}

type PaymentSettings struct {
	BaseURL   string `mapstructure:"base_url" validate:"required,url"`
	KeyID     string `mapstructure:"key_id" validate:"required"`
	KeySecret string `mapstructure:"key_secret" validate:"required"`
	Currency  string `mapstructure:"currency" validate:"required,len=3"`
}

type StorageSettings struct {
	Provider  string `mapstructure:"provider" validate:"oneof=s3 local"`
	Bucket    string `mapstructure:"bucket" validate:"required_if=Provider s3"`
	Region    string `mapstructure:"region" validate:"required_if=Provider s3"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Endpoint  string `mapstructure:"endpoint"`
	CDNDomain string `mapstructure:"cdn_domain"`
	BasePath  string `mapstructure:"base_path"`
	LocalDir  string `mapstructure:"local_dir" validate:"required_if=Provider local"`
}

type RendererSettings struct {
	GotenbergURL string        `mapstructure:"gotenberg_url" validate:"required,url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// AdminSettings 超级管理员的数值型权限
type AdminSettings struct {
	MaxCommissionPercent float64 `mapstructure:"max_commission_percent" validate:"min=0,max=100"`
	MinCommissionPercent float64 `mapstructure:"min_commission_percent" validate:"min=0,max=100"`
	ProductLimit         float64 `mapstructure:"product_limit" validate:"min=0"`
	CouponLimit          float64 `mapstructure:"coupon_limit" validate:"min=0"`
	// 首次启动时创建的超级管理员，留空则跳过
	BootstrapEmail    string `mapstructure:"bootstrap_email" validate:"omitempty,email"`
	BootstrapPassword string `mapstructure:"bootstrap_password" validate:"required_with=BootstrapEmail"`
}

// TaskSettings 定时任务，cron 表达式带秒字段
type TaskSettings struct {
	CouponSweepEnabled bool   `mapstructure:"coupon_sweep_enabled"`
	CouponSweepSpec    string `mapstructure:"coupon_sweep_spec" validate:"required_if=CouponSweepEnabled true"`
}

// 需要从环境变量读取的 key
var envKeys = []string{
	"app.name", "app.env", "app.port",
	"database.dsn", "database.max_idle_conns", "database.max_open_conns",
	"database.conn_max_lifetime", "database.log_sql",
	"redis.addr", "redis.password", "redis.db",
	"jwt.secret", "jwt.issuer", "jwt.token_ttl",
	"mail.base_url", "mail.api_key", "mail.from",
	"sms.base_url", "sms.account_sid", "sms.auth_token", "sms.from",
	"payment.base_url", "payment.key_id", "payment.key_secret", "payment.currency",
	"storage.provider", "storage.bucket", "storage.region", "storage.access_key",
	"storage.secret_key", "storage.endpoint", "storage.cdn_domain", "storage.base_path",
	"storage.local_dir",
	"renderer.gotenberg_url", "renderer.timeout",
	"admin.max_commission_percent", "admin.min_commission_percent",
	"admin.product_limit", "admin.coupon_limit",
	"admin.bootstrap_email", "admin.bootstrap_password",
	"tasks.coupon_sweep_enabled", "tasks.coupon_sweep_spec",
}

// Load 读取配置：环境变量 SHOP_* 优先，其次 config.yaml，最后默认值
// 必填项缺失或格式错误时返回描述性错误，调用方应立即退出
func Load(paths ...string) (*AppConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置，错误信息中给出环境变量名
func Validate(cfg *AppConfig) error {
	v := validator.New()
	// 使用 mapstructure 名称，便于还原环境变量名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" {
			return f.Name
		}
		return name
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s (%s) failed on '%s'", envName(fe.Namespace()), fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// envName AppConfig.jwt.secret -> SHOP_JWT_SECRET
func envName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return "SHOP_" + strings.ToUpper(strings.Join(parts, "_"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "mall-saas")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)

	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.issuer", "mall-saas")
	v.SetDefault("jwt.token_ttl", 24*time.Hour)

	v.SetDefault("payment.currency", "INR")

	v.SetDefault("storage.provider", "s3")
	v.SetDefault("storage.base_path", "invoices")

	v.SetDefault("renderer.gotenberg_url", "http://127.0.0.1:3000")
	v.SetDefault("renderer.timeout", 30*time.Second)

	v.SetDefault("admin.max_commission_percent", 100)
	v.SetDefault("admin.min_commission_percent", 0)
	v.SetDefault("admin.product_limit", 1000000)
	v.SetDefault("admin.coupon_limit", 1000000)

	v.SetDefault("tasks.coupon_sweep_enabled", true)
	v.SetDefault("tasks.coupon_sweep_spec", "0 */10 * * * *")
}
