package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"mall_saas_202610/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix      = "otp"
	otpCooldownPrefix = "otp:cooldown"

	fieldCodeHash = "code_hash"
	fieldChannel  = "channel"
	fieldAttempts = "attempts"
)

// OTPRepository 验证码仓库，依赖 Redis TTL 自动过期
type OTPRepository interface {
	Store(ctx context.Context, userID int64, channel, codeHash string, ttl time.Duration) error
	Fetch(ctx context.Context, userID int64) (*model.OTPRecord, error)
	IncrAttempts(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, userID int64) error
	AcquireCooldown(ctx context.Context, userID int64, interval time.Duration) (bool, error)
	ReleaseCooldown(ctx context.Context, userID int64) error
}

type otpRepository struct {
	client *redis.Client
}

// NewOTPRepository 创建验证码仓库
func NewOTPRepository(client *redis.Client) OTPRepository {
	return &otpRepository{client: client}
}

func otpKey(userID int64) string {
	return otpKeyPrefix + ":" + strconv.FormatInt(userID, 10)
}

func otpCooldownKey(userID int64) string {
	return otpCooldownPrefix + ":" + strconv.FormatInt(userID, 10)
}

// key 已过期时不自增，避免生成没有 TTL 的残留 hash
var incrAttemptsScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
return redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
`)

// Store 覆盖写入验证码，并重置尝试次数
func (r *otpRepository) Store(ctx context.Context, userID int64, channel, codeHash string, ttl time.Duration) error {
	key := otpKey(userID)

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		fieldCodeHash: codeHash,
		fieldChannel:  channel,
		fieldAttempts: "0",
	})
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store otp: %w", err)
	}
	return nil
}

// Fetch 不存在或已过期时返回 nil, nil
func (r *otpRepository) Fetch(ctx context.Context, userID int64) (*model.OTPRecord, error) {
	values, err := r.client.HGetAll(ctx, otpKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall otp: %w", err)
	}
	if len(values) == 0 || values[fieldCodeHash] == "" {
		return nil, nil
	}

	attempts, _ := strconv.Atoi(values[fieldAttempts])
	return &model.OTPRecord{
		UserID:   userID,
		Channel:  values[fieldChannel],
		CodeHash: values[fieldCodeHash],
		Attempts: attempts,
	}, nil
}

// IncrAttempts 尝试次数 +1，返回最新次数；验证码已过期时返回 0
func (r *otpRepository) IncrAttempts(ctx context.Context, userID int64) (int, error) {
	n, err := incrAttemptsScript.Run(ctx, r.client, []string{otpKey(userID)}, fieldAttempts).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis incr otp attempts: %w", err)
	}
	if n < 0 {
		return 0, nil
	}
	return int(n), nil
}

func (r *otpRepository) Delete(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, otpKey(userID)).Err()
}

// AcquireCooldown 冷却期内重复发送返回 false
func (r *otpRepository) AcquireCooldown(ctx context.Context, userID int64, interval time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, otpCooldownKey(userID), "1", interval).Result()
	if err != nil {
		return false, fmt.Errorf("redis otp cooldown: %w", err)
	}
	return ok, nil
}

// ReleaseCooldown 发送失败时释放冷却，允许立即重试
func (r *otpRepository) ReleaseCooldown(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, otpCooldownKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis release otp cooldown: %w", err)
	}
	return nil
}
