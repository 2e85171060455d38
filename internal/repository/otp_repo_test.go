package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOTPRepo(t *testing.T) (OTPRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewOTPRepository(client), mr
}

func TestOTPRepo_StoreFetchExpire(t *testing.T) {
	ctx := context.Background()
	repo, mr := setupOTPRepo(t)

	require.NoError(t, repo.Store(ctx, 5, "sms", "hash", 5*time.Minute))

	rec, err := repo.Fetch(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "sms", rec.Channel)
	assert.Equal(t, "hash", rec.CodeHash)
	assert.Equal(t, 0, rec.Attempts)

	n, err := repo.IncrAttempts(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// TTL 到期后自动删除
	mr.FastForward(6 * time.Minute)
	rec, err = repo.Fetch(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestOTPRepo_Cooldown(t *testing.T) {
	ctx := context.Background()
	repo, mr := setupOTPRepo(t)

	ok, err := repo.AcquireCooldown(ctx, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AcquireCooldown(ctx, 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(61 * time.Second)
	ok, err = repo.AcquireCooldown(ctx, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPRepo_IncrAttemptsAfterExpiry(t *testing.T) {
	ctx := context.Background()
	repo, mr := setupOTPRepo(t)

	require.NoError(t, repo.Store(ctx, 3, "sms", "hash", time.Minute))
	mr.FastForward(2 * time.Minute)

	n, err := repo.IncrAttempts(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, mr.Exists(otpKey(3)))

	// 未过期时 TTL 保持不变
	require.NoError(t, repo.Store(ctx, 4, "sms", "hash", time.Minute))
	n, err = repo.IncrAttempts(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, time.Minute, mr.TTL(otpKey(4)))
}

func TestOTPRepo_ReleaseCooldown(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupOTPRepo(t)

	ok, err := repo.AcquireCooldown(ctx, 2, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.ReleaseCooldown(ctx, 2))
	ok, err = repo.AcquireCooldown(ctx, 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupOTPRepo(t)

	require.NoError(t, repo.Store(ctx, 9, "email", "h", time.Minute))
	require.NoError(t, repo.Delete(ctx, 9))

	rec, err := repo.Fetch(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, rec)
}
