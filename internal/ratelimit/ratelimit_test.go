package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestNewAPILimiterRejectsBadConfig(t *testing.T) {
	_, err := NewAPILimiter(fxtest.NewLifecycle(t), config.Config{RateLimitWindow: time.Minute}, zap.NewNop())
	assert.Error(t, err)
}

func TestNilLimiterAllows(t *testing.T) {
	var limiter *APILimiter
	assert.False(t, limiter.Enabled())
	res, err := limiter.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryLimiterPerClient(t *testing.T) {
	limiter, err := NewAPILimiter(fxtest.NewLifecycle(t), config.Config{
		RateLimitWindow:      15 * time.Minute,
		RateLimitMaxRequests: 3,
	}, zap.NewNop())
	require.NoError(t, err)
	require.True(t, limiter.Enabled())

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	limiter.store.(*memoryStore).now = func() time.Time { return now }
	ctx := context.Background()

	for i := 2; i >= 0; i-- {
		res, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, i, res.Remaining)
	}

	res, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 5*time.Minute, res.RetryAfter)

	other, err := limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	now = now.Add(5 * time.Minute)
	res, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryStoreEvictsIdleClients(t *testing.T) {
	store := newMemoryStore()
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, err := store.hit(context.Background(), "a", 1, time.Minute)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	store.evict(now, time.Minute)
	assert.Empty(t, store.clients)
}

func TestDecide(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	res := decide(1, 100, 15*time.Minute, now)
	assert.True(t, res.Allowed)
	assert.Equal(t, 99, res.Remaining)
	assert.Equal(t, now.Add(15*time.Minute), res.ResetTime)
	assert.Zero(t, res.RetryAfter)

	res = decide(101, 100, 30*time.Second, now)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, 30*time.Second, res.RetryAfter)
}
