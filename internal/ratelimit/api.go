// Package ratelimit caps /api requests per client IP at
// RATE_LIMIT_MAX_REQUESTS per RATE_LIMIT_WINDOW_MS.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/karatledger/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyAPIClient = "karatledger:ratelimit:api:%s"

var Module = fx.Module("rate.limit",
	fx.Provide(NewAPILimiter),
)

// APILimiter admits or rejects api calls. A nil limiter admits everything.
type APILimiter struct {
	store  store
	limit  int
	window time.Duration
}

// NewAPILimiter counts in redis when REDIS_ADDR is set, otherwise in
// process memory.
func NewAPILimiter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*APILimiter, error) {
	if cfg.RateLimitMaxRequests <= 0 || cfg.RateLimitWindow <= 0 {
		return nil, errors.New("rate limit window and max requests must be positive")
	}
	limiter := &APILimiter{limit: cfg.RateLimitMaxRequests, window: cfg.RateLimitWindow}

	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		log.Info("api rate limit kept in memory, REDIS_ADDR not set",
			zap.Int("max_requests", limiter.limit),
			zap.Duration("window", limiter.window),
		)
		limiter.store = newMemoryStore()
		return limiter, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	limiter.store = newRedisWindow(client)
	return limiter, nil
}

func (l *APILimiter) Enabled() bool {
	return l != nil && l.store != nil
}

func (l *APILimiter) Allow(ctx context.Context, clientIP string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.store.hit(ctx, fmt.Sprintf(keyAPIClient, strings.TrimSpace(clientIP)), l.limit, l.window)
}
