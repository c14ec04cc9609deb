package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// The first hit of a window creates the counter with its expiry; later hits
// only increment it. Returns the count and the remaining ttl in ms.
const fixedWindowScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`

// Result describes one admission decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type store interface {
	hit(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// redisWindow counts hits per window in redis so every api instance shares
// one budget per client.
type redisWindow struct {
	client redis.Scripter
	script *redis.Script
	now    func() time.Time
}

func newRedisWindow(client redis.Scripter) *redisWindow {
	return &redisWindow{
		client: client,
		script: redis.NewScript(fixedWindowScript),
		now:    time.Now,
	}
}

func (w *redisWindow) hit(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	if key == "" {
		return nil, errors.New("rate limit key is empty")
	}
	res, err := w.script.Run(ctx, w.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 2 {
		return nil, errors.New("rate limit script returned an unexpected reply")
	}
	return decide(int(res[0]), limit, time.Duration(res[1])*time.Millisecond, w.now()), nil
}

// decide turns the hit count of the current window into a Result.
func decide(count, limit int, ttl time.Duration, now time.Time) *Result {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	res := &Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(ttl),
	}
	if !res.Allowed {
		res.RetryAfter = ttl
	}
	return res
}
