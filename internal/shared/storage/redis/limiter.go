package redis

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/util"
)

const (
	rateLimitPrefix = "ratelimit:"
	window          = time.Minute
)

// Connect parses a redis:// URL and verifies connectivity.
func Connect(ctx context.Context, rawURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Limiter is a fixed-window limiter shared by every API replica.
type Limiter struct {
	client goredis.Cmdable
	now    func() time.Time
}

// NewLimiter wraps client.
func NewLimiter(client goredis.Cmdable) *Limiter {
	return &Limiter{client: client, now: time.Now}
}

// Allow counts one request for key in the current minute window.
func (l *Limiter) Allow(ctx context.Context, key string, rule middleware.RateLimitRule) (bool, time.Duration, error) {
	limit := windowLimit(rule)
	if limit <= 0 {
		return true, 0, nil
	}
	now := l.now()
	windowStart := now.Truncate(window)
	fullKey := windowKey(key, windowStart)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil && err != goredis.Nil {
		return false, 0, fmt.Errorf("rate limit check: %w", err)
	}

	if incr.Val() <= limit {
		return true, 0, nil
	}
	return false, windowStart.Add(window).Sub(now), nil
}

// windowLimit converts a token-bucket rule to a per-minute request budget.
func windowLimit(rule middleware.RateLimitRule) int64 {
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return 0
	}
	return int64(math.Ceil(rule.Rate*window.Seconds())) + int64(rule.Burst)
}

// windowKey keeps raw user ids and client IPs out of the shared keyspace.
func windowKey(key string, windowStart time.Time) string {
	return fmt.Sprintf("%s%s:%d", rateLimitPrefix, util.HashKey(key), windowStart.Unix())
}

var _ middleware.Limiter = (*Limiter)(nil)
