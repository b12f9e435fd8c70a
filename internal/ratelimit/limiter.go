package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	cache "dingbot/internal/cache/iface"
	"dingbot/internal/logger"
)

// DefaultWindow matches DingTalk's per-robot quota period.
const DefaultWindow = time.Minute

// Decision is the outcome of one quota check.
type Decision struct {
	Allowed bool
	Count   int64
	Limit   int
	ResetAt time.Time
}

// Limiter hands out send slots per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type windowLimiter struct {
	cache  cache.Cache
	limit  int
	window time.Duration
	now    func() time.Time
	logger logger.Logger
}

// NewWindowLimiter allows at most limit calls per key in each fixed window.
// A limit <= 0 disables limiting.
func NewWindowLimiter(c cache.Cache, limit int, window time.Duration, log logger.Logger) Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &windowLimiter{
		cache:  c,
		limit:  limit,
		window: window,
		now:    time.Now,
		logger: log.With(logger.String("component", "rate_limiter")),
	}
}

func (l *windowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	start := l.now().Truncate(l.window)
	decision := Decision{Allowed: true, Limit: l.limit, ResetAt: start.Add(l.window)}
	if l.limit <= 0 {
		return decision, nil
	}

	bucket := fmt.Sprintf("dingbot:ratelimit:%s:%d", key, start.Unix())
	n, err := l.cache.Incr(ctx, bucket, l.window)
	if err != nil {
		return decision, fmt.Errorf("rate limit check failed: %w", err)
	}

	decision.Count = n
	decision.Allowed = n <= int64(l.limit)
	if !decision.Allowed {
		l.logger.Warn("send quota exhausted",
			logger.String("key", key),
			logger.Int64("count", n),
			logger.Int("limit", l.limit))
	}
	return decision, nil
}

// RobotKey derives a quota key from an access token without exposing it.
func RobotKey(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return hex.EncodeToString(sum[:8])
}
