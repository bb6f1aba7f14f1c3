package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// FixedWindowLimiter counts requests in fixed windows using a ulule limiter store.
type FixedWindowLimiter struct {
	Store limiter.Store
}

// NewMemoryLimiter keeps counters in process memory. Counters are not shared
// between replicas.
func NewMemoryLimiter(prefix string) FixedWindowLimiter {
	return FixedWindowLimiter{Store: memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          prefix,
		CleanUpInterval: time.Minute,
	})}
}

// NewRedisFixedLimiter keeps counters in Redis.
func NewRedisFixedLimiter(rdb *redis.Client, prefix string) (FixedWindowLimiter, error) {
	store, err := limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: prefix})
	if err != nil {
		return FixedWindowLimiter{}, fmt.Errorf("ratelimit: redis store: %w", err)
	}
	return FixedWindowLimiter{Store: store}, nil
}

// Allow implements Limiter.
func (l FixedWindowLimiter) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, int, time.Time, error) {
	if l.Store == nil || max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}
	rate := limiter.Rate{Period: window, Limit: int64(max)}
	// windows of different sizes must not share counters
	scoped := fmt.Sprintf("%s:%d:%d", key, window.Milliseconds(), max)
	lctx, err := limiter.New(l.Store, rate).Get(ctx, scoped)
	if err != nil {
		return false, 0, time.Now().Add(window), err
	}
	return !lctx.Reached, int(lctx.Remaining), time.Unix(lctx.Reset, 0), nil
}
