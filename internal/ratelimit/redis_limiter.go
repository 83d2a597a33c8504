package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/owobot-dev/owobot/pkg/redis"
)

// RedisLimiter implements Limiter on top of Redis so limits survive restarts
// and hold across replicas. Counting uses a fixed window per key.
type RedisLimiter struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisLimiter returns a Redis-backed limiter implementation.
func NewRedisLimiter(client *redis.Client, log *slog.Logger) *RedisLimiter {
	if log == nil {
		log = slog.Default()
	}

	return &RedisLimiter{
		client: client,
		log:    log,
	}
}

// Check enforces a fixed-window limit for the provided key.
func (r *RedisLimiter) Check(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("ratelimit incr: %w", err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return nil, fmt.Errorf("ratelimit expire: %w", err)
		}
	}

	ttl, err := r.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   count <= int64(limit),
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}

	if !result.Allowed {
		return result, ErrLimitExceeded
	}

	return result, nil
}
