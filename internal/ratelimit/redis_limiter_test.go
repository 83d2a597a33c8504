package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owobot-dev/owobot/pkg/redis"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	srv := miniredis.RunT(t)

	client, err := redis.New(context.Background(), redis.Config{Addr: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedisLimiterAllowsUpToLimit(t *testing.T) {
	limiter := NewRedisLimiter(newTestRedis(t), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.Check(ctx, "user:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 2-i, result.Remaining)
	}

	result, err := limiter.Check(ctx, "user:1", 3, time.Minute)
	require.ErrorIs(t, err, ErrLimitExceeded)
	assert.False(t, result.Allowed)
}

func TestRedisLimiterWindowExpiry(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := redis.New(context.Background(), redis.Config{Addr: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRedisLimiter(client, nil)
	ctx := context.Background()

	_, err = limiter.Check(ctx, "user:1", 1, time.Minute)
	require.NoError(t, err)

	_, err = limiter.Check(ctx, "user:1", 1, time.Minute)
	require.ErrorIs(t, err, ErrLimitExceeded)

	srv.FastForward(2 * time.Minute)

	result, err := limiter.Check(ctx, "user:1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}
