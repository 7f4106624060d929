package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoginThrottle(t *testing.T) {
	ctx := context.Background()
	th := NewMemoryLoginThrottle(3, time.Hour)

	for i := 0; i < 3; i++ {
		ok, err := th.Allow(ctx, "alice@example.com")
		require.NoError(t, err)
		require.True(t, ok, "attempt %d", i)
		require.NoError(t, th.Fail(ctx, "alice@example.com"))
	}

	ok, _ := th.Allow(ctx, "Alice@Example.com ")
	assert.False(t, ok, "keys are case insensitive")

	require.NoError(t, th.Reset(ctx, "alice@example.com"))
	ok, _ = th.Allow(ctx, "alice@example.com")
	assert.True(t, ok)
}

func TestRedisLoginThrottle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCacheFromClient(client)
	t.Cleanup(func() { _ = cache.Close() })

	ctx := context.Background()
	th := NewRedisLoginThrottle(cache, 2, 15*time.Minute)

	for i := 0; i < 2; i++ {
		ok, err := th.Allow(ctx, "alice@example.com")
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, th.Fail(ctx, "alice@example.com"))
	}
	ok, err := th.Allow(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 15*time.Minute, mr.TTL("login:failures:alice@example.com"))

	mr.FastForward(16 * time.Minute)
	ok, err = th.Allow(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok, "window expired")

	require.NoError(t, th.Fail(ctx, "alice@example.com"))
	require.NoError(t, th.Reset(ctx, "alice@example.com"))
	assert.False(t, mr.Exists("login:failures:alice@example.com"))
}

func TestRedisLoginThrottleUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	th := NewRedisLoginThrottle(cache, 2, time.Minute)
	mr.Close()

	ok, err := th.Allow(context.Background(), "alice@example.com")
	assert.Error(t, err)
	assert.True(t, ok, "a broken throttle does not lock users out")
}
