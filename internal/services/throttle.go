package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginThrottle limits repeated failed logins per account
type LoginThrottle interface {
	// Allow reports whether another login attempt for key may proceed
	Allow(ctx context.Context, key string) (bool, error)
	// Fail records a failed attempt for key
	Fail(ctx context.Context, key string) error
	// Reset forgets all failures of key
	Reset(ctx context.Context, key string) error
}

// RedisLoginThrottle counts failures in Redis so all server processes share them
type RedisLoginThrottle struct {
	cache       *RedisCache
	maxFailures int
	window      time.Duration
}

func NewRedisLoginThrottle(cache *RedisCache, maxFailures int, window time.Duration) *RedisLoginThrottle {
	return &RedisLoginThrottle{cache: cache, maxFailures: maxFailures, window: window}
}

func (t *RedisLoginThrottle) Allow(ctx context.Context, key string) (bool, error) {
	n, err := t.cache.Count(ctx, throttleKey(key))
	if err != nil {
		return true, err
	}
	return n < int64(t.maxFailures), nil
}

func (t *RedisLoginThrottle) Fail(ctx context.Context, key string) error {
	_, err := t.cache.IncrementWindow(ctx, throttleKey(key), t.window)
	return err
}

func (t *RedisLoginThrottle) Reset(ctx context.Context, key string) error {
	return t.cache.Delete(ctx, throttleKey(key))
}

// MemoryLoginThrottle keeps one token bucket per key in process memory.
// Each failure spends a token; tokens refill at maxFailures per window.
type MemoryLoginThrottle struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	maxFailures int
	every       rate.Limit
}

func NewMemoryLoginThrottle(maxFailures int, window time.Duration) *MemoryLoginThrottle {
	return &MemoryLoginThrottle{
		limiters:    make(map[string]*rate.Limiter),
		maxFailures: maxFailures,
		every:       rate.Every(window / time.Duration(maxFailures)),
	}
}

func (t *MemoryLoginThrottle) Allow(_ context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	lim, ok := t.limiters[throttleKey(key)]
	if !ok {
		return true, nil
	}
	return lim.Tokens() >= 1, nil
}

func (t *MemoryLoginThrottle) Fail(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := throttleKey(key)
	lim, ok := t.limiters[k]
	if !ok {
		lim = rate.NewLimiter(t.every, t.maxFailures)
		t.limiters[k] = lim
	}
	lim.Allow()
	return nil
}

func (t *MemoryLoginThrottle) Reset(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.limiters, throttleKey(key))
	return nil
}

func throttleKey(key string) string {
	return "login:failures:" + strings.ToLower(strings.TrimSpace(key))
}
