package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ENV", "PORT", "DATABASE_URL", "REDIS_URL", "JWT_SECRET", "LOG_LEVEL", "LOGIN_MAX_FAILURES", "LOGIN_FAILURE_WINDOW"} {
		t.Setenv(k, "")
	}

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.True(t, c.IsDevelopment())
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, DevJWTSecret, c.JWTSecret)
	assert.True(t, c.JWTSecretFallback)
	assert.Equal(t, 5, c.LoginMaxFailures)
	assert.Equal(t, 15*time.Minute, c.LoginFailureWindow)
	assert.Equal(t, slog.LevelInfo, c.SlogLevel())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "Production")
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOGIN_MAX_FAILURES", "3")
	t.Setenv("LOGIN_FAILURE_WINDOW", "1m")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", c.Environment)
	assert.False(t, c.IsDevelopment())
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, "s3cret", c.JWTSecret)
	assert.False(t, c.JWTSecretFallback)
	assert.Equal(t, 3, c.LoginMaxFailures)
	assert.Equal(t, time.Minute, c.LoginFailureWindow)
	assert.Equal(t, slog.LevelDebug, c.SlogLevel())
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("LOGIN_MAX_FAILURES", "zero")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("LOGIN_MAX_FAILURES", "5")
	t.Setenv("LOGIN_FAILURE_WINDOW", "soon")
	_, err = Load()
	require.Error(t, err)
}
