package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DevJWTSecret is used when JWT_SECRET is not set. Deployments must override it.
const DevJWTSecret = "dev-insecure-jwt-secret-change-me"

// Config holds the application configuration
type Config struct {
	Environment        string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	JWTSecretFallback  bool
	LogLevel           string
	LoginMaxFailures   int
	LoginFailureWindow time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	maxFailures, err := strconv.Atoi(getEnv("LOGIN_MAX_FAILURES", "5"))
	if err != nil || maxFailures < 1 {
		return nil, fmt.Errorf("invalid LOGIN_MAX_FAILURES: %q", os.Getenv("LOGIN_MAX_FAILURES"))
	}

	window, err := time.ParseDuration(getEnv("LOGIN_FAILURE_WINDOW", "15m"))
	if err != nil || window <= 0 {
		return nil, fmt.Errorf("invalid LOGIN_FAILURE_WINDOW: %q", os.Getenv("LOGIN_FAILURE_WINDOW"))
	}

	secret := os.Getenv("JWT_SECRET")
	fallback := secret == ""
	if fallback {
		secret = DevJWTSecret
	}

	return &Config{
		Environment:        strings.ToLower(getEnv("ENV", "development")),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		JWTSecret:          secret,
		JWTSecretFallback:  fallback,
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LoginMaxFailures:   maxFailures,
		LoginFailureWindow: window,
	}, nil
}

// IsDevelopment reports whether the process runs in local development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
