package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"memberfee_app_echo/internal/auth"
	"memberfee_app_echo/internal/config"
	"memberfee_app_echo/internal/handlers"
	"memberfee_app_echo/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)
	log.Info("starting membership fee server", slog.String("environment", cfg.Environment))

	if cfg.JWTSecretFallback {
		log.Warn("JWT_SECRET is not set, sessions are signed with the development secret")
	}
	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is not set")
		os.Exit(1)
	}

	// Initialize Database
	db, err := services.InitDB(cfg.DatabaseURL, services.GormLogLevel(cfg.SlogLevel()))
	if err != nil {
		log.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Error("failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Login throttle: Redis when configured, otherwise per process
	var throttle services.LoginThrottle
	if cfg.RedisURL != "" {
		cache, err := services.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to Redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer cache.Close()
		throttle = services.NewRedisLoginThrottle(cache, cfg.LoginMaxFailures, cfg.LoginFailureWindow)
	} else {
		log.Info("REDIS_URL not set, using in-memory login throttle")
		throttle = services.NewMemoryLoginThrottle(cfg.LoginMaxFailures, cfg.LoginFailureWindow)
	}

	sessions := auth.NewSessionManager(cfg.JWTSecret, !cfg.IsDevelopment(), log)

	e := handlers.NewServer(handlers.Dependencies{
		DB:       db,
		Sessions: sessions,
		Throttle: throttle,
		Logger:   log,
	}, "web/static")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", slog.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
	}
}
