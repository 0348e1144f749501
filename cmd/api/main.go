package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/crucial707/staybook/internal/auth"
	"github.com/crucial707/staybook/internal/config"
	"github.com/crucial707/staybook/internal/db"
	"github.com/crucial707/staybook/internal/middleware"
	"github.com/crucial707/staybook/internal/scheduler"
	"github.com/crucial707/staybook/internal/service"
	"github.com/crucial707/staybook/internal/storage"
)

func main() {

	// Load configuration
	cfg := config.Load()
	slog.SetDefault(newLogger(cfg))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database FIRST
	database, err := db.Connect(ctx,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		db.Options{MaxOpenConns: cfg.DBMaxOpenConns, MaxIdleConns: cfg.DBMaxIdleConns},
	)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Migrate(cfg.DatabaseURL()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var jobs []scheduler.Job
	opts := []routerOption{withHasher(auth.NewPasswordHasher(cfg.BcryptCost, cfg.HashWorkers))}

	if cfg.RedisAddr != "" {
		client, err := auth.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		opts = append(opts, withRevoker(auth.NewRedisRevoker(client)))
		slog.Info("token revocation backed by redis", "addr", cfg.RedisAddr)
	} else {
		revoker := auth.NewMemoryRevoker()
		opts = append(opts, withRevoker(revoker))
		jobs = append(jobs, scheduler.RevocationSweep(cfg.RevocationSweepCron, revoker))
	}

	if cfg.S3Bucket != "" {
		presigner, err := storage.NewPhotoPresigner(ctx, storage.Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			BaseEndpoint: cfg.S3BaseEndpoint,
			PublicURL:    cfg.S3PublicURL,
		})
		if err != nil {
			slog.Error("failed to configure photo uploads", "error", err)
			os.Exit(1)
		}
		opts = append(opts, withPresigner(presigner))
	}

	limiter := middleware.AuthRateLimiter()
	opts = append(opts, withAuthLimiter(limiter))
	go limiter.RunCleanup(ctx, 5*time.Minute)

	if cfg.AuditRetentionDays > 0 {
		retention := time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour
		jobs = append(jobs, scheduler.AuditPrune(cfg.AuditPruneCron, service.NewAuditService(database), retention))
	}
	go func() {
		if err := scheduler.Run(ctx, jobs...); err != nil {
			slog.Error("scheduler stopped", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(database, cfg, opts...),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server LAST
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", cfg.Port, "tls", cfg.TLSCertFile != "", "env", cfg.Env)
		if cfg.TLSCertFile != "" {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}
}

// newLogger builds the process logger from LOG_FORMAT and LOG_LEVEL.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
