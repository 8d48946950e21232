// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the VidTube HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Prepare the media store and token service.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/vidtube/internal/api"
	"github.com/taibuivan/vidtube/internal/content/playlist"
	"github.com/taibuivan/vidtube/internal/content/tweet"
	"github.com/taibuivan/vidtube/internal/content/video"
	"github.com/taibuivan/vidtube/internal/platform/config"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/migration"
	pgstore "github.com/taibuivan/vidtube/internal/platform/postgres"
	redisstore "github.com/taibuivan/vidtube/internal/platform/redis"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/upload"
	"github.com/taibuivan/vidtube/internal/users/account"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives as long as the process; stops background loops on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Media & Tokens ─────────────────────────────────────────────────
	store, err := media.NewS3Store(startupCtx, media.S3Options{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		PublicBaseURL:   cfg.S3PublicBaseURL,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})
	must(log, err, "initialize media store")
	transferer := media.NewTransferer(store)

	tokens, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		AccessTTL:     cfg.AccessTokenExpiry,
		RefreshSecret: cfg.RefreshTokenSecret,
		RefreshTTL:    cfg.RefreshTokenExpiry,
		Issuer:        constants.AuthIssuer,
	})
	must(log, err, "initialize token service")

	uploads := upload.Options{Dir: cfg.UploadTempDir, MaxBytes: cfg.UploadMaxBytes}

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewLoginThrottle(rdb),
		tokens,
		transferer,
		auth.ThrottleConfig{MaxAttempts: cfg.LoginMaxAttempts, Window: cfg.LoginAttemptWindow},
		log,
	)
	accountService := account.NewService(account.NewAccountRepository(pool), transferer, log)

	videoRepository := video.NewRepository(pool)
	videoService := video.NewService(videoRepository, transferer, log)
	tweetService := tweet.NewService(tweet.NewRepository(pool), log)
	playlistService := playlist.NewService(playlist.NewRepository(pool), videoRepository, log)

	health := api.NewHealthHandlers(api.HealthDependencies{
		"postgres": func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		"redis":    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		"media":    store.Ping,
	}, log)

	handlers := api.Handlers{
		Health:   health,
		Auth:     auth.NewHandler(authService, uploads),
		Account:  account.NewHandler(accountService, uploads),
		Tweet:    tweet.NewHandler(tweetService),
		Video:    video.NewHandler(videoService, uploads),
		Playlist: playlist.NewHandler(playlistService),
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, tokens, authService, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
