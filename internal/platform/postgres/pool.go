// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the pgx connection pool shared by every store.
//
// Stores receive the [*pgxpool.Pool] through their constructors; nothing in
// this package knows about users, videos, tweets or playlists.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/constants"
)

// PoolOptions tunes the pool. Zero fields fall back to [DefaultPoolOptions].
type PoolOptions struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultPoolOptions returns the settings used by the API server.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxConns:        20,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 10 * time.Minute,
		ConnectTimeout:  5 * time.Second,
	}
}

const pingTimeout = 2 * time.Second

// NewPool creates the pool and pings it once. A failure here is fatal to the process.
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	return NewPoolWithOptions(ctx, dsn, DefaultPoolOptions(), logger)
}

// NewPoolWithOptions is [NewPool] with explicit tuning.
func NewPoolWithOptions(ctx context.Context, dsn string, opts PoolOptions, logger *slog.Logger) (*pgxpool.Pool, error) {
	defaults := DefaultPoolOptions()
	if opts.MaxConns <= 0 {
		opts.MaxConns = defaults.MaxConns
	}
	if opts.MinConns < 0 || opts.MinConns > opts.MaxConns {
		opts.MinConns = defaults.MinConns
	}
	if opts.MaxConnLifetime <= 0 {
		opts.MaxConnLifetime = defaults.MaxConnLifetime
	}
	if opts.MaxConnIdleTime <= 0 {
		opts.MaxConnIdleTime = defaults.MaxConnIdleTime
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaults.ConnectTimeout
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = opts.MaxConns
	poolConfig.MinConns = opts.MinConns
	poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	poolConfig.MaxConnIdleTime = opts.MaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = opts.ConnectTimeout

	// Runaway statements are cut server-side as well as by the request context.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		stmt := fmt.Sprintf("SET statement_timeout = %d", constants.StatementTimeout.Milliseconds())
		_, err := conn.Exec(ctx, stmt)
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.Int("max_conns", int(opts.MaxConns)),
		slog.String("database", poolConfig.ConnConfig.Database),
	)

	return pool, nil
}

// Ping reports whether the pool can reach the database. Used by the readiness probe.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
