// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the Redis client used for short-lived counters.

The API keeps no durable state in Redis. It holds the failed-login counters
used by the auth throttle and answers the readiness probe.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 3 * time.Second
	ioTimeout   = 2 * time.Second
	pingTimeout = 2 * time.Second
)

// NewClient parses redisURL, applies timeouts and pings the server once.
func NewClient(ctx context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout
	options.PoolSize = 10
	options.MinIdleConns = 1

	client := redis.NewClient(options)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected", slog.String("addr", options.Addr), slog.Int("db", options.DB))
	return client, nil
}

// Ping reports whether the server answers within a short deadline.
func Ping(ctx context.Context, client redis.UniversalClient) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
