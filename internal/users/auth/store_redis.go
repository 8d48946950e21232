// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/vidtube/internal/platform/constants"
)

// RedisLoginThrottle implements [LoginThrottle] with one counter key per username.
type RedisLoginThrottle struct {
	client redis.Cmdable
}

// NewLoginThrottle creates a new Redis-backed LoginThrottle.
func NewLoginThrottle(client redis.Cmdable) *RedisLoginThrottle {
	return &RedisLoginThrottle{client: client}
}

func attemptsKey(username string) string {
	return constants.RedisPrefixLoginAttempts + strings.ToLower(username)
}

// Failures implements [LoginThrottle]. A missing key means no failures.
func (repository *RedisLoginThrottle) Failures(ctx context.Context, username string) (int64, error) {
	count, err := repository.client.Get(ctx, attemptsKey(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_login_attempts_get_failed: %w", err)
	}
	return count, nil
}

/*
RecordFailure increments the failure counter.

The INCR and the EXPIRE run in one pipeline; the expiry is only set when the
key was just created, so repeated failures do not extend the window.
*/
func (repository *RedisLoginThrottle) RecordFailure(ctx context.Context, username string, window time.Duration) (int64, error) {
	key := attemptsKey(username)

	var incr *redis.IntCmd
	_, err := repository.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis_login_attempts_incr_failed: %w", err)
	}
	return incr.Val(), nil
}

// Reset implements [LoginThrottle].
func (repository *RedisLoginThrottle) Reset(ctx context.Context, username string) error {
	if err := repository.client.Del(ctx, attemptsKey(username)).Err(); err != nil {
		return fmt.Errorf("redis_login_attempts_delete_failed: %w", err)
	}
	return nil
}
