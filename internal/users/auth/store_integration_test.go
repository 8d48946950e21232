// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/postgres/pgtest"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

/*
TestPostgresUserRepository exercises the account store against a real database.
*/
func TestPostgresUserRepository(t *testing.T) {
	pool := pgtest.Start(t)
	repo := auth.NewUserRepository(pool)
	ctx := context.Background()

	alex := &auth.User{
		ID:           uuid.NewString(),
		Username:     "alex",
		Email:        "alex@example.com",
		PasswordHash: "hash",
		FullName:     "Alex Doe",
		Avatar:       "https://cdn.example.com/alex.png",
		Role:         sec.RoleUser,
	}
	require.NoError(t, repo.Create(ctx, alex))
	assert.False(t, alex.CreatedAt.IsZero())

	t.Run("Lookups", func(t *testing.T) {
		byName, err := repo.FindByUsername(ctx, "alex")
		require.NoError(t, err)
		assert.Equal(t, alex.ID, byName.ID)
		assert.Empty(t, byName.RefreshToken)

		byEmail, err := repo.FindByEmail(ctx, "alex@example.com")
		require.NoError(t, err)
		assert.Equal(t, alex.ID, byEmail.ID)

		_, err = repo.FindByID(ctx, uuid.NewString())
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("Unique username and email", func(t *testing.T) {
		clash := *alex
		clash.ID = uuid.NewString()
		clash.Email = "other@example.com"
		assert.True(t, apperr.HasCode(repo.Create(ctx, &clash), apperr.CodeConflict))

		clash.ID = uuid.NewString()
		clash.Username = "other"
		clash.Email = alex.Email
		assert.True(t, apperr.HasCode(repo.Create(ctx, &clash), apperr.CodeConflict))
	})

	t.Run("Refresh token is stored and cleared", func(t *testing.T) {
		require.NoError(t, repo.SetRefreshToken(ctx, alex.ID, "refresh-1"))
		got, err := repo.FindByID(ctx, alex.ID)
		require.NoError(t, err)
		assert.Equal(t, "refresh-1", got.RefreshToken)

		require.NoError(t, repo.SetRefreshToken(ctx, alex.ID, ""))
		got, err = repo.FindByID(ctx, alex.ID)
		require.NoError(t, err)
		assert.Empty(t, got.RefreshToken)

		assert.True(t, apperr.HasCode(repo.SetRefreshToken(ctx, uuid.NewString(), "x"), apperr.CodeNotFound))
	})

	t.Run("Password update", func(t *testing.T) {
		require.NoError(t, repo.UpdatePassword(ctx, alex.ID, "new-hash"))
		got, err := repo.FindByID(ctx, alex.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)
	})
}

/*
TestRedisLoginThrottle counts failures in a real Redis and expires them after
the window.
*/
func TestRedisLoginThrottle(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.0-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer container.Terminate(ctx)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx).Err())

	throttle := auth.NewLoginThrottle(rdb)

	count, err := throttle.Failures(ctx, "alex")
	require.NoError(t, err)
	assert.Zero(t, count)

	for want := int64(1); want <= 3; want++ {
		count, err = throttle.RecordFailure(ctx, "Alex", 2*time.Second)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	count, err = throttle.Failures(ctx, "alex")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, throttle.Reset(ctx, "alex"))
	count, err = throttle.Failures(ctx, "alex")
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = throttle.RecordFailure(ctx, "alex", time.Second)
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		count, err := throttle.Failures(ctx, "alex")
		return err == nil && count == 0
	}, 5*time.Second, 200*time.Millisecond)
}
