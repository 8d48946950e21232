// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

// Package pgtest starts a throwaway PostgreSQL container with the production
// schema applied. It backs the store integration tests.
package pgtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/vidtube/internal/platform/migration"
	pgstore "github.com/taibuivan/vidtube/internal/platform/postgres"
)

const (
	image    = "postgres:16-alpine"
	user     = "vidtube"
	password = "vidtube"
	database = "vidtube"
)

// Start runs a container, applies data/migrations and returns a pool to it.
// The container is terminated when the test ends.
func Start(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			Env:          map[string]string{"POSTGRES_USER": user, "POSTGRES_PASSWORD": password, "POSTGRES_DB": database},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port.Port(), database)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, migration.RunUp(dsn, migrationsDir(), logger))

	pool, err := pgstore.NewPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// SeedUser inserts a minimal account row and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, username string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, username, email, password_hash, full_name, avatar) VALUES ($1, $2, $3, 'x', $4, $5)`,
		id, username, username+"@example.com", "Full "+username, "https://cdn.example.com/"+username+".png",
	)
	require.NoError(t, err)
	return id
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}
