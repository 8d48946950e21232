// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the SQL files under data/migrations at startup.
//
// The same runner is used by the store integration tests so the schema they
// exercise is the one production runs.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// Registers the "file" source scheme.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunUp applies every pending up migration found in migrationsPath.
func RunUp(dsn, migrationsPath string, logger *slog.Logger) error {
	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("migration: resolve path: %w", err)
	}

	migrator, err := migrate.New("file://"+filepath.ToSlash(absPath), Pgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		srcErr, dbErr := migrator.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.Warn("migration_close_failed", slog.Any("error", err))
		}
	}()
	migrator.Log = &slogBridge{logger: logger}

	from, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: read version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration: database is dirty at version %d", from)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_applied", slog.Uint64("from", uint64(from)), slog.Uint64("to", uint64(to)))
	return nil
}

// Pgx5DSN rewrites a postgres:// or postgresql:// URL to the pgx5:// scheme
// expected by the golang-migrate pgx/v5 driver.
func Pgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

type slogBridge struct {
	logger *slog.Logger
}

func (b *slogBridge) Printf(format string, args ...any) {
	b.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b *slogBridge) Verbose() bool { return false }
