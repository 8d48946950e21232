// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr translates PostgreSQL driver errors into [apperr.AppError] values.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
)

// Wrap classifies a database error.
//
//   - pgx.ErrNoRows becomes NotFound(resource).
//   - A unique violation becomes Conflict, naming the violated constraint's column when known.
//   - Anything else is wrapped with the action for server-side logging.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	if IsUniqueViolation(err) {
		return apperr.Conflict(conflictMessage(resource, err)).WithCause(err)
	}

	return fmt.Errorf("%s: %w", action, err)
}

// IsUniqueViolation reports whether err is a PostgreSQL 23505 error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// ConstraintName returns the violated constraint, or "" if err is not a PostgreSQL error.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func conflictMessage(resource string, err error) string {
	switch ConstraintName(err) {
	case schema.Users.UsernameKey:
		return "Username is already taken"
	case schema.Users.EmailKey:
		return "Email is already registered"
	default:
		return resource + " already exists"
	}
}
