// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
)

const resourceUser = "User"

// SelectUser is the column list read into a [User] by [ScanUser].
var SelectUser = fmt.Sprintf(
	"%s, %s, %s, %s, %s, %s, %s, %s, COALESCE(%s, ''), %s, %s",
	schema.Users.ID, schema.Users.Username, schema.Users.Email, schema.Users.PasswordHash,
	schema.Users.FullName, schema.Users.Avatar, schema.Users.CoverImage, schema.Users.Role,
	schema.Users.RefreshToken, schema.Users.CreatedAt, schema.Users.UpdatedAt,
)

// ScanUser reads one row selected with [SelectUser].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FullName, &user.Avatar, &user.CoverImage, &user.Role,
		&user.RefreshToken, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (repository *PostgresUserRepository) findBy(ctx context.Context, column, value, action string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, SelectUser, schema.Users.Table, column)

	user, err := ScanUser(repository.pool.QueryRow(ctx, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, action)
	}
	return user, nil
}

// FindByID implements [UserRepository].
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.findBy(ctx, schema.Users.ID, id, "postgres_user_repo_find_by_id_failed")
}

// FindByUsername implements [UserRepository].
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return repository.findBy(ctx, schema.Users.Username, username, "postgres_user_repo_find_by_username_failed")
}

// FindByEmail implements [UserRepository].
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.findBy(ctx, schema.Users.Email, email, "postgres_user_repo_find_by_email_failed")
}

/*
Create inserts a new account row.

The unique constraints on username and email are the final arbiter of
uniqueness; a violation surfaces as apperr.Conflict through dberr.
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s`,
		schema.Users.Table,
		schema.Users.ID, schema.Users.Username, schema.Users.Email, schema.Users.PasswordHash,
		schema.Users.FullName, schema.Users.Avatar, schema.Users.CoverImage, schema.Users.Role,
		schema.Users.CreatedAt, schema.Users.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.FullName, user.Avatar, user.CoverImage, user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, resourceUser, "postgres_user_repo_create_failed")
}

// SetRefreshToken implements [UserRepository]. An empty token is stored as NULL.
func (repository *PostgresUserRepository) SetRefreshToken(ctx context.Context, userID, token string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NULLIF($2, ''), %s = now() WHERE %s = $1`,
		schema.Users.Table, schema.Users.RefreshToken, schema.Users.UpdatedAt, schema.Users.ID,
	)
	return repository.exec(ctx, query, "postgres_user_repo_set_refresh_token_failed", userID, token)
}

// UpdatePassword implements [UserRepository].
func (repository *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.Users.Table, schema.Users.PasswordHash, schema.Users.UpdatedAt, schema.Users.ID,
	)
	return repository.exec(ctx, query, "postgres_user_repo_update_password_failed", userID, passwordHash)
}

func (repository *PostgresUserRepository) exec(ctx context.Context, query, action string, args ...any) error {
	tag, err := repository.pool.Exec(ctx, query, args...)
	if err != nil {
		return dberr.Wrap(err, resourceUser, action)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser, action)
	}
	return nil
}
