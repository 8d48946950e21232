// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

const resourceUser = "User"

// # Repository Implementation

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// FindByID implements [AccountRepository].
func (repository *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, auth.SelectUser, schema.Users.Table, schema.Users.ID)

	user, err := auth.ScanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_account_repo_find_by_id_failed")
	}
	return user, nil
}

/*
UpdateDetails rewrites the full name and email in one statement.

The email unique constraint still applies; a collision surfaces as Conflict.
*/
func (repository *PostgresAccountRepository) UpdateDetails(ctx context.Context, userID, fullName, email string) (*auth.User, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.Users.Table,
		schema.Users.FullName, schema.Users.Email, schema.Users.UpdatedAt,
		schema.Users.ID,
		auth.SelectUser,
	)

	user, err := auth.ScanUser(repository.pool.QueryRow(ctx, query, userID, fullName, email))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_account_repo_update_details_failed")
	}
	return user, nil
}

// UpdateImage implements [AccountRepository].
func (repository *PostgresAccountRepository) UpdateImage(ctx context.Context, userID string, image Image, url string) (*auth.User, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.Users.Table,
		image.column(), schema.Users.UpdatedAt,
		schema.Users.ID,
		auth.SelectUser,
	)

	user, err := auth.ScanUser(repository.pool.QueryRow(ctx, query, userID, url))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_account_repo_update_image_failed")
	}
	return user, nil
}

/*
List reads one page of accounts, newest first.

The total is computed with a window function so page and count come from the
same snapshot.
*/
func (repository *PostgresAccountRepository) List(ctx context.Context, limit, offset int) ([]*auth.User, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER()
		FROM %s
		ORDER BY %s DESC
		LIMIT $1 OFFSET $2`,
		auth.SelectUser, schema.Users.Table, schema.Users.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceUser, "postgres_account_repo_list_failed")
	}
	defer rows.Close()

	users := make([]*auth.User, 0, limit)
	total := 0
	for rows.Next() {
		user := &auth.User{}
		err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.FullName, &user.Avatar, &user.CoverImage, &user.Role,
			&user.RefreshToken, &user.CreatedAt, &user.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceUser, "postgres_account_repo_list_scan_failed")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceUser, "postgres_account_repo_list_rows_failed")
	}

	// An offset past the end returns no rows and therefore no window count.
	if len(users) == 0 && offset > 0 {
		countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.Users.Table)
		if err := repository.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, resourceUser, "postgres_account_repo_count_failed")
		}
	}

	return users, total, nil
}

// DeleteByUsername implements [AccountRepository].
func (repository *PostgresAccountRepository) DeleteByUsername(ctx context.Context, username string) (*auth.User, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 RETURNING %s`,
		schema.Users.Table, schema.Users.Username, auth.SelectUser,
	)

	user, err := auth.ScanUser(repository.pool.QueryRow(ctx, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_account_repo_delete_failed")
	}
	return user, nil
}
