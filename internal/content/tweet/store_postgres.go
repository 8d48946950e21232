// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tweet

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/database/projection"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
)

var tweetView = projection.Query{
	Table:   schema.Tweets.Table,
	Alias:   "t",
	Columns: schema.Tweets.Columns(),
}

// newestFirst orders tweets for every listing.
var newestFirst = schema.Tweets.CreatedAt + " DESC"

func scanTweet(row pgx.Row) (*Tweet, error) {
	tweet := &Tweet{}
	targets := append([]any{
		&tweet.ID, &tweet.Content, &tweet.OwnerID, &tweet.CreatedAt, &tweet.UpdatedAt,
	}, projection.ScanOwner(&tweet.Owner)...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return tweet, nil
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the tweet Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Tweet, error) {
	tweet, err := scanTweet(repository.pool.QueryRow(ctx, tweetView.ByID(), id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceTweet, "postgres_tweet_repo_find_by_id_failed")
	}
	return tweet, nil
}

// ListByOwner implements [Repository].
func (repository *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Tweet, error) {
	rows, err := repository.pool.Query(ctx, tweetView.ByOwner(newestFirst), ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, resourceTweet, "postgres_tweet_repo_list_by_owner_failed")
	}
	defer rows.Close()

	return collect(rows, "postgres_tweet_repo_list_by_owner_scan_failed")
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*Tweet, int, error) {
	var total int
	if err := repository.pool.QueryRow(ctx, tweetView.Count()).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceTweet, "postgres_tweet_repo_count_failed")
	}

	rows, err := repository.pool.Query(ctx, tweetView.All(newestFirst), limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceTweet, "postgres_tweet_repo_list_failed")
	}
	defer rows.Close()

	tweets, err := collect(rows, "postgres_tweet_repo_list_scan_failed")
	if err != nil {
		return nil, 0, err
	}
	return tweets, total, nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, tweet *Tweet) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s`,
		schema.Tweets.Table,
		schema.Tweets.ID, schema.Tweets.Content, schema.Tweets.Owner,
		schema.Tweets.CreatedAt, schema.Tweets.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query, tweet.ID, tweet.Content, tweet.OwnerID).
		Scan(&tweet.CreatedAt, &tweet.UpdatedAt)
	return dberr.Wrap(err, resourceTweet, "postgres_tweet_repo_create_failed")
}

// UpdateContent implements [Repository].
func (repository *PostgresRepository) UpdateContent(ctx context.Context, id, content string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.Tweets.Table, schema.Tweets.Content, schema.Tweets.UpdatedAt, schema.Tweets.ID,
	)

	tag, err := repository.pool.Exec(ctx, query, id, content)
	if err == nil && tag.RowsAffected() == 0 {
		err = pgx.ErrNoRows
	}
	return dberr.Wrap(err, resourceTweet, "postgres_tweet_repo_update_failed")
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Tweets.Table, schema.Tweets.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err == nil && tag.RowsAffected() == 0 {
		err = pgx.ErrNoRows
	}
	return dberr.Wrap(err, resourceTweet, "postgres_tweet_repo_delete_failed")
}

func collect(rows pgx.Rows, action string) ([]*Tweet, error) {
	tweets := make([]*Tweet, 0)
	for rows.Next() {
		tweet, err := scanTweet(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceTweet, action)
		}
		tweets = append(tweets, tweet)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceTweet, action)
	}
	return tweets, nil
}
