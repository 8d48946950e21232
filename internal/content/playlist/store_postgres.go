// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/database/projection"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
)

var playlistView = projection.Query{
	Table:   schema.Playlists.Table,
	Alias:   "p",
	Columns: schema.Playlists.Columns(),
}

var newestFirst = schema.Playlists.CreatedAt + " DESC"

func scanPlaylist(row pgx.Row) (*Playlist, error) {
	playlist := &Playlist{}
	targets := append([]any{
		&playlist.ID, &playlist.Name, &playlist.Description, &playlist.OwnerID,
		&playlist.Videos, &playlist.CreatedAt, &playlist.UpdatedAt,
	}, projection.ScanOwner(&playlist.Owner)...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	if playlist.Videos == nil {
		playlist.Videos = []string{}
	}
	return playlist, nil
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the playlist Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Playlist, error) {
	playlist, err := scanPlaylist(repository.pool.QueryRow(ctx, playlistView.ByID(), id))
	if err != nil {
		return nil, dberr.Wrap(err, resourcePlaylist, "postgres_playlist_repo_find_by_id_failed")
	}
	return playlist, nil
}

// ListByOwner implements [Repository].
func (repository *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Playlist, error) {
	rows, err := repository.pool.Query(ctx, playlistView.ByOwner(newestFirst), ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, resourcePlaylist, "postgres_playlist_repo_list_by_owner_failed")
	}
	defer rows.Close()

	playlists := make([]*Playlist, 0)
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourcePlaylist, "postgres_playlist_repo_list_by_owner_scan_failed")
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourcePlaylist, "postgres_playlist_repo_list_by_owner_scan_failed")
	}
	return playlists, nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, playlist *Playlist) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		schema.Playlists.Table,
		schema.Playlists.ID, schema.Playlists.Name, schema.Playlists.Description, schema.Playlists.Owner,
		schema.Playlists.CreatedAt, schema.Playlists.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query, playlist.ID, playlist.Name, playlist.Description, playlist.OwnerID).
		Scan(&playlist.CreatedAt, &playlist.UpdatedAt)
	return dberr.Wrap(err, resourcePlaylist, "postgres_playlist_repo_create_failed")
}

// UpdateDetails implements [Repository].
func (repository *PostgresRepository) UpdateDetails(ctx context.Context, id, name, description string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = now() WHERE %s = $1`,
		schema.Playlists.Table,
		schema.Playlists.Name, schema.Playlists.Description, schema.Playlists.UpdatedAt,
		schema.Playlists.ID,
	)
	return repository.exec(ctx, "postgres_playlist_repo_update_failed", query, id, name, description)
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Playlists.Table, schema.Playlists.ID)
	return repository.exec(ctx, "postgres_playlist_repo_delete_failed", query, id)
}

// AppendVideo implements [Repository].
func (repository *PostgresRepository) AppendVideo(ctx context.Context, id, videoID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = array_append(%s, $2::uuid), %s = now() WHERE %s = $1`,
		schema.Playlists.Table,
		schema.Playlists.Videos, schema.Playlists.Videos, schema.Playlists.UpdatedAt,
		schema.Playlists.ID,
	)
	return repository.exec(ctx, "postgres_playlist_repo_append_video_failed", query, id, videoID)
}

// RemoveVideo implements [Repository].
func (repository *PostgresRepository) RemoveVideo(ctx context.Context, id, videoID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = array_remove(%s, $2::uuid), %s = now() WHERE %s = $1`,
		schema.Playlists.Table,
		schema.Playlists.Videos, schema.Playlists.Videos, schema.Playlists.UpdatedAt,
		schema.Playlists.ID,
	)
	return repository.exec(ctx, "postgres_playlist_repo_remove_video_failed", query, id, videoID)
}

// exec runs a single-row write and maps zero affected rows to NotFound.
func (repository *PostgresRepository) exec(ctx context.Context, action, query string, args ...any) error {
	tag, err := repository.pool.Exec(ctx, query, args...)
	if err == nil && tag.RowsAffected() == 0 {
		err = pgx.ErrNoRows
	}
	return dberr.Wrap(err, resourcePlaylist, action)
}
