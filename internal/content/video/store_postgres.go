// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/database/projection"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
)

var videoView = projection.Query{
	Table:   schema.Videos.Table,
	Alias:   "v",
	Columns: schema.Videos.Columns(),
}

// bumpedView reads the row returned by the view counter CTE.
var bumpedView = projection.Query{
	Table:   "bumped",
	Alias:   "v",
	Columns: schema.Videos.Columns(),
}

var (
	newestFirst = schema.Videos.CreatedAt + " DESC"
	published   = videoView.Col(schema.Videos.IsPublished)
)

func scanVideo(row pgx.Row) (*Video, error) {
	video := &Video{}
	targets := append([]any{
		&video.ID, &video.Title, &video.Description, &video.OwnerID,
		&video.VideoFile, &video.Thumbnail, &video.Duration, &video.Views,
		&video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
	}, projection.ScanOwner(&video.Owner)...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return video, nil
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the video Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Video, error) {
	video, err := scanVideo(repository.pool.QueryRow(ctx, videoView.ByID(), id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceVideo, "postgres_video_repo_find_by_id_failed")
	}
	return video, nil
}

// IncrementViews implements [Repository]. The counter update and the owner
// projection run as one statement.
func (repository *PostgresRepository) IncrementViews(ctx context.Context, id string) (*Video, error) {
	query := fmt.Sprintf(`
		WITH bumped AS (
			UPDATE %s SET %s = %s + 1 WHERE %s = $1 RETURNING *
		) %s`,
		schema.Videos.Table, schema.Videos.Views, schema.Videos.Views, schema.Videos.ID,
		bumpedView.Select(),
	)

	video, err := scanVideo(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceVideo, "postgres_video_repo_increment_views_failed")
	}
	return video, nil
}

// ListByOwner implements [Repository].
func (repository *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Video, error) {
	rows, err := repository.pool.Query(ctx, videoView.ByOwner(newestFirst), ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, resourceVideo, "postgres_video_repo_list_by_owner_failed")
	}
	defer rows.Close()

	return collect(rows, "postgres_video_repo_list_by_owner_scan_failed")
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*Video, int, error) {
	var filters []string
	if publishedOnly {
		filters = append(filters, published)
	}

	var total int
	if err := repository.pool.QueryRow(ctx, videoView.Count(filters...)).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceVideo, "postgres_video_repo_count_failed")
	}

	rows, err := repository.pool.Query(ctx, videoView.All(newestFirst, filters...), limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceVideo, "postgres_video_repo_list_failed")
	}
	defer rows.Close()

	videos, err := collect(rows, "postgres_video_repo_list_scan_failed")
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, video *Video) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s, %s`,
		schema.Videos.Table,
		schema.Videos.ID, schema.Videos.Title, schema.Videos.Description, schema.Videos.Owner,
		schema.Videos.VideoFile, schema.Videos.Thumbnail, schema.Videos.Duration, schema.Videos.IsPublished,
		schema.Videos.Views, schema.Videos.CreatedAt, schema.Videos.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		video.ID, video.Title, video.Description, video.OwnerID,
		video.VideoFile, video.Thumbnail, video.Duration, video.IsPublished,
	).Scan(&video.Views, &video.CreatedAt, &video.UpdatedAt)
	return dberr.Wrap(err, resourceVideo, "postgres_video_repo_create_failed")
}

// Update implements [Repository].
func (repository *PostgresRepository) Update(ctx context.Context, video *Video) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = now()
		WHERE %s = $1`,
		schema.Videos.Table,
		schema.Videos.Title, schema.Videos.Description, schema.Videos.IsPublished,
		schema.Videos.Thumbnail, schema.Videos.UpdatedAt,
		schema.Videos.ID,
	)

	tag, err := repository.pool.Exec(ctx, query,
		video.ID, video.Title, video.Description, video.IsPublished, video.Thumbnail,
	)
	if err == nil && tag.RowsAffected() == 0 {
		err = pgx.ErrNoRows
	}
	return dberr.Wrap(err, resourceVideo, "postgres_video_repo_update_failed")
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Videos.Table, schema.Videos.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err == nil && tag.RowsAffected() == 0 {
		err = pgx.ErrNoRows
	}
	return dberr.Wrap(err, resourceVideo, "postgres_video_repo_delete_failed")
}

// # Watch History

// AppendHistory implements [Repository].
func (repository *PostgresRepository) AppendHistory(ctx context.Context, userID, videoID string) error {
	query := fmt.Sprintf(`
		UPDATE %[1]s SET %[2]s = (
			SELECT h[greatest(cardinality(h) - $3::int + 1, 1):]
			FROM (SELECT array_append(array_remove(%[2]s, $2::uuid), $2::uuid) AS h) AS appended
		)
		WHERE %[3]s = $1`,
		schema.Users.Table, schema.Users.WatchHistory, schema.Users.ID,
	)

	tag, err := repository.pool.Exec(ctx, query, userID, videoID, HistoryLimit)
	if err == nil && tag.RowsAffected() == 0 {
		err = pgx.ErrNoRows
	}
	return dberr.Wrap(err, "User", "postgres_video_repo_append_history_failed")
}

// History implements [Repository]. Repeated views collapse into the most
// recent one.
func (repository *PostgresRepository) History(ctx context.Context, userID string) ([]*Video, error) {
	query := fmt.Sprintf(`SELECT %s::text[] FROM %s WHERE %s = $1`,
		schema.Users.WatchHistory, schema.Users.Table, schema.Users.ID,
	)

	var watched []string
	if err := repository.pool.QueryRow(ctx, query, userID).Scan(&watched); err != nil {
		return nil, dberr.Wrap(err, "User", "postgres_video_repo_history_failed")
	}
	if len(watched) == 0 {
		return []*Video{}, nil
	}

	rows, err := repository.pool.Query(ctx, videoView.ByIDs(), watched)
	if err != nil {
		return nil, dberr.Wrap(err, resourceVideo, "postgres_video_repo_history_videos_failed")
	}
	defer rows.Close()

	found, err := collect(rows, "postgres_video_repo_history_scan_failed")
	if err != nil {
		return nil, err
	}
	return orderByHistory(watched, found), nil
}

// orderByHistory returns videos in reverse watch order without repeats.
func orderByHistory(watched []string, videos []*Video) []*Video {
	byID := make(map[string]*Video, len(videos))
	for _, video := range videos {
		byID[video.ID] = video
	}

	ordered := make([]*Video, 0, len(videos))
	seen := make(map[string]struct{}, len(videos))
	for i := len(watched) - 1; i >= 0; i-- {
		id := watched[i]
		if _, done := seen[id]; done {
			continue
		}
		if video, ok := byID[id]; ok {
			ordered = append(ordered, video)
			seen[id] = struct{}{}
		}
	}
	return ordered
}

func collect(rows pgx.Rows, action string) ([]*Video, error) {
	videos := make([]*Video, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceVideo, action)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceVideo, action)
	}
	return videos, nil
}
