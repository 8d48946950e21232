// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package video manages uploaded videos, their view counter and the watch
history of each account.

A video owns two remote assets, the video file and its thumbnail. Both are
uploaded before the row is written and removed again if that write fails.
*/
package video

import (
	"context"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/database/projection"
)

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldIsPublished = "isPublished"
	FieldVideoID     = "videoId"
	FieldUserID      = "userId"

	// FileVideo and FileThumbnail are the multipart file fields.
	FileVideo     = "video"
	FileThumbnail = "thumbnail"

	resourceVideo = "Video"

	// HistoryLimit caps how many distinct videos a watch history retains.
	HistoryLimit = 200
)

// Video is an uploaded video with its owner projection.
type Video struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	OwnerID     string           `json:"ownerId"`
	Owner       projection.Owner `json:"owner"`
	VideoFile   string           `json:"videoFile"`
	Thumbnail   string           `json:"thumbnail"`
	Duration    float64          `json:"duration"`
	Views       int64            `json:"views"`
	IsPublished bool             `json:"isPublished"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Repository defines the persistence contract for videos.
type Repository interface {
	// FindByID returns the video with its owner projection, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*Video, error)

	// IncrementViews adds one view atomically and returns the updated video.
	IncrementViews(ctx context.Context, id string) (*Video, error)

	// ListByOwner returns every video of one owner, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*Video, error)

	// List returns one page of videos, newest first, and the total count.
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*Video, int, error)

	// Create inserts a video. Timestamps are filled in on success.
	Create(ctx context.Context, video *Video) error

	// Update writes title, description, publication flag and thumbnail.
	Update(ctx context.Context, video *Video) error

	// Delete removes the row, or returns apperr.NotFound.
	Delete(ctx context.Context, id string) error

	// AppendHistory records that userID watched videoID. An earlier entry for
	// the same video is dropped and the list keeps at most [HistoryLimit] ids.
	AppendHistory(ctx context.Context, userID, videoID string) error

	// History returns the watched videos that still exist, most recent first.
	History(ctx context.Context, userID string) ([]*Video, error)
}
