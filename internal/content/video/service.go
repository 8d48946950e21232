// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/upload"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/pagination"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

// Service implements the video use cases.
type Service struct {
	videoRepository Repository
	media           *media.Transferer
	logger          *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, transferer *media.Transferer, logger *slog.Logger) *Service {
	return &Service{videoRepository: repository, media: transferer, logger: logger}
}

// Page is one page of videos.
type Page = pagination.Page[*Video]

// CreateInput carries a new upload. Both files are required.
type CreateInput struct {
	Title       string
	Description string
	IsPublished bool
	Video       *upload.Buffer
	Thumbnail   *upload.Buffer
}

/*
Create uploads the video file and its thumbnail, then stores the record.

Description: Both transfers are tracked by one rollback. If the second upload
or the insert fails, every asset already uploaded is removed and the original
error is returned.

Returns:
  - *Video: The stored video with its owner projection
  - error: Validation, UploadFailed or storage failures
*/
func (service *Service) Create(ctx context.Context, actor *sec.AuthClaims, input CreateInput) (*Video, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	validator := &validate.Validator{}
	validator.
		Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, maxTitleLength).
		Required(FieldDescription, input.Description).
		MaxLen(FieldDescription, input.Description, maxDescriptionLength).
		Custom(FileVideo, input.Video == nil, "Please provide a video file").
		Custom(FileThumbnail, input.Thumbnail == nil, "Please provide a thumbnail")
	if input.Video != nil {
		validator.Custom(FileVideo, media.KindForExt(input.Video.Ext()) != media.KindVideo,
			"Video must be one of: mp4, avi, mov, mkv")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	rollback := service.media.Begin(input.Video, input.Thumbnail)

	videoAsset, err := rollback.Transfer(ctx, input.Video, media.KindVideo)
	if err != nil {
		return nil, rollback.Undo(ctx, err)
	}

	thumbnailAsset, err := rollback.Transfer(ctx, input.Thumbnail, media.KindImage)
	if err != nil {
		return nil, rollback.Undo(ctx, err)
	}

	video := &Video{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     actor.UserID,
		VideoFile:   videoAsset.URL,
		Thumbnail:   thumbnailAsset.URL,
		Duration:    videoAsset.Duration,
		IsPublished: input.IsPublished,
	}
	if err := service.videoRepository.Create(ctx, video); err != nil {
		return nil, rollback.Undo(ctx, err)
	}

	service.logger.InfoContext(ctx, "video_created",
		slog.String("video_id", video.ID),
		slog.String("owner_id", actor.UserID),
		slog.Float64("duration", video.Duration),
	)
	return service.videoRepository.FindByID(ctx, video.ID)
}

// UpdateInput carries a partial update. Empty strings and a nil flag or
// thumbnail leave the current value in place.
type UpdateInput struct {
	Title       string
	Description string
	IsPublished *bool
	Thumbnail   *upload.Buffer
}

/*
Update changes the metadata of a video and optionally swaps its thumbnail.

Description: A new thumbnail is uploaded and persisted before the previous one
is removed. A failure to remove the previous thumbnail is logged only.

Returns:
  - *Video: The updated video with its owner projection
  - error: Validation, NotFound, Forbidden, UploadFailed or storage failures
*/
func (service *Service) Update(ctx context.Context, actor *sec.AuthClaims, videoID string, input UpdateInput) (*Video, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	validator := &validate.Validator{}
	validator.
		MaxLen(FieldTitle, input.Title, maxTitleLength).
		MaxLen(FieldDescription, input.Description, maxDescriptionLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	video, err := service.videoRepository.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := sec.Authorize(actor, video.OwnerID); err != nil {
		return nil, err
	}

	if input.Title != "" {
		video.Title = input.Title
	}
	if input.Description != "" {
		video.Description = input.Description
	}
	if input.IsPublished != nil {
		video.IsPublished = *input.IsPublished
	}

	previousThumbnail := ""
	rollback := service.media.Begin(input.Thumbnail)
	if input.Thumbnail != nil {
		asset, err := rollback.Transfer(ctx, input.Thumbnail, media.KindImage)
		if err != nil {
			return nil, rollback.Undo(ctx, err)
		}
		previousThumbnail, video.Thumbnail = video.Thumbnail, asset.URL
	}

	if err := service.videoRepository.Update(ctx, video); err != nil {
		return nil, rollback.Undo(ctx, err)
	}

	service.media.RemoveQuietly(ctx, previousThumbnail, "video_previous_thumbnail_remove_failed")

	service.logger.InfoContext(ctx, "video_updated", slog.String("video_id", videoID))
	return service.videoRepository.FindByID(ctx, videoID)
}

/*
Delete removes a video owned by the actor (or any video for an admin) and then
both of its remote assets.

Returns:
  - error: NotFound, Forbidden, DeleteFailed or storage failures
*/
func (service *Service) Delete(ctx context.Context, actor *sec.AuthClaims, videoID string) error {
	video, err := service.videoRepository.FindByID(ctx, videoID)
	if err != nil {
		return err
	}

	if err := sec.Authorize(actor, video.OwnerID); err != nil {
		return err
	}

	if err := service.videoRepository.Delete(ctx, videoID); err != nil {
		return fmt.Errorf("video_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "video_deleted",
		slog.String("video_id", videoID),
		slog.String("actor_id", actor.UserID),
	)

	// The row is gone; try both assets before reporting.
	fileErr := service.media.Remove(ctx, video.VideoFile)
	thumbErr := service.media.Remove(ctx, video.Thumbnail)
	if err := errors.Join(fileErr, thumbErr); err != nil {
		service.logger.ErrorContext(ctx, "video_assets_remove_failed",
			slog.String("video_id", videoID),
			slog.Any("error", err),
		)
		if fileErr != nil {
			return fileErr
		}
		return thumbErr
	}
	return nil
}

// AdminDelete removes any video. The actor must hold the admin role.
func (service *Service) AdminDelete(ctx context.Context, actor *sec.AuthClaims, videoID string) error {
	if err := sec.RequireRole(actor, sec.RoleAdmin); err != nil {
		return err
	}
	return service.Delete(ctx, actor, videoID)
}

/*
Watch returns one video and counts the fetch as a view.

Description: Every call adds exactly one view. When the caller is known the
video is also appended to their watch history; a failure there is logged and
does not fail the fetch.
*/
func (service *Service) Watch(ctx context.Context, viewer *sec.AuthClaims, videoID string) (*Video, error) {
	video, err := service.videoRepository.IncrementViews(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if viewer != nil {
		if err := service.videoRepository.AppendHistory(ctx, viewer.UserID, videoID); err != nil {
			service.logger.WarnContext(ctx, "watch_history_append_failed",
				slog.String("user_id", viewer.UserID),
				slog.String("video_id", videoID),
				slog.Any("error", err),
			)
		}
	}
	return video, nil
}

// ListByUser returns every video of one user, newest first.
func (service *Service) ListByUser(ctx context.Context, userID string) ([]*Video, error) {
	videos, err := service.videoRepository.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("video_service_list_by_user_failed: %w", err)
	}
	return videos, nil
}

// List returns one page of videos. Only admins see unpublished ones.
func (service *Service) List(ctx context.Context, viewer *sec.AuthClaims, params pagination.Params) (*Page, error) {
	publishedOnly := viewer == nil || !viewer.Role.IsAdmin()

	videos, total, err := service.videoRepository.List(ctx, publishedOnly, params.Limit, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("video_service_list_failed: %w", err)
	}
	page := pagination.NewPage(videos, params, total)
	return &page, nil
}

// History returns the caller's watched videos, most recent first.
func (service *Service) History(ctx context.Context, userID string) ([]*Video, error) {
	videos, err := service.videoRepository.History(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("video_service_history_failed: %w", err)
	}
	return videos, nil
}
