// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 1000
)

// Service implements the playlist use cases.
type Service struct {
	repository Repository
	videos     VideoFinder
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, videos VideoFinder, logger *slog.Logger) *Service {
	return &Service{repository: repository, videos: videos, logger: logger}
}

// DetailsInput carries the editable fields of a playlist. Both are required.
type DetailsInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (input *DetailsInput) validate() error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)

	validator := &validate.Validator{}
	return validator.
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, maxNameLength).
		Required(FieldDescription, input.Description).
		MaxLen(FieldDescription, input.Description, maxDescriptionLength).
		Err()
}

// Create stores an empty playlist for the actor.
func (service *Service) Create(ctx context.Context, actor *sec.AuthClaims, input DetailsInput) (*Playlist, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	playlist := &Playlist{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     actor.UserID,
	}
	if err := service.repository.Create(ctx, playlist); err != nil {
		return nil, fmt.Errorf("playlist_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "playlist_created",
		slog.String("playlist_id", playlist.ID),
		slog.String("owner_id", actor.UserID),
	)
	return service.repository.FindByID(ctx, playlist.ID)
}

// Update replaces name and description.
func (service *Service) Update(ctx context.Context, actor *sec.AuthClaims, playlistID string, input DetailsInput) (*Playlist, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := service.authorize(ctx, actor, playlistID); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateDetails(ctx, playlistID, input.Name, input.Description); err != nil {
		return nil, fmt.Errorf("playlist_service_update_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "playlist_updated", slog.String("playlist_id", playlistID))
	return service.repository.FindByID(ctx, playlistID)
}

// Delete removes a playlist. A second delete reports NotFound.
func (service *Service) Delete(ctx context.Context, actor *sec.AuthClaims, playlistID string) error {
	if _, err := service.authorize(ctx, actor, playlistID); err != nil {
		return err
	}

	if err := service.repository.Delete(ctx, playlistID); err != nil {
		return fmt.Errorf("playlist_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "playlist_deleted",
		slog.String("playlist_id", playlistID),
		slog.String("actor_id", actor.UserID),
	)
	return nil
}

// Get returns one playlist with its owner projection.
func (service *Service) Get(ctx context.Context, playlistID string) (*Playlist, error) {
	return service.repository.FindByID(ctx, playlistID)
}

// ListByUser returns every playlist of one user, newest first.
func (service *Service) ListByUser(ctx context.Context, userID string) ([]*Playlist, error) {
	playlists, err := service.repository.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("playlist_service_list_by_user_failed: %w", err)
	}
	return playlists, nil
}

/*
AddVideo appends a video to the playlist.

Description: The video must exist when it is added. The same video may be
added more than once.

Returns:
  - *Playlist: The updated playlist
  - error: NotFound (playlist or video), Forbidden or storage failures
*/
func (service *Service) AddVideo(ctx context.Context, actor *sec.AuthClaims, playlistID, videoID string) (*Playlist, error) {
	if _, err := service.authorize(ctx, actor, playlistID); err != nil {
		return nil, err
	}

	if _, err := service.videos.FindByID(ctx, videoID); err != nil {
		return nil, err
	}

	if err := service.repository.AppendVideo(ctx, playlistID, videoID); err != nil {
		return nil, fmt.Errorf("playlist_service_add_video_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "playlist_video_added",
		slog.String("playlist_id", playlistID),
		slog.String("video_id", videoID),
	)
	return service.repository.FindByID(ctx, playlistID)
}

// RemoveVideo drops every occurrence of a video. Removing an absent video is a no-op.
func (service *Service) RemoveVideo(ctx context.Context, actor *sec.AuthClaims, playlistID, videoID string) (*Playlist, error) {
	if _, err := service.authorize(ctx, actor, playlistID); err != nil {
		return nil, err
	}

	if err := service.repository.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return nil, fmt.Errorf("playlist_service_remove_video_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "playlist_video_removed",
		slog.String("playlist_id", playlistID),
		slog.String("video_id", videoID),
	)
	return service.repository.FindByID(ctx, playlistID)
}

// authorize loads the playlist and checks the owner-or-admin rule.
func (service *Service) authorize(ctx context.Context, actor *sec.AuthClaims, playlistID string) (*Playlist, error) {
	playlist, err := service.repository.FindByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := sec.Authorize(actor, playlist.OwnerID); err != nil {
		return nil, err
	}
	return playlist, nil
}
