// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package playlist manages named, ordered lists of videos.

Membership changes are single array updates in the store, so concurrent adds
and removes never lose each other. A playlist may keep IDs of videos that
were deleted after they were added.
*/
package playlist

import (
	"context"
	"time"

	"github.com/taibuivan/vidtube/internal/content/video"
	"github.com/taibuivan/vidtube/internal/platform/database/projection"
)

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPlaylistID  = "playlistId"
	FieldVideoID     = "videoId"
	FieldUserID      = "userId"

	resourcePlaylist = "Playlist"
)

// Playlist is an ordered list of video IDs with its owner projection.
// Duplicates are allowed.
type Playlist struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	OwnerID     string           `json:"ownerId"`
	Owner       projection.Owner `json:"owner"`
	Videos      []string         `json:"videos"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Repository defines the persistence contract for playlists.
type Repository interface {
	// FindByID returns the playlist with its owner projection, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*Playlist, error)

	// ListByOwner returns every playlist of one owner, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*Playlist, error)

	// Create inserts a playlist with no videos.
	Create(ctx context.Context, playlist *Playlist) error

	// UpdateDetails writes name and description, or returns apperr.NotFound.
	UpdateDetails(ctx context.Context, id, name, description string) error

	// Delete removes the playlist, or returns apperr.NotFound.
	Delete(ctx context.Context, id string) error

	// AppendVideo adds videoID at the end of the list.
	AppendVideo(ctx context.Context, id, videoID string) error

	// RemoveVideo drops every occurrence of videoID from the list.
	RemoveVideo(ctx context.Context, id, videoID string) error
}

// VideoFinder looks up a video before it is referenced.
type VideoFinder interface {
	FindByID(ctx context.Context, id string) (*video.Video, error)
}
