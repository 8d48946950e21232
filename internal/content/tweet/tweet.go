// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tweet manages short text posts.

Every mutation is restricted to the tweet's owner or an administrator, and
every read returns the tweet together with the public view of its owner.
*/
package tweet

import (
	"context"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/database/projection"
)

const (
	FieldContent       = "content"
	FieldEditedContent = "editedContent"
	FieldTweetID       = "tweetId"
	FieldUserID        = "userId"

	resourceTweet = "Tweet"
)

// Tweet is a short post with its owner projection.
type Tweet struct {
	ID        string           `json:"id"`
	Content   string           `json:"content"`
	OwnerID   string           `json:"ownerId"`
	Owner     projection.Owner `json:"owner"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Repository defines the persistence contract for tweets.
type Repository interface {
	// FindByID returns the tweet with its owner projection, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*Tweet, error)

	// ListByOwner returns every tweet of one owner, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*Tweet, error)

	// List returns one page of all tweets, newest first, and the total count.
	List(ctx context.Context, limit, offset int) ([]*Tweet, int, error)

	// Create inserts a tweet. Timestamps are filled in on success.
	Create(ctx context.Context, tweet *Tweet) error

	// UpdateContent replaces the text, or returns apperr.NotFound.
	UpdateContent(ctx context.Context, id, content string) error

	// Delete removes the tweet, or returns apperr.NotFound.
	Delete(ctx context.Context, id string) error
}
