// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tweet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/pagination"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// Service implements the tweet use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// Page is one page of tweets.
type Page = pagination.Page[*Tweet]

/*
Create posts a new tweet for the actor.

Returns:
  - *Tweet: The stored tweet with its owner projection
  - error: Validation or storage failures
*/
func (service *Service) Create(ctx context.Context, actor *sec.AuthClaims, content string) (*Tweet, error) {
	content = strings.TrimSpace(content)

	validator := &validate.Validator{}
	if err := validator.Required(FieldContent, content).Err(); err != nil {
		return nil, err
	}

	tweet := &Tweet{ID: uuid.New(), Content: content, OwnerID: actor.UserID}
	if err := service.repository.Create(ctx, tweet); err != nil {
		return nil, fmt.Errorf("tweet_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "tweet_created",
		slog.String("tweet_id", tweet.ID),
		slog.String("owner_id", actor.UserID),
	)
	return service.repository.FindByID(ctx, tweet.ID)
}

/*
Update replaces the text of a tweet owned by the actor (or any tweet for an admin).

Returns:
  - *Tweet: The updated tweet with its owner projection
  - error: Validation, NotFound, Forbidden or storage failures
*/
func (service *Service) Update(ctx context.Context, actor *sec.AuthClaims, tweetID, content string) (*Tweet, error) {
	content = strings.TrimSpace(content)

	validator := &validate.Validator{}
	if err := validator.Required(FieldEditedContent, content).Err(); err != nil {
		return nil, err
	}

	tweet, err := service.repository.FindByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}

	if err := sec.Authorize(actor, tweet.OwnerID); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateContent(ctx, tweetID, content); err != nil {
		return nil, fmt.Errorf("tweet_service_update_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "tweet_updated", slog.String("tweet_id", tweetID))
	return service.repository.FindByID(ctx, tweetID)
}

/*
Delete removes a tweet owned by the actor (or any tweet for an admin).

Returns:
  - error: NotFound, Forbidden or storage failures
*/
func (service *Service) Delete(ctx context.Context, actor *sec.AuthClaims, tweetID string) error {
	tweet, err := service.repository.FindByID(ctx, tweetID)
	if err != nil {
		return err
	}

	if err := sec.Authorize(actor, tweet.OwnerID); err != nil {
		return err
	}

	if err := service.repository.Delete(ctx, tweetID); err != nil {
		return fmt.Errorf("tweet_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "tweet_deleted",
		slog.String("tweet_id", tweetID),
		slog.String("actor_id", actor.UserID),
	)
	return nil
}

// AdminDelete removes any tweet. The actor must hold the admin role.
func (service *Service) AdminDelete(ctx context.Context, actor *sec.AuthClaims, tweetID string) error {
	if err := sec.RequireRole(actor, sec.RoleAdmin); err != nil {
		return err
	}
	return service.Delete(ctx, actor, tweetID)
}

// Get returns one tweet with its owner projection.
func (service *Service) Get(ctx context.Context, tweetID string) (*Tweet, error) {
	return service.repository.FindByID(ctx, tweetID)
}

// ListByUser returns every tweet of one user, newest first.
func (service *Service) ListByUser(ctx context.Context, userID string) ([]*Tweet, error) {
	tweets, err := service.repository.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("tweet_service_list_by_user_failed: %w", err)
	}
	return tweets, nil
}

// List returns one page of all tweets, newest first.
func (service *Service) List(ctx context.Context, params pagination.Params) (*Page, error) {
	tweets, total, err := service.repository.List(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("tweet_service_list_failed: %w", err)
	}
	page := pagination.NewPage(tweets, params, total)
	return &page, nil
}
