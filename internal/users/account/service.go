// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/upload"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/internal/users/auth"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// # Service Layer

// Service orchestrates profile updates and account administration.
type Service struct {
	accountRepository AccountRepository
	media             *media.Transferer
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, transferer *media.Transferer, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		media:             transferer,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the account of the authenticated user.

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(ctx context.Context, userID string) (*auth.User, error) {
	return service.accountRepository.FindByID(ctx, userID)
}

// UpdateDetailsInput carries the optional replacement name and email.
type UpdateDetailsInput struct {
	FullName string
	Email    string
}

/*
UpdateDetails changes the full name and/or email.

Description: At least one field must be present. A value equal to the current
one is rejected so the request always changes something.

Returns:
  - *auth.User: The updated profile
  - error: Validation, Conflict, NotFound or storage failures
*/
func (service *Service) UpdateDetails(ctx context.Context, userID string, input UpdateDetailsInput) (*auth.User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.AnyPresent(auth.FieldUser, input.FullName, input.Email)
	if input.Email != "" {
		validator.Email(auth.FieldEmail, input.Email)
	}
	if input.FullName != "" {
		validator.MaxLen(auth.FieldFullName, input.FullName, auth.FullNameMaxLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	validator.Custom(auth.FieldEmail, input.Email != "" && input.Email == user.Email, "Must differ from the current email").
		Custom(auth.FieldFullName, input.FullName != "" && input.FullName == user.FullName, "Must differ from the current name")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	fullName, email := user.FullName, user.Email
	if input.FullName != "" {
		fullName = input.FullName
	}
	if input.Email != "" {
		email = input.Email
	}

	updated, err := service.accountRepository.UpdateDetails(ctx, userID, fullName, email)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_details_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_profile_updated", slog.String("user_id", userID))
	return updated, nil
}

/*
ReplaceImage swaps the avatar or the cover image.

Description: The new file is uploaded and persisted first. Only then is the
previous asset removed, and a failure to remove it is logged, never returned.
If persisting fails the new upload is removed again.

Returns:
  - *auth.User: The updated profile
  - error: Validation (no file), UploadFailed, NotFound or storage failures
*/
func (service *Service) ReplaceImage(ctx context.Context, userID string, image Image, file *upload.Buffer) (*auth.User, error) {
	if file == nil {
		return nil, validate.RequiredError(string(image), "Please provide an image file")
	}

	user, err := service.accountRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := image.current(user)

	rollback := service.media.Begin(file)
	asset, err := rollback.Transfer(ctx, file, media.KindImage)
	if err != nil {
		return nil, rollback.Undo(ctx, err)
	}

	updated, err := service.accountRepository.UpdateImage(ctx, userID, image, asset.URL)
	if err != nil {
		return nil, rollback.Undo(ctx, err)
	}

	service.media.RemoveQuietly(ctx, previous, "account_previous_image_remove_failed")

	service.logger.InfoContext(ctx, "user_image_replaced",
		slog.String("user_id", userID),
		slog.String("image", string(image)),
	)
	return updated, nil
}

// # Administration

// Page is one page of accounts.
type Page = pagination.Page[*auth.User]

// ListUsers returns one page of every account, newest first.
func (service *Service) ListUsers(ctx context.Context, params pagination.Params) (*Page, error) {
	users, total, err := service.accountRepository.List(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("account_service_list_failed: %w", err)
	}
	page := pagination.NewPage(users, params, total)
	return &page, nil
}

// DeleteResult is returned by [Service.DeleteUser].
type DeleteResult struct {
	DeletedUser    *auth.User `json:"deletedUser"`
	RemainingUsers *Page      `json:"remainingUsers"`
}

/*
DeleteUser removes the account named by target and its profile images.

Description: The row is deleted first. Image removal failures are logged and
do not fail the request. Resources owned by the account are left in place.

Returns:
  - *DeleteResult: The deleted account and the first page of remaining ones
  - error: Validation, NotFound or storage failures
*/
func (service *Service) DeleteUser(ctx context.Context, target string) (*DeleteResult, error) {
	target = strings.ToLower(strings.TrimSpace(target))

	validator := &validate.Validator{}
	if err := validator.Required(FieldTarget, target).Err(); err != nil {
		return nil, err
	}

	deleted, err := service.accountRepository.DeleteByUsername(ctx, target)
	if err != nil {
		return nil, err
	}

	service.media.RemoveQuietly(ctx, deleted.Avatar, "account_avatar_remove_failed")
	service.media.RemoveQuietly(ctx, deleted.CoverImage, "account_cover_image_remove_failed")

	service.logger.WarnContext(ctx, "user_account_deleted",
		slog.String("user_id", deleted.ID),
		slog.String("username", deleted.Username),
	)

	remaining, err := service.ListUsers(ctx, pagination.Params{Page: pagination.DefaultPage, Limit: pagination.DefaultLimit})
	if err != nil {
		return nil, err
	}

	return &DeleteResult{DeletedUser: deleted, RemainingUsers: remaining}, nil
}
