// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles profile management and the administrative view of
user accounts.

It lets users read and update their own profile data and images, and lets
administrators list and delete accounts.

# Architecture

  - Entities: this package reuses [auth.User]; it owns no entity of its own.
  - Media: image replacement uploads the new file, persists it and only then
    removes the old one.
  - Security: every route requires authentication; admin routes require the
    admin role.
*/
package account

import (
	"context"

	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// FieldTarget names the account to delete in admin requests.
const FieldTarget = "target"

// # Domain Types

// Image names one of the two replaceable profile images.
type Image string

const (
	ImageAvatar     Image = "avatar"
	ImageCoverImage Image = "coverImage"
)

// column maps the image to its users column.
func (i Image) column() string {
	if i == ImageCoverImage {
		return schema.Users.CoverImage
	}
	return schema.Users.Avatar
}

// current returns the URL the user holds for this image.
func (i Image) current(user *auth.User) string {
	if i == ImageCoverImage {
		return user.CoverImage
	}
	return user.Avatar
}

// # Repository Contracts

// AccountRepository defines the persistence contract for profile and admin operations.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(ctx context.Context, id string) (*auth.User, error)

	/*
		UpdateDetails overwrites the full name and email.

		Returns:
		  - *auth.User: The row after the update
		  - error: apperr.Conflict on a taken email, apperr.NotFound or storage failures
	*/
	UpdateDetails(ctx context.Context, userID, fullName, email string) (*auth.User, error)

	/*
		UpdateImage stores a new URL for one profile image.

		Returns:
		  - *auth.User: The row after the update
		  - error: apperr.NotFound or storage failures
	*/
	UpdateImage(ctx context.Context, userID string, image Image, url string) (*auth.User, error)

	/*
		List returns one page of accounts, newest first, with the total count.

		Returns:
		  - []*auth.User: Page items
		  - int: Total number of accounts
		  - error: Storage failures
	*/
	List(ctx context.Context, limit, offset int) ([]*auth.User, int, error)

	/*
		DeleteByUsername removes the account and returns the deleted row.

		Returns:
		  - *auth.User: The account as it was before deletion
		  - error: apperr.NotFound or storage failures
	*/
	DeleteByUsername(ctx context.Context, username string) (*auth.User, error)
}
