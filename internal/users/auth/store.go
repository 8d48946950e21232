// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given (lowercase) username.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(ctx context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		Create persists a new account. The timestamps are filled in on success.

		Returns:
		  - error: apperr.Conflict on a taken username or email, or storage failures
	*/
	Create(ctx context.Context, user *User) error

	/*
		SetRefreshToken overwrites the stored refresh token. An empty token clears it.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	SetRefreshToken(ctx context.Context, userID, token string) error

	/*
		UpdatePassword replaces only the password hash.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// # Volatile Data Access

// LoginThrottle counts failed login attempts per username.
type LoginThrottle interface {

	// Failures returns the failures recorded in the current window.
	Failures(ctx context.Context, username string) (int64, error)

	// RecordFailure increments the counter, starting a window of the given length on the first failure.
	RecordFailure(ctx context.Context, username string, window time.Duration) (int64, error)

	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, username string) error
}
