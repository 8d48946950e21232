// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the identity lifecycle: registration, login, logout
and refresh-token rotation.

# Session Model

Every account stores at most one refresh token. Login and refresh overwrite it,
so a refresh token issued before the latest rotation is rejected even while its
signature and expiry are still valid. Logout clears it.
*/
package auth

import (
	"time"

	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// # Domain Entities

// User is a registered account.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	FullName     string       `json:"fullName"`
	Avatar       string       `json:"avatar"`
	CoverImage   string       `json:"coverImage"`
	Role         sec.UserRole `json:"role"`
	RefreshToken string       `json:"-"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Identity returns the fields signed into an access token.
func (user *User) Identity() sec.Identity {
	return sec.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}
}

// # Field Identifiers

// Field names used in validation errors and request bodies.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldFullName     = "fullName"
	FieldOldPassword  = "oldPassword"
	FieldNewPassword  = "newPassword"
	FieldRefreshToken = "refreshToken"
	FieldAccessToken  = "accessToken"
	FieldUser         = "user"
)
