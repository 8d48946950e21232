// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the relational store.
//
// Stores build SQL from these definitions instead of repeating string literals,
// so a renamed column is a one-line change here.
package schema

// UsersTable represents the 'users' table.
type UsersTable struct {
	Table        string
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Avatar       string
	CoverImage   string
	Role         string
	RefreshToken string
	WatchHistory string
	CreatedAt    string
	UpdatedAt    string

	// Unique constraints, matched by dberr to pick a conflict message.
	UsernameKey string
	EmailKey    string
}

// Users is the schema definition for users.
var Users = UsersTable{
	Table:        "users",
	ID:           "id",
	Username:     "username",
	Email:        "email",
	PasswordHash: "password_hash",
	FullName:     "full_name",
	Avatar:       "avatar",
	CoverImage:   "cover_image",
	Role:         "role",
	RefreshToken: "refresh_token",
	WatchHistory: "watch_history",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
	UsernameKey:  "users_username_key",
	EmailKey:     "users_email_key",
}

// Columns returns the columns read into a full account record.
func (t UsersTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.PasswordHash, t.FullName, t.Avatar,
		t.CoverImage, t.Role, t.RefreshToken, t.CreatedAt, t.UpdatedAt,
	}
}
