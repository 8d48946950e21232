// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Credential Constraints

const (
	// PasswordMinLength and PasswordMaxLength bound accepted plaintext passwords.
	// bcrypt ignores input beyond 72 bytes, so the upper bound stays well below it.
	PasswordMinLength = 8
	PasswordMaxLength = 16

	// UsernameMinLength and UsernameMaxLength bound stored usernames.
	UsernameMinLength = 3
	UsernameMaxLength = 30

	// FullNameMaxLength bounds the display name.
	FullNameMaxLength = 100
)

// # Form Fields

// Multipart file fields accepted on registration.
const (
	FileAvatar     = "avatar"
	FileCoverImage = "coverImage"
)
