// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// RoleUser is the default role of a registered account.
	RoleUser UserRole = "user"

	// RoleAdmin may mutate any resource and reach the admin routes.
	RoleAdmin UserRole = "admin"

	// RoleOwner marks the platform owner account. It carries no extra
	// privileges in the ownership predicate.
	RoleOwner UserRole = "owner"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether r grants admin access.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}
