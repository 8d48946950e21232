// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "github.com/taibuivan/vidtube/internal/platform/apperr"

// # Ownership & Role Predicates

// Authorize allows the actor to mutate a resource owned by ownerID when the
// actor is that owner or an admin. It has no side effects and must run after
// token verification and before any write.
func Authorize(actor *AuthClaims, ownerID string) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if actor.UserID == ownerID || actor.Role.IsAdmin() {
		return nil
	}
	return apperr.Forbidden("You are not authorized to modify this resource")
}

// RequireRole allows the actor only when it holds exactly the given role.
func RequireRole(actor *AuthClaims, role UserRole) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if actor.Role != role {
		return apperr.Forbidden("Insufficient permissions")
	}
	return nil
}
