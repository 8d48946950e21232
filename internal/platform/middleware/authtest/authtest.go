// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides an in-memory account directory for handler tests
// that mount [middleware.Authenticate].
package authtest

import (
	"context"
	"sync"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// Directory implements middleware.IdentityLookup over a map keyed by user id.
type Directory struct {
	mu         sync.RWMutex
	identities map[string]sec.Identity
}

// NewDirectory registers one account per claims value.
func NewDirectory(accounts ...*sec.AuthClaims) *Directory {
	d := &Directory{identities: make(map[string]sec.Identity, len(accounts))}
	for _, claims := range accounts {
		d.Put(sec.Identity{
			ID:       claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
			FullName: claims.FullName,
			Role:     claims.Role,
		})
	}
	return d
}

// Put adds or replaces an account.
func (d *Directory) Put(identity sec.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.identities[identity.ID] = identity
}

// Remove deletes an account, as an admin delete would.
func (d *Directory) Remove(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.identities, userID)
}

// SetRole changes the stored role of an existing account.
func (d *Directory) SetRole(userID string, role sec.UserRole) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if identity, ok := d.identities[userID]; ok {
		identity.Role = role
		d.identities[userID] = identity
	}
}

// LookupIdentity returns apperr.NotFound for unknown ids.
func (d *Directory) LookupIdentity(_ context.Context, userID string) (sec.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	identity, ok := d.identities[userID]
	if !ok {
		return sec.Identity{}, apperr.NotFound("User")
	}
	return identity, nil
}
