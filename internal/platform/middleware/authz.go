// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// TokenVerifier verifies access tokens. [*sec.TokenService] satisfies it.
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (*sec.AuthClaims, error)
}

// IdentityLookup loads the current state of an account. A missing account is
// reported as apperr.NotFound.
type IdentityLookup interface {
	LookupIdentity(ctx context.Context, userID string) (sec.Identity, error)
}

type authFailureKey struct{}

// Authenticate resolves the caller from the access token.
//
// # Flow
//  1. Read the 'accessToken' cookie, falling back to 'Authorization: Bearer <token>'.
//  2. If neither is present the request proceeds as anonymous.
//  3. Verify the token, then load the account it names. The claims injected
//     into the context carry the stored username, email and role, so a
//     demotion takes effect on the next request.
//  4. On any failure proceed as anonymous and remember the failure so
//     [RequireAuth] can report it. A deleted account yields 401. Public
//     routes such as refresh stay reachable with a stale cookie.
func Authenticate(verifier TokenVerifier, identities IdentityLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, err := ExtractAccessToken(request)
			if err != nil {
				next.ServeHTTP(writer, withAuthFailure(request, err))
				return
			}

			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyAccessToken(token)
			if err != nil {
				next.ServeHTTP(writer, withAuthFailure(request, err))
				return
			}

			identity, err := identities.LookupIdentity(request.Context(), claims.UserID)
			if err != nil {
				if apperr.HasCode(err, apperr.CodeNotFound) {
					err = apperr.Unauthorized("Account no longer exists").WithCause(err)
				}
				next.ServeHTTP(writer, withAuthFailure(request, err))
				return
			}

			claims.Username = identity.Username
			claims.Email = identity.Email
			claims.FullName = identity.FullName
			claims.Role = identity.Role

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func withAuthFailure(request *http.Request, err error) *http.Request {
	return request.WithContext(context.WithValue(request.Context(), authFailureKey{}, err))
}

// ExtractAccessToken returns the access token carried by the request, or "" when none is present.
func ExtractAccessToken(request *http.Request) (string, error) {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return "", nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperr.Unauthorized("Invalid authorization format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if GetUser(request.Context()) == nil {
			respond.Error(writer, request, authFailure(request.Context()))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests unless the caller holds exactly role.
//
// It implies [RequireAuth], so mounting both is unnecessary.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := GetUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, authFailure(request.Context()))
				return
			}

			if err := sec.RequireRole(claims, role); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetUser retrieves the verified claims, or nil for anonymous requests.
func GetUser(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetAuthUser(ctx)
}

// authFailure returns the remembered verification failure or a generic 401.
func authFailure(ctx context.Context) error {
	if err, ok := ctx.Value(authFailureKey{}).(error); ok && err != nil {
		return err
	}
	return apperr.Unauthorized("Authentication required")
}
