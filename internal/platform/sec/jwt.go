// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing, the
// ownership predicate) from the domain services. Services receive a
// [TokenService] through their constructors and never touch signing keys.
package sec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// AuthClaims is the payload of an access token.
//
// The identity fields describe the account at issue time. [middleware.Authenticate]
// refreshes them from the store on every request.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string   `json:"uid"`
	Username string   `json:"unm"`
	Email    string   `json:"eml"`
	FullName string   `json:"fnm"`
	Role     UserRole `json:"rol"`
}

// RefreshClaims is the payload of a refresh token. It identifies the account only.
type RefreshClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
}

// Identity is the subset of an account that is signed into an access token.
type Identity struct {
	ID       string
	Username string
	Email    string
	FullName string
	Role     UserRole
}

// TokenConfig configures a [TokenService].
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
	Issuer        string
}

// TokenService issues and verifies HS256 access and refresh tokens.
//
// Access and refresh tokens are signed with different secrets so one can never
// be replayed as the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

// NewTokenService validates cfg and returns a ready [TokenService].
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if strings.TrimSpace(cfg.AccessSecret) == "" || strings.TrimSpace(cfg.RefreshSecret) == "" {
		return nil, errors.New("sec: access and refresh secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("sec: token lifetimes must be positive")
	}

	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
		now:           time.Now,
	}, nil
}

// AccessTTL reports the lifetime of issued access tokens.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// RefreshTTL reports the lifetime of issued refresh tokens.
func (service *TokenService) RefreshTTL() time.Duration { return service.refreshTTL }

// registered builds the standard claims. The random jti keeps two tokens
// issued within the same second textually distinct.
func (service *TokenService) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	currentTime := service.now()
	return jwt.RegisteredClaims{
		ID:        uuid.New(),
		Subject:   subject,
		Issuer:    service.issuer,
		IssuedAt:  jwt.NewNumericDate(currentTime),
		ExpiresAt: jwt.NewNumericDate(currentTime.Add(ttl)),
	}
}

// IssueAccessToken signs a short-lived token carrying the caller's identity.
func (service *TokenService) IssueAccessToken(identity Identity) (string, error) {
	claims := AuthClaims{
		RegisteredClaims: service.registered(identity.ID, service.accessTTL),
		UserID:           identity.ID,
		Username:         identity.Username,
		Email:            identity.Email,
		FullName:         identity.FullName,
		Role:             identity.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken signs a long-lived token carrying only the account id.
func (service *TokenService) IssueRefreshToken(userID string) (string, error) {
	claims := RefreshClaims{
		RegisteredClaims: service.registered(userID, service.refreshTTL),
		UserID:           userID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken checks signature and expiry and returns the embedded identity.
// Every failure is reported as Unauthorized.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if err := service.parse(tokenString, claims, service.accessSecret); err != nil {
		return nil, apperr.Unauthorized("Invalid or expired access token").WithCause(err)
	}
	if claims.UserID == "" {
		return nil, apperr.Unauthorized("Invalid access token claims")
	}
	return claims, nil
}

// VerifyRefreshToken checks signature and expiry, then requires the token to
// equal the value currently stored on the account. Tokens issued before the
// most recent rotation therefore fail even while cryptographically valid.
func (service *TokenService) VerifyRefreshToken(tokenString, storedToken string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := service.parse(tokenString, claims, service.refreshSecret); err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token").WithCause(err)
	}
	if storedToken == "" || tokenString != storedToken {
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}
	return claims, nil
}

// ParseRefreshToken checks signature and expiry only. It is used to find the
// account before the stored value is available for [VerifyRefreshToken].
func (service *TokenService) ParseRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := service.parse(tokenString, claims, service.refreshSecret); err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token").WithCause(err)
	}
	return claims, nil
}

func (service *TokenService) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return fmt.Errorf("sec: invalid token: %w", err)
	}
	if !token.Valid {
		return errors.New("sec: invalid token")
	}
	return nil
}
