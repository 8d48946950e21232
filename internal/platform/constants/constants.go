// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Authentication: cookie names and token issuer.
  - Media: multipart field names and upload limits.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "vidtube-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Video uploads are multipart bodies, so this is generous.
	DefaultReadTimeout = 5 * time.Minute

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 5 * time.Minute

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for a JSON request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// UploadRequestTimeout is the deadline for routes that transfer media.
	UploadRequestTimeout = 4 * time.Minute

	// StatementTimeout bounds every SQL statement.
	StatementTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "vidtube"

	// AccessTokenCookieName carries the access token for browser clients.
	AccessTokenCookieName = "accessToken"

	// RefreshTokenCookieName carries the refresh token for browser clients.
	RefreshTokenCookieName = "refreshToken"

	// CookiePath scopes both credential cookies.
	CookiePath = "/"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # Media

const (
	// MultipartMemory is the part of a multipart body kept in memory; the rest spills to disk.
	MultipartMemory = 8 << 20

	// DefaultUploadMaxBytes caps a single multipart request body.
	DefaultUploadMaxBytes = 512 << 20
)

// # Redis Prefixes

const (
	RedisPrefixLoginAttempts = "auth:login_attempts:"
)
