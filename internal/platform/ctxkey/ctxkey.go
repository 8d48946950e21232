// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
package ctxkey

// key is unexported so values stored by this module never collide with
// keys from other packages, even when the string content matches.
type key string

const (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyUser holds the verified access-token claims ([sec.AuthClaims]).
	KeyUser key = "user"

	// KeyLogger holds the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
