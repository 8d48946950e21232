// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the router's parameter extraction and common body decoding
patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/validate"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 16 << 10

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	body := io.LimitReader(request.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
UUIDParam retrieves a named URL parameter and requires it to be a UUID.

Returns:
  - string: canonical lowercase UUID
  - error: apperr.ValidationError naming the parameter
*/
func UUIDParam(request *http.Request, name string) (string, error) {
	return ParseUUID(name, chi.URLParam(request, name))
}

/*
ParseUUID validates a UUID value taken from any part of the request.
*/
func ParseUUID(field, raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", validate.RequiredError(field, "Must be a valid ID")
	}
	return id.String(), nil
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}
