// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error taxonomy shared by every layer of the API.

Architecture:

  - AppError: machine-readable code, client-safe message and HTTP status.
  - Taxonomy: Validation, Unauthorized, Forbidden, NotFound, Conflict,
    RateLimited, UploadFailed, DeleteFailed, Timeout and Internal.
  - Mapping: the HTTP status travels with the error so [respond.Error] never guesses.

Every error that leaves the service layer should either be an [AppError] or wrap one.
Anything else is reported to the client as Internal.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Codes

const (
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeRateLimited  = "RATE_LIMITED"
	CodeUploadFailed = "UPLOAD_FAILED"
	CodeDeleteFailed = "DELETE_FAILED"
	CodeTimeout      = "TIMEOUT"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is the canonical error type of the API.
//
// # Security
//
// Cause is for server-side logging only and is never serialized.
type AppError struct {
	// Code is a machine-readable identifier (e.g. "NOT_FOUND").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error.
	Cause error `json:"-"`
	// Details holds per-field validation failures.
	Details []FieldError `json:"errors,omitempty"`
}

// FieldError represents a single field-level failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a copy of e carrying cause.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Video") // "Video not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// UploadFailed creates a 500 [AppError] for a failed transfer to the media store.
func UploadFailed(cause error) *AppError {
	return &AppError{
		Code:       CodeUploadFailed,
		Message:    "Failed to upload media",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// DeleteFailed creates a 500 [AppError] for a failed removal from the media store.
func DeleteFailed(cause error) *AppError {
	return &AppError{
		Code:       CodeDeleteFailed,
		Message:    "Failed to delete media",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Timeout creates a 504 [AppError] for a request that ran out of time.
func Timeout(cause error) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    "The request took too long to complete",
		HTTPStatus: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
