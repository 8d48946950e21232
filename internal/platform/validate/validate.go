// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Services run a validation pass before any store call or media transfer, so
// a rejected request never causes a partial write.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Length fails if the Unicode character count is outside [min, max].
func (v *Validator) Length(field, value string, min, max int) *Validator {
	if n := utf8.RuneCountInString(value); n < min || n > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d characters", min, max))
	}
	return v
}

// Email fails if the value is not a bare RFC 5322 address.
func (v *Validator) Email(field, value string) *Validator {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// AnyPresent fails unless at least one of the values is non-blank.
func (v *Validator) AnyPresent(field string, values ...string) *Validator {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return v
		}
	}
	v.add(field, "At least one field is required")
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("newPassword", oldPassword == newPassword, "Must differ from the old password")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// Call it once, at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
