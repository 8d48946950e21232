// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Alex Doe", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
		{"display_name_form", "Alex <alex@example.com>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("username", "tai").
		MaxLen("username", "tai", 10).
		Email("email", "alex@vidtube.dev").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").        // Fails
		MaxLen("username", "abcdef", 5). // Fails
		Email("email", "not-an-email").  // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

/*
TestValidator_Length covers the password length window.
*/
func TestValidator_Length(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"too_short", "short1", true},
		{"lower_bound", "longenou", false},
		{"upper_bound", "sixteencharacter", false},
		{"too_long", "seventeencharacte", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Length("password", tt.value, 8, 16)
			assert.Equal(t, tt.hasError, v.HasErrors())
		})
	}
}

/*
TestValidator_AnyPresent checks the at-least-one rule used by partial updates.
*/
func TestValidator_AnyPresent(t *testing.T) {
	empty := &validate.Validator{}
	empty.AnyPresent("body", "", "  ")
	require.Error(t, empty.Err())

	ok := &validate.Validator{}
	ok.AnyPresent("body", "", "Alex")
	assert.NoError(t, ok.Err())
}
