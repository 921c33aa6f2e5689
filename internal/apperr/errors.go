// Package apperr holds the error taxonomy shared across the API. Handlers map
// these onto HTTP statuses; inner packages never touch status codes.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// common
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("access denied")

	// authentication. ErrInvalidCredential carries one message for both the
	// unknown-email and wrong-password cases to prevent email enumeration.
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenMalformed    = errors.New("invalid token")
	ErrIdentityNotFound  = errors.New("identity not found")

	// signup
	ErrDuplicateIdentity = errors.New("an account with this email already exists")
	ErrInvalidRole       = errors.New("invalid role specified")
	ErrWeakCredential    = errors.New("password must be at least 8 characters and contain a letter and a digit")

	// configuration / collaborators
	ErrMissingSecret = errors.New("JWT_SECRET is not configured")
	ErrRender        = errors.New("failed to render PDF")
)

// FieldError reports a single violated field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects every violated field of a payload, not just the
// first one found.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// Add appends a field violation and returns the receiver for chaining.
func (e *ValidationError) Add(field, reason string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
	return e
}

// OrNil returns the error if it holds any violations, nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
