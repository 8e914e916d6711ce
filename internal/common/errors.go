// Package common defines shared constants and the error taxonomy used across
// the authkeeper server and client. Callers should use errors.Is / errors.As
// to match these values.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level error kinds. Typed errors below unwrap to one of these.
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStorage            = errors.New("storage error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Machine-readable error type tags carried in FieldError.Type.
const (
	TypeMissing            = "value_error.missing"
	TypeEmail              = "value_error.email"
	TypeMinLength          = "value_error.any_str.min_length"
	TypeMaxLength          = "value_error.any_str.max_length"
	TypePasswordStrength   = "value_error.password_strength"
	TypeConflict           = "conflict"
	TypeInvalidCredentials = "invalid_credentials"
)

// FieldError is a single field-level failure: which input field, a human
// readable message, and a machine-readable type tag.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
	Type  string `json:"type"`
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Msg)
}

// ValidationError reports that input failed format or strength rules.
// Every failing field is listed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError reports a uniqueness violation. Field is the logical name of
// the violated constraint ("email" or "name").
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %s already exists", ErrConflict, e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Detail renders the conflict in the same shape as a validation failure.
func (e *ConflictError) Detail() FieldError {
	return FieldError{
		Field: e.Field,
		Msg:   capitalize(e.Field) + " already exists",
		Type:  TypeConflict,
	}
}

// StorageError wraps a failure of the storage collaborator. It matches both
// ErrStorage and the underlying cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("db error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// InvalidCredentialsDetail is the single, undifferentiated detail returned
// for any failed authentication.
func InvalidCredentialsDetail() FieldError {
	return FieldError{
		Field: "credentials",
		Msg:   "Invalid email or password",
		Type:  TypeInvalidCredentials,
	}
}

// IsConflict reports whether err is a ConflictError and returns it.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
