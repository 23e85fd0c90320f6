// Package common defines shared constants and sentinel errors used across
// the Chatop server and CLI. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal   = errors.New("internal error")
	ErrBadRequest = errors.New("bad request")
	ErrValidation = errors.New("validation failed")

	// Identity errors.
	ErrDuplicateIdentity    = errors.New("email is already registered")
	ErrAuthenticationFailed = errors.New("invalid login or password")

	// Access errors.
	ErrUnauthenticated = errors.New("full authentication is required to access this resource")
	ErrForbidden       = errors.New("access denied")
)

// ValidationError carries per-field messages for a rejected request body.
// It matches ErrValidation via errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Error pairs a sentinel kind with a message meant for the client.
// errors.Is(err, kind) holds; Error returns only the message.
type Error struct {
	Kind    error
	Message string
}

func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// ClientMessage returns the message of the outermost *Error in err's chain,
// or fallback when there is none.
func ClientMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
