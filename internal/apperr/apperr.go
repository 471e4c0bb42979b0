// Package apperr defines the error kinds shared by the stores, the HTTP
// layer and the API client, and maps them to HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrMissingToken = errors.New("token not provided")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("access denied")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnexpected   = errors.New("unexpected error")
)

// Error carries a kind (one of the sentinels above), a user-facing message
// and optional field details and cause.
type Error struct {
	Kind    error
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Invalid(message string, details ...string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: message, Details: details}
}

func NotFound(what string) *Error {
	return &Error{Kind: ErrNotFound, Message: what + " not found"}
}

func Forbidden(message string) *Error {
	return &Error{Kind: ErrForbidden, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}

// Status returns the HTTP status for err. Unclassified errors are 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// KindForStatus is the inverse of Status, used by the API client.
func KindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrInvalidToken
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusBadRequest:
		return ErrInvalidInput
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrUnexpected
	}
}

// Message returns the text that is safe to show to an API caller. Internal
// causes are never exposed for 500s.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if Status(err) == http.StatusInternalServerError {
			return "internal server error"
		}
		if e.Message != "" {
			return e.Message
		}
		return e.Kind.Error()
	}
	for _, kind := range []error{ErrMissingToken, ErrInvalidToken, ErrForbidden, ErrInvalidInput, ErrNotFound, ErrConflict} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "internal server error"
}

// Details returns the validation details attached to err, if any.
func Details(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// IsUniqueViolation reports whether a driver error is a UNIQUE constraint
// failure.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
