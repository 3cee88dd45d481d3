// Package apperrors defines the error taxonomy shared by every layer.
// Repositories and services return these; the HTTP layer maps codes to
// status codes without inspecting messages.
package apperrors

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error class.
type Code string

const (
	// CodeValidation marks bad input: constraint violations, malformed
	// fields, past deadlines, password mismatches.
	CodeValidation Code = "VALIDATION"
	// CodeUnauthenticated marks a missing or invalid credential.
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	// CodeNotOwner marks a mutation attempt by an authenticated actor
	// who does not own the resource.
	CodeNotOwner Code = "NOT_OWNER"
	// CodeNotFound marks an id that does not resolve.
	CodeNotFound Code = "NOT_FOUND"
	// CodeConflict marks a uniqueness violation.
	CodeConflict Code = "CONFLICT"
	// CodeUnavailable marks a store-connectivity failure. It is the only
	// retryable class.
	CodeUnavailable Code = "UNAVAILABLE"
)

// HTTPStatus maps the code to its HTTP status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeNotOwner:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is the domain error type with a code, an internal message and
// optional field-level detail.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Validation creates a validation error carrying field-level detail.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

// CodeOf extracts the code from err, or CodeUnavailable when err is not
// a domain error (unknown failures are treated as transient).
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnavailable
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// Retryable reports whether the caller may retry the operation.
func Retryable(err error) bool {
	return CodeOf(err) == CodeUnavailable
}
