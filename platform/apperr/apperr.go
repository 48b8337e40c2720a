// Package apperr defines the typed errors services return. Each error
// carries a Kind, and the HTTP layer maps Kinds to status codes in one
// place instead of per handler.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind categorizes an error for status mapping and logging.
type Kind int

const (
	// KindUnknown is an uncategorized error.
	KindUnknown Kind = iota
	// KindNotFound: the addressed resource does not exist.
	KindNotFound
	// KindValidation: the input fails a domain rule.
	KindValidation
	// KindConflict: the request collides with existing state.
	KindConflict
	// KindForbidden: the caller may not perform this action.
	KindForbidden
	// KindUnauthorized: authentication is missing or failed.
	KindUnauthorized
	// KindBadRequest: the request is malformed.
	KindBadRequest
	// KindUnavailable: a backing store or dependency is unreachable.
	KindUnavailable
	// KindInternal: an unexpected fault inside the service.
	KindInternal
)

var kindStatus = map[Kind]int{
	KindNotFound:     http.StatusNotFound,
	KindValidation:   http.StatusBadRequest,
	KindBadRequest:   http.StatusBadRequest,
	KindConflict:     http.StatusConflict,
	KindForbidden:    http.StatusForbidden,
	KindUnauthorized: http.StatusUnauthorized,
	KindUnavailable:  http.StatusServiceUnavailable,
	KindInternal:     http.StatusInternalServerError,
}

// Error is a categorized domain error. Message is safe for clients; Err
// holds the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Op      string // operation that failed, optional
	Err     error  // underlying cause, optional
	Details any    // extra payload for the response, optional
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code for the error's Kind.
func (e *Error) HTTPStatus() int {
	if status, ok := kindStatus[e.Kind]; ok {
		return status
	}
	return http.StatusBadRequest
}

// WithDetails attaches extra response payload and returns the error.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// New builds an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an error of the given kind around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFound reports a missing resource.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Validation reports input that breaks a domain rule.
func Validation(message string) *Error { return New(KindValidation, message) }

// Conflict reports a collision with existing state.
func Conflict(message string) *Error { return New(KindConflict, message) }

// Forbidden reports a disallowed action.
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// Unauthorized reports missing or failed authentication.
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

// BadRequest reports a malformed request.
func BadRequest(message string) *Error { return New(KindBadRequest, message) }

// Unavailable reports an unreachable dependency, keeping the cause.
func Unavailable(message string, err error) *Error {
	return Wrap(KindUnavailable, message, err)
}

// Internal reports an unexpected service fault.
func Internal(message string) *Error { return New(KindInternal, message) }

// GetKind returns the error's Kind, or KindUnknown for untyped errors.
func GetKind(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is a typed error of the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
