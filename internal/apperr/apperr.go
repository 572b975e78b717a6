// Package apperr defines the error kinds returned by the domain services.
// Every service error wraps exactly one kind so callers can branch with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrBadRequest      = errors.New("bad request")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")

	// ErrUpstreamUnavailable never leaves the classifier gateway; it is recovered with a fallback.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Error carries a caller-facing message together with its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Kind }

// New returns an error of the given kind.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error      { return New(ErrValidation, format, args...) }
func BadRequest(format string, args ...any) error      { return New(ErrBadRequest, format, args...) }
func NotFound(format string, args ...any) error        { return New(ErrNotFound, format, args...) }
func Forbidden(format string, args ...any) error       { return New(ErrForbidden, format, args...) }
func Unauthenticated(format string, args ...any) error { return New(ErrUnauthenticated, format, args...) }
func Conflict(format string, args ...any) error        { return New(ErrConflict, format, args...) }

// KindOf returns the kind wrapped by err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrValidation, ErrBadRequest, ErrNotFound, ErrForbidden,
		ErrUnauthenticated, ErrConflict, ErrUpstreamUnavailable,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
