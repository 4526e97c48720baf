package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	ErrValidation  = fmt.Errorf("validation failed")
	ErrNotFound    = fmt.Errorf("not found")
	ErrForbidden   = fmt.Errorf("forbidden")
	ErrPersistence = fmt.Errorf("persistence failure")

	ErrEmptyContent   = fmt.Errorf("%w: content must not be empty", ErrValidation)
	ErrContentTooLong = fmt.Errorf("%w: content is too long", ErrValidation)
	ErrSelfMessage    = fmt.Errorf("%w: cannot send a message to yourself", ErrValidation)
	ErrUnknownEvent   = fmt.Errorf("%w: unsupported event", ErrValidation)
	ErrInvalidPayload = fmt.Errorf("%w: invalid payload", ErrValidation)

	ErrGroupNotFound   = fmt.Errorf("%w: group", ErrNotFound)

	ErrNotMember      = fmt.Errorf("%w: user is not a member of this group", ErrForbidden)
	ErrCreatorRemoval = fmt.Errorf("%w: cannot remove the group creator", ErrForbidden)
	ErrNotCreator     = fmt.Errorf("%w: only the group creator can do this", ErrForbidden)
	ErrAlreadyMember  = fmt.Errorf("%w: user is already a member of this group", ErrValidation)

	ErrInvalidToken = fmt.Errorf("invalid or expired token")
	ErrSinkFull     = fmt.Errorf("session buffer is full")
)

// Is and As re-export the standard helpers so callers only import this package.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

// Persistence wraps a store failure so callers can match it with ErrPersistence
// while keeping the underlying cause.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// StatusCode maps the error taxonomy onto HTTP status codes.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case stderrors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case stderrors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Code maps the error taxonomy onto the stable codes carried by websocket error events.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrInvalidToken):
		return "unauthenticated"
	case stderrors.Is(err, ErrValidation):
		return "validation_error"
	case stderrors.Is(err, ErrForbidden):
		return "authorization_error"
	case stderrors.Is(err, ErrNotFound):
		return "not_found"
	case stderrors.Is(err, ErrPersistence):
		return "persistence_failure"
	default:
		return "internal_error"
	}
}
