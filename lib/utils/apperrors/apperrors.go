package apperrors

import (
	"github.com/pkg/errors"
)

// Kind is the closed failure taxonomy of the lifecycle engine. Every error
// leaving a handler carries exactly one kind, controllers map kinds to HTTP
// statuses. Only KindPersistence is safe to retry.
type Kind string

const (
	KindForbidden         Kind = "FORBIDDEN"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindEditingNotAllowed Kind = "EDITING_NOT_ALLOWED"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindNotFound          Kind = "NOT_FOUND"
	KindPersistence       Kind = "PERSISTENCE_ERROR"
)

type appError struct {
	kind Kind
	err  error
}

func (e *appError) Error() string {
	return e.err.Error()
}

func (e *appError) Unwrap() error {
	return e.err
}

func wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &appError{kind: kind, err: err}
}

func New(kind Kind, message string) error {
	return wrap(kind, errors.New(message))
}

func Newf(kind Kind, format string, args ...interface{}) error {
	return wrap(kind, errors.Errorf(format, args...))
}

func Wrap(kind Kind, err error, message string) error {
	return wrap(kind, errors.Wrap(err, message))
}

func Forbidden(message string) error {
	return New(KindForbidden, message)
}

func InvalidTransition(format string, args ...interface{}) error {
	return Newf(KindInvalidTransition, format, args...)
}

func EditingNotAllowed(message string) error {
	return New(KindEditingNotAllowed, message)
}

func Validation(err error) error {
	return wrap(KindValidation, err)
}

func NotFound(message string) error {
	return New(KindNotFound, message)
}

func Persistence(err error, message string) error {
	return Wrap(KindPersistence, err, message)
}

func KindOf(err error) Kind {
	var appErr *appError
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	// unclassified failures are treated as store failures: retry-safe
	return KindPersistence
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
