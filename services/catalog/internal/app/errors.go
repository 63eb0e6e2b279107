package app

import (
	"errors"
	"fmt"

	"locallibrary/pkg/form"
)

// ErrHasDependents blocks a delete while other records still reference the target.
var ErrHasDependents = errors.New("record has dependents")

// Kind classifies an Error for the HTTP responder.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_failed"
	default:
		return "internal"
	}
}

// Error is the tagged error returned by catalog operations.
type Error struct {
	Kind    Kind
	Message string
	Fields  []form.FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports a missing record with a user-facing message.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Invalid reports failed form rules.
func Invalid(fields []form.FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// Internal wraps an infrastructure failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the kind of err; untagged errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// FieldErrors returns the validation failures carried by err, if any.
func FieldErrors(err error) []form.FieldError {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind == KindValidation {
		return appErr.Fields
	}
	return nil
}
