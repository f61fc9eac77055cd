// Package apperr defines the error kinds the match server's app layers
// return. Handlers map each kind to an HTTP status.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalid           = errors.New("invalid request")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Invalid wraps a validation message so it reads as-is to the operator.
func Invalid(format string, args ...interface{}) error {
	return &kindError{kind: ErrInvalid, msg: fmt.Sprintf(format, args...)}
}

// Conflict reports an operation the current state does not allow.
func Conflict(format string, args ...interface{}) error {
	return &kindError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing resource by name.
func NotFound(what string) error {
	return &kindError{kind: ErrNotFound, msg: what + " not found"}
}

// Transition reports a rejected game status change.
func Transition(from, to string) error {
	return &kindError{kind: ErrInvalidTransition, msg: fmt.Sprintf("cannot change status from %s to %s", from, to)}
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Message returns the innermost human readable message of err. Wrapping
// context added with fmt.Errorf is dropped so operators see the cause.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return err.Error()
}
