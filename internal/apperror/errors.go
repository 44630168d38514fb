// Package apperror defines the error taxonomy shared across services and the
// HTTP layer. Every failure carries a kind so callers can distinguish invalid
// input from missing authorization from wrong-state conflicts.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	// KindValidation marks malformed or missing required input.
	KindValidation Kind = iota + 1
	// KindAuthorization marks an actor lacking the role an operation requires.
	KindAuthorization
	// KindConflict marks a violated precondition, such as a transition from
	// the wrong status.
	KindConflict
	// KindNotFound marks a missing record, including an actor with no linked
	// employee.
	KindNotFound
	// KindInternal marks persistence or collaborator failures.
	KindInternal
)

// Error is an application error with a kind and optional wrapped cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

// Kind returns the classification of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Validation creates a validation error.
func Validation(format string, args ...interface{}) error {
	return &Error{kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

// Authorization creates an authorization error.
func Authorization(format string, args ...interface{}) error {
	return &Error{kind: KindAuthorization, msg: fmt.Sprintf(format, args...)}
}

// Conflict creates a precondition-violation error.
func Conflict(format string, args ...interface{}) error {
	return &Error{kind: KindConflict, msg: fmt.Sprintf(format, args...)}
}

// NotFound creates a missing-record error.
func NotFound(format string, args ...interface{}) error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

// Internal wraps a persistence or collaborator failure.
func Internal(msg string, err error) error {
	return &Error{kind: KindInternal, msg: msg, err: err}
}

// Wrap attaches a kind and message to an existing error, preserving the cause
// for errors.Is/As chains.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{kind: kind, msg: msg, err: err}
}

// KindOf returns the kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
