package common

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrStore      = errors.New("store failure")
)

// Error carries the kind of failure, the operation that produced it and
// an optional underlying cause.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a missing event, option or participant
func NotFound(op, msg string) error {
	return &Error{Kind: ErrNotFound, Op: op, Msg: msg}
}

// Validation reports input rejected before any write
func Validation(op, msg string) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: msg}
}

// Validationf is Validation with formatting
func Validationf(op, format string, args ...any) error {
	return Validation(op, fmt.Sprintf(format, args...))
}

// Conflict reports a uniqueness clash that could not be resolved transparently
func Conflict(op, msg string, err error) error {
	return &Error{Kind: ErrConflict, Op: op, Msg: msg, Err: err}
}

// Store wraps a persistence failure
func Store(op string, err error) error {
	return &Error{Kind: ErrStore, Op: op, Err: err}
}

// Message returns the user-safe message of a domain error, or "" when err
// is not one.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return ""
}
