// Package taskerr defines the error kinds surfaced by the task core.
// Callers match kinds with errors.Is against the Err* sentinels.
package taskerr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrInvalidDate = errors.New("invalid date")
)

// Error pairs a kind sentinel with a human-readable message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Validationf reports caller input that can never succeed (empty title, unknown enum value).
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf reports an unknown task id.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// InvalidDatef reports a stored or supplied date that does not parse.
func InvalidDatef(format string, args ...any) error {
	return &Error{Kind: ErrInvalidDate, Msg: fmt.Sprintf(format, args...)}
}
