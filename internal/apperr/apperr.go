// Package apperr defines the error type used for user-facing failures.
package apperr

import "fmt"

// Error is a user-facing error whose message may carry format verbs.
// Copies made with Fmt or Wrap still match their origin under errors.Is.
type Error struct {
	origin  *Error
	cause   error
	Message string
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}

	return e.Message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() []error {
	var errs []error

	if e.origin != nil {
		errs = append(errs, e.origin)
	}

	if e.cause != nil {
		errs = append(errs, e.cause)
	}

	return errs
}

// Fmt returns a copy of the error with its message formatted using args.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(e.Message, args...),
		origin:  e.root(),
		cause:   e.cause,
	}
}

// Wrap returns a copy of the error that wraps err.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		Message: e.Message,
		origin:  e.root(),
		cause:   err,
	}
}

func (e *Error) root() *Error {
	if e.origin != nil {
		return e.origin
	}

	return e
}
