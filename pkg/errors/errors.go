// Package errors provides structured error types for stacklayout.
//
// Errors carry a machine-readable [Code] so that the CLI, the HTTP service and
// library callers can react to failure categories without string matching:
//   - INVALID_*: malformed input (graphs, configuration files, option values)
//   - NOT_FOUND / UNKNOWN_OPTION: lookups that found nothing
//   - INVARIANT_VIOLATION: input that breaks a structural guarantee the
//     ordering code relies on; fatal, never retried
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGraph, "edge %s -> %s skips a layer", from, to)
//	if errors.Is(err, errors.ErrCodeInvalidGraph) {
//	    // Handle malformed graph
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable failure category.
type Code string

const (
	// Caller input
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidOption Code = "INVALID_OPTION"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Lookups
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeUnknownOption Code = "UNKNOWN_OPTION"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	ErrCodeInvariant Code = "INVARIANT_VIOLATION"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code whose cause is err.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// Invariant returns an INVARIANT_VIOLATION error. The ordering code panics
// with these; see [AsInvariant].
func Invariant(format string, args ...any) *Error {
	return New(ErrCodeInvariant, format, args...)
}

// AsInvariant reports whether a recovered panic value is an invariant
// violation, and returns it if so.
func AsInvariant(r any) (*Error, bool) {
	err, ok := r.(error)
	if !ok {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) && e.Code == ErrCodeInvariant {
		return e, true
	}
	return nil, false
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost coded error in err's chain,
// or "" when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage renders err without code prefixes:
// "decode graph: unexpected EOF" rather than
// "INVALID_FORMAT: decode graph: unexpected EOF".
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}
