// Package errors provides coded errors for chartcore.
//
// Every error raised by the engine carries a [Code]. Codes fall into a small
// set of kinds that callers branch on: the CLI prints input and
// configuration errors without a stack of causes, and the HTTP server maps
// kinds onto status codes.
//
//	err := errors.New(errors.ErrCodeUnknownSeriesType, "no series type registered for %q", name)
//	if errors.IsConfiguration(err) {
//	    // fatal, never retried
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidConfig, cause, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"
	ErrCodeInvalidAxis         Code = "INVALID_AXIS"
	ErrCodeInvalidFocus        Code = "INVALID_FOCUS"
	ErrCodeUnknownSeriesType   Code = "UNKNOWN_SERIES_TYPE"
	ErrCodeMissingStrategyHook Code = "MISSING_STRATEGY_HOOK"
	ErrCodeMissingAxis         Code = "MISSING_AXIS"

	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Kind groups codes by how a caller should react to them.
type Kind int

const (
	KindInternal      Kind = iota // bug or unexpected failure
	KindInput                     // malformed request or data
	KindConfiguration             // chart options that can never succeed
	KindNotFound
	KindUnsupported
)

var kinds = map[Code]Kind{
	ErrCodeInvalidInput:        KindInput,
	ErrCodeInvalidFormat:       KindInput,
	ErrCodeInvalidConfig:       KindConfiguration,
	ErrCodeInvalidAxis:         KindConfiguration,
	ErrCodeInvalidFocus:        KindConfiguration,
	ErrCodeUnknownSeriesType:   KindConfiguration,
	ErrCodeMissingStrategyHook: KindConfiguration,
	ErrCodeMissingAxis:         KindConfiguration,
	ErrCodeNotFound:            KindNotFound,
	ErrCodeUnsupported:         KindUnsupported,
}

// Kind returns the kind of c. Unknown codes are internal.
func (c Code) Kind() Kind {
	return kinds[c]
}

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

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with the given code that wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost coded error in err's chain, or
// the empty code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// KindOf returns the kind of err's code. Errors without a code are
// internal.
func KindOf(err error) Kind {
	return GetCode(err).Kind()
}

// IsConfiguration reports whether err is a fatal chart configuration error
// such as an unknown series type, a missing axis or an invalid focus
// option.
func IsConfiguration(err error) bool {
	return KindOf(err) == KindConfiguration
}

// UserMessage returns err's messages joined without code prefixes.
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
