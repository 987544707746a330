// Package enginerr defines the typed error kinds surfaced to the statement
// loop. Every error the core returns carries one of these kinds so the
// caller can format a one-line message and recover at the statement
// boundary without inspecting message text.
package enginerr

import (
	"errors"
	"fmt"
)

// Kind classifies a core error per the language's error handling design.
type Kind string

const (
	Parse          Kind = "ParseError"
	NotFound       Kind = "NotFoundError"
	AlreadyExists  Kind = "AlreadyExistsError"
	Arity          Kind = "ArityError"
	JoinOrder      Kind = "JoinOrderError"
	Subquery       Kind = "SubqueryError"
	IO             Kind = "IOError"
	Config         Kind = "ConfigError"
)

// Error wraps an underlying cause with a Kind so callers can use
// errors.Is/errors.As while the statement loop only needs Kind+Error().
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func ParseErrorf(format string, args ...interface{}) error {
	return newf(Parse, format, args...)
}

func NotFoundErrorf(format string, args ...interface{}) error {
	return newf(NotFound, format, args...)
}

func AlreadyExistsErrorf(format string, args ...interface{}) error {
	return newf(AlreadyExists, format, args...)
}

func ArityErrorf(format string, args ...interface{}) error {
	return newf(Arity, format, args...)
}

func JoinOrderErrorf(format string, args ...interface{}) error {
	return newf(JoinOrder, format, args...)
}

func SubqueryErrorf(format string, args ...interface{}) error {
	return newf(Subquery, format, args...)
}

func IOErrorf(err error, format string, args ...interface{}) error {
	return wrap(IO, err, format, args...)
}

func ConfigErrorf(format string, args ...interface{}) error {
	return newf(Config, format, args...)
}

// KindOf returns the Kind of err if it (or something it wraps) is an
// *Error, and ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
