package errors

import (
	"fmt"

	"github.com/kuiper-lang/kuiper/span"
)

// errData holds the code/message/span payload shared by Error and its
// wrapper types. It is kept separate (rather than embedding Error itself)
// so that CompileError/RuntimeError can promote these fields without also
// promoting Error's Error() method, which would collide with their own.
type errData struct {
	Code    Code
	Message string
	Span    span.Span
	HasSpan bool
}

// Error is a single Kuiper failure: a code, a human message, and an
// optional source span. It implements the standard error interface.
type Error struct {
	errData
}

// New builds an Error with no span attached.
func New(code Code, format string, args ...any) *Error {
	return &Error{errData{Code: code, Message: fmt.Sprintf(format, args...)}}
}

// NewAt builds an Error carrying the given span.
func NewAt(code Code, sp span.Span, format string, args ...any) *Error {
	return &Error{errData{Code: code, Message: fmt.Sprintf(format, args...), Span: sp, HasSpan: true}}
}

func (e *Error) Error() string {
	if e.HasSpan {
		return fmt.Sprintf("%s [%d, %d)", e.Message, e.Span.Start, e.Span.End)
	}
	return e.Message
}

// Is supports errors.Is comparisons against a Code sentinel wrapped as an
// *Error, and lets callers match on the Code regardless of message/span.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CompileError is returned by Compile for any lex/parse/macro/build/
// optimize failure. It wraps the underlying *Error and exposes the same
// message/span pair via the programmatic API described in spec §6.
type CompileError struct {
	errData
}

func (e *CompileError) Error() string { return (&Error{e.errData}).Error() }
func (e *CompileError) Unwrap() error { return &Error{e.errData} }

// RuntimeError is returned by Run for any evaluation failure.
type RuntimeError struct {
	errData
}

func (e *RuntimeError) Error() string { return (&Error{e.errData}).Error() }
func (e *RuntimeError) Unwrap() error { return &Error{e.errData} }

// AsCompileError wraps err (if non-nil) as a *CompileError, converting a
// bare *Error in place; other error types are wrapped with no span.
func AsCompileError(err error) error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*CompileError); ok {
		return ce
	}
	if e, ok := err.(*Error); ok {
		return &CompileError{e.errData}
	}
	return &CompileError{New(ParseError, err.Error()).errData}
}

// AsRuntimeError wraps err (if non-nil) as a *RuntimeError.
func AsRuntimeError(err error) error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RuntimeError); ok {
		return re
	}
	if e, ok := err.(*Error); ok {
		return &RuntimeError{e.errData}
	}
	return &RuntimeError{New(TypeMismatch, err.Error()).errData}
}
