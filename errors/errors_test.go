package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuiper-lang/kuiper/span"
)

func TestErrorFormatting(t *testing.T) {
	e := New(TypeMismatch, "bad value %d", 3)
	assert.Equal(t, "bad value 3", e.Error())
	assert.False(t, e.HasSpan)

	sp := span.New(2, 5)
	e2 := NewAt(DivideByZero, sp, "Divide by zero")
	assert.Equal(t, "Divide by zero [2, 5)", e2.Error())
	assert.True(t, e2.HasSpan)
}

func TestErrorIsMatchesByCode(t *testing.T) {
	e1 := New(DivideByZero, "Divide by zero")
	e2 := NewAt(DivideByZero, span.New(0, 1), "a different message")
	assert.True(t, stderrors.Is(e1, e2))

	e3 := New(TypeMismatch, "wrong type")
	assert.False(t, stderrors.Is(e1, e3))
}

func TestAsCompileError(t *testing.T) {
	base := NewAt(ParseError, span.New(0, 3), "unexpected token")
	wrapped := AsCompileError(base)
	ce, ok := wrapped.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, ParseError, ce.Code)
	assert.Equal(t, base, ce.Unwrap())

	// Wrapping an already-wrapped CompileError is a no-op.
	assert.Same(t, ce, AsCompileError(ce))

	assert.Nil(t, AsCompileError(nil))
}

func TestAsRuntimeError(t *testing.T) {
	base := NewAt(DivideByZero, span.New(2, 3), "Divide by zero")
	wrapped := AsRuntimeError(base)
	re, ok := wrapped.(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, DivideByZero, re.Code)

	assert.Same(t, re, AsRuntimeError(re))
	assert.Nil(t, AsRuntimeError(nil))
}

func TestCodeCategory(t *testing.T) {
	assert.Equal(t, "parse", LexError.Category())
	assert.Equal(t, "parse", ParseError.Category())
	assert.Equal(t, "compile", ArityError.Category())
	assert.Equal(t, "runtime", DivideByZero.Category())
}

func TestCodeInternal(t *testing.T) {
	assert.True(t, SourceMissingError.Internal())
	assert.True(t, OptimizerOperationLimit.Internal())
	assert.False(t, DivideByZero.Internal())
	assert.False(t, ArityError.Internal())
}

func TestCodeDescription(t *testing.T) {
	assert.NotEmpty(t, DivideByZero.Description())
	assert.Equal(t, "unknown error", Code("K9999").Description())
}
