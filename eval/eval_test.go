// Tested from an external test package: package compiler already imports
// eval (for the optimizer's constant folding), so an internal eval test
// pulling in compiler to build fixtures would form an import cycle.
package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuiper-lang/kuiper/compiler"
	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/eval"
	"github.com/kuiper-lang/kuiper/parser"
	"github.com/kuiper-lang/kuiper/value"
)

func evalSrc(t *testing.T, src string, inputNames []string, inputs []value.Value) (value.Value, error) {
	t.Helper()
	p, err := parser.NewFromSource(src)
	require.NoError(t, err)
	expr, err := p.ParseExpression()
	require.NoError(t, err)
	node, err := compiler.Build(expr, inputNames)
	require.NoError(t, err)
	ev := eval.New(inputs)
	return ev.Eval(node)
}

func TestEvalArithmetic(t *testing.T) {
	v, err := evalSrc(t, "1 + 2 * 3", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.AsInt())
}

func TestEvalDivisionAlwaysProducesFloat(t *testing.T) {
	v, err := evalSrc(t, "4 / 2", nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsFloat())
	assert.Equal(t, 2.0, v.AsFloat())
}

func TestEvalDivideByZeroReportsSpan(t *testing.T) {
	_, err := evalSrc(t, "1 / input", []string{"input"}, []value.Value{value.Int(0)})
	require.Error(t, err)
	ce, ok := err.(*kerrors.Error)
	require.True(t, ok)
	assert.Equal(t, kerrors.DivideByZero, ce.Code)
	assert.Equal(t, "Divide by zero [2, 3)", ce.Error())
}

func TestEvalModuloPreservesIntWhenBothOperandsInt(t *testing.T) {
	v, err := evalSrc(t, "7 % 2", nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsInt())
	assert.Equal(t, int64(1), v.AsInt())
}

func TestEvalIntegerOverflowIsAnError(t *testing.T) {
	_, err := evalSrc(t, "9223372036854775807 + 1", nil, nil)
	require.Error(t, err)
	ce, ok := err.(*kerrors.Error)
	require.True(t, ok)
	assert.Equal(t, kerrors.NumericOverflow, ce.Code)
}

func TestEvalStringConcatenation(t *testing.T) {
	v, err := evalSrc(t, `"a" + "b"`, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ab", v.AsString())
}

func TestEvalMixedStringAndNumberIsTypeMismatch(t *testing.T) {
	_, err := evalSrc(t, `"a" + 1`, nil, nil)
	require.Error(t, err)
	ce, ok := err.(*kerrors.Error)
	require.True(t, ok)
	assert.Equal(t, kerrors.TypeMismatch, ce.Code)
}

func TestEvalAndOrShortCircuit(t *testing.T) {
	v, err := evalSrc(t, "false && (1/0 > 0)", nil, nil)
	require.NoError(t, err)
	assert.False(t, v.Truthy())

	v, err = evalSrc(t, "true || (1/0 > 0)", nil, nil)
	require.NoError(t, err)
	assert.True(t, v.Truthy())
}

func TestEvalSelectorMissingFieldReturnsNull(t *testing.T) {
	v, err := evalSrc(t, "input.missing", []string{"input"}, []value.Value{value.Obj(value.NewObject())})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestEvalSelectorNegativeIndex(t *testing.T) {
	v, err := evalSrc(t, "input[-1]", []string{"input"}, []value.Value{value.Array([]value.Value{value.Int(1), value.Int(2), value.Int(3)})})
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.AsInt())
}

func TestEvalSelectorOutOfRangeIndexReturnsNull(t *testing.T) {
	v, err := evalSrc(t, "input[99]", []string{"input"}, []value.Value{value.Array([]value.Value{value.Int(1)})})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestEvalMissingInputSlotIsSourceMissingError(t *testing.T) {
	_, err := evalSrc(t, "a + b", []string{"a", "b"}, []value.Value{value.Int(1)})
	require.Error(t, err)
	ce, ok := err.(*kerrors.Error)
	require.True(t, ok)
	assert.Equal(t, kerrors.SourceMissingError, ce.Code)
}

func TestEvalIfSelectsBranch(t *testing.T) {
	v, err := evalSrc(t, "if(a > 0, 1, -1)", []string{"a"}, []value.Value{value.Int(5)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.AsInt())

	v, err = evalSrc(t, "if(a > 0, 1, -1)", []string{"a"}, []value.Value{value.Int(-5)})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v.AsInt())
}

func TestEvalIfWithNoElseReturnsNullOnFalse(t *testing.T) {
	v, err := evalSrc(t, "if(false, 1)", nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestEvalObjectBuildCoercesScalarKey(t *testing.T) {
	v, err := evalSrc(t, "{(1): 2}", nil, nil)
	require.NoError(t, err)
	got, ok := v.AsObject().Get("1")
	require.True(t, ok)
	assert.Equal(t, int64(2), got.AsInt())
}

func TestEvalObjectBuildRejectsArrayOrObjectKey(t *testing.T) {
	_, err := evalSrc(t, "{([1]): 2}", nil, nil)
	require.Error(t, err)
	ce, ok := err.(*kerrors.Error)
	require.True(t, ok)
	assert.Equal(t, kerrors.TypeMismatch, ce.Code)
}

func TestEvalNegationOverflow(t *testing.T) {
	_, err := evalSrc(t, "-input", []string{"input"}, []value.Value{value.Int(-9223372036854775808)})
	require.Error(t, err)
	ce, ok := err.(*kerrors.Error)
	require.True(t, ok)
	assert.Equal(t, kerrors.NumericOverflow, ce.Code)
}

func TestEvalIsType(t *testing.T) {
	v, err := evalSrc(t, `1 is "int"`, nil, nil)
	require.NoError(t, err)
	assert.True(t, v.Truthy())

	v, err = evalSrc(t, `1 is "string"`, nil, nil)
	require.NoError(t, err)
	assert.False(t, v.Truthy())
}

func TestEvalArrayAndObjectBuild(t *testing.T) {
	v, err := evalSrc(t, `[1, 2, 3]`, nil, nil)
	require.NoError(t, err)
	require.True(t, v.IsArray())
	assert.Len(t, v.AsArray(), 3)

	v, err = evalSrc(t, `{a: 1, b: 2}`, nil, nil)
	require.NoError(t, err)
	require.True(t, v.IsObject())
	got, ok := v.AsObject().Get("b")
	require.True(t, ok)
	assert.Equal(t, int64(2), got.AsInt())
}
