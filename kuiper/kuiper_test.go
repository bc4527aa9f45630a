package kuiper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/value"
)

// The six scenarios below are the concrete input/output pairs the language
// design is checked against: they exercise the full lex -> parse -> macro
// -> build -> optimize -> evaluate pipeline through the public API only.

func TestConcreteScenarioLiteralAddition(t *testing.T) {
	expr, err := Compile("1 + 1", nil, Options{})
	require.NoError(t, err)
	out, err := expr.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, "2", out)
}

func TestConcreteScenarioMultipleInputs(t *testing.T) {
	expr, err := Compile("in1 + in2 + in3", []string{"in1", "in2", "in3"}, Options{})
	require.NoError(t, err)
	out, err := expr.RunJSON([]string{"1", "2", "3"})
	require.NoError(t, err)
	assert.Equal(t, "6", out)
}

func TestConcreteScenarioObjectSelector(t *testing.T) {
	expr, err := Compile("input.value + 15", []string{"input"}, Options{})
	require.NoError(t, err)
	out, err := expr.RunJSON([]string{`{"value":27}`})
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestConcreteScenarioUnrecognizedFunction(t *testing.T) {
	_, err := Compile(`"test".notafunc()`, nil, Options{})
	require.Error(t, err)
	ce, ok := err.(*kerrors.CompileError)
	require.True(t, ok, "expected *errors.CompileError, got %T", err)
	assert.Equal(t, "Unrecognized function: notafunc", ce.Message)
	require.True(t, ce.HasSpan)
	assert.Equal(t, 7, ce.Span.Start)
	assert.Equal(t, 17, ce.Span.End)
}

func TestConcreteScenarioDivideByZero(t *testing.T) {
	expr, err := Compile("1 / input", []string{"input"}, Options{})
	require.NoError(t, err)
	_, err = expr.RunJSON([]string{"0"})
	require.Error(t, err)
	re, ok := err.(*kerrors.RuntimeError)
	require.True(t, ok, "expected *errors.RuntimeError, got %T", err)
	assert.Equal(t, "Divide by zero", re.Message)
	require.True(t, re.HasSpan)
	assert.Equal(t, 2, re.Span.Start)
	assert.Equal(t, 3, re.Span.End)
}

func TestConcreteScenarioMapOverArray(t *testing.T) {
	expr, err := Compile("[0,1,2,3].map(a => a + input.test)", []string{"input"}, Options{})
	require.NoError(t, err)
	out, err := expr.RunJSON([]string{`{"test":2}`})
	require.NoError(t, err)
	assert.Equal(t, "[2,3,4,5]", out)
}

func TestCompileRejectsUnknownIdentifier(t *testing.T) {
	_, err := Compile("nonexistent_input + 1", nil, Options{})
	require.Error(t, err)
	_, ok := err.(*kerrors.CompileError)
	assert.True(t, ok, "expected *errors.CompileError, got %T", err)
}

func TestCompileRejectsWrongArity(t *testing.T) {
	_, err := Compile("upper()", nil, Options{})
	require.Error(t, err)
	_, ok := err.(*kerrors.CompileError)
	assert.True(t, ok, "expected *errors.CompileError, got %T", err)
}

func TestMacroExpansion(t *testing.T) {
	expr, err := Compile("#double := (x) => x * 2; double(21)", nil, Options{})
	require.NoError(t, err)
	out, err := expr.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestMacroExpansionLimitExceeded(t *testing.T) {
	// Each macro use re-expands into two more, so this blows well past the
	// default expansion limit before ever reducing to a value.
	src := "#loop := (x) => loop(x) + loop(x); loop(1)"
	_, err := Compile(src, nil, Options{MaxMacroExpansions: 3})
	require.Error(t, err)
	ce, ok := err.(*kerrors.CompileError)
	require.True(t, ok, "expected *errors.CompileError, got %T", err)
	assert.Equal(t, kerrors.MacroExpansionLimit, ce.Code)
}

func TestExpressionStringRoundTrip(t *testing.T) {
	expr, err := Compile("in1 + in2", []string{"in1", "in2"}, Options{})
	require.NoError(t, err)
	printed := expr.String()
	reCompiled, err := Compile(printed, []string{"in1", "in2"}, Options{})
	require.NoError(t, err)
	out, err := reCompiled.RunJSON([]string{"3", "4"})
	require.NoError(t, err)
	assert.Equal(t, "7", out)
}

func TestIfSelectsBranchByCondition(t *testing.T) {
	trueExpr, err := Compile("if(1 < 2, 1, 2)", nil, Options{})
	require.NoError(t, err)
	out, err := trueExpr.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	falseExpr, err := Compile("if(1 > 2, 1, 2)", nil, Options{})
	require.NoError(t, err)
	out, err = falseExpr.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, "2", out)
}

func TestInputNames(t *testing.T) {
	expr, err := Compile("a + b", []string{"a", "b"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, expr.InputNames())
}

func TestRunValueReturnsStructuredResult(t *testing.T) {
	expr, err := Compile(`{"sum": in1 + in2}`, []string{"in1", "in2"}, Options{})
	require.NoError(t, err)
	v, err := expr.RunValue([]value.Value{value.Int(3), value.Int(4)})
	require.NoError(t, err)
	obj := v.AsObject()
	sum, ok := obj.Get("sum")
	require.True(t, ok)
	assert.Equal(t, int64(7), sum.AsInt())
}
