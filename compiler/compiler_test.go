package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/parser"
)

func buildExpr(t *testing.T, src string, inputNames []string) exec.Node {
	t.Helper()
	p, err := parser.NewFromSource(src)
	require.NoError(t, err)
	expr, err := p.ParseExpression()
	require.NoError(t, err)
	node, err := Build(expr, inputNames)
	require.NoError(t, err)
	return node
}

func TestBuildResolvesInputSlots(t *testing.T) {
	node := buildExpr(t, "a + b", []string{"a", "b"})
	bin, ok := node.(*exec.BinaryOp)
	require.True(t, ok)
	lhs, ok := bin.Lhs.(*exec.SlotRef)
	require.True(t, ok)
	assert.Equal(t, 0, lhs.Index)
	rhs, ok := bin.Rhs.(*exec.SlotRef)
	require.True(t, ok)
	assert.Equal(t, 1, rhs.Index)
}

func TestBuildRejectsUnknownIdentifier(t *testing.T) {
	p, err := parser.NewFromSource("missing")
	require.NoError(t, err)
	expr, err := p.ParseExpression()
	require.NoError(t, err)
	_, err = Build(expr, nil)
	require.Error(t, err)
	ce, ok := err.(*kerrors.Error)
	require.True(t, ok)
	assert.Equal(t, kerrors.NameResolutionError, ce.Code)
}

func TestBuildRejectsUnrecognizedFunction(t *testing.T) {
	p, err := parser.NewFromSource(`"test".notafunc()`)
	require.NoError(t, err)
	expr, err := p.ParseExpression()
	require.NoError(t, err)
	_, err = Build(expr, nil)
	require.Error(t, err)
	ce, ok := err.(*kerrors.Error)
	require.True(t, ok)
	assert.Equal(t, kerrors.ArityError, ce.Code)
	assert.Equal(t, "Unrecognized function: notafunc [7, 17)", ce.Error())
}

func TestBuildRejectsWrongArity(t *testing.T) {
	p, err := parser.NewFromSource("upper()")
	require.NoError(t, err)
	expr, err := p.ParseExpression()
	require.NoError(t, err)
	_, err = Build(expr, nil)
	require.Error(t, err)
	ce, ok := err.(*kerrors.Error)
	require.True(t, ok)
	assert.Equal(t, kerrors.ArityError, ce.Code)
}

func TestBuildRejectsMissingRequiredLambda(t *testing.T) {
	p, err := parser.NewFromSource("[1,2,3].map()")
	require.NoError(t, err)
	expr, err := p.ParseExpression()
	require.NoError(t, err)
	_, err = Build(expr, nil)
	assert.Error(t, err)
}

func TestBuildLambdaParamsGetSequentialSlots(t *testing.T) {
	node := buildExpr(t, "[1,2].map((a) => a)", nil)
	call, ok := node.(*exec.Call)
	require.True(t, ok)
	require.NotNil(t, call.Lam)
	body, ok := call.Lam.Body.(*exec.SlotRef)
	require.True(t, ok)
	assert.Equal(t, call.Lam.ParamBase, body.Index)
}

func TestOptimizeFoldsConstantArithmetic(t *testing.T) {
	node := buildExpr(t, "1 + 2 * 3", nil)
	folded, err := Optimize(node, DefaultMaxFolds)
	require.NoError(t, err)
	c, ok := folded.(*exec.Constant)
	require.True(t, ok)
	assert.Equal(t, int64(7), c.Value.AsInt())
}

func TestOptimizeDoesNotFoldSlotReferences(t *testing.T) {
	node := buildExpr(t, "a + 1", []string{"a"})
	folded, err := Optimize(node, DefaultMaxFolds)
	require.NoError(t, err)
	_, ok := folded.(*exec.BinaryOp)
	assert.True(t, ok, "expression referencing an input slot cannot be folded to a constant")
}

func TestOptimizeSurfacesConstantDivideByZeroAsCompileError(t *testing.T) {
	node := buildExpr(t, "1 / 0", nil)
	_, err := Optimize(node, DefaultMaxFolds)
	require.Error(t, err)
	ce, ok := err.(*kerrors.Error)
	require.True(t, ok)
	assert.Equal(t, kerrors.DivideByZero, ce.Code)
}

func TestOptimizeCollapsesIfToChosenBranch(t *testing.T) {
	node := buildExpr(t, "if(true, 1, 2)", nil)
	folded, err := Optimize(node, DefaultMaxFolds)
	require.NoError(t, err)
	c, ok := folded.(*exec.Constant)
	require.True(t, ok)
	assert.Equal(t, int64(1), c.Value.AsInt())
}

func TestOptimizeLeavesNonConstantIfBranching(t *testing.T) {
	node := buildExpr(t, "if(a > 0, 1, 2)", []string{"a"})
	folded, err := Optimize(node, DefaultMaxFolds)
	require.NoError(t, err)
	_, ok := folded.(*exec.If)
	assert.True(t, ok)
}
