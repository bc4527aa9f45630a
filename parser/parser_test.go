package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuiper-lang/kuiper/ast"
)

func parseExpr(t *testing.T, src string) ast.Node {
	t.Helper()
	p, err := NewFromSource(src)
	require.NoError(t, err)
	expr, err := p.ParseExpression()
	require.NoError(t, err)
	return expr
}

func TestParseBinaryPrecedence(t *testing.T) {
	n := parseExpr(t, "1 + 2 * 3")
	bin, ok := n.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	lhs, ok := bin.Lhs.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(1), lhs.Value)
	rhs, ok := bin.Rhs.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

func TestParseSelectorChain(t *testing.T) {
	n := parseExpr(t, "input.a.b[0]")
	sel, ok := n.(*ast.Selector)
	require.True(t, ok)
	require.Len(t, sel.Steps, 3)
	assert.True(t, sel.Steps[0].IsField)
	assert.Equal(t, "a", sel.Steps[0].Field)
	assert.True(t, sel.Steps[1].IsField)
	assert.Equal(t, "b", sel.Steps[1].Field)
	assert.False(t, sel.Steps[2].IsField)
	require.NotNil(t, sel.Steps[2].Index)
}

func TestParseMethodCallSugarDesugarsToCall(t *testing.T) {
	n := parseExpr(t, `"test".notafunc()`)
	call, ok := n.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "notafunc", call.Callee)
	require.Len(t, call.Args, 1)
	_, ok = call.Args[0].(*ast.StringLit)
	assert.True(t, ok, "receiver is prepended as the first argument")

	// CalleeSpan covers only the method name; the call's overall span runs
	// from the receiver through the closing paren.
	assert.Equal(t, 7, call.CalleeSpan.Start)
	assert.Equal(t, 15, call.CalleeSpan.End)
	assert.Equal(t, 0, call.Span().Start)
	assert.Equal(t, 17, call.Span().End)
}

func TestParseBareLambda(t *testing.T) {
	n := parseExpr(t, "a => a * 2")
	lam, ok := n.(*ast.Lambda)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, lam.Params)
}

func TestParseMultiParamLambdaWithoutSpaceBeforeArrow(t *testing.T) {
	n := parseExpr(t, "(a, b)=> a + b")
	lam, ok := n.(*ast.Lambda)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, lam.Params)
}

func TestParseMultiParamLambdaWithSpaceBeforeArrow(t *testing.T) {
	n := parseExpr(t, "(a, b) => a + b")
	lam, ok := n.(*ast.Lambda)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, lam.Params)
}

func TestParseZeroArgLambda(t *testing.T) {
	n := parseExpr(t, "()=> 1")
	lam, ok := n.(*ast.Lambda)
	require.True(t, ok)
	assert.Empty(t, lam.Params)
}

func TestParseParenthesizedExpressionIsNotALambda(t *testing.T) {
	n := parseExpr(t, "(1 + 2) * 3")
	bin, ok := n.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "*", bin.Op)
}

func TestParseObjectLiteral(t *testing.T) {
	n := parseExpr(t, `{a: 1, b: "x"}`)
	obj, ok := n.(*ast.ObjectLit)
	require.True(t, ok)
	require.Len(t, obj.Entries, 2)
	key0, ok := obj.Entries[0].Key.(*ast.StringLit)
	require.True(t, ok)
	require.Len(t, key0.Parts, 1)
	assert.Equal(t, "a", key0.Parts[0].Literal)
}

func TestParseIfExpression(t *testing.T) {
	n := parseExpr(t, `if(true, 1, 2)`)
	ifNode, ok := n.(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifNode.Else)
}

func TestParseMacroDefRequiresLambdaBody(t *testing.T) {
	p, err := NewFromSource("#bad := 1; bad")
	require.NoError(t, err)
	_, err = p.ParseProgram()
	assert.Error(t, err)
}

func TestParseProgramWithMacros(t *testing.T) {
	p, err := NewFromSource("#double := (x) => x * 2; double(21)")
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	require.Len(t, prog.Macros, 1)
	assert.Equal(t, "double", prog.Macros[0].Name)
	assert.Equal(t, []string{"x"}, prog.Macros[0].Params)
	_, ok := prog.Expr.(*ast.Call)
	assert.True(t, ok)
}

func TestParseUnexpectedTokenReportsMessage(t *testing.T) {
	p, err := NewFromSource("1 +")
	require.NoError(t, err)
	_, err = p.ParseExpression()
	require.Error(t, err)
}

func TestParseTrailingGarbageIsRejected(t *testing.T) {
	p, err := NewFromSource("1 2")
	require.NoError(t, err)
	_, err = p.ParseExpression()
	assert.Error(t, err)
}
