package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuiper-lang/kuiper/ast"
	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/parser"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p, err := parser.NewFromSource(src)
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	return prog
}

func TestExpandSubstitutesCallSiteArguments(t *testing.T) {
	prog := parseProgram(t, "#double := (x) => x * 2; double(21)")
	out, err := Expand(prog, DefaultMaxExpansions)
	require.NoError(t, err)

	bin, ok := out.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "*", bin.Op)
	lhs, ok := bin.Lhs.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(21), lhs.Value)
}

func TestExpandNonMacroCallIsLeftAlone(t *testing.T) {
	prog := parseProgram(t, "upper(\"hi\")")
	out, err := Expand(prog, DefaultMaxExpansions)
	require.NoError(t, err)
	call, ok := out.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "upper", call.Callee)
}

func TestExpandNestedMacroUse(t *testing.T) {
	prog := parseProgram(t, "#inc := (x) => x + 1; #twice := (x) => inc(inc(x)); twice(0)")
	out, err := Expand(prog, DefaultMaxExpansions)
	require.NoError(t, err)
	// twice(0) -> inc(inc(0)) -> (0 + 1) + 1, fully expanded to nested BinaryOp.
	outer, ok := out.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", outer.Op)
	_, ok = outer.Lhs.(*ast.BinaryOp)
	assert.True(t, ok)
}

func TestExpandRejectsWrongArity(t *testing.T) {
	prog := parseProgram(t, "#double := (x) => x * 2; double(1, 2)")
	_, err := Expand(prog, DefaultMaxExpansions)
	require.Error(t, err)
	ce, ok := err.(*kerrors.Error)
	require.True(t, ok)
	assert.Equal(t, kerrors.ArityError, ce.Code)
}

func TestExpandRecursiveMacroHitsLimit(t *testing.T) {
	prog := parseProgram(t, "#loop := (x) => loop(x) + loop(x); loop(1)")
	_, err := Expand(prog, 3)
	require.Error(t, err)
	ce, ok := err.(*kerrors.Error)
	require.True(t, ok)
	assert.Equal(t, kerrors.MacroExpansionLimit, ce.Code)
}

func TestExpandLambdaParamShadowsMacroParam(t *testing.T) {
	// Inside #wrap's body, the inner lambda's own `x` parameter shadows the
	// macro parameter of the same name, so it must not be substituted.
	prog := parseProgram(t, "#wrap := (x) => [1,2,3].map(x => x + 1); wrap(99)")
	out, err := Expand(prog, DefaultMaxExpansions)
	require.NoError(t, err)
	call, ok := out.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "map", call.Callee)
}

func TestExpandZeroOrNegativeLimitUsesDefault(t *testing.T) {
	prog := parseProgram(t, "#double := (x) => x * 2; double(1)")
	_, err := Expand(prog, 0)
	require.NoError(t, err)
	_, err = Expand(prog, -5)
	require.NoError(t, err)
}
