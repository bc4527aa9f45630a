package compiler

import (
	"github.com/kuiper-lang/kuiper/ast"
	"github.com/kuiper-lang/kuiper/builtins"
	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/span"
)

func stringEntry() *exec.BuiltinEntry {
	e := builtins.Lookup("string")
	if e == nil {
		panic("compiler: builtin \"string\" missing from catalog")
	}
	return e
}

// buildCall resolves a Call's callee against the builtin catalog, splits
// off a trailing lambda literal when the catalog entry accepts one, and
// checks both positional and lambda arity before lowering the remaining
// arguments in the current (non-lambda) scope.
func (b *builder) buildCall(n *ast.Call) (exec.Node, error) {
	entry := builtins.Lookup(n.Callee)
	if entry == nil {
		// Span the callee name through the call's closing paren, excluding
		// any method-call-sugar receiver, so e.g. "x".notafunc() reports
		// against notafunc() rather than the whole expression.
		callSpan := span.New(n.CalleeSpan.Start, n.Span().End)
		return nil, kerrors.NewAt(kerrors.ArityError, callSpan, "Unrecognized function: %s", n.Callee)
	}

	args := n.Args
	var lamAst *ast.Lambda
	if entry.RequiresLambda || entry.LambdaOptional {
		if len(args) > 0 {
			if l, ok := args[len(args)-1].(*ast.Lambda); ok {
				lamAst = l
				args = args[:len(args)-1]
			}
		}
		if entry.RequiresLambda && lamAst == nil {
			return nil, kerrors.NewAt(kerrors.ArityError, n.Span(), "%s requires a trailing lambda argument", n.Callee)
		}
	}

	if !entry.AcceptsArity(len(args)) {
		return nil, kerrors.NewAt(kerrors.ArityError, n.Span(), "%s: wrong number of arguments (got %d)", n.Callee, len(args))
	}

	builtArgs := make([]exec.Node, len(args))
	det := entry.Deterministic
	for i, a := range args {
		built, err := b.build(a)
		if err != nil {
			return nil, err
		}
		builtArgs[i] = built
		det = det && built.Deterministic()
	}

	var lam *exec.Lambda
	if lamAst != nil {
		if !entry.AcceptsLambdaArity(len(lamAst.Params)) {
			return nil, kerrors.NewAt(kerrors.ArityError, lamAst.Span(), "%s: lambda has the wrong number of parameters (got %d)", n.Callee, len(lamAst.Params))
		}
		if n.Callee == "zip" && len(lamAst.Params) != len(args) {
			return nil, kerrors.NewAt(kerrors.ArityError, lamAst.Span(), "zip: lambda must take exactly one parameter per array (got %d params for %d arrays)", len(lamAst.Params), len(args))
		}
		built, err := b.buildLambda(lamAst)
		if err != nil {
			return nil, err
		}
		lam = built.(*exec.Lambda)
		det = false // presence of a lambda argument blocks constant folding
	} else if entry.RequiresLambda || entry.LambdaOptional {
		if !entry.AcceptsLambdaArity(0) {
			return nil, kerrors.NewAt(kerrors.ArityError, n.Span(), "%s requires a trailing lambda argument", n.Callee)
		}
	}

	return &exec.Call{
		Base:  exec.NewBase(n.Span(), det),
		Entry: entry,
		Args:  builtArgs,
		Lam:   lam,
	}, nil
}
