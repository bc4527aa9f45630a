package builtins

import (
	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

// registerControl registers the builtins whose arguments must stay
// unevaluated Nodes rather than pre-evaluated Values, so they can
// short-circuit: case, coalesce, if_value. The `if` expression itself is a
// distinct exec.If node, not a catalog entry, since it has dedicated syntax.
func registerControl() {
	register(&exec.BuiltinEntry{
		// case(subject, test1, result1, ..., [else]) matches subject against
		// each test by == and returns the paired result; a trailing unpaired
		// argument is the else, evaluated only if reached.
		Name: "case", MinArity: 3, MaxArity: exec.Unbounded, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			subject, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			i := 1
			for ; i+1 < len(args); i += 2 {
				test, err := ev.Eval(args[i])
				if err != nil {
					return value.Null, err
				}
				if value.Equal(subject, test) {
					return ev.Eval(args[i+1])
				}
			}
			if i < len(args) {
				return ev.Eval(args[i])
			}
			return value.Null, nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "coalesce", MinArity: 1, MaxArity: exec.Unbounded, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			for _, a := range args {
				v, err := ev.Eval(a)
				if err != nil {
					return value.Null, err
				}
				if !v.IsNull() {
					return v, nil
				}
			}
			return value.Null, nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "if_value", MinArity: 3, MaxArity: 3, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			if v.IsNull() {
				return ev.Eval(args[2])
			}
			lamNode, ok := args[1].(*exec.Lambda)
			if !ok {
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[1].Span(), "if_value: second argument must be a lambda")
			}
			return ev.CallLambda(lamNode, []value.Value{v})
		},
	})
}
