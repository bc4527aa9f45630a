package builtins

import (
	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

func registerJSON() {
	register(&exec.BuiltinEntry{
		Name: "parse_json", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			s, err := requireString("parse_json", args[0], v)
			if err != nil {
				return value.Null, err
			}
			parsed, err := value.ParseJSON([]byte(s))
			if err != nil {
				return value.Null, kerrors.NewAt(kerrors.ConversionError, args[0].Span(), "parse_json: %s", err.Error())
			}
			return parsed, nil
		},
	})
}
