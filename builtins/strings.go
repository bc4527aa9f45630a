package builtins

import (
	"strings"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

func requireString(fn string, node exec.Node, v value.Value) (string, error) {
	if !v.IsString() {
		return "", kerrors.NewAt(kerrors.TypeMismatch, node.Span(), "%s: expected a string, got %s", fn, v.TypeName())
	}
	return v.AsString(), nil
}

func registerStrings() {
	register(&exec.BuiltinEntry{
		Name: "concat", MinArity: 2, MaxArity: exec.Unbounded, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			var b strings.Builder
			for _, a := range args {
				v, err := ev.Eval(a)
				if err != nil {
					return value.Null, err
				}
				s, err := requireString("concat", a, v)
				if err != nil {
					return value.Null, err
				}
				b.WriteString(s)
			}
			return value.String(b.String()), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "split", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			s, sep, err := evalStrPair(ev, args, "split")
			if err != nil {
				return value.Null, err
			}
			var parts []string
			if sep == "" {
				parts = strings.Split(s, "")
			} else {
				parts = strings.Split(s, sep)
			}
			out := make([]value.Value, len(parts))
			for i, p := range parts {
				out[i] = value.String(p)
			}
			return value.Array(out), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "substring", MinArity: 2, MaxArity: 3, Deterministic: true,
		Fn: sliceFn,
	})

	register(&exec.BuiltinEntry{
		Name: "chars", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			s, err := requireString("chars", args[0], v)
			if err != nil {
				return value.Null, err
			}
			runes := []rune(s)
			out := make([]value.Value, len(runes))
			for i, r := range runes {
				out[i] = value.String(string(r))
			}
			return value.Array(out), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "replace", MinArity: 3, MaxArity: 3, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			s, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			base, err := requireString("replace", args[0], s)
			if err != nil {
				return value.Null, err
			}
			oldV, err := ev.Eval(args[1])
			if err != nil {
				return value.Null, err
			}
			oldS, err := requireString("replace", args[1], oldV)
			if err != nil {
				return value.Null, err
			}
			newV, err := ev.Eval(args[2])
			if err != nil {
				return value.Null, err
			}
			newS, err := requireString("replace", args[2], newV)
			if err != nil {
				return value.Null, err
			}
			return value.String(strings.ReplaceAll(base, oldS, newS)), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "trim_whitespace", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: unaryStringFn("trim_whitespace", strings.TrimSpace),
	})
	register(&exec.BuiltinEntry{
		Name: "lower", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: unaryStringFn("lower", strings.ToLower),
	})
	register(&exec.BuiltinEntry{
		Name: "upper", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: unaryStringFn("upper", strings.ToUpper),
	})

	register(&exec.BuiltinEntry{
		Name: "string_join", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			arrV, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			arr, err := requireArray("string_join", args[0], arrV)
			if err != nil {
				return value.Null, err
			}
			sepV, err := ev.Eval(args[1])
			if err != nil {
				return value.Null, err
			}
			sep, err := requireString("string_join", args[1], sepV)
			if err != nil {
				return value.Null, err
			}
			parts := make([]string, len(arr))
			for i, e := range arr {
				if !e.IsString() {
					return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[0].Span(), "string_join: expected an array of strings, got %s", e.TypeName())
				}
				parts[i] = e.AsString()
			}
			return value.String(strings.Join(parts, sep)), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "starts_with", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			s, prefix, err := evalStrPair(ev, args, "starts_with")
			if err != nil {
				return value.Null, err
			}
			return value.Bool(strings.HasPrefix(s, prefix)), nil
		},
	})
	register(&exec.BuiltinEntry{
		Name: "ends_with", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			s, suffix, err := evalStrPair(ev, args, "ends_with")
			if err != nil {
				return value.Null, err
			}
			return value.Bool(strings.HasSuffix(s, suffix)), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "translate", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			sv, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			s, err := requireString("translate", args[0], sv)
			if err != nil {
				return value.Null, err
			}
			mv, err := ev.Eval(args[1])
			if err != nil {
				return value.Null, err
			}
			mapping, err := requireObject("translate", args[1], mv)
			if err != nil {
				return value.Null, err
			}
			var b strings.Builder
			for _, r := range s {
				from := string(r)
				if to, ok := mapping.Get(from); ok && to.IsString() {
					b.WriteString(to.AsString())
					continue
				}
				b.WriteRune(r)
			}
			return value.String(b.String()), nil
		},
	})
}

func evalStrPair(ev exec.Evaluator, args []exec.Node, fn string) (string, string, error) {
	av, err := ev.Eval(args[0])
	if err != nil {
		return "", "", err
	}
	a, err := requireString(fn, args[0], av)
	if err != nil {
		return "", "", err
	}
	bv, err := ev.Eval(args[1])
	if err != nil {
		return "", "", err
	}
	b, err := requireString(fn, args[1], bv)
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

func unaryStringFn(name string, fn func(string) string) exec.BuiltinFunc {
	return func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
		v, err := ev.Eval(args[0])
		if err != nil {
			return value.Null, err
		}
		s, err := requireString(name, args[0], v)
		if err != nil {
			return value.Null, err
		}
		return value.String(fn(s)), nil
	}
}
