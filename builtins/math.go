package builtins

import (
	"math"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

func evalArgs(ev exec.Evaluator, args []exec.Node) ([]value.Value, error) {
	out := make([]value.Value, len(args))
	for i, a := range args {
		v, err := ev.Eval(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func requireNumber(fn string, sp exec.Node, v value.Value) (float64, error) {
	if !v.IsNumber() {
		return 0, kerrors.NewAt(kerrors.TypeMismatch, sp.Span(), "%s: expected a number, got %s", fn, v.TypeName())
	}
	return v.Float64(), nil
}

func domainCheck(fn string, sp exec.Node, f float64) (value.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return value.Null, kerrors.NewAt(kerrors.NumericDomain, sp.Span(), "%s produced a non-finite result", fn)
	}
	return value.Float(f), nil
}

// unaryMathFn registers a builtin taking a single number and applying fn
// to its float64 view, always producing a Float result.
func unaryMathFn(name string, fn func(float64) float64) {
	register(&exec.BuiltinEntry{
		Name: name, MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			vals, err := evalArgs(ev, args)
			if err != nil {
				return value.Null, err
			}
			f, err := requireNumber(name, args[0], vals[0])
			if err != nil {
				return value.Null, err
			}
			return domainCheck(name, args[0], fn(f))
		},
	})
}

// binaryMathFn registers a builtin taking two numbers and applying fn.
func binaryMathFn(name string, fn func(a, b float64) float64) {
	register(&exec.BuiltinEntry{
		Name: name, MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			vals, err := evalArgs(ev, args)
			if err != nil {
				return value.Null, err
			}
			a, err := requireNumber(name, args[0], vals[0])
			if err != nil {
				return value.Null, err
			}
			b, err := requireNumber(name, args[1], vals[1])
			if err != nil {
				return value.Null, err
			}
			return domainCheck(name, args[0], fn(a, b))
		},
	})
}

func registerMath() {
	unaryMathFn("sqrt", math.Sqrt)
	unaryMathFn("log", math.Log)
	unaryMathFn("log10", math.Log10)
	unaryMathFn("exp", math.Exp)
	unaryMathFn("sin", math.Sin)
	unaryMathFn("cos", math.Cos)
	unaryMathFn("tan", math.Tan)
	binaryMathFn("pow", math.Pow)
	binaryMathFn("atan2", math.Atan2)

	register(&exec.BuiltinEntry{
		Name: "abs", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			switch {
			case v.IsInt():
				i := v.AsInt()
				if i == math.MinInt64 {
					return value.Null, kerrors.NewAt(kerrors.NumericOverflow, args[0].Span(), "abs: overflow negating %d", i)
				}
				if i < 0 {
					i = -i
				}
				return value.Int(i), nil
			case v.IsFloat():
				return value.Float(math.Abs(v.AsFloat())), nil
			default:
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[0].Span(), "abs: expected a number, got %s", v.TypeName())
			}
		},
	})

	register(&exec.BuiltinEntry{
		Name: "floor", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: roundingFn(math.Floor),
	})
	register(&exec.BuiltinEntry{
		Name: "ceil", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: roundingFn(math.Ceil),
	})
	register(&exec.BuiltinEntry{
		Name: "round", MinArity: 1, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			if v.IsInt() {
				return v, nil
			}
			if !v.IsFloat() {
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[0].Span(), "round: expected a number, got %s", v.TypeName())
			}
			digits := int64(0)
			if len(args) == 2 {
				dv, err := ev.Eval(args[1])
				if err != nil {
					return value.Null, err
				}
				if !dv.IsInt() {
					return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[1].Span(), "round: digits must be an integer")
				}
				digits = dv.AsInt()
			}
			scale := math.Pow(10, float64(digits))
			return domainCheck("round", args[0], math.Round(v.AsFloat()*scale)/scale)
		},
	})
}

func roundingFn(fn func(float64) float64) exec.BuiltinFunc {
	return func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
		v, err := ev.Eval(args[0])
		if err != nil {
			return value.Null, err
		}
		if v.IsInt() {
			return v, nil
		}
		if !v.IsFloat() {
			return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[0].Span(), "expected a number, got %s", v.TypeName())
		}
		return value.Float(fn(v.AsFloat())), nil
	}
}
