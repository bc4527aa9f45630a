package builtins

import (
	"math"
	"strconv"
	"strings"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

// normalizeNumericString mirrors the original implementation's parse
// preprocessing: strip spaces/underscores used as digit-group separators
// and normalize a decimal comma to a point, so "1 234,5" and "1_234.5"
// both parse.
func normalizeNumericString(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, ",", ".")
	return s
}

func toInt(v value.Value) (int64, bool) {
	switch {
	case v.IsInt():
		return v.AsInt(), true
	case v.IsFloat():
		f := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
			return 0, false
		}
		return int64(f), true
	case v.IsString():
		i, err := strconv.ParseInt(normalizeNumericString(v.AsString()), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	case v.IsBool():
		if v.AsBool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func toFloat(v value.Value) (float64, bool) {
	switch {
	case v.IsFloat():
		return v.AsFloat(), true
	case v.IsInt():
		return float64(v.AsInt()), true
	case v.IsString():
		f, err := strconv.ParseFloat(normalizeNumericString(v.AsString()), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func registerConversions() {
	register(&exec.BuiltinEntry{
		Name: "int", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			i, ok := toInt(v)
			if !ok {
				return value.Null, kerrors.NewAt(kerrors.ConversionError, args[0].Span(), "cannot convert %s to int", v.TypeName())
			}
			return value.Int(i), nil
		},
	})
	register(&exec.BuiltinEntry{
		Name: "float", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			f, ok := toFloat(v)
			if !ok {
				return value.Null, kerrors.NewAt(kerrors.ConversionError, args[0].Span(), "cannot convert %s to float", v.TypeName())
			}
			return value.Float(f), nil
		},
	})
	register(&exec.BuiltinEntry{
		Name: "string", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			return value.String(v.String()), nil
		},
	})
	register(&exec.BuiltinEntry{
		Name: "try_int", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			if i, ok := toInt(v); ok {
				return value.Int(i), nil
			}
			return ev.Eval(args[1])
		},
	})
	register(&exec.BuiltinEntry{
		Name: "try_float", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			if f, ok := toFloat(v); ok {
				return value.Float(f), nil
			}
			return ev.Eval(args[1])
		},
	})
	register(&exec.BuiltinEntry{
		Name: "try_bool", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			if v.IsBool() {
				return v, nil
			}
			if v.IsString() {
				switch strings.ToLower(strings.TrimSpace(v.AsString())) {
				case "true":
					return value.True, nil
				case "false":
					return value.False, nil
				}
			}
			return ev.Eval(args[1])
		},
	})
}
