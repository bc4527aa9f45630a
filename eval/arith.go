package eval

import (
	"math"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

func addOverflows(a, b int64) bool {
	c := a + b
	return ((a ^ c) & (b ^ c)) < 0
}

func subOverflows(a, b int64) bool {
	c := a - b
	return ((a ^ b) & (a ^ c)) < 0
}

func mulOverflows(a, b int64) bool {
	if a == 0 || b == 0 {
		return false
	}
	if a == math.MinInt64 && b == -1 {
		return true
	}
	c := a * b
	return c/b != a
}

func (ev *Evaluator) evalBinaryOp(n *exec.BinaryOp) (value.Value, error) {
	switch n.Kind {
	case exec.OpAnd:
		lhs, err := ev.Eval(n.Lhs)
		if err != nil {
			return value.Null, err
		}
		if !lhs.Truthy() {
			return lhs, nil
		}
		return ev.Eval(n.Rhs)
	case exec.OpOr:
		lhs, err := ev.Eval(n.Lhs)
		if err != nil {
			return value.Null, err
		}
		if lhs.Truthy() {
			return lhs, nil
		}
		return ev.Eval(n.Rhs)
	}

	lhs, err := ev.Eval(n.Lhs)
	if err != nil {
		return value.Null, err
	}
	rhs, err := ev.Eval(n.Rhs)
	if err != nil {
		return value.Null, err
	}

	switch n.Kind {
	case exec.OpEq:
		return value.Bool(value.Equal(lhs, rhs)), nil
	case exec.OpNeq:
		return value.Bool(!value.Equal(lhs, rhs)), nil
	case exec.OpLt, exec.OpLe, exec.OpGt, exec.OpGe:
		return compareOp(n, lhs, rhs)
	case exec.OpAdd:
		return addOp(n, lhs, rhs)
	case exec.OpSub:
		return numericOp(n, lhs, rhs, "-", subOverflows, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case exec.OpMul:
		return numericOp(n, lhs, rhs, "*", mulOverflows, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case exec.OpDiv:
		return divOp(n, lhs, rhs)
	case exec.OpMod:
		return modOp(n, lhs, rhs)
	}
	return value.Null, kerrors.NewAt(kerrors.TypeMismatch, n.Span(), "unsupported binary operator")
}

func compareOp(n *exec.BinaryOp, lhs, rhs value.Value) (value.Value, error) {
	cmp, ok := value.Compare(lhs, rhs)
	if !ok {
		return value.Null, kerrors.NewAt(kerrors.TypeMismatch, n.OpSpan, "cannot compare %s and %s", lhs.TypeName(), rhs.TypeName())
	}
	switch n.Kind {
	case exec.OpLt:
		return value.Bool(cmp < 0), nil
	case exec.OpLe:
		return value.Bool(cmp <= 0), nil
	case exec.OpGt:
		return value.Bool(cmp > 0), nil
	default:
		return value.Bool(cmp >= 0), nil
	}
}

// addOp handles `+`'s two forms: numeric addition and string concatenation.
// Kuiper's `+` never coerces a string and a number together.
func addOp(n *exec.BinaryOp, lhs, rhs value.Value) (value.Value, error) {
	if lhs.IsString() && rhs.IsString() {
		return value.String(lhs.AsString() + rhs.AsString()), nil
	}
	return numericOp(n, lhs, rhs, "+", addOverflows, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
}

func numericOp(n *exec.BinaryOp, lhs, rhs value.Value, op string, overflows func(a, b int64) bool, intFn func(a, b int64) int64, floatFn func(a, b float64) float64) (value.Value, error) {
	if !lhs.IsNumber() || !rhs.IsNumber() {
		return value.Null, kerrors.NewAt(kerrors.TypeMismatch, n.OpSpan, "%s requires two numbers (or two strings for +), got %s and %s", op, lhs.TypeName(), rhs.TypeName())
	}
	if lhs.IsInt() && rhs.IsInt() {
		a, b := lhs.AsInt(), rhs.AsInt()
		if overflows(a, b) {
			return value.Null, kerrors.NewAt(kerrors.NumericOverflow, n.OpSpan, "integer %s overflowed 64 bits", op)
		}
		return value.Int(intFn(a, b)), nil
	}
	return value.Float(floatFn(lhs.Float64(), rhs.Float64())), nil
}

// divOp always produces a Float, per Kuiper's division rule.
func divOp(n *exec.BinaryOp, lhs, rhs value.Value) (value.Value, error) {
	if !lhs.IsNumber() || !rhs.IsNumber() {
		return value.Null, kerrors.NewAt(kerrors.TypeMismatch, n.OpSpan, "/ requires two numbers, got %s and %s", lhs.TypeName(), rhs.TypeName())
	}
	b := rhs.Float64()
	if b == 0 {
		return value.Null, kerrors.NewAt(kerrors.DivideByZero, n.OpSpan, "Divide by zero")
	}
	result := lhs.Float64() / b
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return value.Null, kerrors.NewAt(kerrors.NumericDomain, n.OpSpan, "division produced a non-finite result")
	}
	return value.Float(result), nil
}

// modOp preserves Int when both operands are Int, matching the original
// implementation's numeric refinement rules; otherwise it widens to Float.
func modOp(n *exec.BinaryOp, lhs, rhs value.Value) (value.Value, error) {
	if !lhs.IsNumber() || !rhs.IsNumber() {
		return value.Null, kerrors.NewAt(kerrors.TypeMismatch, n.OpSpan, "%% requires two numbers, got %s and %s", lhs.TypeName(), rhs.TypeName())
	}
	if lhs.IsInt() && rhs.IsInt() {
		b := rhs.AsInt()
		if b == 0 {
			return value.Null, kerrors.NewAt(kerrors.DivideByZero, n.OpSpan, "modulo by zero")
		}
		if lhs.AsInt() == math.MinInt64 && b == -1 {
			return value.Int(0), nil
		}
		return value.Int(lhs.AsInt() % b), nil
	}
	b := rhs.Float64()
	if b == 0 {
		return value.Null, kerrors.NewAt(kerrors.DivideByZero, n.OpSpan, "modulo by zero")
	}
	return value.Float(math.Mod(lhs.Float64(), b)), nil
}
