// Package eval is the tree-walking evaluator: it executes an exec.Node
// tree produced by package compiler against a flat slot vector of resolved
// input and lambda-parameter values.
package eval

import (
	"fmt"
	"math"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

// Evaluator walks an exec.Node tree. slots holds every declared input at
// indices [0, numInputs), with lambda parameters appended above that as
// lambdas are invoked; CallLambda truncates back to a lambda's ParamBase
// before appending its arguments, so nested and sibling lambda calls reuse
// the same backing array without leaking each other's parameter bindings.
type Evaluator struct {
	slots []value.Value
}

// New builds an Evaluator with its input slots pre-populated. inputs must
// already be ordered to match the SlotRef indices the compiler assigned to
// declared inputs.
func New(inputs []value.Value) *Evaluator {
	slots := make([]value.Value, len(inputs), len(inputs)+8)
	copy(slots, inputs)
	return &Evaluator{slots: slots}
}

// Eval implements exec.Evaluator.
func (ev *Evaluator) Eval(n exec.Node) (value.Value, error) {
	switch node := n.(type) {
	case *exec.Constant:
		return node.Value, nil
	case *exec.SlotRef:
		return ev.evalSlotRef(node)
	case *exec.Select:
		return ev.evalSelect(node)
	case *exec.BinaryOp:
		return ev.evalBinaryOp(node)
	case *exec.UnaryOp:
		return ev.evalUnaryOp(node)
	case *exec.IsType:
		return ev.evalIsType(node)
	case *exec.Call:
		return node.Entry.Fn(ev, node.Args, node.Lam)
	case *exec.If:
		return ev.evalIf(node)
	case *exec.ObjectBuild:
		return ev.evalObjectBuild(node)
	case *exec.ArrayBuild:
		return ev.evalArrayBuild(node)
	case *exec.Lambda:
		return value.Null, kerrors.NewAt(kerrors.TypeMismatch, node.Span(), "a lambda cannot be used as a value")
	default:
		return value.Null, fmt.Errorf("eval: unhandled exec node %T", n)
	}
}

// CallLambda implements exec.Evaluator.
func (ev *Evaluator) CallLambda(lam *exec.Lambda, args []value.Value) (value.Value, error) {
	needed := lam.ParamBase + lam.ParamCount
	if cap(ev.slots) < needed {
		grown := make([]value.Value, lam.ParamBase, needed*2)
		copy(grown, ev.slots[:lam.ParamBase])
		ev.slots = grown
	} else {
		ev.slots = ev.slots[:lam.ParamBase]
	}
	ev.slots = append(ev.slots, args...)
	return ev.Eval(lam.Body)
}

func (ev *Evaluator) evalSlotRef(n *exec.SlotRef) (value.Value, error) {
	if n.Index < 0 || n.Index >= len(ev.slots) {
		return value.Null, kerrors.NewAt(kerrors.SourceMissingError, n.Span(), "input %q was not supplied", n.Name)
	}
	return ev.slots[n.Index], nil
}

func (ev *Evaluator) evalSelect(n *exec.Select) (value.Value, error) {
	cur, err := ev.Eval(n.BaseExpr)
	if err != nil {
		return value.Null, err
	}
	for _, step := range n.Steps {
		switch step.Kind {
		case exec.StepField:
			if !cur.IsObject() {
				cur = value.Null
				continue
			}
			v, ok := cur.AsObject().Get(step.Key)
			if !ok {
				cur = value.Null
			} else {
				cur = v
			}
		case exec.StepIndex:
			idxVal, err := ev.Eval(step.Index)
			if err != nil {
				return value.Null, err
			}
			if !idxVal.IsInt() {
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, step.SpanV, "index must be an integer, got %s", idxVal.TypeName())
			}
			if !cur.IsArray() {
				cur = value.Null
				continue
			}
			arr := cur.AsArray()
			i := idxVal.AsInt()
			if i < 0 {
				i += int64(len(arr))
			}
			if i < 0 || i >= int64(len(arr)) {
				cur = value.Null
			} else {
				cur = arr[i]
			}
		}
	}
	return cur, nil
}

func (ev *Evaluator) evalUnaryOp(n *exec.UnaryOp) (value.Value, error) {
	v, err := ev.Eval(n.Expr)
	if err != nil {
		return value.Null, err
	}
	switch n.Kind {
	case exec.OpNot:
		return value.Bool(!v.Truthy()), nil
	case exec.OpNeg:
		switch {
		case v.IsInt():
			if v.AsInt() == math.MinInt64 {
				return value.Null, kerrors.NewAt(kerrors.NumericOverflow, n.Span(), "negation overflow on %d", v.AsInt())
			}
			return value.Int(-v.AsInt()), nil
		case v.IsFloat():
			return value.Float(-v.AsFloat()), nil
		default:
			return value.Null, kerrors.NewAt(kerrors.TypeMismatch, n.Span(), "unary - expects a number, got %s", v.TypeName())
		}
	}
	return value.Null, fmt.Errorf("eval: unhandled unary op %v", n.Kind)
}

func (ev *Evaluator) evalIsType(n *exec.IsType) (value.Value, error) {
	v, err := ev.Eval(n.Expr)
	if err != nil {
		return value.Null, err
	}
	return value.Bool(v.Is(n.TypeName)), nil
}

func (ev *Evaluator) evalIf(n *exec.If) (value.Value, error) {
	cond, err := ev.Eval(n.Cond)
	if err != nil {
		return value.Null, err
	}
	if cond.Truthy() {
		return ev.Eval(n.Then)
	}
	if n.Else == nil {
		return value.Null, nil
	}
	return ev.Eval(n.Else)
}

func (ev *Evaluator) evalObjectBuild(n *exec.ObjectBuild) (value.Value, error) {
	obj := value.NewObject()
	for _, entry := range n.Entries {
		keyV, err := ev.Eval(entry.Key)
		if err != nil {
			return value.Null, err
		}
		if keyV.IsArray() || keyV.IsObject() {
			return value.Null, kerrors.NewAt(kerrors.TypeMismatch, entry.Key.Span(), "object key cannot coerce to a string, got %s", keyV.TypeName())
		}
		val, err := ev.Eval(entry.Value)
		if err != nil {
			return value.Null, err
		}
		obj.Set(keyV.String(), val)
	}
	return value.Obj(obj), nil
}

func (ev *Evaluator) evalArrayBuild(n *exec.ArrayBuild) (value.Value, error) {
	out := make([]value.Value, len(n.Elements))
	for i, el := range n.Elements {
		v, err := ev.Eval(el)
		if err != nil {
			return value.Null, err
		}
		out[i] = v
	}
	return value.Array(out), nil
}
