package compiler

import (
	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/eval"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

// DefaultMaxFolds bounds how many sub-trees the optimizer will fold before
// giving up, so a pathological expression (e.g. a huge literal array of
// arithmetic) can't make compilation itself run unbounded.
const DefaultMaxFolds = 100000

// Optimize walks an exec-tree bottom-up, replacing any sub-tree that is
// Deterministic() (no slot references, no non-deterministic builtins, no
// lambda arguments) with the exec.Constant its evaluation produces. A
// constant sub-expression that fails to evaluate (e.g. `1/0`) surfaces as a
// compile-time error rather than being deferred to run time.
func Optimize(n exec.Node, maxFolds int) (exec.Node, error) {
	if maxFolds <= 0 {
		maxFolds = DefaultMaxFolds
	}
	o := &optimizer{max: maxFolds}
	return o.walk(n)
}

type optimizer struct {
	max   int
	folds int
}

func (o *optimizer) tryFold(n exec.Node) (exec.Node, error) {
	if _, isConst := n.(*exec.Constant); isConst {
		return n, nil
	}
	if !n.Deterministic() {
		return n, nil
	}
	if o.folds >= o.max {
		return n, nil
	}
	o.folds++
	ev := eval.New(nil)
	v, err := ev.Eval(n)
	if err != nil {
		if kerr, ok := err.(*kerrors.Error); ok && kerr.Code == kerrors.SourceMissingError {
			return n, nil
		}
		return nil, err
	}
	return &exec.Constant{Base: exec.NewBase(n.Span(), true), Value: v}, nil
}

func (o *optimizer) walk(n exec.Node) (exec.Node, error) {
	switch node := n.(type) {
	case *exec.Constant, *exec.SlotRef:
		return n, nil
	case *exec.Select:
		base, err := o.walk(node.BaseExpr)
		if err != nil {
			return nil, err
		}
		node.BaseExpr = base
		for i, s := range node.Steps {
			if s.Kind == exec.StepIndex {
				idx, err := o.walk(s.Index)
				if err != nil {
					return nil, err
				}
				node.Steps[i].Index = idx
			}
		}
		return o.tryFold(node)
	case *exec.BinaryOp:
		lhs, err := o.walk(node.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := o.walk(node.Rhs)
		if err != nil {
			return nil, err
		}
		node.Lhs, node.Rhs = lhs, rhs
		return o.tryFold(node)
	case *exec.UnaryOp:
		expr, err := o.walk(node.Expr)
		if err != nil {
			return nil, err
		}
		node.Expr = expr
		return o.tryFold(node)
	case *exec.IsType:
		expr, err := o.walk(node.Expr)
		if err != nil {
			return nil, err
		}
		node.Expr = expr
		return o.tryFold(node)
	case *exec.If:
		cond, err := o.walk(node.Cond)
		if err != nil {
			return nil, err
		}
		then, err := o.walk(node.Then)
		if err != nil {
			return nil, err
		}
		node.Cond, node.Then = cond, then
		if node.Else != nil {
			elseNode, err := o.walk(node.Else)
			if err != nil {
				return nil, err
			}
			node.Else = elseNode
		}
		if c, ok := node.Cond.(*exec.Constant); ok {
			if c.Value.Truthy() {
				return node.Then, nil
			}
			if node.Else != nil {
				return node.Else, nil
			}
			return &exec.Constant{Base: exec.NewBase(node.Span(), true), Value: value.Null}, nil
		}
		return node, nil
	case *exec.Call:
		for i, a := range node.Args {
			built, err := o.walk(a)
			if err != nil {
				return nil, err
			}
			node.Args[i] = built
		}
		if node.Lam != nil {
			body, err := o.walk(node.Lam.Body)
			if err != nil {
				return nil, err
			}
			node.Lam.Body = body
		}
		return o.tryFold(node)
	case *exec.Lambda:
		body, err := o.walk(node.Body)
		if err != nil {
			return nil, err
		}
		node.Body = body
		return node, nil
	case *exec.ObjectBuild:
		for i, e := range node.Entries {
			k, err := o.walk(e.Key)
			if err != nil {
				return nil, err
			}
			v, err := o.walk(e.Value)
			if err != nil {
				return nil, err
			}
			node.Entries[i] = exec.ObjectEntry{Key: k, Value: v}
		}
		return o.tryFold(node)
	case *exec.ArrayBuild:
		for i, e := range node.Elements {
			built, err := o.walk(e)
			if err != nil {
				return nil, err
			}
			node.Elements[i] = built
		}
		return o.tryFold(node)
	default:
		return n, nil
	}
}
