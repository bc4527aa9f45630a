// Package compiler lowers a macro-expanded ast.Node into an exec.Node tree:
// every identifier is resolved to an absolute slot index, method-call sugar
// and selector chains (already collapsed by the parser) are given their
// final resolved shape, and builtin calls are bound to a concrete
// *exec.BuiltinEntry. A separate optimizer pass then does bounded
// constant folding over the result.
package compiler

import (
	"github.com/kuiper-lang/kuiper/ast"
	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

var binOps = map[string]exec.BinOpKind{
	"+": exec.OpAdd, "-": exec.OpSub, "*": exec.OpMul, "/": exec.OpDiv, "%": exec.OpMod,
	"==": exec.OpEq, "!=": exec.OpNeq,
	"<": exec.OpLt, "<=": exec.OpLe, ">": exec.OpGt, ">=": exec.OpGe,
	"&&": exec.OpAnd, "||": exec.OpOr,
}

// builder walks the AST once, producing an exec.Node tree resolved against
// the current scope.
type builder struct {
	scope *scope
}

// Build lowers a macro-expanded expression into an exec-tree, resolving
// identifiers against the declared input names (in slot order).
func Build(expr ast.Node, inputNames []string) (exec.Node, error) {
	b := &builder{scope: newScope(inputNames)}
	return b.build(expr)
}

func (b *builder) build(n ast.Node) (exec.Node, error) {
	switch node := n.(type) {
	case *ast.NullLit:
		return &exec.Constant{Base: exec.NewBase(node.Span(), true), Value: value.Null}, nil
	case *ast.BoolLit:
		return &exec.Constant{Base: exec.NewBase(node.Span(), true), Value: value.Bool(node.Value)}, nil
	case *ast.IntLit:
		return &exec.Constant{Base: exec.NewBase(node.Span(), true), Value: value.Int(node.Value)}, nil
	case *ast.FloatLit:
		return &exec.Constant{Base: exec.NewBase(node.Span(), true), Value: value.Float(node.Value)}, nil
	case *ast.StringLit:
		return b.buildStringLit(node)
	case *ast.ArrayLit:
		return b.buildArrayLit(node)
	case *ast.ObjectLit:
		return b.buildObjectLit(node)
	case *ast.Ident:
		return b.buildIdent(node)
	case *ast.Selector:
		return b.buildSelector(node)
	case *ast.BinaryOp:
		return b.buildBinaryOp(node)
	case *ast.UnaryOp:
		return b.buildUnaryOp(node)
	case *ast.IsType:
		return b.buildIsType(node)
	case *ast.Call:
		return b.buildCall(node)
	case *ast.Lambda:
		return b.buildLambda(node)
	case *ast.If:
		return b.buildIf(node)
	case *ast.Paren:
		return b.build(node.Inner)
	default:
		return nil, kerrors.NewAt(kerrors.NameResolutionError, n.Span(), "unsupported expression form")
	}
}

func (b *builder) buildIdent(n *ast.Ident) (exec.Node, error) {
	idx, ok := b.scope.resolve(n.Name)
	if !ok {
		return nil, kerrors.NewAt(kerrors.NameResolutionError, n.Span(), "unknown identifier %q", n.Name)
	}
	return &exec.SlotRef{Base: exec.NewBase(n.Span(), false), Index: idx, Name: n.Name}, nil
}

func (b *builder) buildArrayLit(n *ast.ArrayLit) (exec.Node, error) {
	elems := make([]exec.Node, len(n.Elements))
	det := true
	for i, e := range n.Elements {
		built, err := b.build(e)
		if err != nil {
			return nil, err
		}
		elems[i] = built
		det = det && built.Deterministic()
	}
	return &exec.ArrayBuild{Base: exec.NewBase(n.Span(), det), Elements: elems}, nil
}

func (b *builder) buildObjectLit(n *ast.ObjectLit) (exec.Node, error) {
	entries := make([]exec.ObjectEntry, len(n.Entries))
	det := true
	for i, e := range n.Entries {
		key, err := b.build(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := b.build(e.Value)
		if err != nil {
			return nil, err
		}
		entries[i] = exec.ObjectEntry{Key: key, Value: val}
		det = det && key.Deterministic() && val.Deterministic()
	}
	return &exec.ObjectBuild{Base: exec.NewBase(n.Span(), det), Entries: entries}, nil
}

// buildStringLit lowers interpolated string parts into a left-fold of `+`
// concatenations, wrapping every non-string expression part in the string()
// builtin so `"total: {1+1}"` stringifies its embedded numbers.
func (b *builder) buildStringLit(n *ast.StringLit) (exec.Node, error) {
	if len(n.Parts) == 0 {
		return &exec.Constant{Base: exec.NewBase(n.Span(), true), Value: value.String("")}, nil
	}
	pieces := make([]exec.Node, len(n.Parts))
	det := true
	for i, part := range n.Parts {
		if part.Expr == nil {
			pieces[i] = &exec.Constant{Base: exec.NewBase(n.Span(), true), Value: value.String(part.Literal)}
			continue
		}
		built, err := b.build(part.Expr)
		if err != nil {
			return nil, err
		}
		entry := stringEntry()
		pieces[i] = &exec.Call{
			Base:  exec.NewBase(part.Expr.Span(), entry.Deterministic && built.Deterministic()),
			Entry: entry,
			Args:  []exec.Node{built},
		}
		det = det && pieces[i].Deterministic()
	}
	result := pieces[0]
	for _, p := range pieces[1:] {
		result = &exec.BinaryOp{
			Base:   exec.NewBase(n.Span(), result.Deterministic() && p.Deterministic()),
			Kind:   exec.OpAdd,
			OpSpan: n.Span(),
			Lhs:    result,
			Rhs:    p,
		}
	}
	_ = det
	return result, nil
}

func (b *builder) buildSelector(n *ast.Selector) (exec.Node, error) {
	base, err := b.build(n.BaseExpr)
	if err != nil {
		return nil, err
	}
	steps := make([]exec.Step, len(n.Steps))
	det := base.Deterministic()
	for i, s := range n.Steps {
		if s.IsField {
			steps[i] = exec.Step{Kind: exec.StepField, Key: s.Field, SpanV: s.StepSpan}
			continue
		}
		idx, err := b.build(s.Index)
		if err != nil {
			return nil, err
		}
		steps[i] = exec.Step{Kind: exec.StepIndex, Index: idx, SpanV: s.StepSpan}
		det = det && idx.Deterministic()
	}
	return &exec.Select{Base: exec.NewBase(n.Span(), det), BaseExpr: base, Steps: steps}, nil
}

func (b *builder) buildBinaryOp(n *ast.BinaryOp) (exec.Node, error) {
	kind, ok := binOps[n.Op]
	if !ok {
		return nil, kerrors.NewAt(kerrors.ParseError, n.OpSpan, "unknown operator %q", n.Op)
	}
	lhs, err := b.build(n.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := b.build(n.Rhs)
	if err != nil {
		return nil, err
	}
	return &exec.BinaryOp{
		Base:   exec.NewBase(n.Span(), lhs.Deterministic() && rhs.Deterministic()),
		Kind:   kind,
		OpSpan: n.OpSpan,
		Lhs:    lhs,
		Rhs:    rhs,
	}, nil
}

func (b *builder) buildUnaryOp(n *ast.UnaryOp) (exec.Node, error) {
	expr, err := b.build(n.Expr)
	if err != nil {
		return nil, err
	}
	var kind exec.UnOpKind
	switch n.Op {
	case "-":
		kind = exec.OpNeg
	case "!":
		kind = exec.OpNot
	default:
		return nil, kerrors.NewAt(kerrors.ParseError, n.Span(), "unknown unary operator %q", n.Op)
	}
	return &exec.UnaryOp{Base: exec.NewBase(n.Span(), expr.Deterministic()), Kind: kind, Expr: expr}, nil
}

func (b *builder) buildIsType(n *ast.IsType) (exec.Node, error) {
	expr, err := b.build(n.Expr)
	if err != nil {
		return nil, err
	}
	return &exec.IsType{Base: exec.NewBase(n.Span(), expr.Deterministic()), Expr: expr, TypeName: n.TypeName}, nil
}

func (b *builder) buildIf(n *ast.If) (exec.Node, error) {
	cond, err := b.build(n.Cond)
	if err != nil {
		return nil, err
	}
	then, err := b.build(n.Then)
	if err != nil {
		return nil, err
	}
	det := cond.Deterministic() && then.Deterministic()
	var elseNode exec.Node
	if n.Else != nil {
		elseNode, err = b.build(n.Else)
		if err != nil {
			return nil, err
		}
		det = det && elseNode.Deterministic()
	}
	return &exec.If{Base: exec.NewBase(n.Span(), det), Cond: cond, Then: then, Else: elseNode}, nil
}

func (b *builder) buildLambda(n *ast.Lambda) (exec.Node, error) {
	base := b.scope.pushLambda(n.Params)
	body, err := b.build(n.Body)
	if err != nil {
		b.scope.pop()
		return nil, err
	}
	b.scope.pop()
	return &exec.Lambda{
		Base:       exec.NewBase(n.Span(), body.Deterministic()),
		ParamBase:  base,
		ParamCount: len(n.Params),
		Body:       body,
	}, nil
}
