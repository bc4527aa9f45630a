// Package macro implements Kuiper's macro expander: pure textual (AST)
// substitution of `#name := (params) => body;` definitions into their use
// sites, bounded by a recursion limit.
package macro

import (
	"github.com/kuiper-lang/kuiper/ast"
	kerrors "github.com/kuiper-lang/kuiper/errors"
)

// DefaultMaxExpansions is the default bound on total macro substitutions
// performed while expanding a single program, matching spec's
// max_macro_expansions default of 20.
const DefaultMaxExpansions = 20

type macroDef struct {
	params []string
	body   ast.Node
}

// Expand rewrites every macro use in prog.Expr with its definition's body,
// substituting call-site argument expressions for the macro's parameters.
// It returns the expanded expression (with all MacroDef nodes discarded,
// since compilation only needs the final program body).
func Expand(prog *ast.Program, maxExpansions int) (ast.Node, error) {
	if maxExpansions <= 0 {
		maxExpansions = DefaultMaxExpansions
	}
	defs := make(map[string]macroDef, len(prog.Macros))
	for _, m := range prog.Macros {
		defs[m.Name] = macroDef{params: m.Params, body: m.Body}
	}
	count := 0
	return expandNode(prog.Expr, defs, &count, maxExpansions)
}

func expandNode(n ast.Node, defs map[string]macroDef, count *int, limit int) (ast.Node, error) {
	if n == nil {
		return nil, nil
	}
	switch v := n.(type) {
	case *ast.NullLit, *ast.BoolLit, *ast.IntLit, *ast.FloatLit, *ast.Ident:
		return n, nil
	case *ast.StringLit:
		parts := make([]ast.StringPart, len(v.Parts))
		for i, part := range v.Parts {
			if part.Expr == nil {
				parts[i] = part
				continue
			}
			e, err := expandNode(part.Expr, defs, count, limit)
			if err != nil {
				return nil, err
			}
			parts[i] = ast.StringPart{Expr: e}
		}
		return &ast.StringLit{Base: v.Base, Parts: parts}, nil
	case *ast.ArrayLit:
		elems := make([]ast.Node, len(v.Elements))
		for i, e := range v.Elements {
			ee, err := expandNode(e, defs, count, limit)
			if err != nil {
				return nil, err
			}
			elems[i] = ee
		}
		return &ast.ArrayLit{Base: v.Base, Elements: elems}, nil
	case *ast.ObjectLit:
		entries := make([]ast.ObjectEntry, len(v.Entries))
		for i, e := range v.Entries {
			key, err := expandNode(e.Key, defs, count, limit)
			if err != nil {
				return nil, err
			}
			val, err := expandNode(e.Value, defs, count, limit)
			if err != nil {
				return nil, err
			}
			entries[i] = ast.ObjectEntry{Key: key, Value: val}
		}
		return &ast.ObjectLit{Base: v.Base, Entries: entries}, nil
	case *ast.Selector:
		base, err := expandNode(v.BaseExpr, defs, count, limit)
		if err != nil {
			return nil, err
		}
		steps := make([]ast.SelectorStep, len(v.Steps))
		for i, s := range v.Steps {
			if s.Index != nil {
				idx, err := expandNode(s.Index, defs, count, limit)
				if err != nil {
					return nil, err
				}
				s.Index = idx
			}
			steps[i] = s
		}
		return &ast.Selector{Base: v.Base, BaseExpr: base, Steps: steps}, nil
	case *ast.BinaryOp:
		lhs, err := expandNode(v.Lhs, defs, count, limit)
		if err != nil {
			return nil, err
		}
		rhs, err := expandNode(v.Rhs, defs, count, limit)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOp{Base: v.Base, Op: v.Op, OpSpan: v.OpSpan, Lhs: lhs, Rhs: rhs}, nil
	case *ast.UnaryOp:
		e, err := expandNode(v.Expr, defs, count, limit)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: v.Base, Op: v.Op, Expr: e}, nil
	case *ast.IsType:
		e, err := expandNode(v.Expr, defs, count, limit)
		if err != nil {
			return nil, err
		}
		return &ast.IsType{Base: v.Base, Expr: e, TypeName: v.TypeName}, nil
	case *ast.Lambda:
		body, err := expandNode(v.Body, defs, count, limit)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Base: v.Base, Params: v.Params, Body: body}, nil
	case *ast.If:
		cond, err := expandNode(v.Cond, defs, count, limit)
		if err != nil {
			return nil, err
		}
		then, err := expandNode(v.Then, defs, count, limit)
		if err != nil {
			return nil, err
		}
		var elseExpr ast.Node
		if v.Else != nil {
			elseExpr, err = expandNode(v.Else, defs, count, limit)
			if err != nil {
				return nil, err
			}
		}
		return &ast.If{Base: v.Base, Cond: cond, Then: then, Else: elseExpr}, nil
	case *ast.Paren:
		inner, err := expandNode(v.Inner, defs, count, limit)
		if err != nil {
			return nil, err
		}
		return &ast.Paren{Base: v.Base, Inner: inner}, nil
	case *ast.Call:
		args := make([]ast.Node, len(v.Args))
		for i, a := range v.Args {
			ea, err := expandNode(a, defs, count, limit)
			if err != nil {
				return nil, err
			}
			args[i] = ea
		}
		def, isMacro := defs[v.Callee]
		if !isMacro {
			return &ast.Call{Base: v.Base, Callee: v.Callee, CalleeSpan: v.CalleeSpan, Args: args}, nil
		}
		*count++
		if *count > limit {
			return nil, kerrors.NewAt(kerrors.MacroExpansionLimit, v.Span(),
				"macro expansion limit (%d) exceeded expanding %q", limit, v.Callee)
		}
		if len(args) != len(def.params) {
			return nil, kerrors.NewAt(kerrors.ArityError, v.Span(),
				"macro %q expects %d argument(s), got %d", v.Callee, len(def.params), len(args))
		}
		bindings := make(map[string]ast.Node, len(def.params))
		for i, p := range def.params {
			bindings[p] = args[i]
		}
		substituted := substitute(def.body, bindings)
		return expandNode(substituted, defs, count, limit)
	default:
		return n, nil
	}
}

// substitute textually replaces every Ident matching a macro parameter
// name with its bound argument expression. It does not descend into a
// nested Lambda's own parameter shadowing the same name.
func substitute(n ast.Node, bindings map[string]ast.Node) ast.Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *ast.Ident:
		if repl, ok := bindings[v.Name]; ok {
			return repl
		}
		return n
	case *ast.StringLit:
		parts := make([]ast.StringPart, len(v.Parts))
		for i, part := range v.Parts {
			if part.Expr == nil {
				parts[i] = part
				continue
			}
			parts[i] = ast.StringPart{Expr: substitute(part.Expr, bindings)}
		}
		return &ast.StringLit{Base: v.Base, Parts: parts}
	case *ast.ArrayLit:
		elems := make([]ast.Node, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = substitute(e, bindings)
		}
		return &ast.ArrayLit{Base: v.Base, Elements: elems}
	case *ast.ObjectLit:
		entries := make([]ast.ObjectEntry, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = ast.ObjectEntry{Key: substitute(e.Key, bindings), Value: substitute(e.Value, bindings)}
		}
		return &ast.ObjectLit{Base: v.Base, Entries: entries}
	case *ast.Selector:
		steps := make([]ast.SelectorStep, len(v.Steps))
		for i, s := range v.Steps {
			if s.Index != nil {
				s.Index = substitute(s.Index, bindings)
			}
			steps[i] = s
		}
		return &ast.Selector{Base: v.Base, BaseExpr: substitute(v.BaseExpr, bindings), Steps: steps}
	case *ast.BinaryOp:
		return &ast.BinaryOp{Base: v.Base, Op: v.Op, OpSpan: v.OpSpan,
			Lhs: substitute(v.Lhs, bindings), Rhs: substitute(v.Rhs, bindings)}
	case *ast.UnaryOp:
		return &ast.UnaryOp{Base: v.Base, Op: v.Op, Expr: substitute(v.Expr, bindings)}
	case *ast.IsType:
		return &ast.IsType{Base: v.Base, Expr: substitute(v.Expr, bindings), TypeName: v.TypeName}
	case *ast.Lambda:
		inner := make(map[string]ast.Node, len(bindings))
		for k, val := range bindings {
			inner[k] = val
		}
		for _, p := range v.Params {
			delete(inner, p)
		}
		return &ast.Lambda{Base: v.Base, Params: v.Params, Body: substitute(v.Body, inner)}
	case *ast.If:
		var elseExpr ast.Node
		if v.Else != nil {
			elseExpr = substitute(v.Else, bindings)
		}
		return &ast.If{Base: v.Base, Cond: substitute(v.Cond, bindings), Then: substitute(v.Then, bindings), Else: elseExpr}
	case *ast.Paren:
		return &ast.Paren{Base: v.Base, Inner: substitute(v.Inner, bindings)}
	case *ast.Call:
		args := make([]ast.Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = substitute(a, bindings)
		}
		return &ast.Call{Base: v.Base, Callee: v.Callee, CalleeSpan: v.CalleeSpan, Args: args}
	default:
		return n
	}
}
