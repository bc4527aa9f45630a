// Package printer renders a compiled exec-tree back into Kuiper source
// text, satisfying the round-trip testable property: parsing and compiling
// Print's output must reproduce an equivalent expression.
package printer

import (
	"fmt"
	"strings"

	"github.com/kuiper-lang/kuiper/exec"
)

var opSymbols = map[exec.BinOpKind]string{
	exec.OpAdd: "+", exec.OpSub: "-", exec.OpMul: "*", exec.OpDiv: "/", exec.OpMod: "%",
	exec.OpEq: "==", exec.OpNeq: "!=",
	exec.OpLt: "<", exec.OpLe: "<=", exec.OpGt: ">", exec.OpGe: ">=",
	exec.OpAnd: "&&", exec.OpOr: "||",
}

// Print renders root as a single Kuiper expression.
func Print(root exec.Node) string {
	var b strings.Builder
	write(&b, root)
	return b.String()
}

func write(b *strings.Builder, n exec.Node) {
	switch node := n.(type) {
	case *exec.Constant:
		b.WriteString(node.Value.JSON())
	case *exec.SlotRef:
		b.WriteString(node.Name)
	case *exec.Select:
		write(b, node.BaseExpr)
		for _, s := range node.Steps {
			switch s.Kind {
			case exec.StepField:
				b.WriteByte('.')
				b.WriteString(s.Key)
			case exec.StepIndex:
				b.WriteByte('[')
				write(b, s.Index)
				b.WriteByte(']')
			}
		}
	case *exec.BinaryOp:
		b.WriteByte('(')
		write(b, node.Lhs)
		fmt.Fprintf(b, " %s ", opSymbols[node.Kind])
		write(b, node.Rhs)
		b.WriteByte(')')
	case *exec.UnaryOp:
		if node.Kind == exec.OpNeg {
			b.WriteByte('-')
		} else {
			b.WriteByte('!')
		}
		b.WriteByte('(')
		write(b, node.Expr)
		b.WriteByte(')')
	case *exec.IsType:
		b.WriteByte('(')
		write(b, node.Expr)
		fmt.Fprintf(b, " is %q)", node.TypeName)
	case *exec.If:
		b.WriteString("if(")
		write(b, node.Cond)
		b.WriteString(", ")
		write(b, node.Then)
		if node.Else != nil {
			b.WriteString(", ")
			write(b, node.Else)
		}
		b.WriteByte(')')
	case *exec.Lambda:
		writeLambda(b, node)
	case *exec.Call:
		b.WriteString(node.Entry.Name)
		b.WriteByte('(')
		for i, a := range node.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			write(b, a)
		}
		if node.Lam != nil {
			if len(node.Args) > 0 {
				b.WriteString(", ")
			}
			writeLambda(b, node.Lam)
		}
		b.WriteByte(')')
	case *exec.ObjectBuild:
		b.WriteByte('{')
		for i, e := range node.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			write(b, e.Key)
			b.WriteString(": ")
			write(b, e.Value)
		}
		b.WriteByte('}')
	case *exec.ArrayBuild:
		b.WriteByte('[')
		for i, e := range node.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			write(b, e)
		}
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "/* unsupported node %T */", n)
	}
}

// writeLambda recovers each parameter's original name from the first
// SlotRef in the body that references it (exec.Lambda itself only retains
// resolved slot indices), falling back to a synthetic name for an unused
// parameter.
func writeLambda(b *strings.Builder, lam *exec.Lambda) {
	names := make([]string, lam.ParamCount)
	collectSlotNames(lam.Body, lam.ParamBase, lam.ParamCount, names)
	b.WriteByte('(')
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		if name == "" {
			name = fmt.Sprintf("_p%d", lam.ParamBase+i)
		}
		b.WriteString(name)
	}
	b.WriteString(") => ")
	write(b, lam.Body)
}

func collectSlotNames(n exec.Node, base, count int, names []string) {
	switch node := n.(type) {
	case *exec.SlotRef:
		if i := node.Index - base; i >= 0 && i < count && names[i] == "" {
			names[i] = node.Name
		}
	case *exec.Select:
		collectSlotNames(node.BaseExpr, base, count, names)
		for _, s := range node.Steps {
			if s.Kind == exec.StepIndex {
				collectSlotNames(s.Index, base, count, names)
			}
		}
	case *exec.BinaryOp:
		collectSlotNames(node.Lhs, base, count, names)
		collectSlotNames(node.Rhs, base, count, names)
	case *exec.UnaryOp:
		collectSlotNames(node.Expr, base, count, names)
	case *exec.IsType:
		collectSlotNames(node.Expr, base, count, names)
	case *exec.If:
		collectSlotNames(node.Cond, base, count, names)
		collectSlotNames(node.Then, base, count, names)
		if node.Else != nil {
			collectSlotNames(node.Else, base, count, names)
		}
	case *exec.Call:
		for _, a := range node.Args {
			collectSlotNames(a, base, count, names)
		}
		if node.Lam != nil {
			collectSlotNames(node.Lam.Body, base, count, names)
		}
	case *exec.ObjectBuild:
		for _, e := range node.Entries {
			collectSlotNames(e.Key, base, count, names)
			collectSlotNames(e.Value, base, count, names)
		}
	case *exec.ArrayBuild:
		for _, e := range node.Elements {
			collectSlotNames(e, base, count, names)
		}
	}
}
