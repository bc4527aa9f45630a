// Package ast defines Kuiper's Abstract Syntax Tree, produced by the
// parser and consumed by the macro expander and the exec-tree builder.
package ast

import "github.com/kuiper-lang/kuiper/span"

// Node is implemented by every AST variant.
type Node interface {
	Span() span.Span
	astNode()
}

// Program is a compilation unit: zero or more macro definitions followed
// by a single trailing expression.
type Program struct {
	Macros []*MacroDef
	Expr   Node
	SpanV  span.Span
}

func (p *Program) Span() span.Span { return p.SpanV }
func (*Program) astNode()          {}

// Base carries the source span every AST node embeds; exported so callers
// outside the package (the parser, the macro expander) can construct
// literal node values directly.
type Base struct{ SpanV span.Span }

func (b Base) Span() span.Span { return b.SpanV }
func (Base) astNode()          {}

// NewBase is a convenience constructor for Base.
func NewBase(sp span.Span) Base { return Base{SpanV: sp} }

// NullLit is the `null` literal.
type NullLit struct{ Base }

// BoolLit is `true` or `false`.
type BoolLit struct {
	Base
	Value bool
}

// IntLit is an integer literal.
type IntLit struct {
	Base
	Value int64
}

// FloatLit is a floating point literal.
type FloatLit struct {
	Base
	Value float64
}

// StringPart is one piece of a (possibly interpolated) string literal:
// either literal text or an embedded expression.
type StringPart struct {
	Literal string // valid when Expr == nil
	Expr    Node   // valid when non-nil; Literal is ignored
}

// StringLit is a string literal, exploded into literal/expression parts by
// the parser when it contains `{expr}` interpolation.
type StringLit struct {
	Base
	Parts []StringPart
}

// ArrayLit is an array literal `[e1, e2, ...]`.
type ArrayLit struct {
	Base
	Elements []Node
}

// ObjectEntry is one `key: value` pair of an object literal. Key may be an
// Ident used as a bare key, a StringLit, or any other computed expression.
type ObjectEntry struct {
	Key   Node
	Value Node
}

// ObjectLit is an object literal `{k1: v1, k2: v2, ...}`.
type ObjectLit struct {
	Base
	Entries []ObjectEntry
}

// Ident is a bare identifier, resolved later against lambda parameters,
// declared inputs, or used as a bare function/key name.
type Ident struct {
	Base
	Name string
}

// SelectorStep is one `.field` or `[expr]` step in a Selector chain.
type SelectorStep struct {
	Field      string // set when this is a `.field` step
	IsField    bool
	Index      Node // set when this is a `[expr]` step
	StepSpan   span.Span
}

// Span returns the step's own source span.
func (s SelectorStep) Span() span.Span { return s.StepSpan }

// Selector is a base expression followed by a chain of field/index steps,
// collapsed at parse time from repeated postfix `.name` / `[expr]`.
type Selector struct {
	Base
	BaseExpr Node
	Steps    []SelectorStep
}

// BinaryOp is a binary operator expression.
type BinaryOp struct {
	Base
	Op       string
	OpSpan   span.Span
	Lhs, Rhs Node
}

// UnaryOp is a unary operator expression (`!` or `-`).
type UnaryOp struct {
	Base
	Op   string
	Expr Node
}

// IsType is the `expr is "typename"` runtime type predicate.
type IsType struct {
	Base
	Expr     Node
	TypeName string
}

// Call is a named function call, `name(args...)`. Method-call sugar
// `x.f(args)` is represented identically after the parser rewrites it by
// prepending x to Args (see parser).
type Call struct {
	Base
	Callee     string
	CalleeSpan span.Span
	Args       []Node
}

// Lambda is `(p1, p2, ...) => body` or the bare single-parameter form
// `p => body`.
type Lambda struct {
	Base
	Params []string
	Body   Node
}

// If is `if(cond, then[, else])`.
type If struct {
	Base
	Cond Node
	Then Node
	Else Node // nil when omitted
}

// MacroDef is `#name := (params) => body;`.
type MacroDef struct {
	Base
	Name   string
	Params []string
	Body   Node
}

// Paren is a parenthesized expression, kept as its own node so its span
// covers the parentheses for diagnostics.
type Paren struct {
	Base
	Inner Node
}
