// Package exec defines Kuiper's lowered, resolved, evaluable tree: the
// exec-tree builder (package compiler) produces it from the macro-expanded
// AST, and the evaluator (package eval) walks it.
package exec

import (
	"github.com/kuiper-lang/kuiper/span"
	"github.com/kuiper-lang/kuiper/value"
)

// Node is implemented by every exec-tree variant. Deterministic is cached
// at build time by bottom-up propagation from catalog entries and is only
// ever read by the optimizer, never mutated after build.
type Node interface {
	Span() span.Span
	Deterministic() bool
	execNode()
}

type Base struct {
	SpanV span.Span
	Det   bool
}

func (b Base) Span() span.Span    { return b.SpanV }
func (b Base) Deterministic() bool { return b.Det }
func (Base) execNode()             {}

// NewBase constructs the common embedded fields for an exec node.
func NewBase(sp span.Span, deterministic bool) Base { return Base{SpanV: sp, Det: deterministic} }

// Constant is a fully folded value, produced either directly from a literal
// or by the optimizer replacing a deterministic sub-tree.
type Constant struct {
	Base
	Value value.Value
}

// SlotRef reads a declared input or a lambda parameter/captured variable
// by its build-time resolved absolute slot index.
type SlotRef struct {
	Base
	Index int
	Name  string // for diagnostics only
}

// StepKind distinguishes a Selector step.
type StepKind uint8

const (
	StepField StepKind = iota
	StepIndex
)

// Step is one resolved selector step.
type Step struct {
	Kind  StepKind
	Key   string // valid when Kind == StepField
	Index Node   // valid when Kind == StepIndex
	SpanV span.Span
}

// Select applies Steps in order against Base.
type Select struct {
	Base
	BaseExpr Node
	Steps    []Step
}

// BinOpKind identifies a resolved binary operator.
type BinOpKind uint8

const (
	OpAdd BinOpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

// BinaryOp is a resolved binary operator node.
type BinaryOp struct {
	Base
	Kind     BinOpKind
	OpSpan   span.Span
	Lhs, Rhs Node
}

// UnOpKind identifies a resolved unary operator.
type UnOpKind uint8

const (
	OpNeg UnOpKind = iota
	OpNot
)

// UnaryOp is a resolved unary operator node.
type UnaryOp struct {
	Base
	Kind UnOpKind
	Expr Node
}

// IsType is the resolved `is` type predicate.
type IsType struct {
	Base
	Expr     Node
	TypeName string
}

// Lambda is a resolved lambda: its body's SlotRefs already account for
// outer slots, since every identifier is resolved to an absolute index
// during exec-tree build. ParamBase is the slot-environment depth at the
// point the lambda was defined; invoking it appends exactly ParamCount
// values starting at that index.
type Lambda struct {
	Base
	ParamBase  int
	ParamCount int
	Body       Node
}

// Call invokes a resolved builtin catalog entry with positional Args and
// an optional trailing Lam.
type Call struct {
	Base
	Entry *BuiltinEntry
	Args  []Node
	Lam   *Lambda // nil when the builtin takes no lambda
}

// If is a resolved conditional; Else is nil when omitted (defaults to Null
// at evaluation time).
type If struct {
	Base
	Cond, Then, Else Node
}

// ObjectEntry is one resolved key/value pair of an ObjectBuild.
type ObjectEntry struct {
	Key, Value Node
}

// ObjectBuild constructs an Object at evaluation time, in entry order.
type ObjectBuild struct {
	Base
	Entries []ObjectEntry
}

// ArrayBuild constructs an Array at evaluation time, in element order.
type ArrayBuild struct {
	Base
	Elements []Node
}
