// Package errors defines Kuiper's error taxonomy: every failure the lexer,
// parser, macro expander, compiler, or evaluator can raise, each tagged
// with a Code and an optional source Span.
package errors

// Code identifies the kind of a Kuiper error. Codes are grouped by the
// pipeline phase that raises them:
//   - K1xxx: lex/parse errors
//   - K2xxx: compile errors (macro expansion, exec-tree build, optimizer)
//   - K3xxx: runtime errors
type Code string

const (
	LexError              Code = "K1001"
	ParseError            Code = "K1002"
	MacroExpansionLimit   Code = "K2001"
	NameResolutionError   Code = "K2002"
	ArityError            Code = "K2003"
	RegexError            Code = "K2004"
	OptimizerOperationLimit Code = "K2005" // internal, never surfaced

	TypeMismatch      Code = "K3001"
	NumericOverflow   Code = "K3002"
	DivideByZero      Code = "K3003"
	NumericDomain     Code = "K3004"
	SourceMissingError Code = "K3005" // only possible during optimizer-time evaluation
	TimestampError    Code = "K3006"
	ConversionError   Code = "K3007"
)

var descriptions = map[Code]string{
	LexError:                "bad token or unterminated literal",
	ParseError:              "unexpected token",
	MacroExpansionLimit:     "macro expansion limit exceeded",
	NameResolutionError:     "unknown identifier in value position",
	ArityError:              "wrong argument count or unknown function",
	RegexError:              "malformed regular expression",
	OptimizerOperationLimit: "optimizer operation limit reached",
	TypeMismatch:            "operation applied to an incompatible value",
	NumericOverflow:         "integer arithmetic overflowed 64 bits",
	DivideByZero:            "divide by zero",
	NumericDomain:           "numeric operation produced NaN or infinity",
	SourceMissingError:      "referenced input slot was not supplied",
	TimestampError:          "malformed timestamp or format string",
	ConversionError:         "value could not be converted to the requested type",
}

// Description returns the short description for a code.
func (c Code) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return "unknown error"
}

func (c Code) String() string { return string(c) }

// Category returns the pipeline phase a code belongs to: parse (lexer
// codes included), compile, runtime, or unknown.
func (c Code) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "compile"
	case '3':
		return "runtime"
	default:
		return "unknown"
	}
}

// Internal reports whether the error code is never meant to surface to a
// caller (it is caught and handled within the pipeline instead).
func (c Code) Internal() bool {
	return c == SourceMissingError || c == OptimizerOperationLimit
}
