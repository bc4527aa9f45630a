// Package parser implements a hand-written Pratt parser producing a Kuiper
// ast.Program from a token stream. Kuiper's grammar is intentionally small
// enough that a Pratt parser (prefix/infix function tables keyed by
// precedence) is simpler and just as unambiguous as a generated LR(1)
// table; the one genuine LR(1) conflict in the grammar — a parenthesized
// expression vs. a lambda parameter list — is resolved the same way the
// lexer resolves it: by recognizing the composite `)=>` token.
package parser

import (
	"fmt"

	"github.com/kuiper-lang/kuiper/ast"
	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/lexer"
	"github.com/kuiper-lang/kuiper/token"
)

// Parser turns a token stream into an ast.Program.
type Parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token
}

// New primes a Parser over an already-constructed Lexer, useful for
// re-entering the lexer/parser over a sub-slice of source text (string
// interpolation segments).
func New(lex *lexer.Lexer) (*Parser, error) {
	p := &Parser{lex: lex}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewFromSource is a convenience wrapper for the common case of parsing a
// full document from source text.
func NewFromSource(src string) (*Parser, error) {
	return New(lexer.New(src, 0))
}

func (p *Parser) advance() error {
	p.cur = p.peek
	tok, err := p.lex.NextToken()
	if err != nil {
		if le, ok := err.(*lexer.Error); ok {
			return kerrors.NewAt(kerrors.LexError, le.Span, "%s", le.Message)
		}
		return kerrors.New(kerrors.LexError, "%s", err.Error())
	}
	p.peek = tok
	return nil
}

func (p *Parser) expect(k token.Kind) error {
	if p.cur.Kind != k {
		return p.unexpected(k.String())
	}
	return p.advance()
}

func (p *Parser) unexpected(want string) error {
	got := p.cur.Kind.String()
	if p.cur.Kind == token.IDENT || p.cur.Kind == token.INT || p.cur.Kind == token.FLOAT || p.cur.Kind == token.STRING {
		got = fmt.Sprintf("%s %q", got, p.cur.Literal)
	}
	msg := fmt.Sprintf("unexpected token %s", got)
	if want != "" {
		msg = fmt.Sprintf("expected %s, found %s", want, got)
	}
	return kerrors.NewAt(kerrors.ParseError, p.cur.Span, "%s", msg)
}

// ParseProgram parses macro definitions followed by a single trailing
// expression.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	start := p.cur.Span
	var macros []*ast.MacroDef
	for p.cur.Kind == token.HASH {
		m, err := p.parseMacroDef()
		if err != nil {
			return nil, err
		}
		macros = append(macros, m)
	}
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == token.SEMICOLON {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.Kind != token.EOF {
		return nil, p.unexpected("end of input")
	}
	return &ast.Program{Macros: macros, Expr: expr, SpanV: start.Cover(expr.Span())}, nil
}

// ParseExpression parses a single expression and requires the token stream
// to be fully consumed afterward; used for macro bodies and (via a fresh
// Parser over a sub-lexer) string interpolation segments.
func (p *Parser) ParseExpression() (ast.Node, error) {
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.EOF {
		return nil, p.unexpected("end of input")
	}
	return expr, nil
}

func (p *Parser) parseMacroDef() (*ast.MacroDef, error) {
	start := p.cur.Span
	if err := p.expect(token.HASH); err != nil {
		return nil, err
	}
	if p.cur.Kind != token.IDENT {
		return nil, p.unexpected("macro name")
	}
	name := p.cur.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	body, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	lam, ok := body.(*ast.Lambda)
	if !ok {
		return nil, kerrors.NewAt(kerrors.ParseError, body.Span(), "macro definition must be a lambda")
	}
	end := p.cur.Span
	if err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.MacroDef{
		Base:   ast.NewBase(start.Cover(end)),
		Name:   name,
		Params: lam.Params,
		Body:   lam.Body,
	}, nil
}
