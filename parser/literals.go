package parser

import (
	"strconv"

	"github.com/kuiper-lang/kuiper/ast"
	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/lexer"
	"github.com/kuiper-lang/kuiper/token"
)

func parseInt64(lit string) (int64, error) {
	return strconv.ParseInt(lit, 10, 64)
}

func parseFloat64(lit string) (float64, error) {
	return strconv.ParseFloat(lit, 64)
}

// parseIdentOrLambda handles a bare identifier, the bare single-parameter
// lambda form `p => body`, and a direct function call `f(args)`.
func (p *Parser) parseIdentOrLambda() (ast.Node, error) {
	name := p.cur.Literal
	sp := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind == token.ARROW {
		if err := p.advance(); err != nil {
			return nil, err
		}
		body, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Base: ast.NewBase(sp.Cover(body.Span())), Params: []string{name}, Body: body}, nil
	}
	if p.cur.Kind == token.LPAREN {
		args, end, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		return &ast.Call{Base: ast.NewBase(sp.Cover(end)), Callee: name, CalleeSpan: sp, Args: args}, nil
	}
	return &ast.Ident{Base: ast.NewBase(sp), Name: name}, nil
}

// parseGroupedOrLambda resolves the one genuine ambiguity in the grammar:
// `(expr)` vs. `(p1, p2, ...) => body` vs. the zero-arg `() => body`. It
// parses greedily and only commits to the lambda interpretation once a
// comma or an arrow is actually seen, exactly mirroring how the lexer's
// `)=>` composite token exists to make that moment unambiguous.
func (p *Parser) parseGroupedOrLambda() (ast.Node, error) {
	start := p.cur.Span
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	if p.cur.Kind == token.RPAREN_ARROW || (p.cur.Kind == token.RPAREN && p.peek.Kind == token.ARROW) {
		if p.cur.Kind == token.RPAREN {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		body, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Base: ast.NewBase(start.Cover(body.Span())), Params: nil, Body: body}, nil
	}
	if p.cur.Kind == token.RPAREN {
		return nil, p.unexpected("expression or lambda parameters")
	}

	first, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	if p.cur.Kind == token.COMMA {
		firstName, ok := identName(first)
		if !ok {
			return nil, kerrors.NewAt(kerrors.ParseError, first.Span(), "invalid lambda parameter")
		}
		params := []string{firstName}
		for p.cur.Kind == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Kind != token.IDENT {
				return nil, p.unexpected("lambda parameter name")
			}
			params = append(params, p.cur.Literal)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.cur.Kind == token.RPAREN_ARROW {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else {
			if err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			if err := p.expect(token.ARROW); err != nil {
				return nil, err
			}
		}
		body, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Base: ast.NewBase(start.Cover(body.Span())), Params: params, Body: body}, nil
	}

	if p.cur.Kind == token.RPAREN_ARROW {
		name, ok := identName(first)
		if !ok {
			return nil, kerrors.NewAt(kerrors.ParseError, first.Span(), "invalid lambda parameter")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		body, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Base: ast.NewBase(start.Cover(body.Span())), Params: []string{name}, Body: body}, nil
	}

	end := p.cur.Span
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if p.cur.Kind == token.ARROW {
		name, ok := identName(first)
		if !ok {
			return nil, kerrors.NewAt(kerrors.ParseError, first.Span(), "invalid lambda parameter")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		body, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Base: ast.NewBase(start.Cover(body.Span())), Params: []string{name}, Body: body}, nil
	}
	return &ast.Paren{Base: ast.NewBase(start.Cover(end)), Inner: first}, nil
}

func identName(n ast.Node) (string, bool) {
	id, ok := n.(*ast.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func (p *Parser) parseArrayLit() (ast.Node, error) {
	start := p.cur.Span
	if err := p.expect(token.LBRACKET); err != nil {
		return nil, err
	}
	var elems []ast.Node
	for p.cur.Kind != token.RBRACKET {
		e, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.cur.Kind == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	end := p.cur.Span
	if err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ArrayLit{Base: ast.NewBase(start.Cover(end)), Elements: elems}, nil
}

func (p *Parser) parseObjectLit() (ast.Node, error) {
	start := p.cur.Span
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var entries []ast.ObjectEntry
	for p.cur.Kind != token.RBRACE {
		entry, err := p.parseObjectEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		if p.cur.Kind == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	end := p.cur.Span
	if err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.ObjectLit{Base: ast.NewBase(start.Cover(end)), Entries: entries}, nil
}

// parseObjectEntry parses `key: value`. A bare identifier immediately
// followed by `:` is a literal string key (not a variable reference);
// anything else in key position is a general expression, evaluated and
// coerced to a string at build/eval time.
func (p *Parser) parseObjectEntry() (ast.ObjectEntry, error) {
	var key ast.Node
	if (p.cur.Kind == token.IDENT || p.cur.Kind == token.BACKTICK) && p.peek.Kind == token.COLON {
		key = &ast.StringLit{Base: ast.NewBase(p.cur.Span), Parts: []ast.StringPart{{Literal: p.cur.Literal}}}
		if err := p.advance(); err != nil {
			return ast.ObjectEntry{}, err
		}
	} else {
		k, err := p.parseExpression(LOWEST)
		if err != nil {
			return ast.ObjectEntry{}, err
		}
		key = k
	}
	if err := p.expect(token.COLON); err != nil {
		return ast.ObjectEntry{}, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return ast.ObjectEntry{}, err
	}
	return ast.ObjectEntry{Key: key, Value: value}, nil
}

// parseStringLit splits the raw token content into literal chunks and
// `{expr}` interpolation chunks (already brace-balanced by the lexer),
// recursively lexing/parsing each expression chunk with spans offset to
// their true position in the original source.
func (p *Parser) parseStringLit() (ast.Node, error) {
	tok := p.cur
	raw := tok.Literal
	baseOffset := tok.Span.Start + 1 // past opening quote
	if err := p.advance(); err != nil {
		return nil, err
	}

	var parts []ast.StringPart
	i, litStart := 0, 0
	for i < len(raw) {
		switch raw[i] {
		case '\\':
			i += 2
		case '{':
			if i > litStart {
				chunk, err := lexer.Unescape(raw[litStart:i])
				if err != nil {
					return nil, kerrors.NewAt(kerrors.LexError, tok.Span, "%s", err.Error())
				}
				parts = append(parts, ast.StringPart{Literal: chunk})
			}
			j, err := matchInterpolationEnd(raw, i)
			if err != nil {
				return nil, kerrors.NewAt(kerrors.LexError, tok.Span, "%s", err.Error())
			}
			exprSrc := raw[i+1 : j-1]
			sub, err := New(lexer.New(exprSrc, baseOffset+i+1))
			if err != nil {
				return nil, err
			}
			exprNode, err := sub.ParseExpression()
			if err != nil {
				return nil, err
			}
			parts = append(parts, ast.StringPart{Expr: exprNode})
			i = j
			litStart = i
		default:
			i++
		}
	}
	if litStart < len(raw) {
		chunk, err := lexer.Unescape(raw[litStart:])
		if err != nil {
			return nil, kerrors.NewAt(kerrors.LexError, tok.Span, "%s", err.Error())
		}
		parts = append(parts, ast.StringPart{Literal: chunk})
	}
	if len(parts) == 0 {
		parts = []ast.StringPart{{Literal: ""}}
	}
	return &ast.StringLit{Base: ast.NewBase(tok.Span), Parts: parts}, nil
}

// matchInterpolationEnd returns the index just past the `}` closing the
// `{` at raw[start], honoring nested braces and nested quoted strings.
func matchInterpolationEnd(raw string, start int) (int, error) {
	depth := 1
	j := start + 1
	for j < len(raw) && depth > 0 {
		switch raw[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				j++
				return j, nil
			}
		case '"', '\'':
			q := raw[j]
			j++
			for j < len(raw) && raw[j] != q {
				if raw[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(raw) {
				return 0, strconvUnterminated()
			}
		}
		j++
	}
	if depth != 0 {
		return 0, strconvUnterminated()
	}
	return j, nil
}

func strconvUnterminated() error {
	return &unterminatedInterpolation{}
}

type unterminatedInterpolation struct{}

func (*unterminatedInterpolation) Error() string { return "unterminated string interpolation" }
