package parser

import (
	"github.com/kuiper-lang/kuiper/ast"
	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/span"
	"github.com/kuiper-lang/kuiper/token"
)

func (p *Parser) parseExpression(prec int) (ast.Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for prec < precedenceOf(p.cur.Kind) {
		switch p.cur.Kind {
		case token.DOT:
			left, err = p.parseDot(left)
		case token.LBRACKET:
			left, err = p.parseIndex(left)
		case token.IS:
			left, err = p.parseIs(left)
		default:
			left, err = p.parseBinary(left)
		}
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parsePrefix() (ast.Node, error) {
	switch p.cur.Kind {
	case token.NOT, token.MINUS:
		op := p.cur.Literal
		start := p.cur.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression(PREFIX)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.NewBase(start.Cover(expr.Span())), Op: op, Expr: expr}, nil
	case token.NULL:
		sp := p.cur.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.NullLit{Base: ast.NewBase(sp)}, nil
	case token.TRUE, token.FALSE:
		sp := p.cur.Span
		v := p.cur.Kind == token.TRUE
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.BoolLit{Base: ast.NewBase(sp), Value: v}, nil
	case token.INT:
		return p.parseIntLit()
	case token.FLOAT:
		return p.parseFloatLit()
	case token.STRING:
		return p.parseStringLit()
	case token.IDENT, token.BACKTICK:
		return p.parseIdentOrLambda()
	case token.LPAREN:
		return p.parseGroupedOrLambda()
	case token.LBRACKET:
		return p.parseArrayLit()
	case token.LBRACE:
		return p.parseObjectLit()
	case token.IF:
		return p.parseIf()
	default:
		return nil, p.unexpected("expression")
	}
}

func (p *Parser) parseBinary(left ast.Node) (ast.Node, error) {
	op := p.cur.Literal
	opSpan := p.cur.Span
	prec := precedenceOf(p.cur.Kind)
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{
		Base:   ast.NewBase(left.Span().Cover(right.Span())),
		Op:     op,
		OpSpan: opSpan,
		Lhs:    left,
		Rhs:    right,
	}, nil
}

func (p *Parser) parseIs(left ast.Node) (ast.Node, error) {
	if err := p.advance(); err != nil { // consume `is`
		return nil, err
	}
	if p.cur.Kind != token.STRING {
		return nil, p.unexpected("type name string")
	}
	typeName := p.cur.Literal
	end := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.IsType{Base: ast.NewBase(left.Span().Cover(end)), Expr: left, TypeName: typeName}, nil
}

// parseDot handles both `.field` selector steps and `.name(args)` method
// call sugar, which is desugared directly into a Call node here since the
// AST has no separate method-call variant.
func (p *Parser) parseDot(left ast.Node) (ast.Node, error) {
	if err := p.advance(); err != nil { // consume `.`
		return nil, err
	}
	if p.cur.Kind != token.IDENT {
		return nil, p.unexpected("field name")
	}
	name := p.cur.Literal
	nameSpan := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind == token.LPAREN {
		args, endSpan, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		allArgs := append([]ast.Node{left}, args...)
		return &ast.Call{
			Base:       ast.NewBase(left.Span().Cover(endSpan)),
			Callee:     name,
			CalleeSpan: nameSpan,
			Args:       allArgs,
		}, nil
	}
	step := ast.SelectorStep{IsField: true, Field: name, StepSpan: nameSpan}
	return appendSelectorStep(left, step), nil
}

func (p *Parser) parseIndex(left ast.Node) (ast.Node, error) {
	if err := p.advance(); err != nil { // consume `[`
		return nil, err
	}
	idx, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	end := p.cur.Span
	if err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	step := ast.SelectorStep{Index: idx, StepSpan: idx.Span().Cover(end)}
	return appendSelectorStep(left, step), nil
}

func appendSelectorStep(base ast.Node, step ast.SelectorStep) ast.Node {
	if sel, ok := base.(*ast.Selector); ok {
		sel.Steps = append(sel.Steps, step)
		sel.SpanV = sel.SpanV.Cover(step.Span())
		return sel
	}
	return &ast.Selector{
		Base:     ast.NewBase(base.Span().Cover(step.Span())),
		BaseExpr: base,
		Steps:    []ast.SelectorStep{step},
	}
}

func (p *Parser) parseArgList() ([]ast.Node, span.Span, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, span.Span{}, err
	}
	var args []ast.Node
	for p.cur.Kind != token.RPAREN {
		arg, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, span.Span{}, err
		}
		args = append(args, arg)
		if p.cur.Kind == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, span.Span{}, err
			}
			continue
		}
		break
	}
	end := p.cur.Span
	if err := p.expect(token.RPAREN); err != nil {
		return nil, span.Span{}, err
	}
	return args, end, nil
}

func (p *Parser) parseIntLit() (ast.Node, error) {
	lit := p.cur.Literal
	sp := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	v, err := parseInt64(lit)
	if err != nil {
		return nil, kerrors.NewAt(kerrors.ParseError, sp, "invalid integer literal %q", lit)
	}
	return &ast.IntLit{Base: ast.NewBase(sp), Value: v}, nil
}

func (p *Parser) parseFloatLit() (ast.Node, error) {
	lit := p.cur.Literal
	sp := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	v, err := parseFloat64(lit)
	if err != nil {
		return nil, kerrors.NewAt(kerrors.ParseError, sp, "invalid float literal %q", lit)
	}
	return &ast.FloatLit{Base: ast.NewBase(sp), Value: v}, nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	start := p.cur.Span
	if err := p.advance(); err != nil { // consume `if`
		return nil, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.COMMA); err != nil {
		return nil, err
	}
	then, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	var elseExpr ast.Node
	if p.cur.Kind == token.COMMA {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseExpr, err = p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
	}
	end := p.cur.Span
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.If{Base: ast.NewBase(start.Cover(end)), Cond: cond, Then: then, Else: elseExpr}, nil
}
