package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuiper-lang/kuiper/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src, 0)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexArithmeticExpression(t *testing.T) {
	toks := lexAll(t, "1 + 2 * 3")
	assert.Equal(t, []token.Kind{
		token.INT, token.PLUS, token.INT, token.STAR, token.INT, token.EOF,
	}, kinds(toks))
}

func TestLexSelectorAndCall(t *testing.T) {
	toks := lexAll(t, `input.value.map(a => a)`)
	assert.Equal(t, []token.Kind{
		token.IDENT, token.DOT, token.IDENT, token.DOT, token.IDENT,
		token.LPAREN, token.IDENT, token.ARROW, token.IDENT, token.RPAREN,
		token.EOF,
	}, kinds(toks))
}

func TestLexKeywordsAndLiterals(t *testing.T) {
	toks := lexAll(t, `if(true, null, false)`)
	assert.Equal(t, []token.Kind{
		token.IF, token.LPAREN, token.TRUE, token.COMMA, token.NULL,
		token.COMMA, token.FALSE, token.RPAREN, token.EOF,
	}, kinds(toks))
}

func TestLexStringEscape(t *testing.T) {
	toks := lexAll(t, `"a\"b"`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	unescaped, err := Unescape(toks[0].Literal)
	require.NoError(t, err)
	assert.Equal(t, `a"b`, unescaped)
}

func TestLexMacroSyntax(t *testing.T) {
	// `)=>` with no intervening space fuses into a single composite token;
	// this is the case the lexer's disambiguation hack exists for.
	toks := lexAll(t, `#double := (x)=> x * 2;`)
	assert.Equal(t, []token.Kind{
		token.HASH, token.IDENT, token.ASSIGN, token.LPAREN, token.IDENT,
		token.RPAREN_ARROW, token.IDENT, token.STAR, token.INT,
		token.SEMICOLON, token.EOF,
	}, kinds(toks))
}

func TestLexArrowWithSpaceIsTwoTokens(t *testing.T) {
	// A space between `)` and `=>` defeats the composite-token fast path;
	// the lexer falls back to separate RPAREN and ARROW tokens, which the
	// parser's grouped-expression-or-lambda logic also accepts.
	toks := lexAll(t, `(x) => x`)
	assert.Equal(t, []token.Kind{
		token.LPAREN, token.IDENT, token.RPAREN, token.ARROW, token.IDENT, token.EOF,
	}, kinds(toks))
}

func TestLexSpans(t *testing.T) {
	toks := lexAll(t, "12 + 3")
	require.Len(t, toks, 4)
	assert.Equal(t, 0, toks[0].Span.Start)
	assert.Equal(t, 2, toks[0].Span.End)
	assert.Equal(t, 3, toks[1].Span.Start)
	assert.Equal(t, 4, toks[1].Span.End)
}
