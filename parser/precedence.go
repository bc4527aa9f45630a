package parser

import "github.com/kuiper-lang/kuiper/token"

// Precedence order for binary operators, lowest to highest.
const (
	_ int = iota
	LOWEST
	LOGIC_OR  // ||
	LOGIC_AND // &&
	EQUALS    // == !=
	COMPARE   // < <= > >=
	SUM       // + -
	PRODUCT   // * / %
	IS        // is
	PREFIX    // ! -x
	POSTFIX   // .name .name(args) [expr] (args)
)

var precedences = map[token.Kind]int{
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.EQ:       EQUALS,
	token.NEQ:      EQUALS,
	token.LT:       COMPARE,
	token.LE:       COMPARE,
	token.GT:       COMPARE,
	token.GE:       COMPARE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.STAR:     PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.IS:       IS,
	token.DOT:      POSTFIX,
	token.LBRACKET: POSTFIX,
	token.LPAREN:   POSTFIX,
}

func precedenceOf(k token.Kind) int {
	if p, ok := precedences[k]; ok {
		return p
	}
	return LOWEST
}
