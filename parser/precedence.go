package parser

import "github.com/rafiyamo/pyraf/lexer"

// Binding powers, lowest to tightest. Matches the operator table: or < and
// < not(prefix) < equality < relational < additive < multiplicative <
// unary-minus < call/index.
const (
	LOWEST  = 0
	OR      = 10
	AND     = 20
	NOT     = 30
	EQUALS  = 40
	COMPARE = 50
	SUM     = 60
	PRODUCT = 70
	PREFIX  = 80
	CALL    = 90
)

var infixBindingPower = map[lexer.TokenType]int{
	lexer.KW_OR:    OR,
	lexer.KW_AND:   AND,
	lexer.EQ:       EQUALS,
	lexer.NEQ:      EQUALS,
	lexer.LT:       COMPARE,
	lexer.LTE:      COMPARE,
	lexer.GT:       COMPARE,
	lexer.GTE:      COMPARE,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.STAR:     PRODUCT,
	lexer.SLASH:    PRODUCT,
	lexer.PCT:      PRODUCT,
	lexer.LPAREN:   CALL,
	lexer.LBRACKET: CALL,
}

func (p *Parser) peekPrecedence() int {
	if bp, ok := infixBindingPower[p.peek.Type]; ok {
		return bp
	}
	return LOWEST
}
