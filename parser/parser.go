// Package parser implements a Pratt (top-down operator-precedence) parser
// that turns a PyRaf token stream into an ast.Stmt sequence. Statement
// grammar is plain recursive descent dispatched on the leading token;
// expression grammar is a table of prefix/infix functions keyed by token
// type, each paired with a binding power (see precedence.go).
package parser

import (
	"strconv"

	"github.com/rafiyamo/pyraf/ast"
	"github.com/rafiyamo/pyraf/lexer"
	"github.com/rafiyamo/pyraf/object"
)

type prefixFn func() (ast.Expr, *object.Error)
type infixFn func(left ast.Expr) (ast.Expr, *object.Error)

// Parser holds a two-token lookahead window (cur, peek) over the lexer's
// token stream plus the Pratt rule tables. The first ParseError halts
// parsing; there is no error recovery.
type Parser struct {
	lex *lexer.Lexer

	cur  lexer.Token
	peek lexer.Token

	prefixFns map[lexer.TokenType]prefixFn
	infixFns  map[lexer.TokenType]infixFn
}

// New creates a Parser over src, priming the two-token lookahead.
func New(src string) (*Parser, *object.Error) {
	p := &Parser{
		lex:       lexer.NewLexer(src),
		prefixFns: make(map[lexer.TokenType]prefixFn),
		infixFns:  make(map[lexer.TokenType]infixFn),
	}
	p.registerRules()
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) registerRules() {
	p.prefixFns[lexer.NUMBER] = p.parseNumber
	p.prefixFns[lexer.STRING] = p.parseString
	p.prefixFns[lexer.KW_TRUE] = p.parseBool
	p.prefixFns[lexer.KW_FALSE] = p.parseBool
	p.prefixFns[lexer.KW_NIL] = p.parseNilLit
	p.prefixFns[lexer.IDENT] = p.parseIdentExpr
	p.prefixFns[lexer.LPAREN] = p.parseGroup
	p.prefixFns[lexer.LBRACKET] = p.parseListLit
	p.prefixFns[lexer.MINUS] = p.parseUnaryMinus
	p.prefixFns[lexer.KW_NOT] = p.parseUnaryNot

	for _, tt := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PCT,
		lexer.EQ, lexer.NEQ, lexer.LT, lexer.LTE, lexer.GT, lexer.GTE,
		lexer.KW_AND, lexer.KW_OR,
	} {
		p.infixFns[tt] = p.parseBinary
	}
	p.infixFns[lexer.LPAREN] = p.parseCall
	p.infixFns[lexer.LBRACKET] = p.parseIndex
}

// ParseProgram parses the whole token stream into a top-level statement
// sequence, stopping at EOF or the first error.
func (p *Parser) ParseProgram() ([]ast.Stmt, *object.Error) {
	var stmts []ast.Stmt
	for p.cur.Type != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return stmts, nil
}

func (p *Parser) advance() *object.Error {
	p.cur = p.peek
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

// expectPeek checks that peek has type tt, then advances so it becomes
// cur. Used for every "consume this exact token or fail" step.
func (p *Parser) expectPeek(tt lexer.TokenType) *object.Error {
	if p.peek.Type != tt {
		return p.errorAt(p.peek, "expected %s, got %s", tt, p.peek.Type)
	}
	return p.advance()
}

func (p *Parser) errorAt(tok lexer.Token, format string, args ...interface{}) *object.Error {
	return object.NewError(object.ParseError, object.Span{Line: tok.Line, Column: tok.Column}, format, args...)
}

func (p *Parser) span(tok lexer.Token) ast.Span {
	return ast.Span{Line: tok.Line, Column: tok.Column}
}

func (p *Parser) parseNumber() (ast.Expr, *object.Error) {
	tok := p.cur
	val, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return nil, p.errorAt(tok, "invalid number literal %q", tok.Literal)
	}
	return ast.NewNumberLit(p.span(tok), val, tok.Literal), nil
}

func (p *Parser) parseString() (ast.Expr, *object.Error) {
	return ast.NewStringLit(p.span(p.cur), p.cur.Literal), nil
}

func (p *Parser) parseBool() (ast.Expr, *object.Error) {
	return ast.NewBoolLit(p.span(p.cur), p.cur.Type == lexer.KW_TRUE), nil
}

func (p *Parser) parseNilLit() (ast.Expr, *object.Error) {
	return ast.NewNilLit(p.span(p.cur)), nil
}

func (p *Parser) parseIdentExpr() (ast.Expr, *object.Error) {
	return ast.NewIdent(p.span(p.cur), p.cur.Literal), nil
}
