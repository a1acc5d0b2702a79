package parser

import (
	"github.com/rafiyamo/pyraf/ast"
	"github.com/rafiyamo/pyraf/lexer"
	"github.com/rafiyamo/pyraf/object"
)

// parseStatement dispatches on the leading token. An identifier followed
// by '=' is an assignment; any other identifier (or literal, call, etc.)
// starts an expression statement.
func (p *Parser) parseStatement() (ast.Stmt, *object.Error) {
	switch p.cur.Type {
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.KW_IF:
		return p.parseIf()
	case lexer.KW_WHILE:
		return p.parseWhile()
	case lexer.KW_DEF:
		return p.parseFuncDecl()
	case lexer.KW_RETURN:
		return p.parseReturnStmt()
	case lexer.KW_IMPORT:
		return p.parseImportStmt()
	case lexer.IDENT:
		if p.peek.Type == lexer.ASSIGN {
			return p.parseAssign()
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() (*ast.Block, *object.Error) {
	span := p.span(p.cur)
	if err := p.advance(); err != nil { // consume '{'
		return nil, err
	}
	var stmts []ast.Stmt
	for p.cur.Type != lexer.RBRACE {
		if p.cur.Type == lexer.EOF {
			return nil, p.errorAt(p.cur, "unterminated block, expected %s", lexer.RBRACE)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return ast.NewBlock(span, stmts), nil
}

func (p *Parser) parseIf() (ast.Stmt, *object.Error) {
	span := p.span(p.cur)
	if err := p.expectPeek(lexer.LPAREN); err != nil { // 'if' -> '('
		return nil, err
	}
	if err := p.advance(); err != nil { // move past '(' to condition
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.RPAREN); err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.LBRACE); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els *ast.Block
	if p.peek.Type == lexer.KW_ELSE {
		if err := p.advance(); err != nil { // consume '}' -> 'else'
			return nil, err
		}
		if err := p.expectPeek(lexer.LBRACE); err != nil {
			return nil, err
		}
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(span, cond, then, els), nil
}

func (p *Parser) parseWhile() (ast.Stmt, *object.Error) {
	span := p.span(p.cur)
	if err := p.expectPeek(lexer.LPAREN); err != nil { // 'while' -> '('
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.RPAREN); err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(span, cond, body), nil
}

func (p *Parser) parseFuncDecl() (ast.Stmt, *object.Error) {
	span := p.span(p.cur)
	if err := p.expectPeek(lexer.IDENT); err != nil {
		return nil, err
	}
	name := p.cur.Literal
	if err := p.expectPeek(lexer.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFuncDecl(span, name, params, body), nil
}

// parseParamList parses a parenthesized, comma-separated identifier list
// with p.cur sitting on '(' and leaves p.cur on the matching ')'.
func (p *Parser) parseParamList() ([]string, *object.Error) {
	var params []string
	if p.peek.Type == lexer.RPAREN {
		return params, p.advance()
	}
	if err := p.expectPeek(lexer.IDENT); err != nil {
		return nil, err
	}
	params = append(params, p.cur.Literal)
	for p.peek.Type == lexer.COMMA {
		if err := p.advance(); err != nil { // consume ','
			return nil, err
		}
		if err := p.expectPeek(lexer.IDENT); err != nil {
			return nil, err
		}
		params = append(params, p.cur.Literal)
	}
	if err := p.expectPeek(lexer.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseReturnStmt() (ast.Stmt, *object.Error) {
	span := p.span(p.cur)
	if p.peek.Type == lexer.SEMI {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewReturn(span, nil), nil
	}
	if err := p.advance(); err != nil { // move to expression
		return nil, err
	}
	x, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.SEMI); err != nil {
		return nil, err
	}
	return ast.NewReturn(span, x), nil
}

func (p *Parser) parseImportStmt() (ast.Stmt, *object.Error) {
	span := p.span(p.cur)
	if err := p.expectPeek(lexer.STRING); err != nil {
		return nil, err
	}
	path := p.cur.Literal
	if err := p.expectPeek(lexer.SEMI); err != nil {
		return nil, err
	}
	return ast.NewImport(span, path), nil
}

func (p *Parser) parseAssign() (ast.Stmt, *object.Error) {
	span := p.span(p.cur)
	name := p.cur.Literal
	if err := p.advance(); err != nil { // consume IDENT, cur is now '='
		return nil, err
	}
	if err := p.advance(); err != nil { // move past '=' to the expression
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.SEMI); err != nil {
		return nil, err
	}
	return ast.NewAssign(span, name, value), nil
}

func (p *Parser) parseExprStmt() (ast.Stmt, *object.Error) {
	span := p.span(p.cur)
	x, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.SEMI); err != nil {
		return nil, err
	}
	return ast.NewExprStmt(span, x), nil
}
