package parser

import (
	"github.com/rafiyamo/pyraf/ast"
	"github.com/rafiyamo/pyraf/lexer"
	"github.com/rafiyamo/pyraf/object"
)

// parseExpression is the Pratt loop: parse a prefix expression, then keep
// absorbing infix operators whose binding power is strictly greater than
// minBP, left-associating by passing the same BP back into the recursive
// parse of each operator's right-hand side.
func (p *Parser) parseExpression(minBP int) (ast.Expr, *object.Error) {
	prefix, ok := p.prefixFns[p.cur.Type]
	if !ok {
		return nil, p.errorAt(p.cur, "unexpected token %s in expression", p.cur.Type)
	}
	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for p.peek.Type != lexer.SEMI && minBP < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peek.Type]
		if !ok {
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func binaryOpFor(tt lexer.TokenType) ast.BinaryOp {
	switch tt {
	case lexer.PLUS:
		return ast.OpAdd
	case lexer.MINUS:
		return ast.OpSub
	case lexer.STAR:
		return ast.OpMul
	case lexer.SLASH:
		return ast.OpDiv
	case lexer.PCT:
		return ast.OpMod
	case lexer.EQ:
		return ast.OpEq
	case lexer.NEQ:
		return ast.OpNeq
	case lexer.LT:
		return ast.OpLt
	case lexer.LTE:
		return ast.OpLte
	case lexer.GT:
		return ast.OpGt
	case lexer.GTE:
		return ast.OpGte
	case lexer.KW_AND:
		return ast.OpAnd
	case lexer.KW_OR:
		return ast.OpOr
	default:
		return ""
	}
}

func (p *Parser) parseBinary(left ast.Expr) (ast.Expr, *object.Error) {
	tok := p.cur
	op := binaryOpFor(tok.Type)
	bp := infixBindingPower[tok.Type]
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseExpression(bp)
	if err != nil {
		return nil, err
	}
	return ast.NewBinary(p.span(tok), op, left, right), nil
}

// parseUnaryMinus and parseUnaryNot use different recursive binding
// powers: unary minus binds tighter than every infix operator except
// call/index, while `not` binds looser than comparisons but tighter than
// `and`/`or`, matching the operator table.
func (p *Parser) parseUnaryMinus() (ast.Expr, *object.Error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.parseExpression(PREFIX)
	if err != nil {
		return nil, err
	}
	return ast.NewUnary(p.span(tok), ast.OpNeg, operand), nil
}

func (p *Parser) parseUnaryNot() (ast.Expr, *object.Error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.parseExpression(NOT)
	if err != nil {
		return nil, err
	}
	return ast.NewUnary(p.span(tok), ast.OpNot, operand), nil
}

func (p *Parser) parseGroup() (ast.Expr, *object.Error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseListLit() (ast.Expr, *object.Error) {
	span := p.span(p.cur)
	var elems []ast.Expr
	if p.peek.Type == lexer.RBRACKET {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewListLit(span, elems), nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for {
		e, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.peek.Type != lexer.COMMA {
			break
		}
		if err := p.advance(); err != nil { // consume ','
			return nil, err
		}
		if err := p.advance(); err != nil { // move to next element
			return nil, err
		}
	}
	if err := p.expectPeek(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return ast.NewListLit(span, elems), nil
}

func (p *Parser) parseCall(callee ast.Expr) (ast.Expr, *object.Error) {
	span := callee.Span()
	var args []ast.Expr
	if p.peek.Type == lexer.RPAREN {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewCall(span, callee, args), nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for {
		a, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.peek.Type != lexer.COMMA {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expectPeek(lexer.RPAREN); err != nil {
		return nil, err
	}
	return ast.NewCall(span, callee, args), nil
}

func (p *Parser) parseIndex(target ast.Expr) (ast.Expr, *object.Error) {
	span := target.Span()
	if err := p.advance(); err != nil { // move to index expression
		return nil, err
	}
	idx, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return ast.NewIndex(span, target, idx), nil
}
