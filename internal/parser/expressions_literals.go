package parser

import (
	"github.com/funvibe/tuplecheck/internal/ast"
	"github.com/funvibe/tuplecheck/internal/token"
)

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, ok := p.curToken.Literal.(int64)
	if !ok {
		p.errorf(p.curToken, "could not parse %q as integer", p.curToken.Lexeme)
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	value, ok := p.curToken.Literal.(float64)
	if !ok {
		p.errorf(p.curToken, "could not parse %q as float", p.curToken.Lexeme)
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	value, _ := p.curToken.Literal.(string)
	return &ast.StringLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNone() ast.Expression {
	return &ast.NoneLiteral{Token: p.curToken}
}

func (p *Parser) parseEllipsis() ast.Expression {
	return &ast.EllipsisLiteral{Token: p.curToken}
}

// parseNegative folds a minus sign into the following numeric literal.
func (p *Parser) parseNegative() ast.Expression {
	minus := p.curToken
	p.nextToken()
	switch operand := p.parseExpression(PREFIX).(type) {
	case *ast.IntegerLiteral:
		operand.Value = -operand.Value
		operand.Token.Lexeme = "-" + operand.Token.Lexeme
		operand.Token.Line, operand.Token.Column = minus.Line, minus.Column
		return operand
	case *ast.FloatLiteral:
		operand.Value = -operand.Value
		operand.Token.Lexeme = "-" + operand.Token.Lexeme
		operand.Token.Line, operand.Token.Column = minus.Line, minus.Column
		return operand
	case nil:
		return nil
	default:
		p.errorf(minus, "unary minus is only supported on numeric literals")
		return nil
	}
}

// parseGroupedOrTuple handles (x), (x,), (x, y) and ().
func (p *Parser) parseGroupedOrTuple() ast.Expression {
	tok := p.curToken
	elements, sawComma, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	if len(elements) == 1 && !sawComma {
		return elements[0]
	}
	return &ast.TupleLiteral{Token: tok, Elements: elements}
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.curToken
	elements, _, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	return &ast.ListLiteral{Token: tok, Elements: elements}
}
