package parser

import (
	"github.com/funvibe/tuplecheck/internal/ast"
	"github.com/funvibe/tuplecheck/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.errorf(p.curToken, "expression too complex: recursion depth limit exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

// parseExpressionList parses comma-separated expressions up to end. A
// trailing comma is allowed. It reports whether any comma was seen.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool, bool) {
	var list []ast.Expression
	sawComma := false

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, false, true
	}

	p.nextToken()
	for {
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil, sawComma, false
		}
		list = append(list, expr)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		sawComma = true
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(end) {
		return nil, sawComma, false
	}
	return list, sawComma, true
}
