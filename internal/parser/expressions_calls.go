package parser

import (
	"github.com/funvibe/tuplecheck/internal/ast"
	"github.com/funvibe/tuplecheck/internal/token"
)

// parseCallExpression parses f(a, b, k=v). Positional arguments may not
// follow keyword arguments.
func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Function: function}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}

	p.nextToken()
	for {
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
			kw := &ast.KeywordArgument{Token: p.curToken, Name: p.curToken.Lexeme}
			p.nextToken()
			p.nextToken()
			kw.Value = p.parseExpression(LOWEST)
			if kw.Value == nil {
				return nil
			}
			call.Keywords = append(call.Keywords, kw)
		} else {
			if len(call.Keywords) > 0 {
				p.errorf(p.curToken, "positional argument follows keyword argument")
				return nil
			}
			arg := p.parseExpression(LOWEST)
			if arg == nil {
				return nil
			}
			call.Arguments = append(call.Arguments, arg)
		}

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return call
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}
	indices, _, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	if len(indices) == 0 {
		p.errorf(exp.Token, "empty subscript")
		return nil
	}
	exp.Indices = indices
	return exp
}

func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	exp := &ast.MemberExpression{Token: p.curToken, Left: left}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	exp.Member = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	return exp
}
