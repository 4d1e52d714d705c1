package ast

import (
	"github.com/funvibe/tuplecheck/internal/token"
)

// ListLiteral represents [a, b, c]
type ListLiteral struct {
	Token    token.Token // The '[' token
	Elements []Expression
}

func (ll *ListLiteral) Accept(v Visitor)      { v.VisitListLiteral(ll) }
func (ll *ListLiteral) expressionNode()       {}
func (ll *ListLiteral) TokenLiteral() string  { return ll.Token.Lexeme }
func (ll *ListLiteral) GetToken() token.Token { return ll.Token }

// TupleLiteral represents (a, b) and ().
type TupleLiteral struct {
	Token    token.Token // The '(' token
	Elements []Expression
}

func (tl *TupleLiteral) Accept(v Visitor)      { v.VisitTupleLiteral(tl) }
func (tl *TupleLiteral) expressionNode()       {}
func (tl *TupleLiteral) TokenLiteral() string  { return tl.Token.Lexeme }
func (tl *TupleLiteral) GetToken() token.Token { return tl.Token }

// IndexExpression represents subscription, e.g. x[0] or Union[int, str].
// Indices holds one element per comma-separated subscript.
type IndexExpression struct {
	Token   token.Token // The '[' token
	Left    Expression
	Indices []Expression
}

func (ie *IndexExpression) Accept(v Visitor)      { v.VisitIndexExpression(ie) }
func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }

// MemberExpression represents dot access, e.g. obj.field or typing.NamedTuple
type MemberExpression struct {
	Token  token.Token // The '.' token
	Left   Expression
	Member *Identifier
}

func (me *MemberExpression) Accept(v Visitor)      { v.VisitMemberExpression(me) }
func (me *MemberExpression) expressionNode()       {}
func (me *MemberExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MemberExpression) GetToken() token.Token { return me.Token }

// KeywordArgument is name=value inside a call.
type KeywordArgument struct {
	Token token.Token // The name token
	Name  string
	Value Expression
}

func (ka *KeywordArgument) Accept(v Visitor)      { v.VisitKeywordArgument(ka) }
func (ka *KeywordArgument) expressionNode()       {}
func (ka *KeywordArgument) TokenLiteral() string  { return ka.Token.Lexeme }
func (ka *KeywordArgument) GetToken() token.Token { return ka.Token }

// CallExpression represents f(a, b, k=v). Keywords keep source order.
type CallExpression struct {
	Token     token.Token // The '(' token
	Function  Expression
	Arguments []Expression
	Keywords  []*KeywordArgument
}

func (ce *CallExpression) Accept(v Visitor)      { v.VisitCallExpression(ce) }
func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }
