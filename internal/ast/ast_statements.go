package ast

import (
	"github.com/funvibe/tuplecheck/internal/token"
)

// AssignStatement represents `name = value`.
type AssignStatement struct {
	Token token.Token // The statement position
	Name  *Identifier
	Value Expression
}

func (as *AssignStatement) Accept(v Visitor)      { v.VisitAssignStatement(as) }
func (as *AssignStatement) statementNode()        {}
func (as *AssignStatement) TokenLiteral() string  { return as.Token.Lexeme }
func (as *AssignStatement) GetToken() token.Token { return as.Token }

// ExpressionStatement is a bare expression evaluated for its effects.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

type ParameterKind int

const (
	PlainParameter      ParameterKind = iota // name
	StarParameter                            // *args
	DoubleStarParameter                      // **kwargs
)

// Parameter is one parameter of a def.
type Parameter struct {
	Token      token.Token
	Name       *Identifier
	Annotation Expression // nil when unannotated
	Default    Expression // nil when required
	Kind       ParameterKind
}

// FunctionStatement is a def. Bodies are not analysed; only the signature is.
type FunctionStatement struct {
	Token      token.Token
	Name       *Identifier
	Parameters []*Parameter
	ReturnType Expression // nil when unannotated
	Decorators []string
}

func (fs *FunctionStatement) Accept(v Visitor)      { v.VisitFunctionStatement(fs) }
func (fs *FunctionStatement) statementNode()        {}
func (fs *FunctionStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *FunctionStatement) GetToken() token.Token { return fs.Token }

// HasDecorator reports whether the def carries @name.
func (fs *FunctionStatement) HasDecorator(name string) bool {
	for _, d := range fs.Decorators {
		if d == name {
			return true
		}
	}
	return false
}

// ClassField is a class-level `name: T = default` or `name = default`.
type ClassField struct {
	Token      token.Token
	Name       *Identifier
	Annotation Expression // nil for plain class attributes
	Default    Expression // nil when absent
}

// ClassStatement is a class declaration. Fields and methods keep declaration order.
type ClassStatement struct {
	Token   token.Token
	Name    *Identifier
	Bases   []Expression
	Fields  []*ClassField
	Methods []*FunctionStatement
}

func (cs *ClassStatement) Accept(v Visitor)      { v.VisitClassStatement(cs) }
func (cs *ClassStatement) statementNode()        {}
func (cs *ClassStatement) TokenLiteral() string  { return cs.Token.Lexeme }
func (cs *ClassStatement) GetToken() token.Token { return cs.Token }
