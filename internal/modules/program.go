package modules

import (
	"strings"

	"github.com/funvibe/tuplecheck/internal/ast"
	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/parser"
	"github.com/funvibe/tuplecheck/internal/token"
)

// programDoc is the on-disk form of a program: statements whose
// expressions and annotations are written as source strings.
//
//	file: example.py
//	statements:
//	  - assign: X
//	    value: NamedTuple("X", [("a", int), ("b", str)])
//	  - class: Sub
//	    bases: [NamedTuple]
//	    fields:
//	      - {name: a, type: int}
//	      - {name: b, type: str, default: '"x"'}
//	  - def: {name: take_x, params: [{name: x, type: X}], returns: X}
//	  - expr: X(1, "hello")
type programDoc struct {
	File       string         `yaml:"file"`
	Statements []statementDoc `yaml:"statements"`
}

type statementDoc struct {
	Line int `yaml:"line"` // defaults to the statement's 1-based index

	Assign string `yaml:"assign"`
	Value  string `yaml:"value"`

	Expr string `yaml:"expr"`

	Class   string        `yaml:"class"`
	Bases   []string      `yaml:"bases"`
	Fields  []fieldDoc    `yaml:"fields"`
	Methods []functionDoc `yaml:"methods"`

	Def *functionDoc `yaml:"def"`
}

type fieldDoc struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Default *string `yaml:"default"`
	Line    int     `yaml:"line"`
}

type functionDoc struct {
	Name       string     `yaml:"name"`
	Params     []paramDoc `yaml:"params"`
	Returns    string     `yaml:"returns"`
	Decorators []string   `yaml:"decorators"`
	Line       int        `yaml:"line"`
}

// paramDoc names starting with * or ** declare variadic parameters.
type paramDoc struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Default *string `yaml:"default"`
}

// builder turns a programDoc into an ast.Program, collecting syntax errors.
type builder struct {
	errors []*diagnostics.DiagnosticError
}

func (b *builder) program(doc *programDoc, path string) *ast.Program {
	file := doc.File
	if file == "" {
		file = path
	}
	program := &ast.Program{File: file}
	for i, sd := range doc.Statements {
		line := sd.Line
		if line == 0 {
			line = i + 1
		}
		if stmt := b.statement(sd, line); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}
	return program
}

func (b *builder) statement(sd statementDoc, line int) ast.Statement {
	kinds := 0
	for _, set := range []bool{sd.Assign != "", sd.Expr != "", sd.Class != "", sd.Def != nil} {
		if set {
			kinds++
		}
	}
	tok := token.At(line, 1)
	if kinds != 1 {
		b.errorf(tok, "statement must have exactly one of assign, expr, class or def")
		return nil
	}

	switch {
	case sd.Assign != "":
		value := b.expr(sd.Value, line, "assignment value")
		if value == nil {
			return nil
		}
		return &ast.AssignStatement{Token: tok, Name: ident(sd.Assign, line), Value: value}
	case sd.Expr != "":
		expr := b.expr(sd.Expr, line, "expression")
		if expr == nil {
			return nil
		}
		return &ast.ExpressionStatement{Token: tok, Expression: expr}
	case sd.Class != "":
		return b.class(sd, tok)
	default:
		return b.function(*sd.Def, line)
	}
}

func (b *builder) class(sd statementDoc, tok token.Token) *ast.ClassStatement {
	cs := &ast.ClassStatement{Token: tok, Name: ident(sd.Class, tok.Line)}
	for _, base := range sd.Bases {
		if e := b.expr(base, tok.Line, "base class"); e != nil {
			cs.Bases = append(cs.Bases, e)
		}
	}
	for i, fd := range sd.Fields {
		line := fd.Line
		if line == 0 {
			line = tok.Line + i + 1
		}
		field := &ast.ClassField{Token: token.At(line, 5), Name: ident(fd.Name, line)}
		if fd.Type != "" {
			field.Annotation = b.exprOrPlaceholder(fd.Type, line, "annotation")
		}
		if fd.Default != nil {
			field.Default = b.exprOrPlaceholder(*fd.Default, line, "default")
		}
		cs.Fields = append(cs.Fields, field)
	}
	for i, md := range sd.Methods {
		line := md.Line
		if line == 0 {
			line = tok.Line + len(sd.Fields) + i + 1
		}
		cs.Methods = append(cs.Methods, b.function(md, line))
	}
	return cs
}

func (b *builder) function(fd functionDoc, line int) *ast.FunctionStatement {
	if fd.Line != 0 {
		line = fd.Line
	}
	fs := &ast.FunctionStatement{
		Token:      token.At(line, 1),
		Name:       ident(fd.Name, line),
		Decorators: fd.Decorators,
	}
	for _, pd := range fd.Params {
		param := &ast.Parameter{Token: token.At(line, 1)}
		name := pd.Name
		switch {
		case strings.HasPrefix(name, "**"):
			param.Kind = ast.DoubleStarParameter
			name = name[2:]
		case strings.HasPrefix(name, "*"):
			param.Kind = ast.StarParameter
			name = name[1:]
		}
		param.Name = ident(name, line)
		if pd.Type != "" {
			param.Annotation = b.expr(pd.Type, line, "annotation")
		}
		if pd.Default != nil {
			param.Default = b.exprOrPlaceholder(*pd.Default, line, "default")
		}
		fs.Parameters = append(fs.Parameters, param)
	}
	if fd.Returns != "" {
		fs.ReturnType = b.expr(fd.Returns, line, "return annotation")
	}
	return fs
}

func (b *builder) expr(src string, line int, what string) ast.Expression {
	if strings.TrimSpace(src) == "" {
		b.errorf(token.At(line, 1), "missing %s", what)
		return nil
	}
	e, errs := parser.ParseExpression(src, line)
	b.errors = append(b.errors, errs...)
	if len(errs) > 0 {
		return nil
	}
	return e
}

// exprOrPlaceholder parses src like expr but returns `...` when it fails, so
// an unparseable annotation or default still declares its field or
// parameter. `...` reads as Any.
func (b *builder) exprOrPlaceholder(src string, line int, what string) ast.Expression {
	if e := b.expr(src, line, what); e != nil {
		return e
	}
	tok := token.At(line, 1)
	tok.Type = token.ELLIPSIS
	tok.Lexeme = "..."
	return &ast.EllipsisLiteral{Token: tok}
}

func (b *builder) errorf(tok token.Token, format string, args ...interface{}) {
	b.errors = append(b.errors, diagnostics.NewErrorf(diagnostics.ErrSyntax, tok, format, args...))
}

func ident(name string, line int) *ast.Identifier {
	tok := token.At(line, 1)
	tok.Type = token.IDENT
	tok.Lexeme = name
	return &ast.Identifier{Token: tok, Value: name}
}
