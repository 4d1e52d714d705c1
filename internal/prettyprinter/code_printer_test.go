package prettyprinter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/tuplecheck/internal/ast"
	"github.com/funvibe/tuplecheck/internal/parser"
	"github.com/funvibe/tuplecheck/internal/token"
)

func TestFormatExpression(t *testing.T) {
	tests := []string{
		`NamedTuple("X", [("a", int), ("b", str)])`,
		`A._make(["hello", "world"], len=len)`,
		`Union[int, str]`,
		`Callable[[Sized], int]`,
		`Tuple[int, ...]`,
		`(1,)`,
		`()`,
		`x[-1]`,
		`f(None, True, 1.5)`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			expr, errs := parser.ParseExpression(src, 1)
			require.Empty(t, errs)
			assert.Equal(t, src, FormatExpression(expr))
		})
	}
}

func TestCodePrinter_Program(t *testing.T) {
	parse := func(src string) ast.Expression {
		expr, errs := parser.ParseExpression(src, 1)
		require.Empty(t, errs)
		return expr
	}
	ident := func(name string) *ast.Identifier { return &ast.Identifier{Value: name} }

	program := &ast.Program{Statements: []ast.Statement{
		&ast.AssignStatement{Name: ident("X"), Value: parse(`NamedTuple("X", [("a", int)])`)},
		&ast.ClassStatement{
			Name:  ident("Sub"),
			Bases: []ast.Expression{parse("NamedTuple")},
			Fields: []*ast.ClassField{
				{Name: ident("a"), Annotation: parse("int")},
				{Name: ident("b"), Annotation: parse("str"), Default: parse(`"123"`)},
			},
			Methods: []*ast.FunctionStatement{{
				Token:      token.At(4, 1),
				Name:       ident("make"),
				Decorators: []string{"classmethod"},
				Parameters: []*ast.Parameter{
					{Name: ident("cls")},
					{Name: ident("args"), Kind: ast.StarParameter},
				},
				ReturnType: parse(`"Sub"`),
			}},
		},
	}}

	p := NewCodePrinterWithWidth(100)
	program.Accept(p)
	want := `X = NamedTuple("X", [("a", int)])

class Sub(NamedTuple):
    a: int
    b: str = "123"
    @classmethod
    def make(cls, *args) -> "Sub": ...
`
	assert.Equal(t, want, p.String())
}

func TestCodePrinter_WrapsLongCalls(t *testing.T) {
	expr, errs := parser.ParseExpression(`f(aaaaaaaa, bbbbbbbb, cccccccc)`, 1)
	require.Empty(t, errs)

	p := NewCodePrinterWithWidth(20)
	expr.Accept(p)
	assert.Equal(t, "f(\n    aaaaaaaa,\n    bbbbbbbb,\n    cccccccc,\n)", p.String())
}
