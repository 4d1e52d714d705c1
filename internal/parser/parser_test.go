package parser

import (
	"strings"
	"testing"

	"github.com/funvibe/tuplecheck/internal/ast"
	"github.com/funvibe/tuplecheck/internal/diagnostics"
)

func parse(t *testing.T, src string) ast.Expression {
	t.Helper()
	expr, errs := ParseExpression(src, 1)
	checkParserErrors(t, errs)
	if expr == nil {
		t.Fatalf("ParseExpression(%q) returned nil", src)
	}
	return expr
}

func checkParserErrors(t *testing.T, errs []*diagnostics.DiagnosticError) {
	t.Helper()
	if len(errs) == 0 {
		return
	}
	t.Errorf("parser has %d errors", len(errs))
	for _, err := range errs {
		t.Errorf("parser error: %s", err)
	}
	t.FailNow()
}

func TestFactoryCall(t *testing.T) {
	expr := parse(t, `typing.NamedTuple("A", [("b", str), ("c", int)], birth=str)`)

	call, ok := expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expr is not *ast.CallExpression. got=%T", expr)
	}
	member, ok := call.Function.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("callee is not *ast.MemberExpression. got=%T", call.Function)
	}
	if member.Member.Value != "NamedTuple" {
		t.Errorf("member = %s", member.Member.Value)
	}
	if len(call.Arguments) != 2 {
		t.Fatalf("wrong number of arguments. got=%d", len(call.Arguments))
	}
	if s, ok := call.Arguments[0].(*ast.StringLiteral); !ok || s.Value != "A" {
		t.Errorf("first argument = %#v", call.Arguments[0])
	}
	list, ok := call.Arguments[1].(*ast.ListLiteral)
	if !ok || len(list.Elements) != 2 {
		t.Fatalf("second argument = %#v", call.Arguments[1])
	}
	pair, ok := list.Elements[0].(*ast.TupleLiteral)
	if !ok || len(pair.Elements) != 2 {
		t.Fatalf("pair = %#v", list.Elements[0])
	}
	if len(call.Keywords) != 1 || call.Keywords[0].Name != "birth" {
		t.Errorf("keywords = %#v", call.Keywords)
	}
}

func TestAnnotations(t *testing.T) {
	tests := []struct {
		input   string
		indices int
	}{
		{"Union[int, str]", 2},
		{"Optional[int]", 1},
		{"Tuple[int, ...]", 2},
		{"Callable[[Sized], int]", 2},
		{"collections.OrderedDict[str, int]", 2},
	}
	for _, tt := range tests {
		expr := parse(t, tt.input)
		idx, ok := expr.(*ast.IndexExpression)
		if !ok {
			t.Fatalf("%s: not an IndexExpression: %T", tt.input, expr)
		}
		if len(idx.Indices) != tt.indices {
			t.Errorf("%s: got %d indices, want %d", tt.input, len(idx.Indices), tt.indices)
		}
	}
}

func TestLiteralsAndGrouping(t *testing.T) {
	if lit, ok := parse(t, "-5").(*ast.IntegerLiteral); !ok || lit.Value != -5 {
		t.Errorf("-5 parsed as %#v", lit)
	}
	if _, ok := parse(t, "(1)").(*ast.IntegerLiteral); !ok {
		t.Error("(1) should be a grouped integer")
	}
	if tup, ok := parse(t, "(1,)").(*ast.TupleLiteral); !ok || len(tup.Elements) != 1 {
		t.Error("(1,) should be a one-element tuple")
	}
	if tup, ok := parse(t, "()").(*ast.TupleLiteral); !ok || len(tup.Elements) != 0 {
		t.Error("() should be an empty tuple")
	}
	if _, ok := parse(t, "None").(*ast.NoneLiteral); !ok {
		t.Error("None literal")
	}
	if _, ok := parse(t, "...").(*ast.EllipsisLiteral); !ok {
		t.Error("ellipsis literal")
	}
	if call, ok := parse(t, "y._replace(b='world')").(*ast.CallExpression); !ok || len(call.Keywords) != 1 {
		t.Error("method call with keyword")
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"f(a=1, 2)", "positional argument follows keyword argument"},
		{"f(", "unexpected end of input"},
		{"a b", `unexpected "b" after expression`},
		{"x[]", "empty subscript"},
		{"-x", "unary minus"},
		{`"abc`, "unterminated string"},
	}
	for _, tt := range tests {
		expr, errs := ParseExpression(tt.input, 4)
		if expr != nil {
			t.Errorf("%s: expected nil expression", tt.input)
		}
		if len(errs) == 0 {
			t.Errorf("%s: expected an error", tt.input)
			continue
		}
		if !strings.Contains(errs[0].Message, tt.msg) {
			t.Errorf("%s: error %q does not mention %q", tt.input, errs[0].Message, tt.msg)
		}
		if errs[0].Token.Line != 4 || errs[0].Code != diagnostics.ErrSyntax {
			t.Errorf("%s: error at line %d with code %s", tt.input, errs[0].Token.Line, errs[0].Code)
		}
	}
}
