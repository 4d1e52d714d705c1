package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/tuplecheck/internal/ast"
	"github.com/funvibe/tuplecheck/internal/diagnostics"
)

const sample = `
file: sample.py
statements:
  - assign: X
    value: NamedTuple("X", [("a", int), ("b", str)])
  - class: Y
    bases: [X]
    fields:
      - {name: c, type: int, default: "0"}
    methods:
      - name: make
        decorators: [classmethod]
        params:
          - {name: cls}
          - {name: "*args", type: int}
          - {name: "**kwargs", type: str}
        returns: Y
  - def: {name: take, params: [{name: y, type: Y}]}
    line: 20
  - expr: take(Y(1, "s"))
`

func TestParse(t *testing.T) {
	mod, err := NewLoader().Parse([]byte(sample), "dir/sample.yaml")
	require.NoError(t, err)
	require.Empty(t, mod.Errors)

	assert.Equal(t, "sample", mod.Name)
	assert.Equal(t, "sample.py", mod.Program.File)
	require.Len(t, mod.Program.Statements, 4)

	assign, ok := mod.Program.Statements[0].(*ast.AssignStatement)
	require.True(t, ok)
	assert.Equal(t, "X", assign.Name.Value)
	_, ok = assign.Value.(*ast.CallExpression)
	assert.True(t, ok)

	class, ok := mod.Program.Statements[1].(*ast.ClassStatement)
	require.True(t, ok)
	assert.Equal(t, 2, class.Token.Line)
	require.Len(t, class.Fields, 1)
	assert.Equal(t, 3, class.Fields[0].Token.Line)
	assert.NotNil(t, class.Fields[0].Default)
	require.Len(t, class.Methods, 1)
	m := class.Methods[0]
	assert.True(t, m.HasDecorator("classmethod"))
	require.Len(t, m.Parameters, 3)
	assert.Equal(t, ast.StarParameter, m.Parameters[1].Kind)
	assert.Equal(t, "args", m.Parameters[1].Name.Value)
	assert.Equal(t, ast.DoubleStarParameter, m.Parameters[2].Kind)
	assert.Equal(t, "kwargs", m.Parameters[2].Name.Value)

	def, ok := mod.Program.Statements[2].(*ast.FunctionStatement)
	require.True(t, ok)
	assert.Equal(t, 20, def.Token.Line)
	assert.Nil(t, def.ReturnType)

	_, ok = mod.Program.Statements[3].(*ast.ExpressionStatement)
	assert.True(t, ok)
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unbalanced call", "statements:\n  - expr: 'X(1, '\n"},
		{"two kinds", "statements:\n  - {assign: x, value: '1', expr: '2'}\n"},
		{"no kind", "statements:\n  - {line: 3}\n"},
		{"missing value", "statements:\n  - assign: x\n"},
		{"bad annotation", "statements:\n  - def: {name: f, params: [{name: a, type: 'List['}]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, err := NewLoader().Parse([]byte(tt.src), "bad.yaml")
			require.NoError(t, err)
			require.NotEmpty(t, mod.Errors)
			for _, e := range mod.Errors {
				assert.Equal(t, diagnostics.ErrSyntax, e.Code)
			}
		})
	}
}

func TestParse_UnparseableFieldIsKept(t *testing.T) {
	mod, err := NewLoader().Parse([]byte(`
statements:
  - class: R
    fields:
      - {name: a, type: int}
      - {name: b, type: "List[int"}
      - {name: c, type: int, default: "(1"}
`), "r.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, mod.Errors)

	require.Len(t, mod.Program.Statements, 1)
	class, ok := mod.Program.Statements[0].(*ast.ClassStatement)
	require.True(t, ok)
	require.Len(t, class.Fields, 3)
	_, ok = class.Fields[1].Annotation.(*ast.EllipsisLiteral)
	assert.True(t, ok, "unparseable annotation should become ...")
	_, ok = class.Fields[2].Default.(*ast.EllipsisLiteral)
	assert.True(t, ok, "unparseable default should become ...")
	_, ok = class.Fields[2].Annotation.(*ast.Identifier)
	assert.True(t, ok)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := NewLoader().Parse([]byte("statements:\n  - assgn: x\n"), "typo.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typo.yaml")
}

func TestParse_Empty(t *testing.T) {
	mod, err := NewLoader().Parse(nil, "empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, mod.Program.Statements)
	assert.Equal(t, "empty.yaml", mod.Program.File)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	l := NewLoader()
	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = l.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	txt := filepath.Join(dir, "prog.txt")
	require.NoError(t, os.WriteFile(txt, []byte(sample), 0o644))
	_, err = l.Load(txt)
	assert.ErrorContains(t, err, "not a program file")
}

func TestIsProgramFile(t *testing.T) {
	assert.True(t, IsProgramFile("a.yaml"))
	assert.True(t, IsProgramFile("a.yml"))
	assert.False(t, IsProgramFile("a.py"))
}
