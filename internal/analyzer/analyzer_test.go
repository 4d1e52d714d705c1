package analyzer

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/modules"
	"github.com/funvibe/tuplecheck/internal/records"
	"github.com/funvibe/tuplecheck/internal/symbols"
)

type analysis struct {
	table    *symbols.SymbolTable
	registry *records.Registry
	sink     *diagnostics.Sink
}

// typeOf returns the printed type of a global.
func (a *analysis) typeOf(t *testing.T, name string) string {
	t.Helper()
	sym, ok := a.table.Find(name)
	require.True(t, ok, "%s is not defined", name)
	return sym.Type.String()
}

func (a *analysis) codes() []diagnostics.ErrorCode {
	var out []diagnostics.ErrorCode
	for _, d := range a.sink.Errors() {
		out = append(out, d.Code)
	}
	return out
}

func analyzeSource(t *testing.T, src string, strict bool) *analysis {
	t.Helper()
	mod, err := modules.NewLoader().Parse([]byte(src), "test.yaml")
	require.NoError(t, err)
	require.Empty(t, mod.Errors)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	table := symbols.NewSymbolTable()
	table.SetStrictMode(strict)
	a := &analysis{
		table:    table,
		registry: records.NewRegistry(table, logger),
		sink:     diagnostics.NewSink("test.py"),
	}
	require.NoError(t, NewSession(a.table, a.registry, a.sink, logger).Analyze(mod.Program))
	return a
}

func analyze(t *testing.T, src string) *analysis {
	t.Helper()
	return analyzeSource(t, src, false)
}

const xProgram = `
statements:
  - assign: X
    value: NamedTuple("X", [("a", int), ("b", str)])
`

func TestFactoryScenario(t *testing.T) {
	a := analyze(t, xProgram+`
  - assign: ok
    value: X(1, "hello")
  - assign: bad
    value: X(1, 2)
  - assign: made
    value: X._make(X)
`)
	assert.Equal(t, "X", a.typeOf(t, "ok"))
	assert.Equal(t, "Any", a.typeOf(t, "bad"))
	assert.Equal(t, "Any", a.typeOf(t, "made"))

	errs := a.sink.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, diagnostics.ErrWrongArgTypes, errs[0].Code)
	assert.Equal(t, "Invalid argument type for parameter 'b' of function X.__new__: expected str, got int", errs[0].Message)
	assert.Equal(t, 3, errs[0].Token.Line)
	assert.Equal(t, "test.py", errs[0].File)
	assert.Equal(t, diagnostics.ErrWrongArgTypes, errs[1].Code)
	assert.Contains(t, errs[1].Message, "parameter 'iterable' of function X._make")
}

func TestMake(t *testing.T) {
	a := analyze(t, `
statements:
  - assign: A
    value: NamedTuple("A", [("b", str), ("c", str)])
  - assign: a
    value: A._make(["hello", "world"])
  - assign: b
    value: A._make(["hello", "world"], len=len)
  - assign: c
    value: A._make([1, 2])
  - assign: d
    value: A._make(("hello", "world"))
`)
	assert.Equal(t, "A", a.typeOf(t, "a"))
	assert.Equal(t, "A", a.typeOf(t, "b"))
	assert.Equal(t, "Any", a.typeOf(t, "c"))
	assert.Equal(t, "A", a.typeOf(t, "d"))
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrWrongArgTypes}, a.codes())
	assert.Equal(t, 4, a.sink.Errors()[0].Token.Line)
}

const subclassProgram = `
statements:
  - assign: A
    value: NamedTuple("A", [("b", str), ("c", int)])
  - class: B
    bases: [A]
    methods:
      - name: __new__
        params:
          - {name: cls}
          - {name: b, type: str}
          - {name: c, type: int, default: "1"}
  - def:
      name: take_b
      params: [{name: b, type: B}]
      returns: B
`

func TestSubclass(t *testing.T) {
	a := analyze(t, subclassProgram+`
  - assign: x
    value: B("hello")
  - assign: y
    value: take_b(x)
  - expr: take_b(A("", 0))
  - expr: B()
  - assign: made
    value: x._make(["hello", 2])
  - assign: replaced
    value: x._replace(c=3)
  - assign: fromClass
    value: B._make(["hello", 2])
  - assign: base
    value: A._make(["hello", 2])
`)
	assert.Equal(t, "B", a.typeOf(t, "x"))
	assert.Equal(t, "B", a.typeOf(t, "y"))
	assert.Equal(t, "B", a.typeOf(t, "made"))
	assert.Equal(t, "B", a.typeOf(t, "replaced"))
	assert.Equal(t, "B", a.typeOf(t, "fromClass"))
	assert.Equal(t, "A", a.typeOf(t, "base"))

	errs := a.sink.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, diagnostics.ErrWrongArgTypes, errs[0].Code)
	assert.Equal(t, "Invalid argument type for parameter 'b' of function take_b: expected B, got A", errs[0].Message)
	assert.Equal(t, diagnostics.ErrMissingParameter, errs[1].Code)
	assert.Regexp(t, `Missing.*'b'.*__new__`, errs[1].Message)
}

func TestSubclassWithoutConstructorKeepsBaseArity(t *testing.T) {
	a := analyze(t, `
statements:
  - assign: X
    value: NamedTuple("X", [("a", int), ("b", str)])
  - class: Y
    bases: [X]
  - expr: Y(1)
  - assign: y
    value: Y(1, "s")
`)
	assert.Equal(t, "Y", a.typeOf(t, "y"))
	require.Len(t, a.sink.Errors(), 1)
	assert.Equal(t, "Missing parameter 'b' in call to function Y.__new__", a.sink.Errors()[0].Message)
}

func TestClassBodyDefaults(t *testing.T) {
	a := analyze(t, `
statements:
  - class: X
    bases: [NamedTuple]
    fields:
      - {name: a, type: int}
      - {name: b, type: str, default: '"hello"'}
      - {name: c, type: int, default: "3"}
  - expr: X(1)
  - expr: X(1, "a")
  - expr: X(1, "a", 2)
  - expr: X(1, c=2)
  - expr: X()
  - expr: X(1, "a", 2, 3)
`)
	errs := a.sink.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, diagnostics.ErrMissingParameter, errs[0].Code)
	assert.Contains(t, errs[0].Message, "'a'")
	assert.Equal(t, diagnostics.ErrWrongArgCount, errs[1].Code)
	assert.Equal(t, "Function X.__new__ expects 3 positional arguments, got 4", errs[1].Message)
}

func TestQualifiedFactory(t *testing.T) {
	a := analyze(t, `
statements:
  - assign: X
    value: typing.NamedTuple("X", a=int, b=str)
  - class: Y
    bases: [typing.NamedTuple]
    fields:
      - {name: a, type: int}
  - assign: x
    value: X(a=1, b="s")
  - assign: y
    value: Y(2)
`)
	assert.Empty(t, a.sink.Errors())
	assert.Equal(t, "X", a.typeOf(t, "x"))
	assert.Equal(t, "Y", a.typeOf(t, "y"))
}

func TestFactoryFormConflict(t *testing.T) {
	a := analyze(t, `
statements:
  - assign: X
    value: NamedTuple("X", [("a", int)], b=str, c=str)
  - assign: x
    value: X(1)
`)
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrRecordFactoryArg, diagnostics.ErrWrongKeywordArgs}, a.codes())
	assert.Contains(t, a.sink.Errors()[1].Message, "(b, c)")
	assert.Equal(t, "X", a.typeOf(t, "x"))
}

func TestMalformedFactoryCalls(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"missing name", `NamedTuple([("a", int)])`},
		{"field list not a list", `NamedTuple("X", "a b")`},
		{"pair is not a tuple", `NamedTuple("X", ["a"])`},
		{"field name not a string", `NamedTuple("X", [(1, int)])`},
		{"too many arguments", `NamedTuple("X", [("a", int)], [])`},
		{"underscore field", `NamedTuple("X", [("_a", int)])`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analyze(t, "statements:\n  - assign: X\n    value: '"+tt.value+"'\n")
			assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrRecordFactoryArg}, a.codes())
		})
	}
}

func TestUnderscoreFieldInClassBody(t *testing.T) {
	a := analyze(t, `
statements:
  - class: X
    bases: [NamedTuple]
    fields:
      - {name: _a, type: int}
      - {name: b, type: str}
  - expr: X("s")
`)
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrRecordFactoryArg}, a.codes())
}

func TestBareUnionField(t *testing.T) {
	a := analyze(t, `
statements:
  - class: X
    bases: [NamedTuple]
    fields:
      - {name: a, type: Union}
  - assign: v
    value: X(1)
  - assign: w
    value: v.a
`)
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrInvalidAnnotation}, a.codes())
	assert.Equal(t, "Any", a.typeOf(t, "w"))
	assert.Equal(t, "X", a.typeOf(t, "v"))
}

func TestCallableField(t *testing.T) {
	a := analyze(t, `
statements:
  - assign: X
    value: NamedTuple("X", [("f", "Callable[[int], str]")])
  - def:
      name: g
      params: [{name: n, type: int}]
      returns: str
  - assign: x
    value: X(g)
  - assign: f
    value: x.f
  - expr: X(1)
`)
	assert.Equal(t, "X", a.typeOf(t, "x"))
	assert.Equal(t, "Callable[[int], str]", a.typeOf(t, "f"))
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrWrongArgTypes}, a.codes())
}

func TestBadAttribute(t *testing.T) {
	a := analyze(t, `
statements:
  - class: X
    bases: [NamedTuple]
    fields:
      - {name: a, type: int}
    methods:
      - name: __init__
        params: [{name: self}]
      - name: __new__
        params: [{name: cls}, {name: a, type: int, default: "0"}]
      - name: total
        params: [{name: self}]
        returns: int
  - assign: x
    value: X()
  - assign: n
    value: x.total()
`)
	errs := a.sink.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.ErrNotWritable, errs[0].Code)
	assert.Regexp(t, `'__init__'.*X`, errs[0].Message)
	assert.Equal(t, "X", a.typeOf(t, "x"))
	assert.Equal(t, "int", a.typeOf(t, "n"))
}

func TestNonRecordBase(t *testing.T) {
	a := analyze(t, `
statements:
  - class: baseClass
    bases: [object]
    fields:
      - {name: x, default: "5"}
      - {name: y, default: "6"}
  - class: SubNamedTuple
    bases: [baseClass, NamedTuple]
    fields:
      - {name: a, type: int}
  - assign: v
    value: SubNamedTuple(1)
  - assign: x
    value: v.x
  - assign: a
    value: v.a
`)
	assert.Empty(t, a.sink.Errors())
	assert.Equal(t, "int", a.typeOf(t, "x"))
	assert.Equal(t, "int", a.typeOf(t, "a"))
	assert.True(t, a.table.IsSubclass("SubNamedTuple", "baseClass"))
}

func TestReplace(t *testing.T) {
	a := analyze(t, xProgram+`
  - assign: x
    value: X(1, "s")
  - assign: y
    value: x._replace(b="t")
  - expr: x._replace(b=1)
  - expr: x._replace(z=1)
  - expr: x._replace(1)
`)
	assert.Equal(t, "X", a.typeOf(t, "y"))
	assert.Equal(t, []diagnostics.ErrorCode{
		diagnostics.ErrWrongArgTypes,
		diagnostics.ErrWrongKeywordArgs,
		diagnostics.ErrWrongArgCount,
	}, a.codes())
	assert.Equal(t, "Invalid keyword arguments (z) to function X._replace", a.sink.Errors()[1].Message)
}

func TestDuplicateKeyword(t *testing.T) {
	a := analyze(t, xProgram+`
  - expr: X(1, a=2)
`)
	require.Len(t, a.sink.Errors(), 1)
	assert.Equal(t, "Multiple values for argument 'a' in call to function X.__new__", a.sink.Errors()[0].Message)
}

func TestRoundTrip(t *testing.T) {
	a := analyze(t, xProgram+`
  - assign: args
    value: (1, "s")
  - assign: x
    value: X(1, "s")
  - assign: m
    value: x._asdict()
  - assign: y
    value: X._make([x.a, x.b])
  - assign: z
    value: y.__getnewargs__()
  - assign: fields
    value: X._fields
`)
	assert.Empty(t, a.sink.Errors())
	assert.Equal(t, "collections.OrderedDict[str, Union[int, str]]", a.typeOf(t, "m"))
	assert.Equal(t, "X", a.typeOf(t, "y"))
	assert.Equal(t, a.typeOf(t, "args"), a.typeOf(t, "z"))
	assert.Equal(t, "Tuple[str, str]", a.typeOf(t, "fields"))
}

func TestIndexing(t *testing.T) {
	a := analyze(t, xProgram+`
  - assign: x
    value: X(1, "s")
  - assign: first
    value: x[0]
  - assign: last
    value: x[-1]
`)
	assert.Equal(t, "int", a.typeOf(t, "first"))
	assert.Equal(t, "str", a.typeOf(t, "last"))
}

func TestStrictMode(t *testing.T) {
	src := `
statements:
  - def: {name: pick, returns: "Union[int, str]"}
  - def:
      name: take_int
      params: [{name: n, type: int}]
  - assign: u
    value: pick()
  - expr: take_int(u)
`
	assert.Empty(t, analyzeSource(t, src, false).sink.Errors())
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrWrongArgTypes}, analyzeSource(t, src, true).codes())
}

func TestUndefinedAnnotation(t *testing.T) {
	a := analyze(t, `
statements:
  - assign: X
    value: NamedTuple("X", [("a", Missing)])
  - expr: X(1)
`)
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrInvalidAnnotation}, a.codes())
	assert.Contains(t, a.sink.Errors()[0].Message, "'Missing'")
}

func TestDiagnosticsKeepProgramOrder(t *testing.T) {
	a := analyze(t, xProgram+`
  - expr: X()
  - expr: X(1, 2)
  - expr: X(1, "s", 3)
`)
	assert.Equal(t, []diagnostics.ErrorCode{
		diagnostics.ErrMissingParameter,
		diagnostics.ErrWrongArgTypes,
		diagnostics.ErrWrongArgCount,
	}, a.codes())
}

func TestAnnotatedSelfMismatch(t *testing.T) {
	a := analyze(t, `
statements:
  - class: A
    bases: [NamedTuple]
    fields:
      - {name: a, type: int}
    methods:
      - name: f
        params: [{name: self, type: int}]
        returns: int
  - class: C
    methods:
      - name: g
        params: [{name: self, type: str}]
        returns: str
  - assign: x
    value: A(1)
  - assign: n
    value: x.f()
  - assign: m
    value: C().g()
`)
	errs := a.sink.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, diagnostics.ErrWrongArgTypes, errs[0].Code)
	assert.Equal(t, "Invalid argument type for parameter 'self' of function A.f: expected int, got A", errs[0].Message)
	assert.Equal(t, 4, errs[0].Token.Line)
	assert.Equal(t, diagnostics.ErrWrongArgTypes, errs[1].Code)
	assert.Equal(t, "Invalid argument type for parameter 'self' of function C.g: expected str, got C", errs[1].Message)
	assert.Equal(t, "Any", a.typeOf(t, "n"))
	assert.Equal(t, "Any", a.typeOf(t, "m"))
}

func TestBareNamedTupleAnnotation(t *testing.T) {
	a := analyze(t, `
statements:
  - class: X
    bases: [NamedTuple]
    fields:
      - {name: a, type: NamedTuple}
  - def: {name: f, params: [{name: p, type: NamedTuple}], returns: int}
  - assign: v
    value: X(1).a
`)
	errs := a.sink.Errors()
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, diagnostics.ErrInvalidAnnotation, e.Code)
		assert.Contains(t, e.Message, "NamedTuple is a record factory, not a type")
	}
	assert.Contains(t, errs[1].Message, "parameter p")
	assert.Equal(t, "Any", a.typeOf(t, "v"))
}

func TestUnparseableFieldKeepsShape(t *testing.T) {
	mod, err := modules.NewLoader().Parse([]byte(`
statements:
  - class: R
    bases: [NamedTuple]
    fields:
      - {name: a, type: int}
      - {name: b, type: "List[int"}
      - {name: c, type: int, default: "(1"}
  - assign: r
    value: R(1, [2])
  - assign: s
    value: R(1, [2], 3)
`), "test.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, mod.Errors)
	for _, e := range mod.Errors {
		assert.Equal(t, diagnostics.ErrSyntax, e.Code)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	table := symbols.NewSymbolTable()
	registry := records.NewRegistry(table, logger)
	sink := diagnostics.NewSink("test.py")
	require.NoError(t, NewSession(table, registry, sink, logger).Analyze(mod.Program))

	assert.Empty(t, sink.Errors())
	d, ok := registry.Lookup("R")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, d.FieldNames())
	assert.Equal(t, "def __new__(cls: Type[_TR], a: int, b: Any, c: int = ...) -> _TR", d.Ops[records.OpNew].String())
	sym, ok := table.Find("r")
	require.True(t, ok)
	assert.Equal(t, "R", sym.Type.String())
}
