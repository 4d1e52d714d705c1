package prettyprinter_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/tuplecheck/internal/analyzer"
	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/modules"
	"github.com/funvibe/tuplecheck/internal/prettyprinter"
	"github.com/funvibe/tuplecheck/internal/records"
	"github.com/funvibe/tuplecheck/internal/symbols"
)

const subclassProgram = `
file: subclass.py
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
  - assign: x
    value: B("hello")
  - def:
      name: take_b
      params: [{name: b, type: B}]
      returns: B
  - class: baseClass
    bases: [object]
    fields:
      - {name: x, default: "5"}
`

func TestPrintProgramStubs(t *testing.T) {
	mod, err := modules.NewLoader().Parse([]byte(subclassProgram), "subclass.yaml")
	require.NoError(t, err)
	require.Empty(t, mod.Errors)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	table := symbols.NewSymbolTable()
	registry := records.NewRegistry(table, logger)
	sink := diagnostics.NewSink(mod.Program.File)
	require.NoError(t, analyzer.NewSession(table, registry, sink, logger).Analyze(mod.Program))
	require.Empty(t, sink.Errors())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "program_subclass", []byte(prettyprinter.PrintProgramStubs(registry, table)))
}
