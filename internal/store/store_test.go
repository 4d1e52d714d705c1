package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/pipeline"
	"github.com/funvibe/tuplecheck/internal/records"
	"github.com/funvibe/tuplecheck/internal/symbols"
	"github.com/funvibe/tuplecheck/internal/token"
	"github.com/funvibe/tuplecheck/internal/typesystem"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_CreatesAndReopens(t *testing.T) {
	s, path := openTestStore(t)
	_, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "reopen %d", i)

		var version int
		require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
		assert.Equal(t, currentSchemaVersion, version)
		require.NoError(t, s.Close())
	}
}

func TestCloseNil(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}

func TestRecordTypesRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	registry := records.NewRegistry(symbols.NewSymbolTable(), quietLogger())
	d, diags, err := registry.FactoryCall(records.FactoryCall{
		Name: "X",
		Form: records.PairList{Pairs: []records.FieldSpec{
			{Name: "a", Annotation: typesystem.TCon{Name: "int"}},
			{Name: "b", Annotation: typesystem.TCon{Name: "str"}},
		}},
		Token: token.At(3, 5),
	})
	require.NoError(t, err)
	require.Empty(t, diags)

	runID := uuid.New()
	require.NoError(t, s.BeginRun(ctx, runID, "x.py"))
	require.NoError(t, s.RecordTypes(ctx, runID, []*records.Descriptor{d}))

	types, err := s.Types(ctx, runID)
	require.NoError(t, err)
	require.Len(t, types, 1)
	got := types[0]
	assert.Equal(t, "X", got.Name)
	assert.Equal(t, "_TX", got.TypeVar)
	assert.Equal(t, []string{"tuple"}, got.Bases)
	assert.Equal(t, 3, got.Line)
	assert.Equal(t, []FieldRow{{Name: "a", Type: "int"}, {Name: "b", Type: "str"}}, got.Fields)
	assert.Len(t, got.Operations, len(records.OpKinds))
	assert.Equal(t, "def __new__(cls: Type[_TX], a: int, b: str) -> _TX", got.Operations["__new__"])

	// Declaring the same type twice in one run is rejected.
	assert.Error(t, s.RecordTypes(ctx, runID, []*records.Descriptor{d}))

	empty, err := s.Types(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDiagnosticsKeepOrder(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	runID := uuid.New()
	require.NoError(t, s.BeginRun(ctx, runID, "x.py"))

	in := []*diagnostics.DiagnosticError{
		{Code: diagnostics.ErrWrongArgTypes, Token: token.At(4, 2), File: "x.py", Message: "second"},
		{Code: diagnostics.ErrMissingParameter, Token: token.At(2, 1), File: "x.py", Message: "first"},
		{Code: diagnostics.ErrWrongArgTypes, Token: token.At(9, 1), File: "x.py", Message: "third"},
	}
	require.NoError(t, s.RecordDiagnostics(ctx, runID, in))

	all, err := s.Diagnostics(ctx, runID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := range in {
		assert.Equal(t, in[i].Error(), all[i].Error())
	}

	wrong, err := s.Diagnostics(ctx, runID, diagnostics.ErrWrongArgTypes)
	require.NoError(t, err)
	require.Len(t, wrong, 2)
	assert.Equal(t, "third", wrong[1].Message)
}

func TestRecordDiagnosticsRequiresRun(t *testing.T) {
	s, _ := openTestStore(t)
	err := s.RecordDiagnostics(context.Background(), uuid.New(), []*diagnostics.DiagnosticError{
		{Code: diagnostics.ErrSyntax, Message: "orphan"},
	})
	assert.Error(t, err)
}

func TestLatestRun(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_, ok, err := s.LatestRun(ctx, "x.py")
	require.NoError(t, err)
	assert.False(t, ok)

	first, second := uuid.New(), uuid.New()
	require.NoError(t, s.BeginRun(ctx, first, "x.py"))
	require.NoError(t, s.BeginRun(ctx, second, "x.py"))
	require.NoError(t, s.BeginRun(ctx, uuid.New(), "other.py"))
	assert.Error(t, s.BeginRun(ctx, second, "x.py"))

	run, ok, err := s.LatestRun(ctx, "x.py")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, run.ID)
	assert.Equal(t, "x.py", run.File)
	assert.False(t, run.StartedAt.IsZero())
}

func TestIndexProcessor(t *testing.T) {
	s, _ := openTestStore(t)

	pctx := pipeline.NewPipelineContext("x.py", nil, quietLogger())
	_, _, err := pctx.Registry.FactoryCall(records.FactoryCall{
		Name: "X",
		Form: records.PairList{Pairs: []records.FieldSpec{{Name: "a", Annotation: typesystem.TCon{Name: "int"}}}},
	})
	require.NoError(t, err)
	pctx.Errors = append(pctx.Errors, diagnostics.NewError(diagnostics.ErrWrongArgTypes, token.At(2, 1), "bad"))

	pctx = (&IndexProcessor{Store: s}).Process(pctx)
	require.NoError(t, pctx.Err)

	run, ok, err := s.LatestRun(context.Background(), "x.py")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pctx.RunID, run.ID)

	types, err := s.Types(context.Background(), run.ID)
	require.NoError(t, err)
	require.Len(t, types, 1)
	diags, err := s.Diagnostics(context.Background(), run.ID, "")
	require.NoError(t, err)
	require.Len(t, diags, 1)

	// Without a store the stage is a no-op.
	assert.Same(t, pctx, (&IndexProcessor{}).Process(pctx))
}
