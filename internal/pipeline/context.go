package pipeline

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/funvibe/tuplecheck/internal/ast"
	"github.com/funvibe/tuplecheck/internal/config"
	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/records"
	"github.com/funvibe/tuplecheck/internal/symbols"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// PipelineContext carries one program through loading, analysis and indexing.
type PipelineContext struct {
	FilePath    string
	Source      []byte
	Program     *ast.Program
	Errors      []*diagnostics.DiagnosticError
	SymbolTable *symbols.SymbolTable
	Registry    *records.Registry
	Settings    *config.Settings
	Logger      *slog.Logger
	RunID       uuid.UUID

	// Err is a failure of the checker itself (I/O, internal error). It stops
	// the pipeline; diagnostics do not.
	Err error
}

// NewPipelineContext prepares a context for the program at path.
func NewPipelineContext(path string, settings *config.Settings, logger *slog.Logger) *PipelineContext {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.New()
	logger = logger.With("run", runID.String())

	table := symbols.NewSymbolTable()
	table.SetStrictMode(settings.StrictTypes)
	return &PipelineContext{
		FilePath:    path,
		SymbolTable: table,
		Registry:    records.NewRegistry(table, logger),
		Settings:    settings,
		Logger:      logger,
		RunID:       runID,
	}
}

// Aborted reports whether a stage hit a non-diagnostic failure.
func (ctx *PipelineContext) Aborted() bool { return ctx.Err != nil }
