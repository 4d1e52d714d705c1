package analyzer

import (
	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/pipeline"
)

// SemanticAnalyzerProcessor runs a Session over the loaded program.
type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil {
		return ctx
	}

	sink := diagnostics.NewSink(ctx.FilePath)
	session := NewSession(ctx.SymbolTable, ctx.Registry, sink, ctx.Logger)
	if err := session.Analyze(ctx.Program); err != nil {
		ctx.Err = err
	}

	errors := sink.Errors()
	ctx.Logger.Info("analysis finished",
		"file", ctx.FilePath,
		"records", len(ctx.Registry.All()),
		"diagnostics", len(errors))
	if len(errors) > 0 {
		ctx.Errors = append(ctx.Errors, errors...)
	}
	return ctx
}
