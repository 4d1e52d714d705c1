package store

import (
	"context"

	"github.com/funvibe/tuplecheck/internal/pipeline"
)

// IndexProcessor writes the run's record types and diagnostics to Store.
type IndexProcessor struct {
	Store *Store
}

func (ip *IndexProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ip.Store == nil {
		return ctx
	}
	bg := context.Background()
	if err := ip.Store.BeginRun(bg, ctx.RunID, ctx.FilePath); err != nil {
		ctx.Err = err
		return ctx
	}
	descs := ctx.Registry.All()
	if err := ip.Store.RecordTypes(bg, ctx.RunID, descs); err != nil {
		ctx.Err = err
		return ctx
	}
	if err := ip.Store.RecordDiagnostics(bg, ctx.RunID, ctx.Errors); err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Logger.Debug("run indexed", "types", len(descs), "diagnostics", len(ctx.Errors))
	return ctx
}
