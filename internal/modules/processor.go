package modules

import (
	"github.com/funvibe/tuplecheck/internal/pipeline"
)

// ProgramProcessor loads ctx.FilePath (or ctx.Source when set) into ctx.Program.
type ProgramProcessor struct {
	Loader *Loader
}

func (pp *ProgramProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	loader := pp.Loader
	if loader == nil {
		loader = NewLoader()
	}

	var mod *Module
	var err error
	if ctx.Source != nil {
		mod, err = loader.Parse(ctx.Source, ctx.FilePath)
	} else {
		mod, err = loader.Load(ctx.FilePath)
	}
	if err != nil {
		ctx.Err = err
		return ctx
	}

	ctx.Program = mod.Program
	ctx.Logger.Debug("program loaded", "module", mod.Name, "statements", len(mod.Program.Statements), "syntax_errors", len(mod.Errors))
	for _, e := range mod.Errors {
		if e.File == "" {
			e.File = ctx.FilePath
		}
	}
	ctx.Errors = append(ctx.Errors, mod.Errors...)
	return ctx
}
