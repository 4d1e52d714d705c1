package main

import (
	"fmt"
	"io"

	"github.com/funvibe/tuplecheck/internal/analyzer"
	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/modules"
	"github.com/funvibe/tuplecheck/internal/pipeline"
	"github.com/funvibe/tuplecheck/internal/store"
)

const (
	colorRed   = "\033[31m"
	colorBold  = "\033[1m"
	colorReset = "\033[0m"
)

// analyze runs load and analysis (and indexing when idx is non-nil) over
// one program file.
func analyze(opts *rootOptions, loader *modules.Loader, path string, idx *store.Store) *pipeline.PipelineContext {
	processors := []pipeline.Processor{
		&modules.ProgramProcessor{Loader: loader},
		&analyzer.SemanticAnalyzerProcessor{},
	}
	if idx != nil {
		processors = append(processors, &store.IndexProcessor{Store: idx})
	}
	ctx := pipeline.NewPipelineContext(path, opts.settings, opts.logger)
	return pipeline.New(processors...).Run(ctx)
}

func printDiagnostics(w io.Writer, errs []*diagnostics.DiagnosticError, color bool) {
	for _, e := range errs {
		if !color {
			fmt.Fprintln(w, e.Error())
			continue
		}
		fmt.Fprintf(w, "%s%s:%d:%d:%s %s[%s]%s %s\n",
			colorBold, e.File, e.Token.Line, e.Token.Column, colorReset,
			colorRed, e.Code, colorReset, e.Message)
	}
}

// checkResult turns the outcome of a set of runs into the command error.
func checkResult(failed error, diagnosticCount int) error {
	if failed != nil {
		return &exitError{code: ExitCommandError, msg: "analysis failed", err: failed}
	}
	if diagnosticCount > 0 {
		return &exitError{code: ExitDiagnostics, msg: fmt.Sprintf("found %d diagnostic(s)", diagnosticCount)}
	}
	return nil
}
