package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/funvibe/tuplecheck/internal/modules"
	"github.com/funvibe/tuplecheck/internal/prettyprinter"
)

func newStubsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stubs <program.yaml>",
		Short: "Print .pyi-style stubs for the program's declarations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := analyze(opts, modules.NewLoader(), args[0], nil)
			if ctx.Err != nil {
				return &exitError{code: ExitCommandError, msg: "analysis failed", err: ctx.Err}
			}
			fmt.Fprint(cmd.OutOrStdout(), prettyprinter.PrintProgramStubs(ctx.Registry, ctx.SymbolTable))
			printDiagnostics(cmd.ErrOrStderr(), ctx.Errors, opts.useColor(cmd.ErrOrStderr()))
			return nil
		},
	}
}
