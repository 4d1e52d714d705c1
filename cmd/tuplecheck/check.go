package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/funvibe/tuplecheck/internal/modules"
)

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <program.yaml>...",
		Short: "Report record-type diagnostics",
		Long: `Check loads each program, synthesizes its record types and checks
every call. Diagnostics are printed in program order as
file:line:column: [code] message.

Exit status is 1 when any diagnostic is reported and 2 when a program
cannot be analysed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			color := opts.useColor(out)
			loader := modules.NewLoader()

			var failures []error
			count := 0
			for _, path := range args {
				ctx := analyze(opts, loader, path, nil)
				printDiagnostics(out, ctx.Errors, color)
				count += len(ctx.Errors)
				if ctx.Err != nil {
					failures = append(failures, ctx.Err)
				}
			}
			return checkResult(errors.Join(failures...), count)
		},
	}
}
