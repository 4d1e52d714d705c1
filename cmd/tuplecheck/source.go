package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/funvibe/tuplecheck/internal/modules"
	"github.com/funvibe/tuplecheck/internal/prettyprinter"
)

func newSourceCommand(opts *rootOptions) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "source <program.yaml>",
		Short: "Print a program as the Python source it describes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mod, err := modules.NewLoader().Load(args[0])
			if err != nil {
				return &exitError{code: ExitCommandError, msg: "cannot load program", err: err}
			}
			opts.logger.Debug("printing program", "module", mod.Name, "width", width)

			p := prettyprinter.NewCodePrinterWithWidth(width)
			mod.Program.Accept(p)
			fmt.Fprint(cmd.OutOrStdout(), p.String())
			printDiagnostics(cmd.ErrOrStderr(), mod.Errors, opts.useColor(cmd.ErrOrStderr()))
			if len(mod.Errors) > 0 {
				return checkResult(nil, len(mod.Errors))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 100, "wrap calls and collections longer than this (0 = never)")
	return cmd
}
