package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/funvibe/tuplecheck/internal/modules"
	"github.com/funvibe/tuplecheck/internal/store"
)

func newIndexCommand(opts *rootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "index <program.yaml>...",
		Short: "Analyse programs and store the results in a SQLite index",
		Long: `Index runs the same analysis as check and records every synthesized
record type, its generated operations and the diagnostics of the run in
a SQLite database. The database path comes from --db or index.path in
the configuration file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = opts.settings.Index.Path
			}
			if dbPath == "" {
				return &exitError{code: ExitCommandError, msg: "no index database: pass --db or set index.path"}
			}
			idx, err := store.Open(dbPath)
			if err != nil {
				return &exitError{code: ExitCommandError, msg: "cannot open index", err: err}
			}
			defer idx.Close()

			out := cmd.OutOrStdout()
			loader := modules.NewLoader()
			var failures []error
			for _, path := range args {
				ctx := analyze(opts, loader, path, idx)
				if ctx.Err != nil {
					failures = append(failures, ctx.Err)
					continue
				}
				types, err := idx.Types(context.Background(), ctx.RunID)
				if err != nil {
					failures = append(failures, err)
					continue
				}
				fmt.Fprintf(out, "%s: indexed %d record type(s), %d diagnostic(s) (run %s)\n",
					path, len(types), len(ctx.Errors), ctx.RunID)
			}
			return checkResult(errors.Join(failures...), 0)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite index database")
	return cmd
}
