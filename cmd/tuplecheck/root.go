package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/funvibe/tuplecheck/internal/config"
)

// Exit codes.
const (
	ExitDiagnostics  = 1 // the program has diagnostics
	ExitCommandError = 2 // bad arguments, unreadable files, internal errors
)

// exitError carries the process exit code of a failed command. An empty
// message means the output was already written.
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitCommandError
}

// rootOptions holds the global flags and what PersistentPreRunE derives
// from them.
type rootOptions struct {
	Verbose    bool
	ConfigPath string
	Color      string

	settings *config.Settings
	logger   *slog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tuplecheck",
		Short: "Static checker for NamedTuple record types",
		Long: `tuplecheck synthesizes NamedTuple record types from a program's
declarations and checks every call against the generated signatures.

Programs are YAML documents whose statements carry Python expressions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log analysis progress to stderr")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to tuplecheck.yaml")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", "", "colorize diagnostics (auto|always|never)")

	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newStubsCommand(opts))
	cmd.AddCommand(newIndexCommand(opts))
	cmd.AddCommand(newSourceCommand(opts))
	return cmd
}

func (o *rootOptions) load(stderr io.Writer) error {
	settings := config.DefaultSettings()
	if o.ConfigPath != "" {
		s, err := config.LoadSettings(o.ConfigPath)
		if err != nil {
			return &exitError{code: ExitCommandError, msg: "invalid configuration", err: err}
		}
		settings = s
	}
	if o.Color != "" {
		switch o.Color {
		case config.ColorAuto, config.ColorAlways, config.ColorNever:
			settings.Color = o.Color
		default:
			return &exitError{code: ExitCommandError, msg: fmt.Sprintf("invalid --color %q: must be auto, always or never", o.Color)}
		}
	}
	o.settings = settings

	level := settings.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// useColor decides whether output written to w is colorized.
func (o *rootOptions) useColor(w io.Writer) bool {
	switch o.settings.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
