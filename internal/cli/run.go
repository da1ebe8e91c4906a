package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/app"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Plain bool

	// Driver overrides the interactive prompts (for testing). If nil the
	// survey driver is used.
	Driver tui.PromptDriver
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}
	return newRunCommand(opts)
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Log in and fill the issued form in the terminal",
		Long: `Prompt for a roll number and name, register them with the form service,
fetch the form issued to that roll number, and collect it section by section.

The submitted values are logged and written to stdout in --submission-format.

Example:
  formflow run
  formflow run --schema-file ./form.yaml --submission-format pretty`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForm(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "disable colors and styling")

	return cmd
}

func runForm(opts *RunOptions, cmd *cobra.Command) error {
	logger := opts.logger()

	service, err := opts.service()
	if err != nil {
		return err
	}
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}

	sink := form.Sinks(
		form.LogSink(logger),
		form.WriterSink(cmd.OutOrStdout(), format, logger),
	)
	a := app.New(service,
		app.WithLogger(logger),
		app.WithFormOptions(form.WithSink(sink), form.WithLogger(logger)),
	)

	runnerOpts := []tui.Option{tui.WithLogger(logger)}
	if opts.Driver != nil {
		runnerOpts = append(runnerOpts, tui.WithPromptDriver(opts.Driver))
	} else {
		runnerOpts = append(runnerOpts, tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())))
	}
	if opts.Plain {
		runnerOpts = append(runnerOpts, tui.WithTheme(tui.PlainTheme()))
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tui.New(runnerOpts...).Run(ctx, a); err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			return WrapExitError(ExitFailure, "form aborted", err)
		}
		return WrapExitError(ExitFailure, "form run failed", err)
	}

	id, _ := a.Identity()
	logger.Debug("form run finished", "rollNumber", id.RollNumber)
	fmt.Fprintln(cmd.ErrOrStderr(), "Done.")
	return nil
}
