// Package cli wires the formflow commands: run (terminal client), serve
// (browser client) and lint (schema checks).
package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/pkg/app"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/remote"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// RootOptions holds global flags and the configuration resolved from them.
type RootOptions struct {
	Verbose          bool
	ConfigFile       string
	EnvFiles         []string
	BaseURL          string
	Timeout          time.Duration
	SubmissionFormat string
	SchemaFile       string

	Config config.Config
	Logger *slog.Logger
}

// NewRootCommand creates the formflow root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formflow",
		Short: "Fill dynamic multi-section forms",
		Long: `formflow logs a student in against the form service, fetches the form
issued to them, and walks them through it section by section.

Settings come from defaults, an optional YAML file (--config), .env files,
FORMFLOW_* environment variables, and finally flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.ConfigFile, "config", "", "path to a YAML config file")
	flags.StringSliceVar(&opts.EnvFiles, "env-file", nil, "dotenv files to load (default .env)")
	flags.StringVar(&opts.BaseURL, "base-url", "", "form service base URL")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "per-request timeout for the form service")
	flags.StringVar(&opts.SubmissionFormat, "submission-format", "", "submission output format (json|form|pretty)")
	flags.StringVar(&opts.SchemaFile, "schema-file", "", "serve this local schema instead of calling the form service")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewLintCommand(opts))

	return cmd
}

// resolve loads configuration, applies flags that were set explicitly, and
// installs the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigFile, o.EnvFiles...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = o.BaseURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.Timeout
	}
	if flags.Changed("submission-format") {
		cfg.SubmissionFormat = o.SubmissionFormat
	}
	if flags.Changed("schema-file") {
		cfg.SchemaFile = o.SchemaFile
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}
	o.Config = cfg

	level := cfg.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})
	o.Logger = slog.New(handler)
	slog.SetDefault(o.Logger)
	return nil
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// service returns the offline service when a schema file is configured and
// the remote client otherwise.
func (o *RootOptions) service() (app.Service, error) {
	if path := o.Config.SchemaFile; path != "" {
		loaded, err := schema.LoadFile(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load schema file", err)
		}
		o.logger().Info("serving local schema", "path", path, "sections", len(loaded.Sections))
		return app.OfflineService{Schema: loaded, Logger: o.logger()}, nil
	}

	return remote.NewClient(
		remote.WithBaseURL(o.Config.BaseURL),
		remote.WithTimeout(o.Config.Timeout),
		remote.WithLogger(o.logger()),
	), nil
}

func (o *RootOptions) outputFormat() (form.OutputFormat, error) {
	format, err := form.ParseOutputFormat(o.Config.SubmissionFormat)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "invalid submission format", err)
	}
	return format, nil
}
