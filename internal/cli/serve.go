package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/app"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/renderers/web"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr         string
	ThemeVariant string

	// Listening, when set, receives the bound address once the listener is
	// open (for testing).
	Listening func(addr string)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return newServeCommand(&ServeOptions{RootOptions: rootOpts})
}

func newServeCommand(opts *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the login and form flow over HTTP",
		Long: `Start an HTTP server that renders the login screen and the issued form
as HTML. Every browser session logs in and fills its own form.

Example:
  formflow serve --addr :8080
  formflow serve --schema-file ./form.json --theme-variant dark`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.ThemeVariant, "theme-variant", "", "theme variant (light|dark)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	logger := opts.logger()

	addr := opts.Config.Addr
	if cmd.Flags().Changed("addr") {
		addr = opts.Addr
	}
	variant := opts.Config.ThemeVariant
	if cmd.Flags().Changed("theme-variant") {
		variant = opts.ThemeVariant
	}

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
	handler, err := web.New(service,
		web.WithLogger(logger),
		web.WithTheme(web.DefaultManifest(), variant),
		web.WithAppOptions(
			app.WithLogger(logger),
			app.WithFormOptions(form.WithSink(sink), form.WithLogger(logger)),
		),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build web server", err)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to listen on %s", addr), err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	bound := listener.Addr().String()
	logger.Info("server listening", "addr", bound, "theme_variant", variant)
	if opts.Listening != nil {
		opts.Listening(bound)
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitFailure, "server error", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "server shutdown failed", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}
