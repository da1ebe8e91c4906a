package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// LintOptions holds flags for the lint command.
type LintOptions struct {
	*RootOptions
	Output string // "text" | "json"
}

// LintResult is the outcome for one schema file.
type LintResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Error  string   `json:"error,omitempty"`
	Issues []string `json:"issues,omitempty"`
}

// NewLintCommand creates the lint command.
func NewLintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lint <schema-file>...",
		Short: "Check form schema files for structural problems",
		Long: `Decode each schema file (JSON or YAML, bare or wrapped in {"form": ...})
and report problems the renderers tolerate but an author should fix.

Exits with status 1 when any file has issues and 2 when a file cannot be read.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Output, "output", "text", "report format (text|json)")

	return cmd
}

func runLint(opts *LintOptions, files []string, w io.Writer) error {
	if opts.Output != "text" && opts.Output != "json" {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid output %q: must be text or json", opts.Output))
	}

	results := make([]LintResult, 0, len(files))
	var unreadable, issues int
	for _, file := range files {
		result := LintResult{File: file}
		loaded, err := schema.LoadFile(file)
		if err != nil {
			result.Error = err.Error()
			unreadable++
		} else {
			for _, issue := range schema.Lint(loaded) {
				result.Issues = append(result.Issues, issue.String())
			}
			issues += len(result.Issues)
		}
		result.Valid = result.Error == "" && len(result.Issues) == 0
		results = append(results, result)
		if opts.RootOptions != nil {
			opts.logger().Debug("linted schema", "file", file, "issues", len(result.Issues))
		}
	}

	if opts.Output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return WrapExitError(ExitCommandError, "failed to write report", err)
		}
	} else {
		writeLintText(w, results)
	}

	switch {
	case unreadable > 0:
		return NewExitError(ExitCommandError, fmt.Sprintf("%d schema file(s) could not be read", unreadable))
	case issues > 0:
		return NewExitError(ExitFailure, fmt.Sprintf("lint found %d issue(s)", issues))
	}
	return nil
}

func writeLintText(w io.Writer, results []LintResult) {
	for _, result := range results {
		switch {
		case result.Error != "":
			fmt.Fprintf(w, "✗ %s: %s\n", result.File, result.Error)
		case len(result.Issues) > 0:
			fmt.Fprintf(w, "✗ %s\n", result.File)
			for _, issue := range result.Issues {
				fmt.Fprintf(w, "  - %s\n", issue)
			}
		default:
			fmt.Fprintf(w, "✓ %s\n", result.File)
		}
	}
}
