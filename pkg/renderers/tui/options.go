package tui

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"
)

// Theme styles the informational lines the runner prints.
type Theme struct {
	Title    lipgloss.Style
	Progress lipgloss.Style
	Notice   lipgloss.Style
	Error    lipgloss.Style
	Hint     lipgloss.Style
	Success  lipgloss.Style
}

// DefaultTheme mirrors the alert palette used across the CLI.
func DefaultTheme() Theme {
	alert := lipgloss.NewStyle().Padding(0, 1)
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#0284c7"}),
		Progress: lipgloss.NewStyle().Faint(true),
		Notice: alert.Copy().
			Background(lipgloss.AdaptiveColor{Light: "#fde68a", Dark: "#fde68a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#78350f", Dark: "#92400e"}),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#991b1b", Dark: "#fca5a5"}),
		Hint: lipgloss.NewStyle().Italic(true).Faint(true),
		Success: alert.Copy().
			Background(lipgloss.AdaptiveColor{Light: "#bbf7d0", Dark: "#bbf7d0"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#14532d", Dark: "#166534"}),
	}
}

// PlainTheme renders every line unstyled.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Title:    plain,
		Progress: plain,
		Notice:   plain,
		Error:    plain,
		Hint:     plain,
		Success:  plain,
	}
}

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme replaces the default styles.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
