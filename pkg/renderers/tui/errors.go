package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoFormView is returned when the app reports a view the runner cannot
	// drive, such as loading after a login attempt returned.
	ErrNoFormView = errors.New("tui: no form to show")
)
