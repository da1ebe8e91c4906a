// Package app composes the identity gate, the remote service, and the form
// controller into the login-then-form flow shared by every front-end.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/identity"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// MessageUnknown is shown when a failure carries no message.
const MessageUnknown = "An unknown error occurred"

// ErrLoginInProgress rejects a login attempt while another is loading.
var ErrLoginInProgress = errors.New("app: login already in progress")

// Service is the remote contract the flow depends on.
type Service interface {
	RegisterIdentity(ctx context.Context, id identity.Identity) error
	FetchForm(ctx context.Context, rollNumber string) (schema.FormSchema, error)
}

// View names the screen a front-end should show.
type View string

const (
	ViewIdentity View = "identity"
	ViewLoading  View = "loading"
	ViewForm     View = "form"
)

// Option configures an App.
type Option func(*App)

// WithLogger sets the flow logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithFormOptions passes options to every form controller the app builds.
func WithFormOptions(opts ...form.Option) Option {
	return func(a *App) {
		a.formOptions = append(a.formOptions, opts...)
	}
}

// App is the root controller. It is single-owner; front-ends serving
// several users keep one App per user.
type App struct {
	service     Service
	gate        *identity.Gate
	identity    *identity.Identity
	schema      *schema.FormSchema
	controller  *form.Controller
	loading     bool
	err         string
	formOptions []form.Option
	logger      *slog.Logger
}

// New builds an App backed by service.
func New(service Service, options ...Option) *App {
	a := &App{
		service: service,
		gate:    identity.NewGate(),
		logger:  slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Gate returns the identity gate collecting the login draft.
func (a *App) Gate() *identity.Gate {
	return a.gate
}

// SubmitIdentity runs the gate and, when it passes, logs in with the trimmed
// identity. It returns false when the gate blocked the attempt.
func (a *App) SubmitIdentity(ctx context.Context) (bool, error) {
	if a.loading {
		return false, ErrLoginInProgress
	}
	var (
		loginErr error
		passed   bool
	)
	passed = a.gate.Submit(func(id identity.Identity) {
		loginErr = a.Login(ctx, id)
	})
	return passed, loginErr
}

// Login registers id, then fetches its form. Identity, schema and the form
// controller are set together on success. On failure the banner text is set
// and nothing else changes.
func (a *App) Login(ctx context.Context, id identity.Identity) (err error) {
	if a.loading {
		return ErrLoginInProgress
	}
	a.loading = true
	a.err = ""
	defer func() {
		a.loading = false
		if err != nil {
			a.err = err.Error()
			if a.err == "" {
				a.err = MessageUnknown
			}
			a.logger.Warn("login failed", "rollNumber", id.RollNumber, "error", err)
		}
	}()

	if err := a.service.RegisterIdentity(ctx, id); err != nil {
		return err
	}
	fetched, err := a.service.FetchForm(ctx, id.RollNumber)
	if err != nil {
		return err
	}
	controller, err := form.New(fetched, a.formOptions...)
	if err != nil {
		return err
	}

	a.identity = &id
	a.schema = &fetched
	a.controller = controller
	a.logger.Info("form loaded", "rollNumber", id.RollNumber, "form", fetched.FormTitle, "sections", len(fetched.Sections))
	return nil
}

// View reports which screen applies to the current state. The identity view
// stays up while a login is in flight; front-ends read Loading to disable it.
func (a *App) View() View {
	switch {
	case a.identity == nil:
		return ViewIdentity
	case a.schema == nil:
		return ViewLoading
	default:
		return ViewForm
	}
}

// Error returns the banner text, "" when there is none.
func (a *App) Error() string {
	return a.err
}

// Loading reports whether a login is in flight.
func (a *App) Loading() bool {
	return a.loading
}

// Identity returns the logged-in identity.
func (a *App) Identity() (identity.Identity, bool) {
	if a.identity == nil {
		return identity.Identity{}, false
	}
	return *a.identity, true
}

// Form returns the form controller once logged in.
func (a *App) Form() (*form.Controller, bool) {
	return a.controller, a.controller != nil
}
