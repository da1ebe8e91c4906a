// Package tui drives the login and form flow through terminal prompts.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formflow/pkg/app"
	"github.com/goliatone/go-formflow/pkg/field"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/identity"
	"github.com/goliatone/go-formflow/pkg/sanitize"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/section"
)

const (
	ActionPrevious = "Previous"
	ActionNext     = "Next"
	ActionSubmit   = "Submit"

	MessageSubmitted       = "Form Submitted Successfully!"
	MessageSubmittedDetail = "Check the console for the submitted data."
)

// Runner walks one user through login and the issued form.
type Runner struct {
	driver PromptDriver
	theme  Theme
	logger *slog.Logger
}

// New constructs a runner with the survey driver and default theme.
func New(options ...Option) *Runner {
	r := &Runner{
		theme:  DefaultTheme(),
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Run prompts for an identity until login succeeds or the user gives up,
// then collects the form section by section until it is submitted.
func (r *Runner) Run(ctx context.Context, a *app.App) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if a == nil {
		return errors.New("tui: app is required")
	}

	for a.View() == app.ViewIdentity {
		if err := r.login(ctx, a); err != nil {
			return err
		}
	}

	ctrl, ok := a.Form()
	if !ok {
		return ErrNoFormView
	}
	return r.collect(ctx, ctrl)
}

func (r *Runner) login(ctx context.Context, a *app.App) error {
	gate := a.Gate()
	if err := r.driver.Info(ctx, r.theme.Title.Render("Student Login")); err != nil {
		return err
	}

	roll, err := r.driver.Input(ctx, InputConfig{Message: "Roll Number", Default: gate.Draft().RollNumber})
	if err != nil {
		return err
	}
	gate.SetRollNumber(roll)

	name, err := r.driver.Input(ctx, InputConfig{Message: "Name", Default: gate.Draft().Name})
	if err != nil {
		return err
	}
	gate.SetName(name)

	if identity.Check(gate.Draft()) == nil {
		if err := r.driver.Info(ctx, r.theme.Progress.Render(identity.SubmitLabel(true))); err != nil {
			return err
		}
	}
	passed, loginErr := a.SubmitIdentity(ctx)
	if !passed {
		for _, key := range []string{identity.FieldRollNumber, identity.FieldName} {
			if msg := gate.Error(key); msg != "" {
				if err := r.driver.Info(ctx, r.theme.Error.Render(msg)); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if loginErr == nil {
		return nil
	}

	r.logger.Debug("login attempt failed", "error", loginErr)
	if err := r.driver.Info(ctx, r.theme.Notice.Render(a.Error())); err != nil {
		return err
	}
	retry, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
	if err != nil {
		return err
	}
	if !retry {
		return loginErr
	}
	return nil
}

func (r *Runner) collect(ctx context.Context, ctrl *form.Controller) error {
	state := field.NewState()
	title := sanitize.Text(ctrl.Form().FormTitle)

	for !ctrl.Submitted() {
		if err := r.showSection(ctx, title, ctrl); err != nil {
			return err
		}
		for _, b := range ctrl.Bindings() {
			if err := r.promptBinding(ctx, ctrl, state, b); err != nil {
				return err
			}
		}
		if err := r.navigate(ctx, ctrl); err != nil {
			return err
		}
	}

	if err := r.driver.Info(ctx, r.theme.Success.Render(MessageSubmitted)); err != nil {
		return err
	}
	return r.driver.Info(ctx, MessageSubmittedDetail)
}

func (r *Runner) showSection(ctx context.Context, title string, ctrl *form.Controller) error {
	sec := ctrl.Section()
	lines := []string{
		r.theme.Title.Render(title),
		r.theme.Progress.Render(ctrl.Progress()),
		r.theme.Title.Render(sanitize.Text(sec.Title)),
	}
	if desc := sanitize.Text(sec.Description); desc != "" {
		lines = append(lines, desc)
	}
	for _, line := range lines {
		if err := r.driver.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) navigate(ctx context.Context, ctrl *form.Controller) error {
	var actions []string
	if !ctrl.IsFirst() {
		actions = append(actions, ActionPrevious)
	}
	if ctrl.IsLast() {
		actions = append(actions, ActionSubmit)
	} else {
		actions = append(actions, ActionNext)
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Continue",
		Options:      actions,
		DefaultIndex: len(actions) - 1,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(actions) {
		return fmt.Errorf("tui: invalid navigation choice %d", idx)
	}

	switch actions[idx] {
	case ActionPrevious:
		err = ctrl.Prev()
	case ActionNext:
		err = ctrl.Next()
	case ActionSubmit:
		err = ctrl.Submit()
	}
	if errors.Is(err, form.ErrSectionInvalid) {
		return r.driver.Info(ctx, r.theme.Notice.Render(ctrl.Notice()))
	}
	return err
}

func (r *Runner) promptBinding(ctx context.Context, ctrl *form.Controller, state *field.State, b section.Binding) error {
	f := b.Field
	stored := ctrl.Value(f.ID)
	next, err := r.ask(ctx, f, b.Value)
	if err != nil {
		return err
	}
	if field.ControlFor(f) == field.ControlUnsupported {
		return nil
	}

	if field.Changed(stored, next) {
		state.Change(f, next, b.Change)
		stored = next
	}
	if msg := state.Message(f.ID); msg != "" {
		return r.driver.Info(ctx, r.theme.Error.Render(msg))
	}
	if hint := field.Hint(f, stored); hint != "" {
		return r.driver.Info(ctx, r.theme.Hint.Render(hint))
	}
	return nil
}

func label(f schema.Field) string {
	text := sanitize.Text(f.Label)
	if f.Required {
		text += " *"
	}
	return text
}

func optionLabels(f schema.Field) []string {
	out := make([]string, 0, len(f.Options))
	for _, opt := range f.Options {
		out = append(out, sanitize.Text(opt.Label))
	}
	return out
}

func optionIndex(f schema.Field, value string) int {
	for i, opt := range f.Options {
		if opt.Value == value {
			return i
		}
	}
	return -1
}

// ask shows the control for f and returns the value the user produced.
func (r *Runner) ask(ctx context.Context, f schema.Field, current schema.Value) (schema.Value, error) {
	switch field.ControlFor(f) {
	case field.ControlInput:
		out, err := r.driver.Input(ctx, InputConfig{
			Message: label(f),
			Default: current.String(),
			Help:    f.Placeholder,
		})
		return schema.Text(out), err

	case field.ControlTextArea:
		out, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: label(f),
			Default: current.String(),
			Help:    f.Placeholder,
		})
		return schema.Text(out), err

	case field.ControlSelect:
		options := append([]string{field.SelectPlaceholder}, optionLabels(f)...)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label(f),
			Options:      options,
			DefaultIndex: optionIndex(f, current.String()) + 1,
		})
		if err != nil {
			return current, err
		}
		if idx <= 0 || idx > len(f.Options) {
			return schema.Text(""), nil
		}
		return field.Choose(f.Options[idx-1].Value), nil

	case field.ControlRadioGroup:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label(f),
			Options:      optionLabels(f),
			DefaultIndex: optionIndex(f, current.String()),
		})
		if err != nil {
			return current, err
		}
		if idx < 0 || idx >= len(f.Options) {
			return current, nil
		}
		return field.Choose(f.Options[idx].Value), nil

	case field.ControlToggle:
		out, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label(f),
			Default: current.Bool(),
		})
		return schema.Bool(out), err

	case field.ControlToggleGroup:
		var defaults []int
		for i, opt := range f.Options {
			if current.Contains(opt.Value) {
				defaults = append(defaults, i)
			}
		}
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  label(f),
			Options:  optionLabels(f),
			Defaults: defaults,
		})
		if err != nil {
			return current, err
		}
		var checked []string
		for _, idx := range picked {
			if idx >= 0 && idx < len(f.Options) {
				checked = append(checked, f.Options[idx].Value)
			}
		}
		return field.Reconcile(f, current, checked), nil

	default:
		return current, r.driver.Info(ctx, r.theme.Error.Render(field.UnsupportedMessage(f)))
	}
}
