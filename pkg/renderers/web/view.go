package web

import (
	"strconv"

	"github.com/goliatone/go-formflow/pkg/app"
	"github.com/goliatone/go-formflow/pkg/field"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/identity"
	"github.com/goliatone/go-formflow/pkg/sanitize"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/section"
)

// Numbers are carried as strings since template data passes through JSON.

type pageView struct {
	Title             string     `json:"title"`
	Stylesheet        string     `json:"stylesheet"`
	Theme             themeView  `json:"theme"`
	Banner            string     `json:"banner,omitempty"`
	View              string     `json:"view"`
	SelectPlaceholder string     `json:"selectPlaceholder"`
	Login             *loginView `json:"login,omitempty"`
	Form              *formView  `json:"form,omitempty"`
}

type themeView struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
	Style   string `json:"style,omitempty"`
}

type loginView struct {
	RollNumber      string `json:"rollNumber"`
	Name            string `json:"name"`
	RollNumberError string `json:"rollNumberError,omitempty"`
	NameError       string `json:"nameError,omitempty"`
	SubmitLabel     string `json:"submitLabel"`
	Disabled        bool   `json:"disabled"`
}

type formView struct {
	Title         string      `json:"title"`
	Submitted     bool        `json:"submitted"`
	Progress      string      `json:"progress"`
	Notice        string      `json:"notice,omitempty"`
	Section       sectionView `json:"section"`
	ShowPrev      bool        `json:"showPrev"`
	ShowSubmit    bool        `json:"showSubmit"`
	DefaultAction string      `json:"defaultAction"`
}

type sectionView struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Fields      []fieldView `json:"fields"`
}

type fieldView struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Control     string       `json:"control"`
	InputType   string       `json:"inputType,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
	Required    bool         `json:"required"`
	MinLength   string       `json:"minLength,omitempty"`
	MaxLength   string       `json:"maxLength,omitempty"`
	Value       string       `json:"value"`
	Checked     bool         `json:"checked"`
	Options     []optionView `json:"options,omitempty"`
	Error       string       `json:"error,omitempty"`
	Hint        string       `json:"hint,omitempty"`
	DataTestID  string       `json:"dataTestId,omitempty"`
	Unsupported string       `json:"unsupported,omitempty"`
}

type optionView struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Value      string `json:"value"`
	Selected   bool   `json:"selected"`
	DataTestID string `json:"dataTestId,omitempty"`
}

func buildLoginView(a *app.App) *loginView {
	gate := a.Gate()
	draft := gate.Draft()
	return &loginView{
		RollNumber:      draft.RollNumber,
		Name:            draft.Name,
		RollNumberError: gate.Error(identity.FieldRollNumber),
		NameError:       gate.Error(identity.FieldName),
		SubmitLabel:     identity.SubmitLabel(a.Loading()),
		Disabled:        identity.Disabled(a.Loading()),
	}
}

func buildFormView(ctrl *form.Controller, state *field.State) *formView {
	view := &formView{
		Title:     sanitize.Text(ctrl.Form().FormTitle),
		Submitted: ctrl.Submitted(),
	}
	if view.Submitted {
		return view
	}

	sec := ctrl.Section()
	view.Progress = ctrl.Progress()
	view.Notice = ctrl.Notice()
	view.ShowPrev = !ctrl.IsFirst()
	view.ShowSubmit = ctrl.IsLast()
	view.DefaultAction = "/form/next"
	if view.ShowSubmit {
		view.DefaultAction = "/form/submit"
	}
	view.Section = sectionView{
		ID:          sec.SectionID,
		Title:       sanitize.Text(sec.Title),
		Description: sanitize.Text(sec.Description),
	}
	for _, b := range ctrl.Bindings() {
		view.Section.Fields = append(view.Section.Fields, buildFieldView(b, ctrl.Value(b.Field.ID), state))
	}
	return view
}

func buildFieldView(b section.Binding, stored schema.Value, state *field.State) fieldView {
	f := b.Field
	control := field.ControlFor(f)
	view := fieldView{
		ID:          f.ID,
		Label:       sanitize.Text(f.Label),
		Control:     string(control),
		InputType:   field.InputType(f),
		Placeholder: sanitize.Text(f.Placeholder),
		Required:    f.Required,
		Value:       b.Value.String(),
		Checked:     b.Value.Bool(),
		Error:       state.Message(f.ID),
		DataTestID:  f.DataTestID,
	}
	if f.MinLength > 0 {
		view.MinLength = strconv.Itoa(f.MinLength)
	}
	if f.MaxLength > 0 {
		view.MaxLength = strconv.Itoa(f.MaxLength)
	}
	if view.Error == "" {
		view.Hint = field.Hint(f, stored)
	}

	switch control {
	case field.ControlSelect, field.ControlRadioGroup, field.ControlToggleGroup:
		for _, opt := range f.Options {
			selected := b.Value.String() == opt.Value
			if control == field.ControlToggleGroup {
				selected = b.Value.Contains(opt.Value)
			}
			view.Options = append(view.Options, optionView{
				ID:         f.ID + "-" + opt.Value,
				Label:      sanitize.Text(opt.Label),
				Value:      opt.Value,
				Selected:   selected,
				DataTestID: opt.DataTestID,
			})
		}
	case field.ControlUnsupported:
		view.Unsupported = field.UnsupportedMessage(f)
	}
	return view
}
