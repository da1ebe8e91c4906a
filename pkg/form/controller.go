package form

import (
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/section"
)

const (
	NoticeNext   = "Please fix validation errors before proceeding."
	NoticeSubmit = "Please fix validation errors before submitting."
)

// Option configures a Controller.
type Option func(*Controller)

// WithSink sets where the payload goes on a successful submit.
func WithSink(sink Sink) Option {
	return func(c *Controller) {
		if sink != nil {
			c.sink = sink
		}
	}
}

// WithLogger overrides the logger used for navigation events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the values collected for one form, the current section,
// and the submitted flag. It is not safe for concurrent use.
type Controller struct {
	form      schema.FormSchema
	index     int
	values    schema.Values
	submitted bool
	notice    string
	sink      Sink
	logger    *slog.Logger
}

// New builds a controller positioned on the first section with no values.
func New(form schema.FormSchema, options ...Option) (*Controller, error) {
	if len(form.Sections) == 0 {
		return nil, ErrNoSections
	}
	c := &Controller{
		form:   form,
		values: make(schema.Values),
		sink:   nopSink{},
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Form returns the schema being edited.
func (c *Controller) Form() schema.FormSchema {
	return c.form
}

// Index returns the zero-based current section index.
func (c *Controller) Index() int {
	return c.index
}

// Section returns the current section.
func (c *Controller) Section() schema.Section {
	return c.form.Sections[c.index]
}

// IsFirst reports whether the current section is the first one.
func (c *Controller) IsFirst() bool {
	return c.index == 0
}

// IsLast reports whether the current section is the last one.
func (c *Controller) IsLast() bool {
	return c.index == len(c.form.Sections)-1
}

// Progress renders the "Section i of n" indicator.
func (c *Controller) Progress() string {
	return fmt.Sprintf("Section %d of %d", c.index+1, len(c.form.Sections))
}

// Values returns a copy of everything collected so far.
func (c *Controller) Values() schema.Values {
	return c.values.Clone()
}

// Value returns the stored value for one field.
func (c *Controller) Value(id string) schema.Value {
	return c.values.Get(id)
}

// Submitted reports whether the form reached its terminal state.
func (c *Controller) Submitted() bool {
	return c.submitted
}

// Notice returns the blocking validation notice, "" when none is showing.
func (c *Controller) Notice() string {
	return c.notice
}

// Bindings binds the current section's fields to the stored values.
func (c *Controller) Bindings() []section.Binding {
	return section.Bind(c.Section(), c.values, func(id string, v schema.Value) {
		_ = c.SetField(id, v)
	})
}

// SetField stores a value. No validation runs here.
func (c *Controller) SetField(id string, v schema.Value) error {
	if c.submitted {
		return ErrSubmitted
	}
	c.values[id] = v
	return nil
}

// ValidateSection checks the section's fields in order and reports false on
// the first field that is required but empty, or whose text is shorter than
// minLength or longer than maxLength.
func (c *Controller) ValidateSection(sec schema.Section) bool {
	for _, f := range sec.Fields {
		if violates(f, c.values.Get(f.ID)) {
			c.logger.Debug("section field invalid", "section", sec.SectionID, "field", f.ID)
			return false
		}
	}
	return true
}

func violates(f schema.Field, v schema.Value) bool {
	if f.Required && v.Empty() {
		return true
	}
	n, isText := v.Length()
	if !isText {
		return false
	}
	if f.MinLength > 0 && n < f.MinLength {
		return true
	}
	return f.MaxLength > 0 && n > f.MaxLength
}

// Next advances one section when the current one is valid. Otherwise it sets
// the blocking notice and returns ErrSectionInvalid.
func (c *Controller) Next() error {
	if c.submitted {
		return ErrSubmitted
	}
	if c.IsLast() {
		return ErrNoNextSection
	}
	if !c.ValidateSection(c.Section()) {
		c.notice = NoticeNext
		return ErrSectionInvalid
	}
	c.index++
	c.notice = ""
	c.logger.Debug("section advanced", "index", c.index)
	return nil
}

// Prev moves back one section, stopping at the first. No validation runs.
func (c *Controller) Prev() error {
	if c.submitted {
		return ErrSubmitted
	}
	c.index = max(0, c.index-1)
	c.notice = ""
	return nil
}

// Submit validates the last section and, when valid, marks the form
// submitted and hands a copy of the values to the sink. Submission is
// terminal.
func (c *Controller) Submit() error {
	if c.submitted {
		return ErrSubmitted
	}
	if !c.IsLast() {
		return ErrNotLastSection
	}
	if !c.ValidateSection(c.Section()) {
		c.notice = NoticeSubmit
		return ErrSectionInvalid
	}
	c.submitted = true
	c.notice = ""
	c.sink.Record(Submission{
		FormTitle: c.form.FormTitle,
		Values:    c.values.Clone(),
	})
	return nil
}
