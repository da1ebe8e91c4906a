package schema

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldType names the control a field renders as. The set is closed: any
// type the service sends outside of it decodes to FieldTypeUnsupported.
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeEmail       FieldType = "email"
	FieldTypeTel         FieldType = "tel"
	FieldTypeDate        FieldType = "date"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeDropdown    FieldType = "dropdown"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeUnsupported FieldType = "unsupported"
)

// FieldTypes lists every supported type in declaration order.
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeEmail,
	FieldTypeTel,
	FieldTypeDate,
	FieldTypeTextarea,
	FieldTypeDropdown,
	FieldTypeRadio,
	FieldTypeCheckbox,
}

// ParseFieldType maps a wire type name onto the closed set. Unknown names
// report false and yield FieldTypeUnsupported.
func ParseFieldType(raw string) (FieldType, bool) {
	name := FieldType(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range FieldTypes {
		if known == name {
			return known, true
		}
	}
	return FieldTypeUnsupported, false
}

// TextLike reports whether values of this type are typed free text.
func (t FieldType) TextLike() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeTel, FieldTypeDate, FieldTypeTextarea:
		return true
	default:
		return false
	}
}

// Choice reports whether the type picks from a list of options.
func (t FieldType) Choice() bool {
	switch t {
	case FieldTypeDropdown, FieldTypeRadio:
		return true
	default:
		return false
	}
}

// FormSchema is the declarative form issued by the remote service.
type FormSchema struct {
	FormTitle string    `json:"formTitle" yaml:"formTitle"`
	Sections  []Section `json:"sections" yaml:"sections"`
}

// Section is one navigable step of a form.
type Section struct {
	SectionID   string  `json:"sectionId" yaml:"sectionId"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Option is one selectable entry of a dropdown, radio, or checkbox group.
type Option struct {
	Label      string `json:"label" yaml:"label"`
	Value      string `json:"value" yaml:"value"`
	DataTestID string `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// Field describes a single input. MinLength and MaxLength use zero for
// "no constraint".
type Field struct {
	ID                string
	Type              FieldType
	RawType           string
	Label             string
	Placeholder       string
	Required          bool
	MinLength         int
	MaxLength         int
	Options           []Option
	ValidationMessage string
	DataTestID        string
}

// HasOptions reports whether the field declares any options.
func (f Field) HasOptions() bool {
	return len(f.Options) > 0
}

// Option looks up a declared option by value.
func (f Field) Option(value string) (Option, bool) {
	for _, opt := range f.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

type fieldValidation struct {
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

type fieldWire struct {
	FieldID           string           `json:"fieldId" yaml:"fieldId"`
	Type              string           `json:"type" yaml:"type"`
	Label             string           `json:"label" yaml:"label"`
	Placeholder       string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required          bool             `json:"required" yaml:"required"`
	MinLength         int              `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength         int              `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Options           []Option         `json:"options,omitempty" yaml:"options,omitempty"`
	ValidationMessage string           `json:"validationMessage,omitempty" yaml:"validationMessage,omitempty"`
	Validation        *fieldValidation `json:"validation,omitempty" yaml:"validation,omitempty"`
	DataTestID        string           `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

func (w fieldWire) field() Field {
	kind, _ := ParseFieldType(w.Type)
	message := w.ValidationMessage
	if message == "" && w.Validation != nil {
		message = w.Validation.Message
	}
	return Field{
		ID:                w.FieldID,
		Type:              kind,
		RawType:           w.Type,
		Label:             w.Label,
		Placeholder:       w.Placeholder,
		Required:          w.Required,
		MinLength:         w.MinLength,
		MaxLength:         w.MaxLength,
		Options:           w.Options,
		ValidationMessage: message,
		DataTestID:        w.DataTestID,
	}
}

func (f Field) wire() fieldWire {
	raw := f.RawType
	if raw == "" || f.Type != FieldTypeUnsupported {
		raw = string(f.Type)
	}
	return fieldWire{
		FieldID:           f.ID,
		Type:              raw,
		Label:             f.Label,
		Placeholder:       f.Placeholder,
		Required:          f.Required,
		MinLength:         f.MinLength,
		MaxLength:         f.MaxLength,
		Options:           f.Options,
		ValidationMessage: f.ValidationMessage,
		DataTestID:        f.DataTestID,
	}
}

// UnmarshalJSON decodes the service's field descriptor, folding the nested
// validation.message form into ValidationMessage.
func (f *Field) UnmarshalJSON(data []byte) error {
	var w fieldWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*f = w.field()
	return nil
}

// MarshalJSON emits the wire shape, preserving the raw name of unsupported types.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.wire())
}

// UnmarshalYAML mirrors UnmarshalJSON for locally authored schema files.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	var w fieldWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	*f = w.field()
	return nil
}
