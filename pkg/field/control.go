package field

import (
	"fmt"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Control is the kind of widget a field renders as.
type Control string

const (
	ControlInput       Control = "input"
	ControlTextArea    Control = "textarea"
	ControlSelect      Control = "select"
	ControlRadioGroup  Control = "radio-group"
	ControlToggle      Control = "toggle"
	ControlToggleGroup Control = "toggle-group"
	ControlUnsupported Control = "unsupported"
)

// SelectPlaceholder labels the empty leading entry of a dropdown.
const SelectPlaceholder = "Select an option"

// ControlFor maps a field onto its control. Checkbox fields become a toggle
// group when they declare options and a single toggle otherwise.
func ControlFor(f schema.Field) Control {
	switch f.Type {
	case schema.FieldTypeText, schema.FieldTypeEmail, schema.FieldTypeTel, schema.FieldTypeDate:
		return ControlInput
	case schema.FieldTypeTextarea:
		return ControlTextArea
	case schema.FieldTypeDropdown:
		return ControlSelect
	case schema.FieldTypeRadio:
		return ControlRadioGroup
	case schema.FieldTypeCheckbox:
		if f.HasOptions() {
			return ControlToggleGroup
		}
		return ControlToggle
	case schema.FieldTypeUnsupported:
		return ControlUnsupported
	default:
		return ControlUnsupported
	}
}

// InputType is the HTML input type used for single-line controls.
func InputType(f schema.Field) string {
	if ControlFor(f) != ControlInput {
		return ""
	}
	return string(f.Type)
}

// UnsupportedMessage is shown in place of a control for unknown types.
func UnsupportedMessage(f schema.Field) string {
	name := f.RawType
	if name == "" {
		name = string(f.Type)
	}
	return fmt.Sprintf("Unsupported field type: %s", name)
}
