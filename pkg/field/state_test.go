package field

import (
	"testing"

	"github.com/goliatone/go-formflow/pkg/schema"
)

func TestState_ChangeRecordsInvalidValues(t *testing.T) {
	f := schema.Field{ID: "phone", Type: schema.FieldTypeTel}
	state := NewState()

	var recorded schema.Value
	msg := state.Change(f, schema.Text("123"), func(v schema.Value) { recorded = v })

	if msg != MessagePhone {
		t.Fatalf("expected phone message, got %q", msg)
	}
	if recorded.String() != "123" {
		t.Fatalf("invalid value should still be recorded, got %q", recorded.String())
	}
	if state.Message("phone") != MessagePhone {
		t.Fatalf("message not stored")
	}

	state.Change(f, schema.Text("1234567890"), nil)
	if got := state.Message("phone"); got != "" {
		t.Fatalf("valid value should clear the message, got %q", got)
	}
}

func TestControlFor(t *testing.T) {
	withOptions := []schema.Option{{Label: "A", Value: "a"}}
	cases := []struct {
		field schema.Field
		want  Control
	}{
		{schema.Field{Type: schema.FieldTypeText}, ControlInput},
		{schema.Field{Type: schema.FieldTypeEmail}, ControlInput},
		{schema.Field{Type: schema.FieldTypeTel}, ControlInput},
		{schema.Field{Type: schema.FieldTypeDate}, ControlInput},
		{schema.Field{Type: schema.FieldTypeTextarea}, ControlTextArea},
		{schema.Field{Type: schema.FieldTypeDropdown, Options: withOptions}, ControlSelect},
		{schema.Field{Type: schema.FieldTypeRadio, Options: withOptions}, ControlRadioGroup},
		{schema.Field{Type: schema.FieldTypeCheckbox}, ControlToggle},
		{schema.Field{Type: schema.FieldTypeCheckbox, Options: withOptions}, ControlToggleGroup},
		{schema.Field{Type: schema.FieldTypeUnsupported, RawType: "slider"}, ControlUnsupported},
	}
	for _, tc := range cases {
		if got := ControlFor(tc.field); got != tc.want {
			t.Fatalf("ControlFor(%s) = %s, want %s", tc.field.Type, got, tc.want)
		}
	}

	if got := InputType(schema.Field{Type: schema.FieldTypeDate}); got != "date" {
		t.Fatalf("InputType(date) = %q", got)
	}
	if got := UnsupportedMessage(schema.Field{Type: schema.FieldTypeUnsupported, RawType: "slider"}); got != "Unsupported field type: slider" {
		t.Fatalf("unexpected unsupported message %q", got)
	}
}
