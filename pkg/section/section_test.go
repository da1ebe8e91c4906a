package section

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/schema"
)

func TestBind_OrderAndDefaults(t *testing.T) {
	sec := schema.Section{
		SectionID: "s1",
		Fields: []schema.Field{
			{ID: "b", Type: schema.FieldTypeText},
			{ID: "a", Type: schema.FieldTypeCheckbox},
		},
	}
	values := schema.Values{"a": schema.Bool(true)}

	bindings := Bind(sec, values, nil)
	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bindings))
	}
	if bindings[0].Field.ID != "b" || bindings[1].Field.ID != "a" {
		t.Fatalf("declared order not preserved")
	}
	if !bindings[0].Value.Equal(schema.Text("")) {
		t.Fatalf("untouched field should default to empty text")
	}
	if !bindings[1].Value.Bool() {
		t.Fatalf("stored value not passed through")
	}
}

func TestBind_ChangeWritesOnlyOwnKey(t *testing.T) {
	sec := schema.Section{
		Fields: []schema.Field{
			{ID: "first", Type: schema.FieldTypeText},
			{ID: "second", Type: schema.FieldTypeText},
		},
	}
	values := schema.Values{"first": schema.Text("kept"), "other": schema.Text("elsewhere")}
	onChange := func(id string, v schema.Value) { values[id] = v }

	Bind(sec, values, onChange)[1].Change(schema.Text("new"))

	want := map[string]any{"first": "kept", "second": "new", "other": "elsewhere"}
	if diff := cmp.Diff(want, values.Payload()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}
