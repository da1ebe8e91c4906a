// Package section binds the fields of one form section to the shared value
// store.
package section

import "github.com/goliatone/go-formflow/pkg/schema"

// Binding pairs a field with the value its control shows and a callback that
// writes a new value back under the field's id.
type Binding struct {
	Field  schema.Field
	Value  schema.Value
	Change func(schema.Value)
}

// Bind returns one binding per field in declared order. Untouched fields show
// as empty text. Each Change callback only writes its own field's key.
func Bind(sec schema.Section, values schema.Values, onChange func(fieldID string, v schema.Value)) []Binding {
	bindings := make([]Binding, 0, len(sec.Fields))
	for _, f := range sec.Fields {
		id := f.ID
		current := values.Get(id)
		if current.Kind() == schema.KindAbsent {
			current = schema.Text("")
		}
		bindings = append(bindings, Binding{
			Field: f,
			Value: current,
			Change: func(v schema.Value) {
				if onChange != nil {
					onChange(id, v)
				}
			},
		})
	}
	return bindings
}
