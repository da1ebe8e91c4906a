package schema

import (
	"encoding/json"
	"slices"
	"sort"
	"unicode/utf8"
)

// ValueKind tags the shape carried by a Value.
type ValueKind uint8

const (
	// KindAbsent marks a field the user never touched.
	KindAbsent ValueKind = iota
	// KindText carries free text or a single selected option value.
	KindText
	// KindList carries the selected values of a checkbox group.
	KindList
	// KindBool carries the state of a single checkbox.
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindBool:
		return "bool"
	default:
		return "absent"
	}
}

// Value is the user-entered content of one field.
type Value struct {
	kind ValueKind
	text string
	list []string
	flag bool
}

// Absent returns the value of an untouched field.
func Absent() Value {
	return Value{}
}

// Text wraps free text or a single-select choice.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// List wraps a multi-select selection. The slice is copied.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string{}, items...)}
}

// Bool wraps a single checkbox state.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Kind reports the value's shape.
func (v Value) Kind() ValueKind {
	return v.kind
}

// String returns the text content, or "" for non-text values.
func (v Value) String() string {
	return v.text
}

// Strings returns a copy of the selection list, or nil for non-list values.
func (v Value) Strings() []string {
	if v.kind != KindList {
		return nil
	}
	return append([]string{}, v.list...)
}

// Contains reports whether a list value includes item.
func (v Value) Contains(item string) bool {
	return v.kind == KindList && slices.Contains(v.list, item)
}

// Bool returns the checkbox state, false for non-bool values.
func (v Value) Bool() bool {
	return v.kind == KindBool && v.flag
}

// Empty reports whether the value counts as missing for a required field.
// Each kind is explicit: absent, "", false, and an empty selection are empty.
func (v Value) Empty() bool {
	switch v.kind {
	case KindText:
		return v.text == ""
	case KindList:
		return len(v.list) == 0
	case KindBool:
		return !v.flag
	default:
		return true
	}
}

// Length returns the rune count of a text value and true, or false for
// non-text values which carry no length constraint.
func (v Value) Length() (int, bool) {
	if v.kind != KindText {
		return 0, false
	}
	return utf8.RuneCountInString(v.text), true
}

// Equal compares kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindList:
		return slices.Equal(v.list, other.list)
	case KindBool:
		return v.flag == other.flag
	default:
		return true
	}
}

// Interface converts the value to its JSON-compatible form.
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindList:
		return append([]string{}, v.list...)
	case KindBool:
		return v.flag
	default:
		return nil
	}
}

// MarshalJSON encodes the value as a string, array, bool, or null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Values maps field ids to the values entered so far. Only touched fields
// have entries.
type Values map[string]Value

// Get returns the stored value or Absent.
func (vs Values) Get(id string) Value {
	if vs == nil {
		return Absent()
	}
	return vs[id]
}

// Has reports whether the field was touched.
func (vs Values) Has(id string) bool {
	_, ok := vs[id]
	return ok
}

// Clone copies the mapping.
func (vs Values) Clone() Values {
	out := make(Values, len(vs))
	for id, v := range vs {
		if v.kind == KindList {
			v.list = append([]string{}, v.list...)
		}
		out[id] = v
	}
	return out
}

// Keys returns the touched field ids in sorted order.
func (vs Values) Keys() []string {
	keys := make([]string, 0, len(vs))
	for id := range vs {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys
}

// Payload converts the mapping into plain Go values for serialization.
func (vs Values) Payload() map[string]any {
	out := make(map[string]any, len(vs))
	for id, v := range vs {
		out[id] = v.Interface()
	}
	return out
}
