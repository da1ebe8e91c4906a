package field

import (
	"slices"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Toggle checks or unchecks one option of a checkbox group. A current value
// that is not a list is treated as an empty selection. Checked options are
// appended in the order they were toggled on.
func Toggle(current schema.Value, option string, checked bool) schema.Value {
	selected := current.Strings()
	if selected == nil {
		selected = []string{}
	}
	if checked {
		if !slices.Contains(selected, option) {
			selected = append(selected, option)
		}
		return schema.List(selected...)
	}
	return schema.List(slices.DeleteFunc(selected, func(v string) bool { return v == option })...)
}

// Choose is the value a radio option produces when picked.
func Choose(option string) schema.Value {
	return schema.Text(option)
}

// Reconcile replays the difference between the current selection and a new
// set of checked options as individual toggles, in option order: unchecks
// first, then checks. Values not declared as options are dropped.
func Reconcile(f schema.Field, current schema.Value, checked []string) schema.Value {
	next := current
	if next.Kind() != schema.KindList {
		next = schema.List()
	}
	for _, opt := range f.Options {
		if next.Contains(opt.Value) && !slices.Contains(checked, opt.Value) {
			next = Toggle(next, opt.Value, false)
		}
	}
	for _, opt := range f.Options {
		if !next.Contains(opt.Value) && slices.Contains(checked, opt.Value) {
			next = Toggle(next, opt.Value, true)
		}
	}
	return next
}

// Changed reports whether next differs from what the control showed for
// current. An untouched field shows as empty, so an empty next leaves it
// untouched.
func Changed(current, next schema.Value) bool {
	if current.Kind() == schema.KindAbsent {
		return !next.Empty()
	}
	return !current.Equal(next)
}
