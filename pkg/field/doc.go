// Package field turns one schema field plus its current value into a control
// description and runs the per-change validation rules. Rules are evaluated
// in a fixed order (required, minimum length, maximum length, email, phone)
// and the first failure's message is reported. Messages are advisory: a
// failing value is still recorded, it is the section gate in package form
// that blocks navigation.
package field
