package field

import (
	"fmt"
	"regexp"

	"github.com/goliatone/go-formflow/pkg/schema"
)

const (
	MessageRequired = "This field is required"
	MessageEmail    = "Please enter a valid email address"
	MessagePhone    = "Please enter a valid 10-digit phone number"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// MinLengthMessage formats the minimum length failure.
func MinLengthMessage(n int) string {
	return fmt.Sprintf("Minimum length is %d characters", n)
}

// MaxLengthMessage formats the maximum length failure.
func MaxLengthMessage(n int) string {
	return fmt.Sprintf("Maximum length is %d characters", n)
}

// Validate returns the message of the first rule the value breaks, or "" when
// the value is acceptable. Length bounds only apply to text values; an absent
// value is not text, so an untouched optional field never trips them.
func Validate(f schema.Field, v schema.Value) string {
	if f.Required && v.Empty() {
		return MessageRequired
	}

	n, isText := v.Length()
	if !isText {
		return ""
	}
	if f.MinLength > 0 && n < f.MinLength {
		return MinLengthMessage(f.MinLength)
	}
	if f.MaxLength > 0 && n > f.MaxLength {
		return MaxLengthMessage(f.MaxLength)
	}

	text := v.String()
	if text == "" {
		return ""
	}
	switch f.Type {
	case schema.FieldTypeEmail:
		if !emailPattern.MatchString(text) {
			return MessageEmail
		}
	case schema.FieldTypeTel:
		if !phonePattern.MatchString(text) {
			return MessagePhone
		}
	}
	return ""
}

// Hint returns the schema's custom validation message while a required field
// is still empty.
func Hint(f schema.Field, v schema.Value) string {
	if f.ValidationMessage == "" || !f.Required || !v.Empty() {
		return ""
	}
	return f.ValidationMessage
}
