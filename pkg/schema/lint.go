package schema

import "fmt"

// Issue is a structural problem found in a form schema.
type Issue struct {
	Section string
	Field   string
	Message string
}

func (i Issue) String() string {
	switch {
	case i.Field != "":
		return fmt.Sprintf("sections[%s].fields[%s]: %s", i.Section, i.Field, i.Message)
	case i.Section != "":
		return fmt.Sprintf("sections[%s]: %s", i.Section, i.Message)
	default:
		return i.Message
	}
}

// Lint reports problems the renderer tolerates at runtime but a schema author
// would want to fix: duplicate field ids within a section, unsupported types,
// choice fields without options, options on free-text fields, and inverted
// length bounds.
func Lint(form FormSchema) []Issue {
	var issues []Issue
	if len(form.Sections) == 0 {
		issues = append(issues, Issue{Message: "form has no sections"})
	}

	for idx, section := range form.Sections {
		sectionKey := section.SectionID
		if sectionKey == "" {
			sectionKey = fmt.Sprint(idx)
		}
		if len(section.Fields) == 0 {
			issues = append(issues, Issue{Section: sectionKey, Message: "section has no fields"})
		}

		seen := make(map[string]struct{}, len(section.Fields))
		for _, field := range section.Fields {
			add := func(format string, args ...any) {
				issues = append(issues, Issue{
					Section: sectionKey,
					Field:   field.ID,
					Message: fmt.Sprintf(format, args...),
				})
			}

			if field.ID == "" {
				add("fieldId is required")
			} else if _, dup := seen[field.ID]; dup {
				add("duplicate fieldId")
			}
			seen[field.ID] = struct{}{}

			switch {
			case field.Type == FieldTypeUnsupported:
				add("unsupported type %q", field.RawType)
			case field.Type.Choice() && !field.HasOptions():
				add("%s field has no options", field.Type)
			case field.Type.TextLike() && field.HasOptions():
				add("options are ignored on %s fields", field.Type)
			}

			if field.MinLength > 0 && field.MaxLength > 0 && field.MinLength > field.MaxLength {
				add("minLength %d exceeds maxLength %d", field.MinLength, field.MaxLength)
			}
		}
	}
	return issues
}
