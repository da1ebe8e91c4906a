// Package identity collects the roll number and name a user logs in with.
package identity

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	FieldRollNumber = "rollNumber"
	FieldName       = "name"
)

// Identity is the pair a user registers with. Both values are non-empty
// after trimming once accepted by a Gate.
type Identity struct {
	RollNumber string `json:"rollNumber" validate:"required"`
	Name       string `json:"name" validate:"required"`
}

// Trimmed returns a copy with surrounding whitespace removed.
func (id Identity) Trimmed() Identity {
	return Identity{
		RollNumber: strings.TrimSpace(id.RollNumber),
		Name:       strings.TrimSpace(id.Name),
	}
}

var messages = map[string]string{
	"rollNumber.required": "Roll Number is required",
	"name.required":       "Name is required",
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Check validates the trimmed identity and returns one message per failing
// field keyed by the field's json name. A nil map means the identity is valid.
func Check(id Identity) map[string]string {
	err := getValidator().Struct(id.Trimmed())
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		msg, found := messages[fe.Field()+"."+fe.Tag()]
		if !found {
			msg = fe.Error()
		}
		out[fe.Field()] = msg
	}
	return out
}
