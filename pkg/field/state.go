package field

import "github.com/goliatone/go-formflow/pkg/schema"

// State keeps the inline validation message of every field a front-end has
// shown. The zero value is not usable; construct it with NewState.
type State struct {
	messages map[string]string
}

// NewState returns an empty message store.
func NewState() *State {
	return &State{messages: make(map[string]string)}
}

// Change records v through onChange and then validates it, storing the
// resulting message for the field. The change is recorded even when the value
// fails validation. The returned message is "" for a valid value.
func (s *State) Change(f schema.Field, v schema.Value, onChange func(schema.Value)) string {
	if onChange != nil {
		onChange(v)
	}
	message := Validate(f, v)
	if message == "" {
		delete(s.messages, f.ID)
		return ""
	}
	s.messages[f.ID] = message
	return message
}

// Message returns the inline message currently shown for a field.
func (s *State) Message(id string) string {
	if s == nil {
		return ""
	}
	return s.messages[id]
}
