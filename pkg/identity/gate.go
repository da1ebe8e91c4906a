package identity

// Gate holds the draft identity being typed and the per-field errors from
// the last submit attempt.
type Gate struct {
	draft  Identity
	errors map[string]string
}

// NewGate returns an empty gate.
func NewGate() *Gate {
	return &Gate{errors: map[string]string{}}
}

// SetRollNumber updates the draft. Errors are left as they are until the
// next submit.
func (g *Gate) SetRollNumber(v string) {
	g.draft.RollNumber = v
}

// SetName updates the draft.
func (g *Gate) SetName(v string) {
	g.draft.Name = v
}

// Draft returns the identity as typed.
func (g *Gate) Draft() Identity {
	return g.draft
}

// Error returns the message for one field, "" when it passed.
func (g *Gate) Error(field string) string {
	return g.errors[field]
}

// Errors returns a copy of the per-field messages.
func (g *Gate) Errors() map[string]string {
	out := make(map[string]string, len(g.errors))
	for k, v := range g.errors {
		out[k] = v
	}
	return out
}

// Submit validates the draft. On failure it records the messages and does
// not call cont. On success it clears them and calls cont with the trimmed
// identity.
func (g *Gate) Submit(cont func(Identity)) bool {
	problems := Check(g.draft)
	g.errors = map[string]string{}
	for k, v := range problems {
		g.errors[k] = v
	}
	if len(problems) > 0 {
		return false
	}
	if cont != nil {
		cont(g.draft.Trimmed())
	}
	return true
}

// SubmitLabel is the login button caption.
func SubmitLabel(loading bool) string {
	if loading {
		return "Loading..."
	}
	return "Login"
}

// Disabled reports whether the login action is unavailable.
func Disabled(loading bool) bool {
	return loading
}
