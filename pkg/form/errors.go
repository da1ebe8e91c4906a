package form

import "errors"

var (
	// ErrNoSections is returned when a form schema has nothing to render.
	ErrNoSections = errors.New("form: schema has no sections")
	// ErrSectionInvalid signals the current section failed its gate; the
	// blocking notice is available from Controller.Notice.
	ErrSectionInvalid = errors.New("form: section has validation errors")
	// ErrNoNextSection is returned by Next on the last section.
	ErrNoNextSection = errors.New("form: already on the last section")
	// ErrNotLastSection is returned by Submit before the last section.
	ErrNotLastSection = errors.New("form: submit is only available on the last section")
	// ErrSubmitted is returned by every mutation once the form was submitted.
	ErrSubmitted = errors.New("form: already submitted")
)
