package testsupport

import (
	"bytes"
	"context"
	"embed"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/schema"
)

//go:embed testdata/*.json testdata/*.yaml
var fixtures embed.FS

// StudentFormJSON returns the raw envelope served by the remote service for
// the two-section student form fixture.
func StudentFormJSON(t *testing.T) []byte {
	t.Helper()

	data, err := fixtures.ReadFile("testdata/student_form.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// StudentForm decodes the two-section student form fixture.
func StudentForm(t *testing.T) schema.FormSchema {
	t.Helper()

	form, err := schema.LoadFS(fixtures, "testdata/student_form.json")
	if err != nil {
		t.Fatalf("load student form: %v", err)
	}
	return form
}

// LoadForm decodes any embedded fixture by name.
func LoadForm(t *testing.T, name string) schema.FormSchema {
	t.Helper()

	form, err := schema.LoadFS(fixtures, filepath.ToSlash(filepath.Join("testdata", name)))
	if err != nil {
		t.Fatalf("load form %s: %v", name, err)
	}
	return form
}

// WriteFixture writes data under dir and returns the file path.
func WriteFixture(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// Diff returns a readable diff between want and got, empty when equal.
func Diff(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
