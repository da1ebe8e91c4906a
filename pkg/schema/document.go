package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document wraps a raw form payload together with its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// documentFile accepts both the service envelope ({"form": {...}}) and a bare
// form at the top level.
type documentFile struct {
	Form       *FormSchema `json:"form" yaml:"form"`
	FormSchema `yaml:",inline"`
}

// Decode parses the payload as JSON, falling back to YAML for local files.
// Payloads fetched over HTTP must be JSON.
func (d Document) Decode() (FormSchema, error) {
	if len(strings.TrimSpace(string(d.raw))) == 0 {
		return FormSchema{}, fmt.Errorf("schema: document %s is empty", d.Location())
	}

	var doc documentFile
	jsonErr := json.Unmarshal(d.raw, &doc)
	if jsonErr != nil {
		if d.source != nil && d.source.Kind() == SourceKindURL {
			return FormSchema{}, fmt.Errorf("schema: decode %s: %w", d.Location(), jsonErr)
		}
		doc = documentFile{}
		if err := yaml.Unmarshal(d.raw, &doc); err != nil {
			return FormSchema{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML", d.Location())
		}
	}

	if doc.Form != nil {
		return *doc.Form, nil
	}
	if doc.FormTitle == "" && len(doc.Sections) == 0 {
		return FormSchema{}, fmt.Errorf("schema: document %s has no form", d.Location())
	}
	return doc.FormSchema, nil
}

// LoadFile reads and decodes a schema file from disk.
func LoadFile(path string) (FormSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FormSchema{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	doc, err := NewDocument(SourceFromFile(path), data)
	if err != nil {
		return FormSchema{}, err
	}
	return doc.Decode()
}

// LoadFS reads and decodes a schema file from an fs.FS.
func LoadFS(fsys fs.FS, name string) (FormSchema, error) {
	if fsys == nil {
		return FormSchema{}, errors.New("schema: file system is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return FormSchema{}, fmt.Errorf("schema: read %s: %w", name, err)
	}
	doc, err := NewDocument(SourceFromFS(name), data)
	if err != nil {
		return FormSchema{}, err
	}
	return doc.Decode()
}
