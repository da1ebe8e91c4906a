package gotemplate_test

import (
	"embed"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formflow/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

//go:embed testdata/*.tpl
var embedded embed.FS

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	sub, err := fs.Sub(embedded, "testdata")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(sub)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", struct {
			Name string `json:"name"`
		}{Name: "Ada"}, w)
	})
	if result != "Hello Ada!" || written != result {
		t.Fatalf("unexpected output %q / %q", result, written)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{
		"site": map[string]any{"title": "formflow"},
	}))

	got, err := engine.RenderTemplate("global.tpl", map[string]any{"page": "login"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "formflow/login" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	if err := engine.RegisterFilter("formflow_shout", func(input any, _ any) (any, error) {
		s, _ := input.(string)
		return strings.ToUpper(s), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := engine.RegisterFilter("formflow_shout", func(input any, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}

	got, err := engine.RenderString(`{{ word|formflow_shout }}`, map[string]any{"word": "go"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "GO" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_Autoescape(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderString(`{{ v }}`, map[string]any{"v": "<b>x</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "&lt;b&gt;x&lt;/b&gt;" {
		t.Fatalf("expected escaped output, got %q", got)
	}
}

func TestNew_RequiresLoader(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without loader")
	}
}
