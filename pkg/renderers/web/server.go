// Package web serves the login and form flow as server-rendered HTML. Each
// browser session owns its own app.App.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/app"
	"github.com/goliatone/go-formflow/pkg/field"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/render/template"
	"github.com/goliatone/go-formflow/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formflow/pkg/schema"
)

//go:embed templates/*.tpl
var templateFiles embed.FS

//go:embed static/*.css
var staticFiles embed.FS

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer replaces the embedded templates.
func WithRenderer(renderer template.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithTheme selects the manifest and variant used for CSS variables.
func WithTheme(manifest *theme.Manifest, variant string) Option {
	return func(s *Server) {
		if manifest != nil {
			s.manifest = manifest
		}
		s.variant = variant
	}
}

// WithAppOptions passes options to the app built for every session.
func WithAppOptions(opts ...app.Option) Option {
	return func(s *Server) {
		s.appOptions = append(s.appOptions, opts...)
	}
}

// WithSessionLimits bounds the session table. Sessions idle longer than
// idleTimeout are dropped, and the least recently seen one is dropped once
// maxSessions are stored. Zero keeps the defaults.
func WithSessionLimits(idleTimeout time.Duration, maxSessions int) Option {
	return func(s *Server) {
		s.idleTimeout = idleTimeout
		s.maxSessions = maxSessions
	}
}

// Server is the HTML front-end. It is safe for concurrent use.
type Server struct {
	service    app.Service
	renderer   template.Renderer
	manifest   *theme.Manifest
	variant    string
	theme      *theme.RendererConfig
	appOptions []app.Option
	sessions   *sessionStore
	logger     *slog.Logger
	router     *mux.Router

	idleTimeout time.Duration
	maxSessions int
}

// New builds a server whose sessions log in against service.
func New(service app.Service, options ...Option) (*Server, error) {
	if service == nil {
		return nil, errors.New("web: service is required")
	}
	s := &Server{
		service:  service,
		manifest: DefaultManifest(),
		logger:   slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	cfg, err := ResolveTheme(s.manifest, s.variant)
	if err != nil {
		return nil, err
	}
	s.theme = cfg

	if s.renderer == nil {
		sub, err := fs.Sub(templateFiles, "templates")
		if err != nil {
			return nil, fmt.Errorf("web: templates: %w", err)
		}
		engine, err := gotemplate.New(gotemplate.WithFS(sub))
		if err != nil {
			return nil, fmt.Errorf("web: template engine: %w", err)
		}
		s.renderer = engine
	}

	s.sessions = newSessionStore(func() *app.App {
		return app.New(s.service, s.appOptions...)
	}, s.idleTimeout, s.maxSessions)
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/form/{action:next|prev|submit}", s.handleForm).Methods(http.MethodPost)

	static, _ := fs.Sub(staticFiles, "static")
	r.PathPrefix(staticPrefix + "/").Handler(
		http.StripPrefix(staticPrefix+"/", http.FileServer(http.FS(static))),
	).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.sessions.len(),
	})
}

// handleIndex never stores a session: visitors without one get a fresh
// login page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.lookup(r)
	if !ok {
		sess = s.sessions.fresh()
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.render(w, sess)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	sess, ok := s.sessions.lookup(r)
	if !ok {
		sess = s.sessions.start(w)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	a := sess.app
	if a.View() == app.ViewIdentity {
		a.Gate().SetRollNumber(r.PostForm.Get("rollNumber"))
		a.Gate().SetName(r.PostForm.Get("name"))
		if _, err := a.SubmitIdentity(r.Context()); err != nil {
			s.logger.Warn("login failed", "error", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	sess, ok := s.sessions.lookup(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	ctrl, ok := sess.app.Form()
	if !ok || ctrl.Submitted() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	applyPosted(ctrl, sess.state, r)

	var err error
	switch mux.Vars(r)["action"] {
	case "next":
		err = ctrl.Next()
	case "prev":
		err = ctrl.Prev()
	case "submit":
		err = ctrl.Submit()
	}
	if err != nil && !errors.Is(err, form.ErrSectionInvalid) {
		s.logger.Debug("form action rejected", "action", mux.Vars(r)["action"], "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// applyPosted records the posted values of the current section. Only
// values that differ from what the control showed are recorded, and each
// recorded value is validated for its inline message.
func applyPosted(ctrl *form.Controller, state *field.State, r *http.Request) {
	for _, b := range ctrl.Bindings() {
		f := b.Field
		stored := ctrl.Value(f.ID)

		var next schema.Value
		switch field.ControlFor(f) {
		case field.ControlInput, field.ControlTextArea, field.ControlSelect:
			if _, posted := r.PostForm[f.ID]; !posted {
				continue
			}
			next = schema.Text(r.PostForm.Get(f.ID))
		case field.ControlRadioGroup:
			v := r.PostForm.Get(f.ID)
			if _, known := f.Option(v); !known {
				continue
			}
			next = field.Choose(v)
		case field.ControlToggle:
			next = schema.Bool(r.PostForm.Get(f.ID) != "")
		case field.ControlToggleGroup:
			next = field.Reconcile(f, b.Value, r.PostForm[f.ID])
		default:
			continue
		}

		if field.Changed(stored, next) {
			state.Change(f, next, b.Change)
		}
	}
}

func (s *Server) render(w http.ResponseWriter, sess *session) {
	a := sess.app
	page := pageView{
		Title:             "Student Information Form",
		Stylesheet:        s.theme.AssetURL(assetStylesheet),
		Banner:            a.Error(),
		View:              string(a.View()),
		SelectPlaceholder: field.SelectPlaceholder,
		Theme: themeView{
			Name:    s.theme.Theme,
			Variant: s.theme.Variant,
			Style:   cssVarsStyle(s.theme.CSSVars),
		},
	}
	switch a.View() {
	case app.ViewIdentity:
		page.Title = "Student Login"
		page.Login = buildLoginView(a)
	case app.ViewForm:
		ctrl, _ := a.Form()
		page.Form = buildFormView(ctrl, sess.state)
		page.Title = page.Form.Title
	}

	html, err := s.renderer.RenderTemplate("page", page)
	if err != nil {
		s.logger.Error("render page", "view", page.View, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}
