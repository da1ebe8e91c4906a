package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-formflow/pkg/app"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/remote"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, handler http.Handler) *browser {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &browser{t: t, base: server.URL, client: &http.Client{Jar: jar}}
}

func (b *browser) get(path string) string {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	if err != nil {
		b.t.Fatalf("GET %s: %v", path, err)
	}
	return b.read(resp)
}

func (b *browser) post(path string, form url.Values) string {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	if err != nil {
		b.t.Fatalf("POST %s: %v", path, err)
	}
	return b.read(resp)
}

func (b *browser) read(resp *http.Response) string {
	b.t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		b.t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		b.t.Fatalf("unexpected status %d: %s", resp.StatusCode, body)
	}
	return string(body)
}

func mustContain(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q\n%s", want, body)
		}
	}
}

func mustNotContain(t *testing.T, body string, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(body, u) {
			t.Fatalf("expected body not to contain %q\n%s", u, body)
		}
	}
}

func sessionCount(t *testing.T, srv http.Handler) int {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var payload struct {
		Sessions int `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	return payload.Sessions
}

type recordingSink struct {
	mu   sync.Mutex
	subs []form.Submission
}

func (r *recordingSink) Record(s form.Submission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, s)
}

func TestServer_FullFlow(t *testing.T) {
	sink := &recordingSink{}
	srv, err := New(
		app.OfflineService{Schema: testsupport.StudentForm(t)},
		WithAppOptions(app.WithFormOptions(form.WithSink(sink))),
	)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	b := newBrowser(t, srv)

	body := b.get("/")
	mustContain(t, body, "Student Login", `data-testid="login-button"`, ">Login</button>")

	body = b.post("/login", url.Values{"rollNumber": {"  "}, "name": {""}})
	mustContain(t, body, "Roll Number is required", "Name is required")

	body = b.post("/login", url.Values{"rollNumber": {"42"}, "name": {"Ada"}})
	mustContain(t, body,
		"Student Information Form",
		"Section 1 of 2",
		"Tell us about yourself.",
		`data-testid="full-name-input"`,
		`minlength="3"`,
		`type="email"`,
		"Please enter your full name",
	)
	if strings.Contains(body, "<b>yourself</b>") {
		t.Fatalf("description markup should be stripped")
	}

	body = b.post("/form/next", url.Values{"fullName": {"Al"}, "email": {"nope"}, "phone": {""}})
	mustContain(t, body,
		"Section 1 of 2",
		"Please fix validation errors before proceeding.",
		"Minimum length is 3 characters",
		"Please enter a valid email address",
		`value="Al"`,
	)

	body = b.post("/form/next", url.Values{"fullName": {"Ada Lovelace"}, "email": {"ada@example.com"}, "phone": {""}})
	mustContain(t, body, "Section 2 of 2", "Select an option", `data-testid="prev-button"`, `data-testid="submit-button"`)

	body = b.post("/form/submit", url.Values{"track": {"backend"}, "topics": {"sql", "go"}})
	mustContain(t, body, "Please fix validation errors before submitting.", "You must accept the terms")

	body = b.post("/form/prev", url.Values{"track": {"backend"}, "topics": {"sql", "go"}})
	mustContain(t, body, "Section 1 of 2", `value="Ada Lovelace"`)

	b.post("/form/next", url.Values{"fullName": {"Ada Lovelace"}, "email": {"ada@example.com"}})
	body = b.post("/form/submit", url.Values{
		"track":  {"backend"},
		"shift":  {"am"},
		"topics": {"sql", "go"},
		"terms":  {"true"},
	})
	mustContain(t, body, "Form Submitted Successfully!")
	mustNotContain(t, body, `data-testid="prev-button"`, `data-testid="next-button"`, `data-testid="submit-button"`)

	if len(sink.subs) != 1 {
		t.Fatalf("expected one submission, got %d", len(sink.subs))
	}
	want := map[string]any{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"track":    "backend",
		"shift":    "am",
		"topics":   []string{"go", "sql"},
		"terms":    true,
	}
	if diff := testsupport.Diff(want, sink.subs[0].Values.Payload()); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	body = b.post("/form/next", url.Values{})
	mustContain(t, body, "Form Submitted Successfully!")
	mustNotContain(t, body, "<form", `data-testid="next-button"`)
}

func TestServer_LoginFailureShowsBanner(t *testing.T) {
	remoteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer remoteSrv.Close()

	srv, err := New(remote.NewClient(remote.WithBaseURL(remoteSrv.URL)))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	b := newBrowser(t, srv)

	body := b.post("/login", url.Values{"rollNumber": {"42"}, "name": {"Ada"}})
	mustContain(t, body, `data-testid="error-banner"`, "Failed to create user", "Student Login", `value="42"`)
}

func TestServer_SessionsAreIsolated(t *testing.T) {
	srv, err := New(app.OfflineService{Schema: testsupport.StudentForm(t)})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	server := httptest.NewServer(srv)
	defer server.Close()

	first := &browser{t: t, base: server.URL}
	jar, _ := cookiejar.New(nil)
	first.client = &http.Client{Jar: jar}
	mustContain(t, first.post("/login", url.Values{"rollNumber": {"1"}, "name": {"A"}}), "Section 1 of 2")

	second := newBrowser(t, srv)
	mustContain(t, second.get("/"), "Student Login")
}

func TestServer_Health(t *testing.T) {
	srv, err := New(app.OfflineService{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestServer_Stylesheet(t *testing.T) {
	srv, err := New(app.OfflineService{}, WithTheme(DefaultManifest(), "dark"))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/formflow.css", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "--brand") {
		t.Fatalf("stylesheet not served: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	mustContain(t, rec.Body.String(), `href="/static/formflow.css"`, `data-variant="dark"`, "--brand: #0284c7;")
}

func TestResolveTheme(t *testing.T) {
	cfg, err := ResolveTheme(DefaultManifest(), "dark")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Tokens["brand"] != "#0284c7" || cfg.CSSVars["--danger-surface"] != "#fecaca" {
		t.Fatalf("variant tokens not merged: %v", cfg.Tokens)
	}
	if got := cfg.AssetURL(assetStylesheet); got != "/static/formflow.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
	if _, err := ResolveTheme(DefaultManifest(), "neon"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
	if got := cssVarsStyle(map[string]string{"--b": "2", "--a": "1"}); got != "--a: 1; --b: 2;" {
		t.Fatalf("unexpected style %q", got)
	}
}

func TestServer_IndexDoesNotStoreSessions(t *testing.T) {
	srv, err := New(app.OfflineService{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	for i := 0; i < 1000; i++ {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("unexpected status %d", rec.Code)
		}
		if cookies := rec.Result().Cookies(); len(cookies) != 0 {
			t.Fatalf("index must not set a session cookie, got %v", cookies)
		}
	}
	if got := sessionCount(t, srv); got != 0 {
		t.Fatalf("expected no stored sessions, got %d", got)
	}
}

func TestServer_SessionCapEvictsOldest(t *testing.T) {
	srv, err := New(app.OfflineService{Schema: testsupport.StudentForm(t)}, WithSessionLimits(0, 3))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	first := newBrowser(t, srv)
	first.post("/login", url.Values{"rollNumber": {"1"}, "name": {"A"}})

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("rollNumber=2&name=B"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("unexpected status %d", rec.Code)
		}
	}
	if got := sessionCount(t, srv); got != 3 {
		t.Fatalf("expected the store capped at 3, got %d", got)
	}
	mustContain(t, first.get("/"), "Student Login")
}

func TestServer_FormPostWithoutSessionRedirects(t *testing.T) {
	srv, err := New(app.OfflineService{Schema: testsupport.StudentForm(t)})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/form/next", strings.NewReader("fullName=Ada"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if got := sessionCount(t, srv); got != 0 {
		t.Fatalf("expected no stored sessions, got %d", got)
	}
}

func TestSessionStore_IdleEviction(t *testing.T) {
	store := newSessionStore(func() *app.App {
		return app.New(app.OfflineService{})
	}, time.Minute, 10)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	store.start(rec)
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	now = now.Add(50 * time.Second)
	if _, ok := store.lookup(req); !ok {
		t.Fatalf("expected session within idle timeout")
	}
	now = now.Add(50 * time.Second)
	if _, ok := store.lookup(req); !ok {
		t.Fatalf("lookup should refresh the idle clock")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.lookup(req); ok {
		t.Fatalf("expected idle session to expire")
	}
	if store.len() != 0 {
		t.Fatalf("expired session should be removed, got %d", store.len())
	}

	store.start(httptest.NewRecorder())
	now = now.Add(2 * time.Minute)
	store.start(httptest.NewRecorder())
	if store.len() != 1 {
		t.Fatalf("start should evict idle sessions, got %d", store.len())
	}
}
