package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formflow/pkg/app"
	"github.com/goliatone/go-formflow/pkg/field"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "formflow_session"

const (
	DefaultSessionIdleTimeout = 30 * time.Minute
	DefaultMaxSessions        = 1024
)

// session is one browser's flow. mu serializes every request for it.
type session struct {
	mu    sync.Mutex
	app   *app.App
	state *field.State

	// lastSeen is guarded by the store lock.
	lastSeen time.Time
}

// sessionStore only holds sessions that posted a login. Entries idle longer
// than idleTimeout are evicted, and the least recently seen entry makes room
// once maxSessions is reached.
type sessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*session
	create      func() *app.App
	idleTimeout time.Duration
	maxSessions int
	now         func() time.Time
}

func newSessionStore(create func() *app.App, idleTimeout time.Duration, maxSessions int) *sessionStore {
	if idleTimeout <= 0 {
		idleTimeout = DefaultSessionIdleTimeout
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &sessionStore{
		sessions:    make(map[string]*session),
		create:      create,
		idleTimeout: idleTimeout,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// lookup returns the live session named by the request cookie.
func (s *sessionStore) lookup(r *http.Request) (*session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[c.Value]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(sess.lastSeen) > s.idleTimeout {
		delete(s.sessions, c.Value)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// fresh returns a session that is rendered once and never stored.
func (s *sessionStore) fresh() *session {
	return &session{app: s.create(), state: field.NewState()}
}

// start stores a new session and sets its cookie.
func (s *sessionStore) start(w http.ResponseWriter) *session {
	id := uuid.NewString()
	sess := s.fresh()

	s.mu.Lock()
	now := s.now()
	sess.lastSeen = now
	s.evictLocked(now)
	s.sessions[id] = sess
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.idleTimeout / time.Second),
	})
	return sess
}

func (s *sessionStore) evictLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.idleTimeout {
			delete(s.sessions, id)
		}
	}
	for len(s.sessions) >= s.maxSessions {
		var oldestID string
		var oldest time.Time
		for id, sess := range s.sessions {
			if oldestID == "" || sess.lastSeen.Before(oldest) {
				oldestID, oldest = id, sess.lastSeen
			}
		}
		delete(s.sessions, oldestID)
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
