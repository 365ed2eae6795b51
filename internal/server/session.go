package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/biotree/pkg/engine"
	"github.com/matzehuels/biotree/pkg/errors"
)

// DefaultSessionTTL is how long an idle viewer session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Session is one viewer: an engine plus the lock that serialises requests
// against it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	engine   *engine.Engine
	lastUsed time.Time
}

// With runs fn with exclusive access to the session's engine.
func (s *Session) With(fn func(e *engine.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

// Store keeps sessions in memory. Sessions idle for longer than the TTL are
// treated as missing and removed by [Store.Sweep].
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore returns an empty store. A non-positive ttl uses
// [DefaultSessionTTL].
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Add registers a loaded engine under a fresh random id.
func (st *Store) Add(e *engine.Engine) *Session {
	now := st.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		engine:    e,
		lastUsed:  now,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session with id and marks it used.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "no session %q", id)
	}
	now := st.now()
	if st.expired(s, now) {
		delete(st.sessions, id)
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q expired", id)
	}
	s.lastUsed = now
	return s, nil
}

// Delete removes a session. It reports whether the session existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// Sweep removes expired sessions and returns how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	n := 0
	for id, s := range st.sessions {
		if st.expired(s, now) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) expired(s *Session, now time.Time) bool {
	return now.Sub(s.lastUsed) > st.ttl
}
