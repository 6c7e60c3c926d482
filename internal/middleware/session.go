package middleware

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long a web login stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Session represents an authenticated user session
type Session struct {
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore defines the session storage interface.
type SessionStore interface {
	Create() string
	Get(id string) (Session, bool)
	Delete(id string)
}

// MemorySessionStore keeps sessions in process memory; they are lost on
// restart.
type MemorySessionStore struct {
	mu  sync.RWMutex
	m   map[string]Session
	ttl time.Duration
	now func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		m:   make(map[string]Session),
		ttl: ttl,
		now: time.Now,
	}
}

// Create starts a session and returns its id.
func (s *MemorySessionStore) Create() string {
	id := uuid.NewString()
	now := s.now()

	s.mu.Lock()
	s.m[id] = Session{
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.mu.Unlock()

	return id
}

// Get retrieves a session by ID. Returns false if not found or expired.
func (s *MemorySessionStore) Get(id string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.m[id]
	s.mu.RUnlock()

	if !ok {
		return Session{}, false
	}

	if s.now().After(sess.ExpiresAt) {
		s.Delete(id)
		return Session{}, false
	}

	return sess, true
}

func (s *MemorySessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
}
