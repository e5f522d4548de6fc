// Package session keeps the live conversations of a running server, keyed by uuid.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/veritas/internal/rag"
)

// Defaults bounding the registry when no options are given.
const (
	DefaultIdleTTL     = 30 * time.Minute
	DefaultMaxSessions = 1000
)

type entry struct {
	session  *rag.Session
	lastUsed time.Time
}

// Manager creates, finds and forgets sessions. It is safe for concurrent use.
// Sessions idle for longer than the TTL are dropped, and when the registry is
// full the least recently used session makes room for a new one.
type Manager struct {
	pipeline    *rag.Pipeline
	idleTTL     time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithIdleTTL sets how long an unused session is kept. Zero or less keeps sessions until deleted.
func WithIdleTTL(d time.Duration) ManagerOption {
	return func(m *Manager) { m.idleTTL = d }
}

// WithMaxSessions caps the number of live sessions. Zero or less means no cap.
func WithMaxSessions(n int) ManagerOption {
	return func(m *Manager) { m.maxSessions = n }
}

func withClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager returns an empty manager whose sessions share pipeline.
func NewManager(pipeline *rag.Pipeline, opts ...ManagerOption) *Manager {
	m := &Manager{
		pipeline:    pipeline,
		idleTTL:     DefaultIdleTTL,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		sessions:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session with a fresh random id.
func (m *Manager) Create() *rag.Session {
	s := m.pipeline.NewSession(uuid.NewString())
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.expireLocked(now)
	if m.maxSessions > 0 {
		for len(m.sessions) >= m.maxSessions {
			m.evictOldestLocked()
		}
	}
	m.sessions[s.ID()] = &entry{session: s, lastUsed: now}
	return s
}

// Get returns the session with id, if any, and marks it used.
func (m *Manager) Get(id string) (*rag.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	now := m.now()
	if m.expired(e, now) {
		delete(m.sessions, id)
		return nil, false
	}
	e.lastUsed = now
	return e.session, true
}

// GetOrCreate returns the session with id, or a new session when id is empty, unknown or expired.
func (m *Manager) GetOrCreate(id string) *rag.Session {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s
		}
	}
	return m.Create()
}

// Delete forgets a session and reports whether it existed. Its memory is discarded.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked(m.now())
	return len(m.sessions)
}

func (m *Manager) expired(e *entry, now time.Time) bool {
	return m.idleTTL > 0 && now.Sub(e.lastUsed) > m.idleTTL
}

func (m *Manager) expireLocked(now time.Time) {
	if m.idleTTL <= 0 {
		return
	}
	for id, e := range m.sessions {
		if m.expired(e, now) {
			delete(m.sessions, id)
		}
	}
}

func (m *Manager) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, e := range m.sessions {
		if oldestID == "" || e.lastUsed.Before(oldest) {
			oldestID, oldest = id, e.lastUsed
		}
	}
	delete(m.sessions, oldestID)
}
