package memory

import (
	"sync"

	"review-replier/internal/domain"
	"review-replier/internal/ports/output"
)

// Compile-time check to ensure MemorySessionStore implements SessionStore interface
var _ output.SessionStore = (*MemorySessionStore)(nil)

// sessionEntry pairs a session with the lock that serializes its events.
// data is guarded by MemorySessionStore.mu, not by eventMu.
type sessionEntry struct {
	eventMu sync.Mutex
	data    domain.SessionData
}

// MemorySessionStore struct - Output adapter for in-memory session storage
// Sessions are kept for the lifetime of the process; there is no eviction.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[domain.SessionKey]*sessionEntry
}

// NewMemorySessionStore creates a new in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[domain.SessionKey]*sessionEntry),
	}
}

// entry returns the entry for key, creating it lazily. Caller holds m.mu.
func (m *MemorySessionStore) entry(key domain.SessionKey) *sessionEntry {
	e, ok := m.sessions[key]
	if !ok {
		e = &sessionEntry{}
		m.sessions[key] = e
	}
	return e
}

// Get returns a copy of the session for key, or the zero session
func (m *MemorySessionStore) Get(key domain.SessionKey) domain.SessionData {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[key]
	if !ok {
		return domain.SessionData{}
	}
	return e.data.Clone()
}

// Update merges changes into the session for key, creating it if absent
func (m *MemorySessionStore) Update(key domain.SessionKey, mutate func(*domain.SessionData)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(key)
	data := e.data.Clone()
	mutate(&data)
	e.data = data
}

// Reset clears every field of the session for key.
// The entry itself stays so a held event lock remains valid.
func (m *MemorySessionStore) Reset(key domain.SessionKey) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[key]; ok {
		e.data = domain.SessionData{}
	}
}

// Lock acquires the event lock of key and returns its release func
func (m *MemorySessionStore) Lock(key domain.SessionKey) func() {
	m.mu.Lock()
	e := m.entry(key)
	m.mu.Unlock()

	e.eventMu.Lock()
	var once sync.Once
	return func() {
		once.Do(e.eventMu.Unlock)
	}
}

// Len returns the number of known session keys
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
