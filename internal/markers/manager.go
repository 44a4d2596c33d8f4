package markers

import (
	"sync"

	"github.com/google/uuid"
)

// Manager is an in-memory registry of sessions keyed by session ID. Sessions
// are created on demand and live for the process lifetime.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// Session returns the session for the given ID, creating it if unknown.
func (m *Manager) Session(id string) *Session {
	m.mu.RLock()
	session, exists := m.sessions[id]
	m.mu.RUnlock()
	if exists {
		return session
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if session, exists = m.sessions[id]; exists {
		return session
	}
	session = NewSession()
	m.sessions[id] = session
	return session
}

// NewSessionID returns a fresh identifier suitable for a session cookie.
func (m *Manager) NewSessionID() string {
	return uuid.NewString()
}

// Count returns the number of known sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
