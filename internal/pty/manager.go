package pty

import (
	"sync"
)

// Entry is what the manager tracks for one live session: the session
// itself, its output stream, and the single pending exit future.
type Entry struct {
	Session *Session
	Stream  *Stream
	Exit    *ExitFuture
}

// Manager is a thread-safe registry of active sessions keyed by
// session ID.
type Manager struct {
	entries map[string]*Entry
	mu      sync.RWMutex
}

// DefaultManager is the global session registry.
var DefaultManager = &Manager{entries: make(map[string]*Entry)}

// Add registers an entry under its session ID.
func (m *Manager) Add(e *Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Session.ID()] = e
}

// Get retrieves an entry by session ID. Returns nil if not found.
func (m *Manager) Get(id string) *Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[id]
}

// Remove drops an entry from the registry.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

// List returns all registered entries.
func (m *Manager) List() []*Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]*Entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	return entries
}

// Count returns the number of registered sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
