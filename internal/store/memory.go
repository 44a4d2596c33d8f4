package store

import (
	"sync"

	"github.com/jo-hoe/bodymark/internal/markers"
)

// MemoryStore keeps entries in process memory, the default backend. Nothing
// survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]*markers.Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]*markers.Entry),
	}
}

func (s *MemoryStore) Append(sessionID string, entry *markers.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = append(s.entries[sessionID], entry)
	return nil
}

func (s *MemoryStore) List(sessionID string) ([]*markers.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]*markers.Entry, len(s.entries[sessionID]))
	copy(entries, s.entries[sessionID])
	return entries, nil
}

func (s *MemoryStore) Get(sessionID, entryID string) (*markers.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.entries[sessionID] {
		if entry.ID == entryID {
			return entry, nil
		}
	}
	return nil, ErrEntryNotFound
}

func (s *MemoryStore) Delete(sessionID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.entries[sessionID]
	for i, entry := range entries {
		if entry.ID == entryID {
			s.entries[sessionID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

func (s *MemoryStore) Close() error {
	return nil
}

var _ EntryStore = (*MemoryStore)(nil)
