package store

import "testing"

func TestMemoryStore(t *testing.T) {
	runEntryStoreTests(t, func(t *testing.T) EntryStore {
		t.Helper()
		s := NewMemoryStore()
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
