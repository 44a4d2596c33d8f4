package store

import "testing"

func newTestSQLiteStore(t *testing.T) EntryStore {
	t.Helper()

	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	runEntryStoreTests(t, newTestSQLiteStore)
}

func TestSQLiteStore_DefaultConnectionStringIsInMemory(t *testing.T) {
	s, err := NewSQLiteStore("")
	if err != nil {
		t.Fatalf("NewSQLiteStore error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if s.connectionString != ":memory:" {
		t.Errorf("expected :memory: default, got %q", s.connectionString)
	}
}
