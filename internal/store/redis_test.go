package store

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T) EntryStore {
	t.Helper()

	server := miniredis.RunT(t)
	s, err := NewRedisStore("redis://" + server.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStore(t *testing.T) {
	runEntryStoreTests(t, newTestRedisStore)
}

func TestNewRedisStore_InvalidConnectionString(t *testing.T) {
	if _, err := NewRedisStore("not-a-url"); err == nil {
		t.Error("expected error for invalid connection string")
	}
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	if _, err := NewRedisStore("redis://" + addr); err == nil {
		t.Error("expected error when redis is unreachable")
	}
}
