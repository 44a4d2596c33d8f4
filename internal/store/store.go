package store

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/bodymark/internal/markers"
)

// ErrEntryNotFound is returned when an entry ID is unknown for the session.
var ErrEntryNotFound = errors.New("entry not found")

// EntryStore persists saved entries per session. Entries are immutable once
// appended; List always returns entries in save order.
type EntryStore interface {
	Append(sessionID string, entry *markers.Entry) error
	List(sessionID string) ([]*markers.Entry, error)
	Get(sessionID, entryID string) (*markers.Entry, error)
	Delete(sessionID, entryID string) error
	Close() error
}

// NewEntryStore creates an entry store of the configured type.
func NewEntryStore(storeType, connectionString string) (EntryStore, error) {
	if storeType == "" {
		storeType = "memory"
	}

	var entryStore EntryStore
	var err error

	switch storeType {
	case "memory":
		entryStore = NewMemoryStore()
	case "sqlite":
		entryStore, err = NewSQLiteStore(connectionString)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite store: %w", err)
		}
	case "redis":
		entryStore, err = NewRedisStore(connectionString)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis store: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}

	slog.Info("entry store initialized", "type", storeType)
	return entryStore, nil
}
