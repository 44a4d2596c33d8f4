package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jo-hoe/bodymark/internal/markers"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps entries in a SQLite database. The default connection
// string is ":memory:" so entries stay session-scoped like the memory store;
// a file path can be configured for debugging.
type SQLiteStore struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteStore(connectionString string) (*SQLiteStore, error) {
	if connectionString == "" {
		connectionString = ":memory:"
	}
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}

	s := &SQLiteStore{
		db:               db,
		connectionString: connectionString,
	}
	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		label TEXT NOT NULL,
		dot_size INTEGER NOT NULL,
		image BLOB NOT NULL
	)`)
	return err
}

func (s *SQLiteStore) Append(sessionID string, entry *markers.Entry) error {
	_, err := s.db.Exec(
		"INSERT INTO entries (id, session_id, created_at, label, dot_size, image) VALUES (?, ?, ?, ?, ?, ?)",
		entry.ID, sessionID, entry.CreatedAt.Format(time.RFC3339Nano), entry.Label, entry.DotSize, entry.Image)
	return err
}

func (s *SQLiteStore) List(sessionID string) ([]*markers.Entry, error) {
	rows, err := s.db.Query(
		"SELECT id, created_at, label, dot_size, image FROM entries WHERE session_id = ? ORDER BY seq",
		sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []*markers.Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Get(sessionID, entryID string) (*markers.Entry, error) {
	row := s.db.QueryRow(
		"SELECT id, created_at, label, dot_size, image FROM entries WHERE session_id = ? AND id = ?",
		sessionID, entryID)
	entry, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	return entry, err
}

func (s *SQLiteStore) Delete(sessionID, entryID string) error {
	result, err := s.db.Exec("DELETE FROM entries WHERE session_id = ? AND id = ?", sessionID, entryID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func scanEntry(scan func(dest ...any) error) (*markers.Entry, error) {
	var entry markers.Entry
	var createdAt string
	if err := scan(&entry.ID, &createdAt, &entry.Label, &entry.DotSize, &entry.Image); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored timestamp %q: %w", createdAt, err)
	}
	entry.CreatedAt = parsed
	return &entry, nil
}

var _ EntryStore = (*SQLiteStore)(nil)
