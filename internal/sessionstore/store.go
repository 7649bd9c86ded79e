// Package sessionstore exposes a persisted-state interface kept outside
// the terminal core: the core never touches SQL, it only saves and loads
// opaque blobs keyed by id. SQLiteStore is this binary's concrete
// implementation of that interface.
package sessionstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store saves and loads opaque blobs keyed by id. The core treats a
// blob's contents as opaque — encoding pane layout, scrollback, and
// cursor state is the caller's responsibility, not this package's.
type Store interface {
	Save(id string, blob []byte) error
	Load(id string) ([]byte, error)
	Delete(id string) error
	List() ([]string, error)
	Close() error
}

const dbFileName = "sessions.db"

// SQLiteStore is a Store backed by modernc.org/sqlite, a cgo-free sqlite
// driver.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens the session store database under dir.
func Open(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sessionstore: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("sessionstore: open: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sessionstore: wal mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS blobs (
			id TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("sessionstore: init schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(id string, blob []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO blobs (id, data, updated_at) VALUES (?, ?, strftime('%s','now'))
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, id, blob)
	return err
}

func (s *SQLiteStore) Load(id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM blobs WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *SQLiteStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM blobs WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM blobs ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// ErrNotFound is returned by Load when no blob exists for the given id.
var ErrNotFound = fmt.Errorf("sessionstore: blob not found")
