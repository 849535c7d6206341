// Package store provides read-only access to a Cursor state database.
// The database is a SQLite file owned and written by the Cursor editor;
// everything here opens it in read-only mode and never mutates it.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/hpungsan/cursordata/internal/errors"
	_ "modernc.org/sqlite"
)

// TableItem and TableKV are the two key-value tables Cursor maintains.
const (
	TableItem = "ItemTable"
	TableKV   = "cursorDiskKV"
)

// DefaultPath returns the platform-specific location of Cursor's global
// state database.
func DefaultPath() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", "Cursor", "User", "globalStorage", "state.vscdb"), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA is not set")
		}
		return filepath.Join(appData, "Cursor", "User", "globalStorage", "state.vscdb"), nil
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, ".config", "Cursor", "User", "globalStorage", "state.vscdb"), nil
	}
	return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
}

// ValidateTable rejects table names other than the two known tables. Keys
// are query parameters, but table names are spliced into SQL, so this is
// the only gate between caller input and the statement text.
func ValidateTable(table string) error {
	if table != TableItem && table != TableKV {
		return errors.NewInvalidRequest(fmt.Sprintf("table must be %q or %q", TableItem, TableKV))
	}
	return nil
}

// KVRow is one key-value row from either table.
type KVRow struct {
	Key   string
	Value []byte
}

// Store reads a Cursor state database. The connection is opened lazily on
// first use and the store is safe for concurrent readers.
type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// Open prepares a store for the database at path. An empty path selects the
// platform default location. The file must already exist; the connection
// itself is not established until the first query.
func Open(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.NewStorageUnavailable(path, err)
		}
		path = p
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewStorageUnavailable(path, err)
	}
	return &Store{path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// conn returns the lazily-opened connection.
func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}

	dsn := "file:" + s.path + "?mode=ro&_pragma=busy_timeout(5000)&_pragma=query_only(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewStorageUnavailable(s.path, err)
	}
	if err := verifySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s.db, nil
}

// verifySchema checks that both expected tables exist, catching files that
// are not a Cursor state database at all.
func verifySchema(db *sql.DB) error {
	for _, table := range []string{TableItem, TableKV} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			return errors.NewStorageUnavailable("", fmt.Errorf("table %s not found", table))
		}
		if err != nil {
			return errors.NewStorageUnavailable("", err)
		}
	}
	return nil
}

// Close releases the connection. Safe to call multiple times and on a store
// that never connected.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// GetRaw returns the raw value stored under key. The second return reports
// whether the key exists; a present key may still hold a NULL value.
func (s *Store) GetRaw(table, key string) ([]byte, bool, error) {
	if err := ValidateTable(table); err != nil {
		return nil, false, err
	}
	db, err := s.conn()
	if err != nil {
		return nil, false, err
	}

	var value []byte
	err = db.QueryRow("SELECT value FROM "+table+" WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewInternal(err)
	}
	return value, true, nil
}

// GetByPrefix returns rows from the cursorDiskKV table selected by key.
//
// With filterID empty the match covers every key under prefix; a non-empty
// filterID narrows it to prefix+filterID (exact) or prefix+filterID+":"
// descendants. Pagination follows the stored order: a zero limit means
// unlimited and ignores offset entirely.
func (s *Store) GetByPrefix(prefix, filterID string, exact bool, limit, offset int) ([]KVRow, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var query string
	var param string
	switch {
	case filterID != "" && exact:
		query = "SELECT key, value FROM cursorDiskKV WHERE key = ?"
		param = prefix + filterID
	case filterID != "":
		query = "SELECT key, value FROM cursorDiskKV WHERE key LIKE ?"
		param = prefix + filterID + ":%"
	case exact:
		query = "SELECT key, value FROM cursorDiskKV WHERE key = ?"
		param = prefix
	default:
		query = "SELECT key, value FROM cursorDiskKV WHERE key LIKE ?"
		param = prefix + "%"
	}
	if limit != 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	rows, err := db.Query(query, param)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []KVRow
	for rows.Next() {
		var row KVRow
		if err := rows.Scan(&row.Key, &row.Value); err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// CountRows returns the number of rows in a table.
func (s *Store) CountRows(table string) (int, error) {
	if err := ValidateTable(table); err != nil {
		return 0, err
	}
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// SearchKeys returns keys matching a SQL LIKE pattern.
func (s *Store) SearchKeys(table, pattern string) ([]string, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT key FROM "+table+" WHERE key LIKE ?", pattern)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.NewInternal(err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return keys, nil
}

// IterateKeys streams every key in a table to fn in stored order. A non-nil
// error from fn stops the iteration and is returned as-is.
func (s *Store) IterateKeys(table string, fn func(key string) error) error {
	if err := ValidateTable(table); err != nil {
		return err
	}
	db, err := s.conn()
	if err != nil {
		return err
	}

	rows, err := db.Query("SELECT key FROM " + table)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return errors.NewInternal(err)
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
