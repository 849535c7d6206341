package store

import (
	"database/sql"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewID returns a fresh ULID string for fixture record identifiers.
func NewID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// SeedRow is one fixture row. Value is stored verbatim, so callers pass
// pre-encoded JSON.
type SeedRow struct {
	Key   string
	Value string
}

// CreateFixture writes a state database under t.TempDir() holding the given
// ItemTable and cursorDiskKV rows in order, then opens a read-only store
// over it. Row order is preserved so tests can rely on stored order.
func CreateFixture(t *testing.T, items, kv []SeedRow) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "state.vscdb")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open fixture database: %v", err)
	}
	defer db.Close()

	schema := `
	CREATE TABLE ItemTable (key TEXT PRIMARY KEY, value BLOB);
	CREATE TABLE cursorDiskKV (key TEXT PRIMARY KEY, value BLOB);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create fixture schema: %v", err)
	}

	for _, row := range items {
		if _, err := db.Exec("INSERT INTO ItemTable (key, value) VALUES (?, ?)", row.Key, row.Value); err != nil {
			t.Fatalf("failed to seed ItemTable: %v", err)
		}
	}
	for _, row := range kv {
		if _, err := db.Exec("INSERT INTO cursorDiskKV (key, value) VALUES (?, ?)", row.Key, row.Value); err != nil {
			t.Fatalf("failed to seed cursorDiskKV: %v", err)
		}
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open store over fixture: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
