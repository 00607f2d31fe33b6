// Package cache persists per-file usefulness verdicts between semtrim runs.
// A verdict stays valid as long as the input file's path, size, and mtime
// are unchanged, which makes repeated batch runs over a module store cheap.
package cache

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Key identifies one cached input file state.
type Key struct {
	Path    string
	Size    int64
	MTimeNS int64
}

// KeyFor builds the cache key for a file from its current stat identity.
func KeyFor(path string) (Key, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(path)
	if err != nil {
		return Key{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Key{Path: abs, Size: info.Size(), MTimeNS: info.ModTime().UnixNano()}, nil
}

// Store manages the SQLite verdict database. Each Store belongs to one scan
// run, identified by a fresh run ID recorded with every verdict it writes.
type Store struct {
	db    *sql.DB
	runID string
}

// NewStore opens (creating if needed) the verdict database at dbPath and
// initializes the schema. Use ":memory:" for an ephemeral store.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}

	return &Store{db: db, runID: uuid.NewString()}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunID returns the identifier of the scan run this store belongs to.
func (s *Store) RunID() string {
	return s.runID
}

// Get looks up the cached verdict for key. ok is false on a cache miss.
func (s *Store) Get(key Key) (useful bool, ok bool, err error) {
	row := s.db.QueryRow(
		`SELECT useful FROM verdicts WHERE path = ? AND size = ? AND mtime_ns = ?`,
		key.Path, key.Size, key.MTimeNS)

	var v int
	switch err := row.Scan(&v); err {
	case nil:
		return v != 0, true, nil
	case sql.ErrNoRows:
		return false, false, nil
	default:
		return false, false, fmt.Errorf("query verdict: %w", err)
	}
}

// Put records the verdict for key, replacing any stale row for the same
// path with a different size or mtime.
func (s *Store) Put(key Key, useful bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// One row per path: a changed file must not leave its old verdict behind.
	if _, err := tx.Exec(`DELETE FROM verdicts WHERE path = ?`, key.Path); err != nil {
		return fmt.Errorf("drop stale verdict: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO verdicts (path, size, mtime_ns, useful, run_id) VALUES (?, ?, ?, ?, ?)`,
		key.Path, key.Size, key.MTimeNS, boolInt(useful), s.runID); err != nil {
		return fmt.Errorf("insert verdict: %w", err)
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
