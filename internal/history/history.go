// Package history records compiled searches in a SQLite database.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/turbowiz/internal/sqlutil"
)

// ErrNotFound indicates the requested entry is not in the history.
var ErrNotFound = errors.New("history entry not found")

// CurrentVersion is the current database schema version.
const CurrentVersion = 1

// Entry is one recorded search and the query it compiled to.
type Entry struct {
	ID       int64     `json:"id"`
	Search   string    `json:"search"`
	Query    string    `json:"query"`
	Uses     int       `json:"uses"`
	LastUsed time.Time `json:"last_used"`
}

// Store is the history database handle.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns the default history database path.
func DefaultPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "turbowiz", "history.db")
	}
	return filepath.Join(".", "turbowiz-history.db")
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			search TEXT NOT NULL,
			query TEXT NOT NULL,
			uses INTEGER NOT NULL DEFAULT 1,
			last_used INTEGER NOT NULL,  -- Unix nanoseconds
			UNIQUE (search, query)
		);

		CREATE INDEX IF NOT EXISTS idx_searches_last_used ON searches(last_used);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}

	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", CurrentVersion))
	if err != nil {
		return fmt.Errorf("failed to set history version: %w", err)
	}
	return nil
}

// Record stores a compiled search. Compiling the same search to the same
// query again bumps the existing entry instead of adding a new one.
func (s *Store) Record(search, query string) (Entry, error) {
	now := s.now().UnixNano()
	_, err := s.db.Exec(`
		INSERT INTO searches (search, query, uses, last_used) VALUES (?, ?, 1, ?)
		ON CONFLICT (search, query) DO UPDATE SET uses = uses + 1, last_used = excluded.last_used`,
		search, query, now)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record search: %w", err)
	}

	row := s.db.QueryRow(`SELECT id, search, query, uses, last_used FROM searches WHERE search = ? AND query = ?`, search, query)
	return scanEntry(row)
}

// Get returns one entry by ID.
func (s *Store) Get(id int64) (Entry, error) {
	row := s.db.QueryRow(`SELECT id, search, query, uses, last_used FROM searches WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return entry, err
}

// List returns entries, most recently used first. A limit of zero or less
// returns everything.
func (s *Store) List(limit int) ([]Entry, error) {
	q := `SELECT id, search, query, uses, last_used FROM searches ORDER BY last_used DESC, id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (Entry, error) {
		return scanEntry(rows)
	})
}

// Delete removes entries by ID and returns how many existed.
func (s *Store) Delete(ids ...int64) (int64, error) {
	placeholders, args := sqlutil.InClauseArgs(ids)
	res, err := s.db.Exec(`DELETE FROM searches WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete history entries: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every entry.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM searches`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}

// Prune keeps the keep most recently used entries and removes the rest.
func (s *Store) Prune(keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.Exec(`
		DELETE FROM searches WHERE id NOT IN (
			SELECT id FROM searches ORDER BY last_used DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var lastUsed int64
	if err := row.Scan(&e.ID, &e.Search, &e.Query, &e.Uses, &lastUsed); err != nil {
		return Entry{}, err
	}
	e.LastUsed = time.Unix(0, lastUsed)
	return e, nil
}
