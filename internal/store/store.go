// Package store is the record store adapter for CFS save databases. It
// issues parameterized SQL against a single local SQLite file and is the
// only writer of durable state. The schema belongs to the game; the adapter
// discovers what it needs at open time instead of migrating anything.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"

	"cfsedit/internal/logging"
)

// requiredTables are the CFS tables the editor reads. A file without them
// is either not SQLite or not a CFS save.
var requiredTables = []string{"Teams", "Staff", "League"}

// Store wraps the open save database. Writes are serialized through mu so
// no two saves can race against the same team row; reads go through the
// single shared connection.
type Store struct {
	db     *sqlx.DB
	mu     sync.Mutex
	dbPath string

	// hasReputation records whether this save version carries the optional
	// TeamReputation column. Discovered once at open.
	hasReputation bool
}

// Open opens the save database at path. Fails with ErrNotFound when the
// file does not exist and ErrNotADatabase when it is not a CFS SQLite save.
// The store assumes exclusive access for as long as it is open.
func Open(ctx context.Context, path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat database: %w", err)
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.discoverSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("Opened CFS database: %s (reputation column: %v)", path, s.hasReputation)
	return s, nil
}

// discoverSchema verifies the file is a SQLite database with the CFS
// tables and probes for optional columns.
func (s *Store) discoverSchema(ctx context.Context) error {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		"SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		// A non-SQLite file fails here with SQLITE_NOTADB.
		return fmt.Errorf("%w: %v", ErrNotADatabase, err)
	}

	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	for _, table := range requiredTables {
		if !present[table] {
			return fmt.Errorf("%w: missing table %s", ErrNotADatabase, table)
		}
	}

	cols, err := s.tableColumns(ctx, "Teams")
	if err != nil {
		return err
	}
	s.hasReputation = cols["TeamReputation"]
	return nil
}

// tableColumns returns the column set of a table via PRAGMA table_info.
func (s *Store) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := s.db.QueryxContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("read %s columns: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notnull   int
			dflt      any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan %s column info: %w", table, err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	logging.Store("Closing CFS database: %s", s.dbPath)
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Dir returns the directory holding the database file. Logos live in a
// logos/ subdirectory next to the save.
func (s *Store) Dir() string {
	return filepath.Dir(s.dbPath)
}

// HasReputation reports whether this save carries the TeamReputation column.
func (s *Store) HasReputation() bool {
	return s.hasReputation
}

// DB exposes the underlying handle for read-only consumers (stats, tests).
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// mapSQLiteError converts driver errors into the store's sentinels.
func mapSQLiteError(err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return err
}
