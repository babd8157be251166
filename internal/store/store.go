// Package store adapts database/sql-backed persistence to the
// schedule.Snapshot shape the core consumes. Two drivers are
// supported, mirroring the dual-driver database layer pattern used
// throughout this codebase's ancestry:
// PostgreSQL via github.com/lib/pq for production, and SQLite via
// modernc.org/sqlite for local/demo use and tests.
//
// The core package never imports store; store imports schedule. This
// keeps persistence a reference collaborator, not a core dependency.
package store

import (
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/meet-when/shiftsched/internal/config"
)

// Store wraps a database/sql connection plus the driver name needed
// to pick between PostgreSQL and SQLite placeholder syntax.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database named by cfg.Driver ("postgres" or
// "sqlite") and ensures the schema exists.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case "postgres":
		return open("postgres", cfg.ConnectionString())
	case "sqlite":
		return OpenSQLite(cfg.ConnectionString())
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// OpenSQLite opens a modernc.org/sqlite database at path (or ":memory:"
// for a scratch instance) and ensures the schema exists. It exists as
// its own entry point so tests and cmd/scheduledemo can run without a
// Postgres server.
func OpenSQLite(path string) (*Store, error) {
	return open("sqlite", path)
}

func open(driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("store: ping %s: %w", driver, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies the fixed schema. A directory-of-.up.sql-files
// migrator is overkill here: the snapshot schema is small and stable
// enough to embed as one idempotent statement set rather than ship a
// migrations directory a CLI demo has no use for.
func (s *Store) migrate() error {
	for _, stmt := range schemaStatements(s.driver) {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

var placeholderRe = regexp.MustCompile(`\$\d+`)

// q converts PostgreSQL-style placeholders ($1, $2, ...) to SQLite's
// positional "?" when needed.
func q(driver, query string) string {
	if driver == "sqlite" {
		return placeholderRe.ReplaceAllString(query, "?")
	}
	return query
}
