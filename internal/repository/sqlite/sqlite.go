// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE (AND NOT A JSON FILE PER COLLECTION)?
// A whole-collection-in-a-file store has to rewrite every record on every
// change, and two concurrent writers can silently lose each other's updates.
// SQLite gives us atomic per-record writes and engine-level write
// serialization for free, in a single file, with no server to run.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — works everywhere Go works, and it
// includes the JSON1 extension we rely on for topic queries.
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// `_ "modernc.org/sqlite"` is a side-effect-only import. The package's
	// init() registers itself with database/sql as a driver named "sqlite",
	// after which sql.Open("sqlite", ...) knows how to talk to SQLite.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository interfaces
// (SnippetRepository, TagRepository, UserRepository) on a single receiver —
// the three collections live in one database file and share one pool.
type DB struct {
	conn *sql.DB
}

// New creates a SQLite database connection, runs migrations, and seeds the
// default tag set.
//
// dbPath examples:
//   - "data/snippets.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (used by the tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions issue
	// surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads WHILE a write is happening and
	// serializes writers — this is the serialization guarantee the
	// repository contract promises its callers.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (backwards compatibility).
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	if err := db.seedTags(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: seeding tags: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to New().
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the three collection tables.
// CREATE TABLE IF NOT EXISTS is idempotent — safe on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			bio           TEXT NOT NULL DEFAULT '',
			avatar        TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// topics is a JSON1 array (e.g. '["algorithm","sorting"]'). Storing it
	// inline keeps a snippet a single row; membership queries use json_each.
	// language is stored lowercase — enforced by the service layer, asserted
	// nowhere else.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			code        TEXT NOT NULL,
			language    TEXT NOT NULL,
			topics      TEXT NOT NULL DEFAULT '[]',
			complexity  TEXT NOT NULL DEFAULT '',
			author_id   TEXT NOT NULL,
			is_public   INTEGER NOT NULL DEFAULT 1,
			views       INTEGER NOT NULL DEFAULT 0 CHECK (views >= 0),
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON snippets(created_at);
		CREATE INDEX IF NOT EXISTS idx_snippets_author_id ON snippets(author_id);
		CREATE INDEX IF NOT EXISTS idx_snippets_language ON snippets(language);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	// slug is unique within a type, not globally — "go" the language and a
	// hypothetical "go" topic must be able to coexist.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS tags (
			id    TEXT PRIMARY KEY,
			name  TEXT NOT NULL,
			slug  TEXT NOT NULL,
			type  TEXT NOT NULL CHECK (type IN ('language', 'topic')),
			count INTEGER NOT NULL DEFAULT 0,
			UNIQUE (type, slug)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating tags table: %w", err)
	}

	return nil
}

// defaultTags is the fixed tag vocabulary the filter UI offers.
// Counts start at 0; the first recount (at startup) fills them in.
var defaultTags = []struct {
	name, slug, tagType string
}{
	{"JavaScript", "javascript", "language"},
	{"TypeScript", "typescript", "language"},
	{"Python", "python", "language"},
	{"Go", "go", "language"},
	{"Java", "java", "language"},
	{"Rust", "rust", "language"},
	{"Algorithm", "algorithm", "topic"},
	{"Sorting", "sorting", "topic"},
	{"Search", "search", "topic"},
	{"Dynamic Programming", "dynamic-programming", "topic"},
	{"React", "react", "topic"},
	{"Hooks", "hooks", "topic"},
	{"Web", "web", "topic"},
	{"Database", "database", "topic"},
}

// seedTags inserts the default tag set.
// INSERT OR IGNORE makes this idempotent: rows that already exist (matched on
// the UNIQUE (type, slug) constraint) are skipped, so re-running on an
// existing database changes nothing and preserves live counts.
func (db *DB) seedTags() error {
	for _, t := range defaultTags {
		_, err := db.conn.Exec(
			`INSERT OR IGNORE INTO tags (id, name, slug, type, count)
			 VALUES (?, ?, ?, ?, 0)`,
			t.tagType+":"+t.slug, t.name, t.slug, t.tagType,
		)
		if err != nil {
			return fmt.Errorf("seeding tag %s/%s: %w", t.tagType, t.slug, err)
		}
	}
	return nil
}
