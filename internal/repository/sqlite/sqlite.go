// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// modernc.org/sqlite is a pure Go translation of SQLite — no CGo, no C
// compiler, works everywhere Go works. Good for single-server deployments
// and for tests (":memory:" gives a throwaway in-memory database).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/examverse/accounts/internal/repository"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// compile-time check that *DB implements the full store contract
var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and implements repository.Store.
// The server owns the DB value: New creates it, Close releases it on
// shutdown. Every repository method borrows a pooled connection for the
// duration of one call and releases it on every exit path.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/examverse.db"  → file-based, persistent
//   - ":memory:"           → in-memory, for tests
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force an immediate connection so a bad path surfaces here, not on
	// the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress — needed
	// for a web server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// migrate creates the schema. CREATE ... IF NOT EXISTS keeps this
// idempotent, so it is safe to run on every startup.
//
// Uniqueness of roll number and email is scoped to non-deleted accounts via
// partial unique indexes: a deleted account keeps its row (audit history
// references it by value) while freeing its keys for reuse. These indexes
// are the authoritative duplicate guard — CheckDuplicate is only the
// advisory fast path.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			roll_number   TEXT NOT NULL,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL,
			phone         TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			year          INTEGER NOT NULL DEFAULT 1,
			semester      INTEGER NOT NULL DEFAULT 1,
			department    TEXT NOT NULL DEFAULT '',
			college       TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL DEFAULT 'pending',
			created_at    DATETIME NOT NULL,
			last_login_at DATETIME,
			tests_taken   INTEGER NOT NULL DEFAULT 0,
			total_score   INTEGER NOT NULL DEFAULT 0,
			rank          INTEGER NOT NULL DEFAULT 0
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_roll_number
			ON accounts(roll_number) WHERE status != 'deleted';
		CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email
			ON accounts(email) WHERE status != 'deleted';

		CREATE TABLE IF NOT EXISTS account_profiles (
			roll_number   TEXT PRIMARY KEY,
			bio           TEXT NOT NULL DEFAULT '',
			photo_url     TEXT NOT NULL DEFAULT '',
			profile_views INTEGER NOT NULL DEFAULT 0,
			updated_at    DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS account_settings (
			roll_number TEXT PRIMARY KEY,
			language    TEXT NOT NULL DEFAULT 'en',
			theme       TEXT NOT NULL DEFAULT 'light'
		);

		CREATE TABLE IF NOT EXISTS notification_preferences (
			roll_number    TEXT PRIMARY KEY,
			email_enabled  INTEGER NOT NULL DEFAULT 1,
			sms_enabled    INTEGER NOT NULL DEFAULT 1,
			test_reminders INTEGER NOT NULL DEFAULT 1
		);

		CREATE TABLE IF NOT EXISTS privacy_settings (
			roll_number TEXT PRIMARY KEY,
			show_email  INTEGER NOT NULL DEFAULT 0,
			show_phone  INTEGER NOT NULL DEFAULT 0,
			show_rank   INTEGER NOT NULL DEFAULT 1
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id          TEXT PRIMARY KEY,
			roll_number TEXT NOT NULL,
			issued_at   DATETIME NOT NULL,
			expires_at  DATETIME NOT NULL,
			ip_address  TEXT NOT NULL DEFAULT '',
			user_agent  TEXT NOT NULL DEFAULT '',
			active      INTEGER NOT NULL DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_roll_number ON sessions(roll_number);

		CREATE TABLE IF NOT EXISTS security_logs (
			id          TEXT PRIMARY KEY,
			type        TEXT NOT NULL,
			roll_number TEXT NOT NULL,
			ip_address  TEXT NOT NULL DEFAULT '',
			user_agent  TEXT NOT NULL DEFAULT '',
			detail      TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS activity_logs (
			id          TEXT PRIMARY KEY,
			roll_number TEXT NOT NULL,
			action      TEXT NOT NULL,
			detail      TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS error_logs (
			id         TEXT PRIMARY KEY,
			source     TEXT NOT NULL,
			message    TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS notifications (
			id          TEXT PRIMARY KEY,
			roll_number TEXT NOT NULL,
			title       TEXT NOT NULL,
			body        TEXT NOT NULL DEFAULT '',
			is_read     INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique/primary-key
// constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT ||
		code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
