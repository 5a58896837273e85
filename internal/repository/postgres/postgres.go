// Package postgres implements the repository interfaces using PostgreSQL
// via pgx. It is the multi-server counterpart to the sqlite adapter; both
// sit behind the same repository interfaces, so backend choice is a startup
// decision, not a code path.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/examverse/accounts/internal/repository"
)

// compile-time check that *DB implements the full store contract
var _ repository.Store = (*DB)(nil)

// Pool is the subset of pgxpool.Pool the adapter uses. Declared as an
// interface so tests can substitute a pgxmock pool.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// DB implements repository.Store over a pgx connection pool.
type DB struct {
	pool Pool
}

// New connects to the database at dsn and runs migrations.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connecting: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	db := &DB{pool: pool}
	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}
	return db, nil
}

// NewFromPool wraps an existing pool. Used by tests with pgxmock; does not
// run migrations.
func NewFromPool(pool Pool) *DB {
	return &DB{pool: pool}
}

// Close releases the connection pool.
func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// migrate creates the schema; idempotent, run on every startup. Same shape
// as the sqlite schema, including the partial unique indexes that scope
// key uniqueness to non-deleted accounts.
func (db *DB) migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
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
			created_at    TIMESTAMPTZ NOT NULL,
			last_login_at TIMESTAMPTZ,
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
			updated_at    TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS account_settings (
			roll_number TEXT PRIMARY KEY,
			language    TEXT NOT NULL DEFAULT 'en',
			theme       TEXT NOT NULL DEFAULT 'light'
		);

		CREATE TABLE IF NOT EXISTS notification_preferences (
			roll_number    TEXT PRIMARY KEY,
			email_enabled  BOOLEAN NOT NULL DEFAULT TRUE,
			sms_enabled    BOOLEAN NOT NULL DEFAULT TRUE,
			test_reminders BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS privacy_settings (
			roll_number TEXT PRIMARY KEY,
			show_email  BOOLEAN NOT NULL DEFAULT FALSE,
			show_phone  BOOLEAN NOT NULL DEFAULT FALSE,
			show_rank   BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id          TEXT PRIMARY KEY,
			roll_number TEXT NOT NULL,
			issued_at   TIMESTAMPTZ NOT NULL,
			expires_at  TIMESTAMPTZ NOT NULL,
			ip_address  TEXT NOT NULL DEFAULT '',
			user_agent  TEXT NOT NULL DEFAULT '',
			active      BOOLEAN NOT NULL DEFAULT TRUE
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_roll_number ON sessions(roll_number);

		CREATE TABLE IF NOT EXISTS security_logs (
			id          TEXT PRIMARY KEY,
			type        TEXT NOT NULL,
			roll_number TEXT NOT NULL,
			ip_address  TEXT NOT NULL DEFAULT '',
			user_agent  TEXT NOT NULL DEFAULT '',
			detail      TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS activity_logs (
			id          TEXT PRIMARY KEY,
			roll_number TEXT NOT NULL,
			action      TEXT NOT NULL,
			detail      TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS error_logs (
			id         TEXT PRIMARY KEY,
			source     TEXT NOT NULL,
			message    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS notifications (
			id          TEXT PRIMARY KEY,
			roll_number TEXT NOT NULL,
			title       TEXT NOT NULL,
			body        TEXT NOT NULL DEFAULT '',
			is_read     BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
