// Package repository defines the storage interfaces the service layer
// depends on. Backends (sqlite, postgres) are swappable adapters behind
// these interfaces — the core logic is written once.
package repository

import (
	"context"
	"time"

	"github.com/examverse/accounts/internal/model"
)

// Duplicate classifies the result of the advisory pre-insert check.
type Duplicate int

const (
	DupNone Duplicate = iota
	DupRollNumber
	DupEmail
	DupBoth
)

// AccountStore is the account persistence contract.
type AccountStore interface {
	// CreateAccount inserts the account row together with its profile,
	// settings, notification preferences, and privacy settings in a single
	// transaction. Either all five rows exist afterwards or none do.
	//
	// A unique-constraint violation on roll number or email is returned as
	// an error matching apperror.ErrConflict — under concurrent
	// registration the constraint, not the pre-check, is the arbiter.
	CreateAccount(ctx context.Context, account *model.Account) error

	// GetByRollNumber fetches an account regardless of status.
	// Returns an error matching apperror.ErrNotFound if no row exists.
	GetByRollNumber(ctx context.Context, rollNumber string) (*model.Account, error)

	// CheckDuplicate reports whether a non-deleted account already uses the
	// roll number or the email. Advisory only: two concurrent callers can
	// both see DupNone before either inserts.
	CheckDuplicate(ctx context.Context, rollNumber, email string) (Duplicate, error)

	// UpdateLastLogin stamps the account's last-login time.
	UpdateLastLogin(ctx context.Context, rollNumber string, at time.Time) error
}

// SessionStore persists issued sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *model.Session) error
}

// AuditStore appends security/activity/error records and notifications.
// Callers treat all of these as best-effort; the store itself just reports
// errors normally.
type AuditStore interface {
	AppendSecurityLog(ctx context.Context, entry *model.SecurityLogEntry) error
	AppendActivityLog(ctx context.Context, entry *model.ActivityLogEntry) error
	AppendErrorLog(ctx context.Context, entry *model.ErrorLogEntry) error
	CreateNotification(ctx context.Context, n *model.Notification) error
}

// Store is the full contract a backend adapter implements. The server owns
// one Store value, constructed at startup and closed on shutdown; every
// component receives it (or a sub-interface) by injection.
type Store interface {
	AccountStore
	SessionStore
	AuditStore

	// Ping verifies the backend is reachable. Used by the health endpoint.
	Ping(ctx context.Context) error
	Close() error
}
