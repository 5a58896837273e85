package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/examverse/accounts/internal/model"
	"github.com/examverse/accounts/internal/repository"
)

// SessionTTL is how long an issued session stays valid.
const SessionTTL = 24 * time.Hour

// SessionManager issues sessions after successful authentication.
type SessionManager struct {
	sessions repository.SessionStore
	accounts repository.AccountStore
	logger   *slog.Logger
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(sessions repository.SessionStore, accounts repository.AccountStore, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		sessions: sessions,
		accounts: accounts,
		logger:   logger,
	}
}

// Issue creates and persists a session for the account, then stamps the
// account's last-login time.
//
// The session ID is an xid: creation timestamp plus a random component —
// unique per call with negligible collision probability, which is all that
// is required. Concurrent sessions for one account are allowed.
//
// The two writes are sequential and NOT transactional. A failed last-login
// update does not invalidate the session that was just issued; it only
// logs a warning. Weaker consistency, accepted: last-login is advisory
// metadata, the session row is the thing that matters.
func (m *SessionManager) Issue(ctx context.Context, rollNumber string, origin Origin) (*model.Session, error) {
	now := time.Now().UTC()

	session := &model.Session{
		ID:         xid.New().String(),
		RollNumber: rollNumber,
		IssuedAt:   now,
		ExpiresAt:  now.Add(SessionTTL),
		IPAddress:  origin.IPAddress,
		UserAgent:  origin.UserAgent,
		Active:     true,
	}

	if err := m.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("service/session: creating session for %s: %w", rollNumber, err)
	}

	if err := m.accounts.UpdateLastLogin(ctx, rollNumber, now); err != nil {
		m.logger.Warn("last-login update failed",
			slog.String("rollNumber", rollNumber),
			slog.String("error", err.Error()),
		)
	}

	return session, nil
}
