package sqlite

import (
	"context"
	"fmt"

	"github.com/examverse/accounts/internal/model"
)

// CreateSession persists one issued session. Multiple active sessions per
// account are allowed, so this is a plain insert with no conflict handling
// beyond the primary key.
func (db *DB) CreateSession(ctx context.Context, session *model.Session) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, roll_number, issued_at, expires_at, ip_address, user_agent, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.RollNumber,
		session.IssuedAt,
		session.ExpiresAt,
		session.IPAddress,
		session.UserAgent,
		session.Active,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting session %s: %w", session.ID, err)
	}
	return nil
}
