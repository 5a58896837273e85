package postgres

import (
	"context"
	"fmt"

	"github.com/examverse/accounts/internal/model"
)

// CreateSession persists one issued session.
func (db *DB) CreateSession(ctx context.Context, session *model.Session) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO sessions (id, roll_number, issued_at, expires_at, ip_address, user_agent, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID,
		session.RollNumber,
		session.IssuedAt,
		session.ExpiresAt,
		session.IPAddress,
		session.UserAgent,
		session.Active,
	)
	if err != nil {
		return fmt.Errorf("postgres: inserting session %s: %w", session.ID, err)
	}
	return nil
}
