package postgres

import (
	"context"
	"fmt"

	"github.com/examverse/accounts/internal/model"
)

func (db *DB) AppendSecurityLog(ctx context.Context, entry *model.SecurityLogEntry) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO security_logs (id, type, roll_number, ip_address, user_agent, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID,
		string(entry.Type),
		entry.RollNumber,
		entry.IPAddress,
		entry.UserAgent,
		entry.Detail,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: inserting security log: %w", err)
	}
	return nil
}

func (db *DB) AppendActivityLog(ctx context.Context, entry *model.ActivityLogEntry) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO activity_logs (id, roll_number, action, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID,
		entry.RollNumber,
		entry.Action,
		entry.Detail,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: inserting activity log: %w", err)
	}
	return nil
}

func (db *DB) AppendErrorLog(ctx context.Context, entry *model.ErrorLogEntry) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO error_logs (id, source, message, created_at)
		 VALUES ($1, $2, $3, $4)`,
		entry.ID,
		entry.Source,
		entry.Message,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: inserting error log: %w", err)
	}
	return nil
}

func (db *DB) CreateNotification(ctx context.Context, n *model.Notification) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO notifications (id, roll_number, title, body, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID,
		n.RollNumber,
		n.Title,
		n.Body,
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: inserting notification: %w", err)
	}
	return nil
}
