package sqlite

import (
	"context"
	"fmt"

	"github.com/examverse/accounts/internal/model"
)

// Audit tables are append-only. These methods report errors normally; the
// best-effort policy (swallow and move on) lives in the service layer, not
// here, so the store stays honest for callers that do care.

func (db *DB) AppendSecurityLog(ctx context.Context, entry *model.SecurityLogEntry) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO security_logs (id, type, roll_number, ip_address, user_agent, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		string(entry.Type),
		entry.RollNumber,
		entry.IPAddress,
		entry.UserAgent,
		entry.Detail,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting security log: %w", err)
	}
	return nil
}

func (db *DB) AppendActivityLog(ctx context.Context, entry *model.ActivityLogEntry) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO activity_logs (id, roll_number, action, detail, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.RollNumber,
		entry.Action,
		entry.Detail,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting activity log: %w", err)
	}
	return nil
}

func (db *DB) AppendErrorLog(ctx context.Context, entry *model.ErrorLogEntry) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO error_logs (id, source, message, created_at)
		 VALUES (?, ?, ?, ?)`,
		entry.ID,
		entry.Source,
		entry.Message,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting error log: %w", err)
	}
	return nil
}

func (db *DB) CreateNotification(ctx context.Context, n *model.Notification) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO notifications (id, roll_number, title, body, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID,
		n.RollNumber,
		n.Title,
		n.Body,
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting notification: %w", err)
	}
	return nil
}
