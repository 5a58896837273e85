package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/examverse/accounts/internal/model"
	"github.com/examverse/accounts/internal/repository"
)

// Origin is the request metadata recorded with sessions and security logs.
type Origin struct {
	IPAddress string
	UserAgent string
}

// AuditLogger appends security, activity, and error records. Every method
// is best-effort: a failed write is demoted to a slog warning and
// discarded. Audit failures must never alter or delay the registration or
// login outcome they accompany.
type AuditLogger struct {
	store  repository.AuditStore
	logger *slog.Logger
}

// NewAuditLogger creates an AuditLogger over the given store.
func NewAuditLogger(store repository.AuditStore, logger *slog.Logger) *AuditLogger {
	return &AuditLogger{store: store, logger: logger}
}

// FailedLogin records exactly one failed-login security event.
func (l *AuditLogger) FailedLogin(ctx context.Context, rollNumber string, origin Origin) {
	err := l.store.AppendSecurityLog(ctx, &model.SecurityLogEntry{
		ID:         xid.New().String(),
		Type:       model.SecurityEventFailedLogin,
		RollNumber: rollNumber,
		IPAddress:  origin.IPAddress,
		UserAgent:  origin.UserAgent,
		Detail:     "password mismatch",
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		l.logger.Warn("security log write failed",
			slog.String("rollNumber", rollNumber),
			slog.String("error", err.Error()),
		)
	}
}

// Activity records a normal account action.
func (l *AuditLogger) Activity(ctx context.Context, rollNumber, action, detail string) {
	err := l.store.AppendActivityLog(ctx, &model.ActivityLogEntry{
		ID:         xid.New().String(),
		RollNumber: rollNumber,
		Action:     action,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		l.logger.Warn("activity log write failed",
			slog.String("rollNumber", rollNumber),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}

// ServerError records an internal failure. The caller still returns its own
// error to the client (a generic one); the detail is kept here.
func (l *AuditLogger) ServerError(ctx context.Context, source string, cause error) {
	err := l.store.AppendErrorLog(ctx, &model.ErrorLogEntry{
		ID:        xid.New().String(),
		Source:    source,
		Message:   cause.Error(),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		l.logger.Warn("error log write failed",
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
	}
}

// Welcome creates the post-registration welcome notification.
func (l *AuditLogger) Welcome(ctx context.Context, rollNumber, name string) {
	err := l.store.CreateNotification(ctx, &model.Notification{
		ID:         xid.New().String(),
		RollNumber: rollNumber,
		Title:      "Welcome to ExamVerse",
		Body:       "Hi " + name + ", your registration was received.",
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		l.logger.Warn("welcome notification write failed",
			slog.String("rollNumber", rollNumber),
			slog.String("error", err.Error()),
		)
	}
}
