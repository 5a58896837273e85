package model

import "time"

// Audit records are append-only and reference accounts by roll number value,
// not by foreign key — the referenced account may later be deleted and the
// audit trail must survive it.

// SecurityEventType classifies security log entries.
type SecurityEventType string

const (
	// SecurityEventFailedLogin is recorded once per failed credential check.
	SecurityEventFailedLogin SecurityEventType = "failed-login"
)

// SecurityLogEntry records a security-relevant event such as a failed login.
type SecurityLogEntry struct {
	ID         string            `json:"id"         db:"id"`
	Type       SecurityEventType `json:"type"       db:"type"`
	RollNumber string            `json:"rollNumber" db:"roll_number"`
	IPAddress  string            `json:"ipAddress"  db:"ip_address"`
	UserAgent  string            `json:"userAgent"  db:"user_agent"`
	Detail     string            `json:"detail"     db:"detail"`
	CreatedAt  time.Time         `json:"createdAt"  db:"created_at"`
}

// ActivityLogEntry records a normal account activity (registered, logged in).
type ActivityLogEntry struct {
	ID         string    `json:"id"         db:"id"`
	RollNumber string    `json:"rollNumber" db:"roll_number"`
	Action     string    `json:"action"     db:"action"`
	Detail     string    `json:"detail"     db:"detail"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
}

// ErrorLogEntry records an internal failure for later diagnosis. The caller
// only ever sees a generic message; the detail lives here.
type ErrorLogEntry struct {
	ID        string    `json:"id"        db:"id"`
	Source    string    `json:"source"    db:"source"`
	Message   string    `json:"message"   db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Notification is an in-app message for an account, such as the welcome
// notification created right after registration.
type Notification struct {
	ID         string    `json:"id"         db:"id"`
	RollNumber string    `json:"rollNumber" db:"roll_number"`
	Title      string    `json:"title"      db:"title"`
	Body       string    `json:"body"       db:"body"`
	Read       bool      `json:"read"       db:"is_read"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
}
