package model

import "time"

// Session is a time-bounded authenticated context issued after a successful
// login. A session belongs to exactly one account, referenced by roll number.
//
// There is deliberately no uniqueness constraint across an account's
// sessions — logging in from a second device issues a second session and
// both remain valid until they expire. Sessions are never deleted by this
// service; expiry is checked at use time.
//
// Invariant: ExpiresAt is strictly after IssuedAt.
type Session struct {
	ID         string    `json:"sessionId"  db:"id"`
	RollNumber string    `json:"rollNumber" db:"roll_number"`
	IssuedAt   time.Time `json:"issuedAt"   db:"issued_at"`
	ExpiresAt  time.Time `json:"expiresAt"  db:"expires_at"`
	IPAddress  string    `json:"ipAddress"  db:"ip_address"`
	UserAgent  string    `json:"userAgent"  db:"user_agent"`
	Active     bool      `json:"active"     db:"active"`
}
