// Package model defines the data structures used throughout the application.
package model

import "time"

// AccountStatus is the lifecycle state of an account. It gates
// authentication: only active accounts may log in.
//
// STATE MACHINE:
//
//	pending --(admin approval)--> active
//	active  --(admin action)----> suspended
//	any     --(admin action)----> deleted
//
// This service only ever writes the initial state (pending, or active when
// auto-activation is configured). All later transitions happen through the
// admin tooling, outside this service.
type AccountStatus string

const (
	StatusPending   AccountStatus = "pending"
	StatusActive    AccountStatus = "active"
	StatusSuspended AccountStatus = "suspended"
	StatusDeleted   AccountStatus = "deleted"
)

// Account represents a registered student account.
//
// The roll number is the human-facing identity key — students log in with it,
// and it is what other records (sessions, audit logs) reference. Roll number
// and email are each unique among accounts whose status is not "deleted";
// deleted accounts keep their rows so that audit history stays intact, and
// the roll number becomes reusable.
//
// PasswordHash is tagged `json:"-"` so it can never leak into an API
// response, no matter which handler serializes the account.
type Account struct {
	RollNumber   string        `json:"rollNumber" db:"roll_number"`
	Name         string        `json:"name"       db:"name"`
	Email        string        `json:"email"      db:"email"`
	Phone        string        `json:"phone"      db:"phone"`
	PasswordHash string        `json:"-"          db:"password_hash"`
	Year         int           `json:"year"       db:"year"`
	Semester     int           `json:"semester"   db:"semester"`
	Department   string        `json:"department" db:"department"`
	College      string        `json:"college"    db:"college"`
	Status       AccountStatus `json:"status"     db:"status"`
	CreatedAt    time.Time     `json:"createdAt"  db:"created_at"`
	LastLoginAt  *time.Time    `json:"lastLoginAt,omitempty" db:"last_login_at"`

	// Aggregate exam stats, maintained by the exam service.
	TestsTaken int `json:"testsTaken" db:"tests_taken"`
	TotalScore int `json:"totalScore" db:"total_score"`
	Rank       int `json:"rank"       db:"rank"`
}

// AccountProfile holds the social/display attributes of an account.
// It is 1:1 with Account and is created in the same transaction as the
// account row — a profile never exists on its own.
type AccountProfile struct {
	RollNumber   string    `json:"rollNumber" db:"roll_number"`
	Bio          string    `json:"bio"        db:"bio"`
	PhotoURL     string    `json:"photoUrl"   db:"photo_url"`
	ProfileViews int       `json:"profileViews" db:"profile_views"`
	UpdatedAt    time.Time `json:"updatedAt"  db:"updated_at"`
}

// AccountSettings holds per-account preferences. Default-initialized at
// registration; mutable later by the account owner through the settings API.
type AccountSettings struct {
	RollNumber string `json:"rollNumber" db:"roll_number"`
	Language   string `json:"language"   db:"language"`
	Theme      string `json:"theme"      db:"theme"`
}

// NotificationPreferences controls which notification channels are enabled
// for an account. All channels default to on at registration.
type NotificationPreferences struct {
	RollNumber    string `json:"rollNumber"    db:"roll_number"`
	EmailEnabled  bool   `json:"emailEnabled"  db:"email_enabled"`
	SMSEnabled    bool   `json:"smsEnabled"    db:"sms_enabled"`
	TestReminders bool   `json:"testReminders" db:"test_reminders"`
}

// PrivacySettings controls what other students can see on a profile.
type PrivacySettings struct {
	RollNumber string `json:"rollNumber" db:"roll_number"`
	ShowEmail  bool   `json:"showEmail"  db:"show_email"`
	ShowPhone  bool   `json:"showPhone"  db:"show_phone"`
	ShowRank   bool   `json:"showRank"   db:"show_rank"`
}
