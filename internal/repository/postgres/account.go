package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/examverse/accounts/internal/apperror"
	"github.com/examverse/accounts/internal/model"
	"github.com/examverse/accounts/internal/repository"
)

// CreateAccount inserts the account and its four dependent rows in one
// transaction. Mirrors the sqlite adapter: any failure rolls everything
// back, and a unique violation surfaces as a conflict.
func (db *DB) CreateAccount(ctx context.Context, account *model.Account) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: starting transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO accounts
		 (roll_number, name, email, phone, password_hash, year, semester,
		  department, college, status, created_at, tests_taken, total_score, rank)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, 0, 0)`,
		account.RollNumber,
		account.Name,
		account.Email,
		account.Phone,
		account.PasswordHash,
		account.Year,
		account.Semester,
		account.Department,
		account.College,
		string(account.Status),
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("Roll Number or Email already exists.")
		}
		return fmt.Errorf("postgres: inserting account %s: %w", account.RollNumber, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO account_profiles (roll_number, bio, photo_url, profile_views, updated_at)
		 VALUES ($1, '', '', 0, $2)`,
		account.RollNumber, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: inserting profile for %s: %w", account.RollNumber, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO account_settings (roll_number) VALUES ($1)`,
		account.RollNumber,
	)
	if err != nil {
		return fmt.Errorf("postgres: inserting settings for %s: %w", account.RollNumber, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO notification_preferences (roll_number) VALUES ($1)`,
		account.RollNumber,
	)
	if err != nil {
		return fmt.Errorf("postgres: inserting notification preferences for %s: %w", account.RollNumber, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO privacy_settings (roll_number) VALUES ($1)`,
		account.RollNumber,
	)
	if err != nil {
		return fmt.Errorf("postgres: inserting privacy settings for %s: %w", account.RollNumber, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: committing account %s: %w", account.RollNumber, err)
	}
	return nil
}

// GetByRollNumber fetches an account by roll number, any status.
func (db *DB) GetByRollNumber(ctx context.Context, rollNumber string) (*model.Account, error) {
	var a model.Account
	var status string
	var lastLogin *time.Time

	err := db.pool.QueryRow(ctx,
		`SELECT roll_number, name, email, phone, password_hash, year, semester,
		        department, college, status, created_at, last_login_at,
		        tests_taken, total_score, rank
		 FROM accounts WHERE roll_number = $1`,
		rollNumber,
	).Scan(
		&a.RollNumber,
		&a.Name,
		&a.Email,
		&a.Phone,
		&a.PasswordHash,
		&a.Year,
		&a.Semester,
		&a.Department,
		&a.College,
		&status,
		&a.CreatedAt,
		&lastLogin,
		&a.TestsTaken,
		&a.TotalScore,
		&a.Rank,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("account", rollNumber)
		}
		return nil, fmt.Errorf("postgres: getting account %s: %w", rollNumber, err)
	}

	a.Status = model.AccountStatus(status)
	a.LastLoginAt = lastLogin
	return &a, nil
}

// CheckDuplicate reports whether a non-deleted account already holds the
// roll number or email.
func (db *DB) CheckDuplicate(ctx context.Context, rollNumber, email string) (repository.Duplicate, error) {
	var rollTaken, emailTaken bool

	err := db.pool.QueryRow(ctx,
		`SELECT
		   EXISTS(SELECT 1 FROM accounts WHERE roll_number = $1 AND status != 'deleted'),
		   EXISTS(SELECT 1 FROM accounts WHERE email = $2 AND status != 'deleted')`,
		rollNumber, email,
	).Scan(&rollTaken, &emailTaken)
	if err != nil {
		return repository.DupNone, fmt.Errorf("postgres: checking duplicates for %s: %w", rollNumber, err)
	}

	switch {
	case rollTaken && emailTaken:
		return repository.DupBoth, nil
	case rollTaken:
		return repository.DupRollNumber, nil
	case emailTaken:
		return repository.DupEmail, nil
	default:
		return repository.DupNone, nil
	}
}

// UpdateLastLogin stamps the last-login time on the account row.
func (db *DB) UpdateLastLogin(ctx context.Context, rollNumber string, at time.Time) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE accounts SET last_login_at = $1 WHERE roll_number = $2`,
		at, rollNumber,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating last login for %s: %w", rollNumber, err)
	}
	return nil
}
