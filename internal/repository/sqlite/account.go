package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/examverse/accounts/internal/apperror"
	"github.com/examverse/accounts/internal/model"
	"github.com/examverse/accounts/internal/repository"
)

// CreateAccount inserts the account and its four dependent rows in one
// transaction. If any insert fails the whole transaction rolls back and no
// partial account remains.
//
// The deferred Rollback is a no-op after a successful Commit; on any early
// return it undoes everything written so far.
func (db *DB) CreateAccount(ctx context.Context, account *model.Account) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: starting transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO accounts
		 (roll_number, name, email, phone, password_hash, year, semester,
		  department, college, status, created_at, tests_taken, total_score, rank)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, 0)`,
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
			// Lost the pre-check race: another registration committed the
			// same roll number or email first. Surface it as a conflict,
			// not a server error.
			return apperror.Conflict("Roll Number or Email already exists.")
		}
		return fmt.Errorf("sqlite: inserting account %s: %w", account.RollNumber, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO account_profiles (roll_number, bio, photo_url, profile_views, updated_at)
		 VALUES (?, '', '', 0, ?)`,
		account.RollNumber, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting profile for %s: %w", account.RollNumber, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO account_settings (roll_number) VALUES (?)`,
		account.RollNumber,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting settings for %s: %w", account.RollNumber, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO notification_preferences (roll_number) VALUES (?)`,
		account.RollNumber,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting notification preferences for %s: %w", account.RollNumber, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO privacy_settings (roll_number) VALUES (?)`,
		account.RollNumber,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting privacy settings for %s: %w", account.RollNumber, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing account %s: %w", account.RollNumber, err)
	}
	return nil
}

// GetByRollNumber fetches an account by roll number, any status.
func (db *DB) GetByRollNumber(ctx context.Context, rollNumber string) (*model.Account, error) {
	var a model.Account
	var status string
	var lastLogin sql.NullTime

	err := db.conn.QueryRowContext(ctx,
		`SELECT roll_number, name, email, phone, password_hash, year, semester,
		        department, college, status, created_at, last_login_at,
		        tests_taken, total_score, rank
		 FROM accounts WHERE roll_number = ?`,
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
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", rollNumber)
		}
		return nil, fmt.Errorf("sqlite: getting account %s: %w", rollNumber, err)
	}

	a.Status = model.AccountStatus(status)
	if lastLogin.Valid {
		a.LastLoginAt = &lastLogin.Time
	}
	return &a, nil
}

// CheckDuplicate reports whether a non-deleted account already holds the
// roll number or email. One query covers both keys; the caller picks the
// user-facing message from the classification.
func (db *DB) CheckDuplicate(ctx context.Context, rollNumber, email string) (repository.Duplicate, error) {
	var rollTaken, emailTaken bool

	err := db.conn.QueryRowContext(ctx,
		`SELECT
		   EXISTS(SELECT 1 FROM accounts WHERE roll_number = ? AND status != 'deleted'),
		   EXISTS(SELECT 1 FROM accounts WHERE email = ? AND status != 'deleted')`,
		rollNumber, email,
	).Scan(&rollTaken, &emailTaken)
	if err != nil {
		return repository.DupNone, fmt.Errorf("sqlite: checking duplicates for %s: %w", rollNumber, err)
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
	_, err := db.conn.ExecContext(ctx,
		`UPDATE accounts SET last_login_at = ? WHERE roll_number = ?`,
		at, rollNumber,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating last login for %s: %w", rollNumber, err)
	}
	return nil
}
