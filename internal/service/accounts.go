package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/examverse/accounts/internal/apperror"
	"github.com/examverse/accounts/internal/auth"
	"github.com/examverse/accounts/internal/model"
	"github.com/examverse/accounts/internal/repository"
)

// invalidCredentials is the one message for both an unknown roll number and
// a wrong password. Keeping them identical means a response never reveals
// which of the two was wrong.
const invalidCredentials = "Invalid roll number or password"

// AccountService orchestrates registration and login.
//
//	AccountHandler (HTTP) → AccountService → repository.AccountStore (DB)
//	                      ↘ SessionManager, AuditLogger, CredentialHasher
//
// All dependencies are injected; the service holds no request-scoped state,
// so one instance serves all requests concurrently.
type AccountService struct {
	accounts  repository.AccountStore
	sessions  *SessionManager
	audit     *AuditLogger
	hasher    auth.CredentialHasher
	validator *Validator
	logger    *slog.Logger

	// autoActivate skips the admin-approval step: accounts are created
	// directly in active status instead of pending.
	autoActivate bool
}

// NewAccountService creates an AccountService with all required
// dependencies. Wired in internal/server.
func NewAccountService(
	accounts repository.AccountStore,
	sessions *SessionManager,
	audit *AuditLogger,
	hasher auth.CredentialHasher,
	validator *Validator,
	logger *slog.Logger,
	autoActivate bool,
) *AccountService {
	return &AccountService{
		accounts:     accounts,
		sessions:     sessions,
		audit:        audit,
		hasher:       hasher,
		validator:    validator,
		logger:       logger,
		autoActivate: autoActivate,
	}
}

// RegistrationResult is returned on successful registration.
type RegistrationResult struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}

// LoginResult bundles the authenticated account (password hash stripped)
// with the session issued for it.
type LoginResult struct {
	Student *model.Account
	Session *model.Session
}

// Register creates a new student account.
//
// Pipeline: validate → duplicate pre-check → hash → transactional create →
// best-effort audit. The duplicate pre-check exists for the field-specific
// error message; the store's unique constraint is what actually guarantees
// uniqueness under concurrent registration, and a constraint violation
// inside CreateAccount comes back as the same conflict error.
func (s *AccountService) Register(ctx context.Context, in RegistrationInput) (*RegistrationResult, error) {
	if errs := s.validator.ValidateRegistration(in); len(errs) > 0 {
		return nil, apperror.ValidationFailed(strings.Join(errs, " "))
	}

	dup, err := s.accounts.CheckDuplicate(ctx, in.RollNumber, in.Email)
	if err != nil {
		s.audit.ServerError(ctx, "register", err)
		return nil, fmt.Errorf("service/accounts: duplicate check: %w", err)
	}
	switch dup {
	case repository.DupRollNumber:
		return nil, apperror.Conflict("Roll Number already exists.")
	case repository.DupEmail:
		return nil, apperror.Conflict("Email already exists.")
	case repository.DupBoth:
		return nil, apperror.Conflict("Roll Number and Email already exist.")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/accounts: hashing password: %w", err)
	}

	status := model.StatusPending
	if s.autoActivate {
		status = model.StatusActive
	}

	account := &model.Account{
		RollNumber:   in.RollNumber,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Year:         in.Year,
		Semester:     in.Semester,
		Department:   in.Department,
		College:      in.College,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Lost the pre-check race to a concurrent registration.
			return nil, err
		}
		s.audit.ServerError(ctx, "register", err)
		return nil, fmt.Errorf("service/accounts: creating account %s: %w", in.RollNumber, err)
	}

	s.audit.Activity(ctx, account.RollNumber, "registered", "self-registration")
	s.audit.Welcome(ctx, account.RollNumber, account.Name)

	s.logger.Info("account registered",
		slog.String("rollNumber", account.RollNumber),
		slog.String("status", string(account.Status)),
	)

	return &RegistrationResult{
		RollNumber: account.RollNumber,
		Name:       account.Name,
	}, nil
}

// Login verifies credentials and issues a session.
//
// The step order is deliberate: existence, then status, then password. The
// status gate runs BEFORE the password comparison so a correct password on
// a disabled account yields the status-specific message, while a wrong
// password or an unknown roll number always yields the same generic one.
func (s *AccountService) Login(ctx context.Context, in LoginInput, origin Origin) (*LoginResult, error) {
	if errs := s.validator.ValidateLogin(in); len(errs) > 0 {
		return nil, apperror.ValidationFailed(strings.Join(errs, " "))
	}

	account, err := s.accounts.GetByRollNumber(ctx, in.RollNumber)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		s.audit.ServerError(ctx, "login", err)
		return nil, fmt.Errorf("service/accounts: fetching account: %w", err)
	}

	switch account.Status {
	case model.StatusPending:
		return nil, apperror.Forbidden("Your account is pending approval.")
	case model.StatusSuspended:
		return nil, apperror.Forbidden("Your account has been suspended.")
	case model.StatusDeleted:
		return nil, apperror.Forbidden("This account has been deleted.")
	}

	if !s.hasher.Verify(account.PasswordHash, in.Password) {
		s.audit.FailedLogin(ctx, in.RollNumber, origin)
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	session, err := s.sessions.Issue(ctx, account.RollNumber, origin)
	if err != nil {
		s.audit.ServerError(ctx, "login", err)
		return nil, fmt.Errorf("service/accounts: issuing session: %w", err)
	}

	s.audit.Activity(ctx, account.RollNumber, "logged-in", "")

	s.logger.Info("login succeeded",
		slog.String("rollNumber", account.RollNumber),
		slog.String("sessionID", session.ID),
	)

	// Strip the hash before the account leaves the core. The json:"-" tag
	// already keeps it out of responses; clearing it here keeps it out of
	// everything else too.
	account.PasswordHash = ""

	return &LoginResult{
		Student: account,
		Session: session,
	}, nil
}

// GetAccount returns the account for the given roll number with the
// password hash stripped. Used by the /api/me handler after the auth
// middleware has validated the token.
func (s *AccountService) GetAccount(ctx context.Context, rollNumber string) (*model.Account, error) {
	if rollNumber == "" {
		return nil, apperror.ValidationFailed("Roll number is required.")
	}

	account, err := s.accounts.GetByRollNumber(ctx, rollNumber)
	if err != nil {
		return nil, fmt.Errorf("service/accounts: fetching account %s: %w", rollNumber, err)
	}

	account.PasswordHash = ""
	return account, nil
}
