package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/examverse/accounts/internal/auth"
	"github.com/examverse/accounts/internal/model"
	"github.com/examverse/accounts/internal/service"
)

// Accounts is the slice of the service layer the HTTP handlers need.
// Declared here so tests can swap in a fake without touching a database.
type Accounts interface {
	Register(ctx context.Context, in service.RegistrationInput) (*service.RegistrationResult, error)
	Login(ctx context.Context, in service.LoginInput, origin service.Origin) (*service.LoginResult, error)
	GetAccount(ctx context.Context, rollNumber string) (*model.Account, error)
}

// AccountHandler exposes registration, login and the current-account
// lookup over HTTP.
//
//   - HandleRegister → create an account, answer with roll number and name
//   - HandleLogin    → verify credentials, issue a session + JWT cookie
//   - HandleMe       → return the authenticated account's record
type AccountHandler struct {
	accounts Accounts
	tokens   *auth.TokenService
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler. tokens may be nil when the
// server runs without JWT support; the login response then carries no cookie.
func NewAccountHandler(accounts Accounts, tokens *auth.TokenService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

// studentPayload is the account record plus the session identifier the
// client stores for subsequent requests. Embedding promotes the account's
// JSON fields; the password hash is excluded by its `json:"-"` tag.
type studentPayload struct {
	*model.Account
	SessionID string `json:"sessionId"`
}

// HandleRegister creates a new student account.
//
// HTTP: POST /api/register
//
// Responses:
//
//	200 {"success":true,"message":"Registration successful! Please login.","data":{"rollNumber":"...","name":"..."}}
//	400 aggregated validation message
//	409 duplicate roll number or email
//	500 generic message, never the raw error
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Invalid request body"})
		return
	}

	result, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		h.logger.Warn("registration rejected",
			slog.String("rollNumber", in.RollNumber),
			slog.String("error", err.Error()),
		)
		writeError(w, err, "Server error. Try again.")
		return
	}

	h.logger.Info("account registered",
		slog.String("rollNumber", result.RollNumber),
	)
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Registration successful! Please login.",
		Data:    result,
	})
}

// HandleLogin authenticates a student and opens a session.
//
// HTTP: POST /api/login
//
// On success the session ID rides inside the student payload and, when a
// token service is configured, a JWT lands in an HttpOnly cookie that
// expires together with the session.
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Invalid request body"})
		return
	}

	origin := service.Origin{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}

	result, err := h.accounts.Login(r.Context(), in, origin)
	if err != nil {
		writeError(w, err, "Connection failed. Try again.")
		return
	}

	if h.tokens != nil {
		tokenStr, err := h.tokens.Generate(result.Student.RollNumber, result.Session.ExpiresAt)
		if err != nil {
			// The session row already exists; a cookie failure should not
			// turn a correct login into an error. The client still gets
			// the session ID in the body.
			h.logger.Error("token generation failed",
				slog.String("rollNumber", result.Student.RollNumber),
				slog.String("error", err.Error()),
			)
		} else {
			http.SetCookie(w, &http.Cookie{
				Name:     "token",
				Value:    tokenStr,
				Path:     "/",
				Expires:  result.Session.ExpiresAt,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
	}

	h.logger.Info("login succeeded",
		slog.String("rollNumber", result.Student.RollNumber),
		slog.String("sessionID", result.Session.ID),
	)
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Login successful",
		Data: map[string]any{
			"student": studentPayload{
				Account:   result.Student,
				SessionID: result.Session.ID,
			},
		},
	})
}

// HandleMe returns the authenticated account's record.
//
// HTTP: GET /api/me
// Auth: RequireAuth puts the roll number in the request context.
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	rollNumber, ok := auth.RollNumberFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, kept for direct use.
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Message: "Authentication required"})
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), rollNumber)
	if err != nil {
		writeError(w, err, "Server error. Try again.")
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "OK",
		Data:    map[string]any{"student": account},
	})
}
