package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examverse/accounts/internal/apperror"
	"github.com/examverse/accounts/internal/auth"
	"github.com/examverse/accounts/internal/handler"
	"github.com/examverse/accounts/internal/model"
	"github.com/examverse/accounts/internal/service"
)

// MockAccounts captures inputs and returns canned results so handler tests
// never touch a database.
type MockAccounts struct {
	CapturedRegister service.RegistrationInput
	CapturedLogin    service.LoginInput
	CapturedOrigin   service.Origin
	CapturedRoll     string

	RegisterResult *service.RegistrationResult
	RegisterErr    error
	LoginResult    *service.LoginResult
	LoginErr       error
	Account        *model.Account
	AccountErr     error
}

func (m *MockAccounts) Register(ctx context.Context, in service.RegistrationInput) (*service.RegistrationResult, error) {
	m.CapturedRegister = in
	if m.RegisterErr != nil {
		return nil, m.RegisterErr
	}
	return m.RegisterResult, nil
}

func (m *MockAccounts) Login(ctx context.Context, in service.LoginInput, origin service.Origin) (*service.LoginResult, error) {
	m.CapturedLogin = in
	m.CapturedOrigin = origin
	if m.LoginErr != nil {
		return nil, m.LoginErr
	}
	return m.LoginResult, nil
}

func (m *MockAccounts) GetAccount(ctx context.Context, rollNumber string) (*model.Account, error) {
	m.CapturedRoll = rollNumber
	if m.AccountErr != nil {
		return nil, m.AccountErr
	}
	return m.Account, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestAccountHandler_HandleRegister(t *testing.T) {
	logger := testLogger()

	t.Run("successful registration", func(t *testing.T) {
		mock := &MockAccounts{
			RegisterResult: &service.RegistrationResult{RollNumber: "21CS001", Name: "Asha Rao"},
		}
		h := handler.NewAccountHandler(mock, nil, logger)

		reqBody := `{"rollNumber":"21CS001","name":"Asha Rao","email":"asha@svr.ac.in","password":"secret1","confirmPassword":"secret1"}`
		req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		h.HandleRegister(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Registration successful! Please login.", body["message"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "21CS001", data["rollNumber"])
		assert.Equal(t, "Asha Rao", data["name"])

		assert.Equal(t, "21CS001", mock.CapturedRegister.RollNumber)
	})

	t.Run("malformed JSON body", func(t *testing.T) {
		mock := &MockAccounts{}
		h := handler.NewAccountHandler(mock, nil, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(`{"rollNumber":`))
		rr := httptest.NewRecorder()

		h.HandleRegister(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Equal(t, false, body["success"])
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		mock := &MockAccounts{
			RegisterErr: apperror.ValidationFailed("Roll Number is required. Full Name is required."),
		}
		h := handler.NewAccountHandler(mock, nil, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(`{}`))
		rr := httptest.NewRecorder()

		h.HandleRegister(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Roll Number is required. Full Name is required.", body["message"])
	})

	t.Run("duplicate maps to 409", func(t *testing.T) {
		mock := &MockAccounts{
			RegisterErr: apperror.Conflict("Roll Number already exists."),
		}
		h := handler.NewAccountHandler(mock, nil, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(`{"rollNumber":"21CS001"}`))
		rr := httptest.NewRecorder()

		h.HandleRegister(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Equal(t, "Roll Number already exists.", body["message"])
	})

	t.Run("store failure hides the raw error", func(t *testing.T) {
		mock := &MockAccounts{
			RegisterErr: errors.New("pq: connection refused on host db-internal:5432"),
		}
		h := handler.NewAccountHandler(mock, nil, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(`{"rollNumber":"21CS001"}`))
		rr := httptest.NewRecorder()

		h.HandleRegister(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Equal(t, "Server error. Try again.", body["message"])
		assert.NotContains(t, rr.Body.String(), "db-internal")
	})
}

func TestAccountHandler_HandleLogin(t *testing.T) {
	logger := testLogger()

	okResult := func() *service.LoginResult {
		return &service.LoginResult{
			Student: &model.Account{
				RollNumber: "21CS001",
				Name:       "Asha Rao",
				Status:     model.StatusActive,
			},
			Session: &model.Session{
				ID:        "session-1",
				IssuedAt:  time.Now().UTC(),
				ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
			},
		}
	}

	t.Run("successful login", func(t *testing.T) {
		mock := &MockAccounts{LoginResult: okResult()}
		h := handler.NewAccountHandler(mock, nil, logger)

		reqBody := `{"rollNumber":"21CS001","password":"secret1"}`
		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(reqBody))
		req.Header.Set("User-Agent", "test-agent")
		rr := httptest.NewRecorder()

		h.HandleLogin(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Login successful", body["message"])

		student := body["data"].(map[string]any)["student"].(map[string]any)
		assert.Equal(t, "21CS001", student["rollNumber"])
		assert.Equal(t, "session-1", student["sessionId"])
		_, leaked := student["passwordHash"]
		assert.False(t, leaked)

		assert.Equal(t, "test-agent", mock.CapturedOrigin.UserAgent)
		assert.NotEmpty(t, mock.CapturedOrigin.IPAddress)
	})

	t.Run("token service sets the session cookie", func(t *testing.T) {
		tokens, err := auth.NewTokenService("0123456789abcdef")
		require.NoError(t, err)
		mock := &MockAccounts{LoginResult: okResult()}
		h := handler.NewAccountHandler(mock, tokens, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"rollNumber":"21CS001","password":"secret1"}`))
		rr := httptest.NewRecorder()

		h.HandleLogin(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var cookie *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == "token" {
				cookie = c
			}
		}
		require.NotNil(t, cookie, "expected a token cookie")
		assert.True(t, cookie.HttpOnly)

		roll, err := tokens.Validate(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, "21CS001", roll)
	})

	t.Run("invalid credentials map to 401", func(t *testing.T) {
		mock := &MockAccounts{LoginErr: apperror.Unauthorized("Invalid roll number or password")}
		h := handler.NewAccountHandler(mock, nil, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"rollNumber":"21CS001","password":"wrong"}`))
		rr := httptest.NewRecorder()

		h.HandleLogin(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Equal(t, "Invalid roll number or password", body["message"])
	})

	t.Run("blocked status maps to 403", func(t *testing.T) {
		mock := &MockAccounts{LoginErr: apperror.Forbidden("Your account has been suspended.")}
		h := handler.NewAccountHandler(mock, nil, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"rollNumber":"21CS001","password":"secret1"}`))
		rr := httptest.NewRecorder()

		h.HandleLogin(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Equal(t, "Your account has been suspended.", body["message"])
	})

	t.Run("missing fields map to 400", func(t *testing.T) {
		mock := &MockAccounts{LoginErr: apperror.ValidationFailed("Roll number and password required")}
		h := handler.NewAccountHandler(mock, nil, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{}`))
		rr := httptest.NewRecorder()

		h.HandleLogin(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("store failure returns the connection message", func(t *testing.T) {
		mock := &MockAccounts{LoginErr: errors.New("dial tcp: connection refused")}
		h := handler.NewAccountHandler(mock, nil, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"rollNumber":"21CS001","password":"secret1"}`))
		rr := httptest.NewRecorder()

		h.HandleLogin(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Equal(t, "Connection failed. Try again.", body["message"])
	})
}

func TestAccountHandler_HandleMe(t *testing.T) {
	logger := testLogger()

	t.Run("returns the account from the context roll number", func(t *testing.T) {
		mock := &MockAccounts{
			Account: &model.Account{RollNumber: "21CS001", Name: "Asha Rao", Status: model.StatusActive},
		}
		tokens, err := auth.NewTokenService("0123456789abcdef")
		require.NoError(t, err)
		h := handler.NewAccountHandler(mock, tokens, logger)

		tokenStr, err := tokens.Generate("21CS001", time.Now().Add(time.Hour))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: tokenStr})
		rr := httptest.NewRecorder()

		auth.RequireAuth(tokens)(http.HandlerFunc(h.HandleMe)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeEnvelope(t, rr)
		student := body["data"].(map[string]any)["student"].(map[string]any)
		assert.Equal(t, "21CS001", student["rollNumber"])
		assert.Equal(t, "21CS001", mock.CapturedRoll)
	})

	t.Run("missing cookie is rejected by the middleware", func(t *testing.T) {
		mock := &MockAccounts{}
		tokens, err := auth.NewTokenService("0123456789abcdef")
		require.NoError(t, err)
		h := handler.NewAccountHandler(mock, tokens, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		rr := httptest.NewRecorder()

		auth.RequireAuth(tokens)(http.HandlerFunc(h.HandleMe)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, mock.CapturedRoll)
	})

	t.Run("unknown account maps to 404", func(t *testing.T) {
		mock := &MockAccounts{AccountErr: apperror.NotFound("account", "21CS999")}
		tokens, err := auth.NewTokenService("0123456789abcdef")
		require.NoError(t, err)
		h := handler.NewAccountHandler(mock, tokens, logger)

		tokenStr, err := tokens.Generate("21CS999", time.Now().Add(time.Hour))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: tokenStr})
		rr := httptest.NewRecorder()

		auth.RequireAuth(tokens)(http.HandlerFunc(h.HandleMe)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
