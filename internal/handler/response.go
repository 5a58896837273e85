package handler

// RESPONSE HELPERS:
// Every API endpoint answers with the same envelope:
//
//	{"success": true, "message": "...", "data": {...}}
//
// The frontend switches purely on the `success` flag and shows `message`
// to the user, so the envelope shape must never vary — including for
// errors produced by the router itself (404, 405).

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/examverse/accounts/internal/apperror"
)

// Envelope is the uniform response body for all API endpoints.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
// Headers must be set before WriteHeader; the body goes last.
func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already sent at this point; logging is all we can do.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError maps a domain error to an HTTP status and sends it in the
// standard envelope.
//
// The service layer returns apperror sentinels (ErrValidation, ErrConflict,
// ...); this is the only place they get translated to status codes. The
// service never sees HTTP.
//
// fallback is the message used for errors that carry no AppError — raw
// database or I/O failures whose text must never reach the client.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}
		writeJSON(w, status, Envelope{Success: false, Message: appErr.Message})
		return
	}

	// Unknown error: the raw message might contain SQL or file paths,
	// so the client only gets the generic fallback.
	writeJSON(w, http.StatusInternalServerError, Envelope{Success: false, Message: fallback})
}

// NotFound is installed as the router's catch-all so unknown paths get
// the JSON envelope instead of chi's plain-text default.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, Envelope{Success: false, Message: "Not found"})
}

// MethodNotAllowed answers requests that hit a known path with the wrong
// verb, again in the standard envelope.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, Envelope{Success: false, Message: "Method not allowed"})
}
