package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
// A package-private key type prevents other packages from reading or
// shadowing the value stored under it.
type contextKey string

const rollNumberKey contextKey = "rollNumber"

// RequireAuth enforces authentication on protected routes.
//
// It reads the JWT from the "token" HttpOnly cookie, validates it, and
// stores the roll number in the request context. If the token is missing or
// invalid, it returns 401 Unauthorized and stops the request chain.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rollNumber, err := extractRollNumber(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"message":"Authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), rollNumberKey, rollNumber)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RollNumberFromContext retrieves the authenticated roll number from the
// request context. Returns ("", false) if the request is anonymous.
func RollNumberFromContext(ctx context.Context) (string, bool) {
	roll, ok := ctx.Value(rollNumberKey).(string)
	return roll, ok && roll != ""
}

// extractRollNumber reads the JWT cookie and validates it.
func extractRollNumber(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie("token")
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
