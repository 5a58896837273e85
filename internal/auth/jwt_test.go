package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-16-chars!!"

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Error("NewTokenService() should reject secrets under 16 characters")
	}
}

func TestGenerateAndValidate(t *testing.T) {
	ts, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := ts.Generate("21CS001", time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	roll, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if roll != "21CS001" {
		t.Errorf("Validate() subject = %q, want %q", roll, "21CS001")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	ts, _ := NewTokenService(testSecret)

	token, err := ts.Generate("21CS001", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := ts.Validate(token); err == nil {
		t.Error("Validate() should reject an expired token")
	}
}

func TestValidateTamperedToken(t *testing.T) {
	ts, _ := NewTokenService(testSecret)

	token, _ := ts.Generate("21CS001", time.Now().Add(time.Hour))

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := ts.Validate(tampered); err == nil {
		t.Error("Validate() should reject a tampered token")
	}
}

func TestValidateWrongSecret(t *testing.T) {
	ts1, _ := NewTokenService(testSecret)
	ts2, _ := NewTokenService("a-completely-different-secret!!")

	token, _ := ts1.Generate("21CS001", time.Now().Add(time.Hour))

	if _, err := ts2.Validate(token); err == nil {
		t.Error("Validate() should reject a token signed with a different secret")
	}
}

func TestValidateGarbage(t *testing.T) {
	ts, _ := NewTokenService(testSecret)

	if _, err := ts.Validate("this.is.garbage"); err == nil {
		t.Error("Validate() should reject a malformed token")
	}
}
