package auth

import (
	"strings"
	"testing"
)

func TestSHA256HasherKnownDigest(t *testing.T) {
	h := NewSHA256Hasher()

	// Known vector: SHA-256("password"), uppercased. This pins the exact
	// stored format — changing it would lock out every existing account.
	got, err := h.Hash("password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	want := "5E884898DA28047151D0E56F8DC6292773603D0D6AABBDD62A11EF721D1542D8"
	if got != want {
		t.Errorf("Hash(\"password\") = %q, want %q", got, want)
	}
}

func TestSHA256HasherDeterministic(t *testing.T) {
	h := NewSHA256Hasher()

	first, _ := h.Hash("secret123")
	second, _ := h.Hash("secret123")
	if first != second {
		t.Errorf("Hash() not deterministic: %q vs %q", first, second)
	}

	other, _ := h.Hash("secret124")
	if first == other {
		t.Error("different passwords produced the same digest")
	}
}

func TestSHA256HasherOutputShape(t *testing.T) {
	h := NewSHA256Hasher()

	digest, _ := h.Hash("anything at all")
	if len(digest) != 64 {
		t.Errorf("digest length = %d, want 64", len(digest))
	}
	if digest != strings.ToUpper(digest) {
		t.Errorf("digest %q is not uppercase", digest)
	}
}

func TestSHA256HasherVerify(t *testing.T) {
	h := NewSHA256Hasher()

	stored, _ := h.Hash("secret123")

	if !h.Verify(stored, "secret123") {
		t.Error("Verify() = false for correct password")
	}
	if h.Verify(stored, "secret124") {
		t.Error("Verify() = true for wrong password")
	}
	// Comparison is case-sensitive: a lowercased digest must not match.
	if h.Verify(strings.ToLower(stored), "secret123") {
		t.Error("Verify() matched a lowercase digest")
	}
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewBcryptHasherForTest(4)

	stored, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !h.Verify(stored, "secret123") {
		t.Error("Verify() = false for correct password")
	}
	if h.Verify(stored, "wrong") {
		t.Error("Verify() = true for wrong password")
	}
}

func TestBcryptHasherRejectsLongPassword(t *testing.T) {
	h := NewBcryptHasherForTest(4)

	if _, err := h.Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("Hash() should reject passwords over 72 bytes")
	}
}

func TestNewHasher(t *testing.T) {
	tests := []struct {
		scheme  string
		wantErr bool
	}{
		{scheme: "", wantErr: false},
		{scheme: "sha256", wantErr: false},
		{scheme: "bcrypt", wantErr: false},
		{scheme: "md5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("scheme="+tt.scheme, func(t *testing.T) {
			_, err := NewHasher(tt.scheme)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewHasher(%q) error = %v, wantErr %v", tt.scheme, err, tt.wantErr)
			}
		})
	}
}
