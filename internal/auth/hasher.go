// Package auth provides credential hashing and access-token utilities.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CredentialHasher is the one-way transform applied to passwords before they
// are stored, and the check used at login.
//
// The interface exists so the digest scheme can be swapped without touching
// any call site: the legacy deployment stores unsalted SHA-256 digests, and
// every stored credential is in that format, so SHA256Hasher stays the
// default for compatibility. New deployments should configure BcryptHasher.
type CredentialHasher interface {
	// Hash transforms a plaintext credential into its stored form.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches the stored form.
	Verify(stored, plaintext string) bool
}

// SHA256Hasher reproduces the legacy credential digest: a single unsalted
// SHA-256 pass, hex-encoded, uppercase.
//
// THIS IS A WEAK SCHEME. No salt means identical passwords produce identical
// digests, and a fast hash invites offline brute force. It is kept only
// because the existing account rows store credentials in exactly this
// format. Do not pick it for new data; see BcryptHasher.
type SHA256Hasher struct{}

// NewSHA256Hasher returns the legacy-compatible hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Hash returns the uppercase hex SHA-256 digest of plaintext.
// Deterministic: the same input always yields the same digest.
func (h *SHA256Hasher) Hash(plaintext string) (string, error) {
	sum := sha256.Sum256([]byte(plaintext))
	return strings.ToUpper(hex.EncodeToString(sum[:])), nil
}

// Verify compares the stored digest with the digest of plaintext.
// Exact, case-sensitive string comparison — a lowercase digest in the
// store will not match.
func (h *SHA256Hasher) Verify(stored, plaintext string) bool {
	computed, _ := h.Hash(plaintext)
	return stored == computed
}

// defaultBcryptCost is the bcrypt work factor for new deployments.
// Roughly 250ms per hash on current server hardware.
const defaultBcryptCost = 12

// BcryptHasher is the upgrade path from SHA256Hasher: salted, slow, and
// constant-time on verify. Selected with HASH_SCHEME=bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a BcryptHasher with the default cost (12).
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: defaultBcryptCost}
}

// NewBcryptHasherForTest returns a BcryptHasher with a custom (low) cost.
// Cost 4 is the bcrypt minimum — use it in tests to avoid the ~250ms
// overhead per hash. Not for production.
func NewBcryptHasherForTest(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

// Hash hashes plaintext with bcrypt. The output embeds its own salt and
// cost, so it is stored as-is.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		// bcrypt silently truncates inputs over 72 bytes; reject instead.
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks plaintext against a stored bcrypt hash using bcrypt's
// constant-time comparison.
func (h *BcryptHasher) Verify(stored, plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext))
	return err == nil
}

// NewHasher returns the CredentialHasher for the given scheme name.
// Recognized schemes: "sha256" (legacy default) and "bcrypt".
func NewHasher(scheme string) (CredentialHasher, error) {
	switch scheme {
	case "", "sha256":
		return NewSHA256Hasher(), nil
	case "bcrypt":
		return NewBcryptHasher(), nil
	default:
		return nil, errors.New("auth: unknown hash scheme " + scheme)
	}
}
