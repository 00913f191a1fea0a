package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RefreshLifetime is how long a refresh token stays valid.
const RefreshLifetime = 30 * 24 * time.Hour

// RefreshToken is the stored half of a refresh credential. Only the SHA-256
// hash of the raw token is persisted.
type RefreshToken struct {
	ID        string
	AccountID string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// IsUsable returns true if the token is neither revoked nor expired.
// INVARIANT: RefreshToken fields are not mutated
func (t *RefreshToken) IsUsable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

// NewRaw generates a random 32-byte refresh token, hex encoded.
func NewRaw() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Hash derives the storable hash of a raw token.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
