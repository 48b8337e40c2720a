// Package token generates and hashes the opaque refresh tokens. The raw
// value goes to the client exactly once; storage only ever sees the hash.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// RefreshTokenBytes is the entropy of a refresh token before encoding.
const RefreshTokenBytes = 48

// NewOpaque returns a URL-safe random token built from RefreshTokenBytes
// bytes of entropy.
func NewOpaque() (string, error) {
	raw := make([]byte, RefreshTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Hash returns the hex SHA-256 digest of a raw token, the form under which
// tokens are stored and looked up.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
