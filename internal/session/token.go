package session

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenLength is the token entropy in bytes before encoding.
const tokenLength = 32

// newToken generates a cryptographically secure random bearer token,
// Base64 RawURL encoded for safe header transmission.
func newToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
