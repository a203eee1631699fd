package session

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier checks a username/password pair against the configured
// credentials. Implementations must not leak which field mismatched.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// PlainVerifier compares against a fixed plaintext credential pair using
// constant-time comparison.
type PlainVerifier struct {
	Username string
	Password string
}

func (v PlainVerifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.Password)) == 1
	return userOK && passOK
}

// BcryptVerifier compares the password against a bcrypt hash.
type BcryptVerifier struct {
	Username     string
	PasswordHash string
}

func (v BcryptVerifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(v.PasswordHash), []byte(password)) == nil
	return userOK && passOK
}
