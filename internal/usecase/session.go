package usecase

import (
	"errors"

	"pokedexapi/internal/entity"
)

// ErrInvalidCredentials is returned when authentication fails.
var ErrInvalidCredentials = errors.New("invalid username or password")

// SessionManager issues and validates bearer tokens.
type SessionManager interface {
	// Authenticate checks the credential pair and issues a new session.
	Authenticate(username, password string) (entity.Session, error)
	// Validate reports whether the token maps to a live session. Expired
	// sessions are removed on access.
	Validate(token string) (entity.Session, bool)
	// Invalidate removes the session if present; idempotent.
	Invalidate(token string) bool
}
