// Package session issues and validates bearer tokens for a single
// configured credential pair, backed by an in-memory store.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pokedexapi/internal/entity"
	"pokedexapi/internal/usecase"
)

const defaultTTL = 24 * time.Hour

// Store owns the token-to-session mapping. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]entity.Session

	verifier CredentialVerifier
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

var _ usecase.SessionManager = (*Store)(nil)

func NewStore(verifier CredentialVerifier, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]entity.Session),
		verifier: verifier,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Authenticate checks the credential pair and, on success, issues a fresh
// session with an absolute expiry.
func (s *Store) Authenticate(username, password string) (entity.Session, error) {
	if !s.verifier.Verify(username, password) {
		return entity.Session{}, usecase.ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return entity.Session{}, err
	}

	now := s.now()
	sess := entity.Session{
		Token:     token,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[token] = sess
	s.mu.Unlock()

	return sess, nil
}

// Validate looks up the token. An expired session is deleted on access and
// reported invalid.
func (s *Store) Validate(token string) (entity.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return entity.Session{}, false
	}
	if s.expired(sess) {
		delete(s.sessions, token)
		return entity.Session{}, false
	}
	return sess, true
}

// Invalidate deletes the session if present. Idempotent.
func (s *Store) Invalidate(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[token]
	delete(s.sessions, token)
	return ok
}

// SweepExpired removes every expired session and returns how many were
// deleted. Between sweeps, expired-but-unvisited sessions stay resident
// until swept or hit by Validate.
func (s *Store) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0
	for token, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, token)
			swept++
		}
	}
	return swept
}

// SweepLoop runs SweepExpired on the given interval until ctx is canceled.
func (s *Store) SweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if swept := s.SweepExpired(); swept > 0 {
				s.logger.Info("swept expired sessions", "count", swept)
			}
		}
	}
}

// expired is the single authoritative expiry predicate, shared by Validate
// and SweepExpired.
func (s *Store) expired(sess entity.Session) bool {
	return s.now().After(sess.ExpiresAt)
}

// Len reports the number of resident sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
