package entity

import "time"

// Session is a bearer-token-keyed authentication record with absolute expiry.
// Sessions are immutable after creation; expiry removes them from the store.
type Session struct {
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
