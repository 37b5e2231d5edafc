package domain

import "time"

// Session is a refresh-token session for one device login. The refresh
// token itself is never stored; only its hash is persisted.
type Session struct {
	Entity

	UserID           string    `json:"userId"`
	RefreshTokenHash string    `json:"-"`
	UserAgent        string    `json:"userAgent,omitempty"`
	ExpiresAt        time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
