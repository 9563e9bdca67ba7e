package domain

import "time"

// Session is the server-side state behind a session cookie. Level is a snapshot
// taken at login and is only refreshed by a successful progression.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpiredAt reports whether the session is expired at t.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}
