package models

import "time"

// Session is the per-login context handed to every authenticated handler.
type Session struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session has been idle for longer than idle or has
// passed its absolute expiry.
func (s Session) Expired(now time.Time, idle time.Duration) bool {
	if !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt) {
		return true
	}
	return idle > 0 && now.Sub(s.LastActivity) > idle
}

// Touch returns a copy with the activity timestamp moved to now.
func (s Session) Touch(now time.Time) Session {
	s.LastActivity = now
	return s
}
