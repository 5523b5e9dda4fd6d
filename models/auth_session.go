package models

import "time"

// AuthSession is a server-side refresh session. The ID doubles as the opaque
// refresh token handed to the client in an HttpOnly cookie; refresh rotates it.
type AuthSession struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	UserAgent string     `json:"user_agent,omitempty"`
	IP        string     `json:"ip,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}
