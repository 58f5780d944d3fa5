package sessionsrepo

import "time"

// Session is an opaque-token login session.
type Session struct {
	SessionID string    `db:"session_id" json:"session_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// CreateSession contains fields for creating a new session.
type CreateSession struct {
	SessionID string
	UserID    string
	Token     string
	ExpiresAt time.Time
}
