package session

import (
	"time"

	"github.com/google/uuid"
)

// User is the cached profile snapshot persisted alongside the token so the
// application can render immediately without a round trip. The schema is
// fixed: ID, Nama and Role are required, and a persisted record missing any
// of them is treated as corrupt.
type User struct {
	ID       int64  `json:"id"`
	Nama     string `json:"nama"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// Complete reports whether all required profile fields are present.
func (u User) Complete() bool {
	return u.ID != 0 && u.Nama != "" && u.Role != ""
}

// Session is the client-held proof of authentication.
type Session struct {
	// ID identifies this persisted record for diagnostics. It changes on
	// every Save and never leaves the client.
	ID uuid.UUID

	// Token is the opaque bearer credential issued by the backend.
	Token string

	// User is the cached profile snapshot, refreshed on revalidation.
	User User

	IssuedAt  time.Time
	ExpiresAt time.Time

	// LastActivity records the most recent observed use of the session.
	// Diagnostics only; it does not extend ExpiresAt.
	LastActivity time.Time
}

// IsExpired reports whether the session has passed its expiry at the given
// instant.
func (s Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
