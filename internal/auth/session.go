// Package auth holds guide sessions: bcrypt password hashing, signed session
// tokens, and the revocation list consulted on every restore.
package auth

import (
	"context"
	"time"
)

// StorageKey is the fixed key under which a session token is persisted on the
// client, both as the cookie name and as the key in headless stores.
const StorageKey = "tourguide_session"

// Session is the signed-in guide identity carried through a request.
type Session struct {
	ID        string    `json:"-"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession returns a context carrying sess.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// FromContext extracts the session placed by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(Session)
	return sess, ok
}
