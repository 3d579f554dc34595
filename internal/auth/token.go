package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for malformed, tampered or expired tokens.
var ErrInvalidToken = errors.New("invalid session token")

type claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256-signed session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token issuer. ttl bounds the lifetime of every session.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a new token for the given identity.
func (t *Tokens) Issue(userID, email, name string) (Session, string, error) {
	now := t.now().UTC().Truncate(time.Second)
	sess := Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Email:     email,
		Name:      name,
		IssuedAt:  now,
		ExpiresAt: now.Add(t.ttl),
	}
	c := claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return Session{}, "", fmt.Errorf("sign session token: %w", err)
	}
	return sess, signed, nil
}

// Parse verifies the signature and expiry of a token and returns its session.
func (t *Tokens) Parse(token string) (Session, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}
	if c.Subject == "" || c.ID == "" || c.ExpiresAt == nil {
		return Session{}, ErrInvalidToken
	}
	sess := Session{
		ID:        c.ID,
		UserID:    c.Subject,
		Email:     c.Email,
		Name:      c.Name,
		ExpiresAt: c.ExpiresAt.Time.UTC(),
	}
	if c.IssuedAt != nil {
		sess.IssuedAt = c.IssuedAt.Time.UTC()
	}
	return sess, nil
}
