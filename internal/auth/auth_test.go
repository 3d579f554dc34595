package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("senha123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := CheckPassword(hash, "senha123"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("wrong password: got %v", err)
	}
	if err := CheckPassword("", "senha123"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("empty hash: got %v", err)
	}
}

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	sess, token, err := tokens.Issue("user-1", "guide@example.com", "Ricardo")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.ID != sess.ID || got.UserID != "user-1" || got.Email != "guide@example.com" || got.Name != "Ricardo" {
		t.Errorf("parsed session mismatch: %+v vs %+v", got, sess)
	}
	if !got.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Errorf("expiry = %v, want %v", got.ExpiresAt, sess.ExpiresAt)
	}
}

func TestTokens_Rejects(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	_, token, err := tokens.Issue("user-1", "guide@example.com", "Ricardo")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewTokens("other-secret", time.Hour)
	if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: got %v", err)
	}

	expired := NewTokens("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	_, old, _ := expired.Issue("user-1", "guide@example.com", "Ricardo")
	if _, err := tokens.Parse(old); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: got %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := tokens.Parse(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("tampered token: got %v", err)
	}
	if _, err := tokens.Parse("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v", err)
	}
}

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRevoker()
	if revoked, _ := r.IsRevoked(ctx, "s1"); revoked {
		t.Fatal("fresh session should not be revoked")
	}
	_ = r.Revoke(ctx, "s1", time.Now().Add(time.Hour))
	if revoked, _ := r.IsRevoked(ctx, "s1"); !revoked {
		t.Error("revoked session should be reported")
	}
	_ = r.Revoke(ctx, "s2", time.Now().Add(-time.Minute))
	if revoked, _ := r.IsRevoked(ctx, "s2"); revoked {
		t.Error("revocation past token expiry should lapse")
	}
}

func TestSessionContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("empty context should carry no session")
	}
	ctx := WithSession(context.Background(), Session{UserID: "u1"})
	sess, ok := FromContext(ctx)
	if !ok || sess.UserID != "u1" {
		t.Errorf("FromContext = %+v, %v", sess, ok)
	}
}
