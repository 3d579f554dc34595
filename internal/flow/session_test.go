package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/auth"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/repository"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/service"
)

func newAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := service.NewAuthService(store.Accounts(), store.Profiles(),
		auth.NewTokens("flow-secret", time.Hour), auth.NewMemoryRevoker()).WithPasswordCost(bcrypt.MinCost)
	if _, _, err := svc.EnsureAccount(context.Background(), "admin@guiatur.com", "senha123", "Demo"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return svc
}

func TestSessionStore_WrongPassword(t *testing.T) {
	s := NewSessionStore(newAuthService(t), NewMemoryKV())

	err := s.SignIn(context.Background(), "admin@guiatur.com", "wrong")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
	if s.Session() != nil {
		t.Error("session should stay nil")
	}
	if s.Loading() {
		t.Error("loading should be false after a failed sign in")
	}
}

func TestSessionStore_SignInRestoreSignOut(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)
	kv := NewMemoryKV()
	s := NewSessionStore(svc, kv)

	if err := s.SignIn(ctx, "admin@guiatur.com", "senha123"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	sess := s.Session()
	if sess == nil || sess.Email != "admin@guiatur.com" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if _, ok := kv.Get(auth.StorageKey); !ok {
		t.Fatal("token not persisted")
	}

	restored := NewSessionStore(svc, kv)
	if err := restored.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := restored.Session(); got == nil || got.UserID != sess.UserID {
		t.Fatalf("restored session: %+v", got)
	}

	if err := restored.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if restored.Session() != nil {
		t.Error("session should be cleared")
	}
	if _, ok := kv.Get(auth.StorageKey); ok {
		t.Error("token should be removed")
	}

	kv.Set(auth.StorageKey, "stale")
	if err := s.Restore(ctx); err == nil {
		t.Error("restoring an invalid token should fail")
	}
	if s.Session() != nil || s.Loading() {
		t.Error("failed restore should leave the store signed out")
	}
}

func TestSessionStore_SignUp(t *testing.T) {
	s := NewSessionStore(newAuthService(t), NewMemoryKV())
	if err := s.SignUp(context.Background(), "new@example.com", "secret123", "New Guide"); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if sess := s.Session(); sess == nil || sess.Name != "New Guide" {
		t.Errorf("unexpected session: %+v", sess)
	}

	err := s.SignUp(context.Background(), "bad", "1", "")
	if !errors.Is(err, service.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

type blockingAuth struct {
	release chan struct{}
	started chan struct{}
}

func (b *blockingAuth) SignIn(context.Context, string, string) (auth.Session, string, error) {
	close(b.started)
	<-b.release
	return auth.Session{ID: "s1", UserID: "u1"}, "tok", nil
}

func (b *blockingAuth) SignUp(context.Context, model.SignUpRequest) (auth.Session, string, error) {
	return auth.Session{}, "", errors.New("unused")
}

func (b *blockingAuth) SignOut(context.Context, string) error { return nil }

func (b *blockingAuth) Restore(context.Context, string) (auth.Session, error) {
	return auth.Session{}, errors.New("unused")
}

func TestSessionStore_LoadingWhileInFlight(t *testing.T) {
	ba := &blockingAuth{release: make(chan struct{}), started: make(chan struct{})}
	s := NewSessionStore(ba, NewMemoryKV())

	done := make(chan error, 1)
	go func() { done <- s.SignIn(context.Background(), "a@b.c", "pw") }()

	<-ba.started
	if !s.Loading() {
		t.Error("loading should be true while signing in")
	}
	close(ba.release)
	if err := <-done; err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if s.Loading() || s.Session() == nil {
		t.Error("expected a session and loading=false")
	}
}
