// Package flow holds the headless client-side state of the app: the signed-in
// session, the public booking form, and the admin panel. Each type is safe for
// concurrent use and talks to the services through small interfaces.
package flow

import (
	"context"
	"sync"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/auth"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
)

// Authenticator is implemented by service.AuthService.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (auth.Session, string, error)
	SignUp(ctx context.Context, req model.SignUpRequest) (auth.Session, string, error)
	SignOut(ctx context.Context, token string) error
	Restore(ctx context.Context, token string) (auth.Session, error)
}

// KeyValue persists the session token between runs.
type KeyValue interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryKV is a KeyValue kept in process memory.
type MemoryKV struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string]string)}
}

// Get returns the value stored under key.
func (kv *MemoryKV) Get(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.m[key]
	return v, ok
}

// Set stores value under key.
func (kv *MemoryKV) Set(key, value string) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.m[key] = value
}

// Delete removes key.
func (kv *MemoryKV) Delete(key string) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.m, key)
}

// SessionStore tracks the signed-in guide. The token is persisted under
// auth.StorageKey so a later Restore can pick the session up again.
type SessionStore struct {
	auth Authenticator
	kv   KeyValue

	mu      sync.Mutex
	session *auth.Session
	loading bool
}

// NewSessionStore creates a signed-out SessionStore.
func NewSessionStore(a Authenticator, kv KeyValue) *SessionStore {
	return &SessionStore{auth: a, kv: kv}
}

// Session returns the current session, or nil when signed out.
func (s *SessionStore) Session() *auth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// Loading reports whether an auth call is in flight.
func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Restore reloads the session from the persisted token. A missing, expired,
// or revoked token leaves the store signed out.
func (s *SessionStore) Restore(ctx context.Context) error {
	token, ok := s.kv.Get(auth.StorageKey)
	if !ok || token == "" {
		s.finish(nil)
		return nil
	}
	s.begin()
	sess, err := s.auth.Restore(ctx, token)
	if err != nil {
		s.kv.Delete(auth.StorageKey)
		s.finish(nil)
		return err
	}
	s.finish(&sess)
	return nil
}

// SignIn authenticates and persists the new session. On failure the store
// stays signed out.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) error {
	s.begin()
	sess, token, err := s.auth.SignIn(ctx, email, password)
	return s.complete(sess, token, err)
}

// SignUp registers a new guide and signs them in.
func (s *SessionStore) SignUp(ctx context.Context, email, password, name string) error {
	s.begin()
	sess, token, err := s.auth.SignUp(ctx, model.SignUpRequest{Email: email, Password: password, Name: name})
	return s.complete(sess, token, err)
}

// SignOut revokes the persisted token and clears the session.
func (s *SessionStore) SignOut(ctx context.Context) error {
	token, _ := s.kv.Get(auth.StorageKey)
	s.kv.Delete(auth.StorageKey)
	s.finish(nil)
	if token == "" {
		return nil
	}
	return s.auth.SignOut(ctx, token)
}

func (s *SessionStore) complete(sess auth.Session, token string, err error) error {
	if err != nil {
		s.finish(nil)
		return err
	}
	s.kv.Set(auth.StorageKey, token)
	s.finish(&sess)
	return nil
}

func (s *SessionStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
}

func (s *SessionStore) finish(sess *auth.Session) {
	s.mu.Lock()
	s.session = sess
	s.loading = false
	s.mu.Unlock()
}
