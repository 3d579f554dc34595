package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/auth"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/repository"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/validate"
)

// AuthService signs guides in and out and restores their sessions.
type AuthService struct {
	accounts repository.AccountStore
	profiles repository.ProfileStore
	tokens   *auth.Tokens
	revoker  auth.Revoker
	cost     int
}

// NewAuthService constructs an AuthService with its dependencies.
func NewAuthService(
	accounts repository.AccountStore,
	profiles repository.ProfileStore,
	tokens *auth.Tokens,
	revoker auth.Revoker,
) *AuthService {
	return &AuthService{accounts: accounts, profiles: profiles, tokens: tokens, revoker: revoker}
}

// WithPasswordCost sets the bcrypt cost used for new accounts.
func (s *AuthService) WithPasswordCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// SignIn checks the credentials against every account registered under the
// email and issues a session for the first one whose password matches.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (auth.Session, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return auth.Session{}, "", ErrInvalidCredentials
	}

	accounts, err := s.accounts.ListByEmail(ctx, email)
	if err != nil {
		return auth.Session{}, "", fmt.Errorf("sign in: %w", err)
	}
	for _, a := range accounts {
		if auth.CheckPassword(a.PasswordHash, password) != nil {
			continue
		}
		sess, token, err := s.tokens.Issue(a.ID, a.Email, a.Name)
		if err != nil {
			return auth.Session{}, "", err
		}
		slog.Info("auth_event", "event", "login_success", "email", email, "user_id", a.ID)
		return sess, token, nil
	}

	slog.Info("auth_event", "event", "login_failed", "email", email, "candidates", len(accounts))
	return auth.Session{}, "", ErrInvalidCredentials
}

// SignUp registers a new guide and signs them in. Emails are not required to
// be unique; each sign-up creates a fresh account with its own profile.
func (s *AuthService) SignUp(ctx context.Context, req model.SignUpRequest) (auth.Session, string, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if errs := validate.Struct(req); errs != nil {
		return auth.Session{}, "", invalid(errs)
	}

	account, err := s.createAccount(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return auth.Session{}, "", err
	}
	sess, token, err := s.tokens.Issue(account.ID, account.Email, account.Name)
	if err != nil {
		return auth.Session{}, "", err
	}
	slog.Info("auth_event", "event", "signup", "email", req.Email, "user_id", account.ID)
	return sess, token, nil
}

// SignOut revokes the session behind token. Tokens that no longer parse are
// already unusable, so signing them out succeeds silently.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	sess, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, sess.ID, sess.ExpiresAt); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	slog.Info("auth_event", "event", "logout", "user_id", sess.UserID)
	return nil
}

// Restore turns a persisted token back into a session.
func (s *AuthService) Restore(ctx context.Context, token string) (auth.Session, error) {
	if token == "" {
		return auth.Session{}, ErrUnauthorized
	}
	sess, err := s.tokens.Parse(token)
	if err != nil {
		return auth.Session{}, ErrUnauthorized
	}
	revoked, err := s.revoker.IsRevoked(ctx, sess.ID)
	if err != nil {
		return auth.Session{}, fmt.Errorf("restore session: %w", err)
	}
	if revoked {
		return auth.Session{}, ErrUnauthorized
	}
	return sess, nil
}

// EnsureAccount returns the account matching email and password, creating it
// if none exists. The bool reports whether it was created.
func (s *AuthService) EnsureAccount(ctx context.Context, email, password, name string) (*model.Account, bool, error) {
	email = normalizeEmail(email)
	accounts, err := s.accounts.ListByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("ensure account: %w", err)
	}
	for i := range accounts {
		if auth.CheckPassword(accounts[i].PasswordHash, password) == nil {
			return &accounts[i], false, nil
		}
	}
	account, err := s.createAccount(ctx, email, password, name)
	if err != nil {
		return nil, false, err
	}
	return account, true, nil
}

func (s *AuthService) createAccount(ctx context.Context, email, password, name string) (*model.Account, error) {
	hash, err := auth.HashPassword(password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	account := &model.Account{Email: email, Name: name, PasswordHash: hash}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	profile := &model.Profile{UserID: account.ID, Name: name, Email: email}
	if err := s.profiles.Create(ctx, profile); err != nil && !errors.Is(err, repository.ErrProfileExists) {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return account, nil
}
