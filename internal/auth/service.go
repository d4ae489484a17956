package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/verdantlabs/verdant/internal/apperr"
	"github.com/verdantlabs/verdant/internal/user"
)

// Service implements the session lifecycle: signup, login, logout, refresh.
type Service struct {
	users    *user.Service
	issuer   *Issuer
	sessions SessionRegistry
}

// NewService wires the auth service.
func NewService(users *user.Service, issuer *Issuer, sessions SessionRegistry) *Service {
	return &Service{users: users, issuer: issuer, sessions: sessions}
}

// Signup creates an account and immediately starts a session, like login.
func (s *Service) Signup(ctx context.Context, creds user.Credentials) (user.User, TokenPair, error) {
	u, err := s.users.Register(ctx, creds)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	pair, err := s.startSession(ctx, u)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return u, pair, nil
}

// Login verifies credentials and starts a session. A second login for the same
// user overwrites the registry entry, invalidating the first session's refresh
// token: one live session per identity, last write wins.
func (s *Service) Login(ctx context.Context, email, password string) (user.User, TokenPair, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	pair, err := s.startSession(ctx, u)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *Service) startSession(ctx context.Context, u user.User) (TokenPair, error) {
	pair, err := s.issuer.Issue(u)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.sessions.Store(ctx, u.ID, pair.RefreshToken, s.issuer.RefreshTTL()); err != nil {
		return TokenPair{}, apperr.Wrap(apperr.CodeDependency, "store session", err)
	}
	return pair, nil
}

// Logout revokes the session named by the presented refresh token. An invalid
// or absent token is not an error here: the handler clears cookies regardless,
// so the client ends up logged out locally either way.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.Subject); err != nil {
		return apperr.Wrap(apperr.CodeDependency, "revoke session", err)
	}
	return nil
}

// Refresh validates the presented refresh token against the registry and, on a
// byte-exact match, issues a new access token. The refresh token itself is not
// rotated; the 7-day window keeps its original end.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperr.New(apperr.CodeTokenMissing, "no refresh token provided")
	}
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	stored, err := s.sessions.Fetch(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return "", apperr.New(apperr.CodeTokenInvalid, "invalid refresh token")
		}
		return "", apperr.Wrap(apperr.CodeDependency, "fetch session", err)
	}
	// The sole revocation/reuse check: a cryptographically valid token that is
	// not the registered one has been superseded or revoked.
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return "", apperr.New(apperr.CodeTokenInvalid, "invalid refresh token")
	}

	u, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return "", err
	}
	return s.issuer.IssueAccess(u)
}
