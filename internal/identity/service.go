package identity

import (
	"context"
	"errors"
	"time"

	"github.com/spilno/spilno-backend/internal/config"
	"github.com/spilno/spilno-backend/internal/sessions"
	"github.com/spilno/spilno-backend/internal/tokens"
	"github.com/spilno/spilno-backend/internal/users"
	"github.com/spilno/spilno-backend/pkg/logger"
)

// ErrEmailExists mirrors the users sentinel for callers that only import identity.
var ErrEmailExists = users.ErrEmailExists

// ErrInvalidCredentials covers every login failure: unknown email, failed
// exchange, missing session token. Callers must not learn which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Revoker records a revocation cutoff for a uid.
type Revoker interface {
	Revoke(ctx context.Context, uid string, t time.Time) error
}

// AuthResult is what signup and login hand back to the HTTP layer.
type AuthResult struct {
	Token        string
	RefreshToken string
	User         *users.User
}

// Service is the identity provider facade: account creation, the two-step
// custom-token/session-token flow, revocation and user lookup.
type Service struct {
	cfg      *config.Config
	users    *users.Service
	sessions *sessions.Service
	revoker  Revoker
}

// NewService wires the provider. revoker may be nil; revocation then falls
// back to the cutoff stored on the user record.
func NewService(cfg *config.Config, u *users.Service, s *sessions.Service, rev Revoker) *Service {
	return &Service{cfg: cfg, users: u, sessions: s, revoker: rev}
}

// Signup creates the account and immediately runs the token exchange so the
// client receives a usable session token.
func (s *Service) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.CreateUser(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issueSession(ctx, u)
}

// Login resolves the account by email and mints a session for it.
//
// TODO: verify the password against the stored hash; login currently trusts
// the email alone.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(ctx, u)
}

func (s *Service) issueSession(ctx context.Context, u *users.User) (*AuthResult, error) {
	custom, err := tokens.GenerateCustomToken(s.cfg, u.UID, s.cfg.Identity.CustomTokenTTL)
	if err != nil {
		return nil, err
	}
	resp, err := ExchangeCustomToken(ctx, s.cfg.Identity.TokenURL, s.cfg.Identity.WebAPIKey, custom)
	if err != nil {
		return nil, err
	}
	if resp.IDToken == "" {
		return nil, ErrInvalidCredentials
	}
	return &AuthResult{Token: resp.IDToken, RefreshToken: resp.RefreshToken, User: u}, nil
}

// RevokeTokens invalidates all outstanding session tokens and refresh
// sessions for uid.
func (s *Service) RevokeTokens(ctx context.Context, uid string) error {
	now := time.Now().UTC()
	if s.revoker != nil {
		if err := s.revoker.Revoke(ctx, uid, now); err != nil {
			return err
		}
	} else if err := s.users.RevokeTokens(ctx, uid, now); err != nil {
		return err
	}
	if err := s.sessions.RevokeAllForUID(ctx, uid); err != nil {
		// session tokens are already dead; refresh cleanup is best effort
		logger.Warnf("revoke refresh sessions for %s: %v", uid, err)
	}
	return nil
}

// CurrentUser fetches the provider record for uid; nil when unknown.
func (s *Service) CurrentUser(ctx context.Context, uid string) (*users.User, error) {
	return s.users.GetByUID(ctx, uid)
}
