package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/cookie/internal/domain"
)

// sessionStore persists credentials (consumer-defined interface)
type sessionStore interface {
	SaveSession(s domain.Session) error
	ClearSession() error
}

// tokenHolder is the client that attaches the token to requests
type tokenHolder interface {
	SetToken(token string)
}

// SessionService manages user session operations
type SessionService struct {
	auth   domain.Authenticator
	store  sessionStore
	client tokenHolder
	cache  domain.CacheStore
	logger *slog.Logger
}

// NewSessionService creates a new SessionService. cache may be nil.
func NewSessionService(auth domain.Authenticator, store sessionStore, client tokenHolder, cache domain.CacheStore, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{auth: auth, store: store, client: client, cache: cache, logger: logger}
}

// Login authenticates with email and password and stores the session
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Error("login failed", "email", email, "error", err)
		return nil, err
	}
	if err := s.Adopt(*session); err != nil {
		return nil, err
	}
	return session, nil
}

// Adopt stores a session obtained elsewhere (a pasted token, or an
// interactive login flow) and starts using it
func (s *SessionService) Adopt(session domain.Session) error {
	session.AccessToken = strings.TrimSpace(session.AccessToken)
	if session.AccessToken == "" {
		return fmt.Errorf("%w: token cannot be empty", domain.ErrInvalidInput)
	}
	if err := s.store.SaveSession(session); err != nil {
		return err
	}
	s.client.SetToken(session.AccessToken)
	if s.cache != nil {
		s.cache.InvalidateUser()
	}
	s.logger.Info("session stored", "nickname", session.Nickname, "admin", session.Admin)
	return nil
}

// Logout clears stored credentials and cached data
func (s *SessionService) Logout() error {
	if err := s.store.ClearSession(); err != nil {
		return err
	}
	s.client.SetToken("")
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
	s.logger.Info("logged out")
	return nil
}
