package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/auth"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/config"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/events"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/repository"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/session"
)

// LoginResult bundles the issued token with the public user view.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService orchestrates the session lifecycle: credential verification,
// token issuance, registry bookkeeping, and presence events.
type AuthService struct {
	users      repository.UserRepository
	registry   *session.Registry
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Registry   *session.Registry
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     deps.Logger,
	}
}

// Login authenticates a user and opens a session. A second login for the
// same subject overwrites the prior token: the earlier one stops validating
// with no notification to its holder.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	subject := domain.NormalizeSubject(email)

	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrInactiveAccount
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredential
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(subject, user.Role, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.openSession(ctx, subject, token, user.Role); err != nil {
		return nil, err
	}

	s.announcePresence(ctx, events.EventUserLoggedIn, subject)
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Register creates a CLIENT account and opens a session for it, mirroring
// the login tail.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*LoginResult, error) {
	subject := domain.NormalizeSubject(email)

	if _, err := s.users.GetByEmail(ctx, subject); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        subject,
		PasswordHash: hash,
		Role:         domain.RoleClient,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(subject, user.Role, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.openSession(ctx, subject, token, user.Role); err != nil {
		return nil, err
	}

	s.dispatcher.Publish(ctx, events.New(events.EventUserRegistered, subject, nil))
	s.announcePresence(ctx, events.EventUserLoggedIn, subject)
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout invalidates the subject's session and announces the disconnect.
// Logging out an absent subject is a no-op.
func (s *AuthService) Logout(ctx context.Context, subject string) error {
	if err := s.registry.Invalidate(ctx, subject); err != nil {
		return err
	}
	s.announcePresence(ctx, events.EventUserLoggedOut, domain.NormalizeSubject(subject))
	return nil
}

// VerifyRequestToken checks signature and expiry, then re-checks the token
// against the registry so superseded tokens are rejected.
func (s *AuthService) VerifyRequestToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, err
	}
	current, err := s.registry.IsValid(ctx, claims.Subject, token)
	if err != nil {
		return nil, err
	}
	if !current {
		return nil, domain.ErrTokenSuperseded
	}
	return claims, nil
}

// Renew restarts the session TTL clock for the subject.
func (s *AuthService) Renew(ctx context.Context, subject string) error {
	return s.registry.Renew(ctx, subject)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// openSession runs the token-store, set-add and attribute-store sequence.
// The steps are individually atomic but the sequence is not: a crash between
// them can leave a session registered without its attributes. That partial
// state heals on the next login or lapses with the TTL.
func (s *AuthService) openSession(ctx context.Context, subject, token string, role domain.Role) error {
	if err := s.registry.StoreToken(ctx, subject, token); err != nil {
		return err
	}
	if err := s.registry.StoreAttribute(ctx, subject, "last_login", time.Now().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := s.registry.StoreAttribute(ctx, subject, "role", string(role)); err != nil {
		return err
	}
	return nil
}

// announcePresence publishes a connect/disconnect event. Failures here are
// logged and swallowed; presence announcements never fail the caller.
func (s *AuthService) announcePresence(ctx context.Context, eventType events.EventType, subject string) {
	count, err := s.registry.CountActive(ctx)
	if err != nil {
		s.logger.Warn("active user count unavailable", zap.String("subject", subject), zap.Error(err))
		return
	}
	s.dispatcher.Publish(ctx, events.New(eventType, subject, events.PresenceChangedPayload{ActiveUsers: count}))
}
