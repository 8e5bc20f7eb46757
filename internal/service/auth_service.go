package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/openshelf/storefront/internal/auth"
	"github.com/openshelf/storefront/internal/config"
	"github.com/openshelf/storefront/internal/domain"
	"github.com/openshelf/storefront/internal/events"
	"github.com/openshelf/storefront/internal/identity"
	"github.com/openshelf/storefront/internal/observability"
	"github.com/openshelf/storefront/internal/repository"
	"github.com/openshelf/storefront/internal/session"
	apperrors "github.com/openshelf/storefront/pkg/util"
)

// localCleanupTimeout bounds the session delete that runs after sign-out.
const localCleanupTimeout = 2 * time.Second

// AuthService coordinates sign-in and the logout flow.
type AuthService struct {
	users          repository.UserRepository
	sessions       session.Store
	tokenMgr       *auth.TokenManager
	provider       identity.Provider
	signOutTimeout time.Duration
	dispatcher     events.Dispatcher
	metrics        *observability.Metrics
	logger         *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service. Users may be
// nil when no account database is configured.
type AuthDependencies struct {
	Users      repository.UserRepository
	Sessions   session.Store
	Provider   identity.Provider
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	provider := deps.Provider
	if provider == nil {
		provider = identity.NoopProvider{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:          deps.Users,
		sessions:       deps.Sessions,
		tokenMgr:       auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		provider:       provider,
		signOutTimeout: cfg.Identity.SignOutTimeout(),
		dispatcher:     deps.Dispatcher,
		metrics:        deps.Metrics,
		logger:         logger,
	}
}

// LoginResult is a freshly started session.
type LoginResult struct {
	User      *domain.User
	Session   *domain.Session
	ExpiresAt time.Time
}

// Login verifies credentials and starts a server-side session.
func (s *AuthService) Login(ctx context.Context, email, password, deviceID string) (*LoginResult, error) {
	if s.users == nil {
		return nil, apperrors.NewUnavailable("account store not configured")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("account disabled")
	}
	if _, ok := domain.ParseRole(string(user.Role)); !ok {
		return nil, apperrors.NewUnauthorized("account has no role")
	}

	if deviceID == "" {
		deviceID = uuid.NewString()
	}
	sessionID := uuid.NewString()
	token, exp, err := s.tokenMgr.GenerateToken(sessionID, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	now := time.Now()
	sess := &domain.Session{
		ID:           sessionID,
		UserID:       user.ID,
		Token:        token,
		Role:         user.Role,
		DeviceID:     deviceID,
		Email:        user.Email,
		CreatedAt:    now,
		LastActivity: now,
	}
	if user.Role == domain.RoleLibrarian {
		sess.SectionEmail = user.Email
		sess.SectionToken = token
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.metrics.RecordSession("started")
	s.publish(ctx, events.New(events.EventSessionStarted, sess.ID, events.ActorFromSession(sess), nil))
	s.logger.Info("session started", zap.String("user_id", user.ID), zap.String("role", user.Role.String()))

	return &LoginResult{User: user, Session: sess, ExpiresAt: exp}, nil
}

// LogoutResult reports how each half of the logout went. Neither error is
// fatal: local cleanup always runs.
type LogoutResult struct {
	RemoteErr error
	LocalErr  error
}

// Logout ends sess. The external sign-out is best effort and bounded by the
// configured timeout; the server-side record is deleted regardless of its
// outcome. A nil sess skips both steps. The caller clears cookies and redirects.
func (s *AuthService) Logout(ctx context.Context, sess *domain.Session) LogoutResult {
	var result LogoutResult
	if sess == nil {
		return result
	}

	result.RemoteErr = s.remoteSignOut(ctx, sess.Token)
	if result.RemoteErr != nil {
		s.metrics.RecordSignOutFailure()
		s.logger.Warn("identity provider sign-out failed", zap.String("session_id", sess.ID), zap.Error(result.RemoteErr))
	}

	// The request context may already be cancelled or past its deadline here.
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), localCleanupTimeout)
	defer cancel()
	result.LocalErr = s.sessions.Delete(cleanupCtx, sess.ID)
	if result.LocalErr != nil {
		s.logger.Error("session delete failed", zap.String("session_id", sess.ID), zap.Error(result.LocalErr))
	}

	remote := "ok"
	if result.RemoteErr != nil {
		remote = "failed"
	}
	s.metrics.RecordSession("ended")
	s.publish(cleanupCtx, events.New(events.EventSessionEnded, sess.ID, events.ActorFromSession(sess),
		events.SessionEndedPayload{RemoteSignOut: remote, LocalCleared: result.LocalErr == nil}))

	return result
}

// remoteSignOut races the provider against the timeout so a provider that
// ignores its context cannot hold up the logout.
func (s *AuthService) remoteSignOut(ctx context.Context, handle string) error {
	ctx, cancel := context.WithTimeout(ctx, s.signOutTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("sign-out panicked: %v", r)
			}
		}()
		done <- s.provider.SignOut(ctx, handle)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("sign-out: %w", ctx.Err())
	}
}

func (s *AuthService) publish(ctx context.Context, ev events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, ev); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(ev.Type)), zap.Error(err))
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
