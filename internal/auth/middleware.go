package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/openshelf/storefront/internal/domain"
	"github.com/openshelf/storefront/internal/session"
)

// SessionMiddleware resolves the caller's session from the signed token and
// the server-side store. It never rejects a request; gates decide access.
type SessionMiddleware struct {
	tokens *TokenManager
	store  session.Store
	logger *zap.Logger
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, store session.Store, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, store: store, logger: logger}
}

// Handle attaches the verified session, if any, and continues.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	raw := TokenFromRequest(c)
	if raw == "" {
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		m.logger.Debug("rejecting session token", zap.Error(err))
		return c.Next()
	}

	sess, err := m.store.Get(c.UserContext(), claims.SessionID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			m.logger.Warn("session lookup failed", zap.String("session_id", claims.SessionID), zap.Error(err))
		}
		return c.Next()
	}
	if sess.Token != raw || sess.UserID != claims.Subject {
		m.logger.Warn("session token mismatch", zap.String("session_id", claims.SessionID))
		return c.Next()
	}

	if err := m.store.Touch(c.UserContext(), sess.ID); err != nil {
		m.logger.Debug("session touch failed", zap.String("session_id", sess.ID), zap.Error(err))
	}

	session.Attach(c, sess)
	return c.Next()
}

// TokenFromRequest reads the user_token cookie, then a Bearer header.
func TokenFromRequest(c *fiber.Ctx) string {
	if tok := c.Cookies(domain.FieldUserToken); tok != "" {
		return tok
	}

	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
