package session

import (
	"github.com/gofiber/fiber/v2"

	"github.com/openshelf/storefront/internal/domain"
)

const localsKey = "openshelf_session"

// Attach binds the verified session to the request.
func Attach(c *fiber.Ctx, s *domain.Session) {
	c.Locals(localsKey, s)
}

// FromContext returns the session bound by Attach, if any.
func FromContext(c *fiber.Ctx) (*domain.Session, bool) {
	s, ok := c.Locals(localsKey).(*domain.Session)
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}
