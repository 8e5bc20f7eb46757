package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/openshelf/storefront/internal/domain"
	"github.com/openshelf/storefront/internal/session"
)

// RequireSection lets a request through only when its verified session role may
// enter section. Anyone else is redirected to loginPath and nothing else is rendered.
func RequireSection(section domain.Section, loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := session.FromContext(c)
		if !ok || !sess.Authenticated() || !section.Allows(sess.Role) {
			return c.Redirect(loginPath, fiber.StatusFound)
		}
		return c.Next()
	}
}
