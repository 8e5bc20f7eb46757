package session

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/openshelf/storefront/internal/domain"
)

// ClearedCookies lists every cookie removed on logout.
var ClearedCookies = []string{
	domain.FieldUserToken,
	domain.FieldUserRole,
	domain.FieldDeviceID,
	domain.FieldLastActivity,
}

// CookieOptions controls how session cookies are written.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

// SetCookies writes the login cookies. Only user_token is read back by the
// server; user_role and device_id are informational for the page scripts.
func SetCookies(c *fiber.Ctx, s *domain.Session, opts CookieOptions) {
	expires := time.Now().Add(opts.TTL)
	write := func(name, value string, httpOnly bool) {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Expires:  expires,
			Secure:   opts.Secure,
			HTTPOnly: httpOnly,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}

	write(domain.FieldUserToken, s.Token, true)
	write(domain.FieldUserRole, string(s.Role), false)
	write(domain.FieldDeviceID, s.DeviceID, false)
	write(domain.FieldLastActivity, strconv.FormatInt(s.LastActivity.UnixMilli(), 10), false)
}

// ClearCookies empties every session cookie and expires it immediately.
func ClearCookies(c *fiber.Ctx) {
	for _, name := range ClearedCookies {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}
