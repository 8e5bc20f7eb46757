package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/openshelf/storefront/internal/api/dto"
	"github.com/openshelf/storefront/internal/domain"
	"github.com/openshelf/storefront/internal/service"
	"github.com/openshelf/storefront/internal/session"
)

// AuthHandler serves the login page, sign-in and logout.
type AuthHandler struct {
	auth      *service.AuthService
	loginPath string
	cookies   session.CookieOptions
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, loginPath string, cookies session.CookieOptions) *AuthHandler {
	return &AuthHandler{auth: authService, loginPath: loginPath, cookies: cookies}
}

// LoginPage handles GET /login. Signed-in callers go straight to their dashboard.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if sess, ok := session.FromContext(c); ok && sess.Authenticated() {
		return c.Redirect(DashboardPath(sess.Role), fiber.StatusFound)
	}
	return c.JSON(fiber.Map{"data": dto.LoginPage{Page: "login", Action: "/auth/login"}})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password, req.DeviceID)
	if err != nil {
		return err
	}

	opts := h.cookies
	opts.TTL = h.auth.TokenManager().TTL()
	session.SetCookies(c, res.Session, opts)

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.UserResponse{
				ID:    res.User.ID,
				Name:  res.User.Name,
				Email: res.User.Email,
				Role:  res.User.Role.String(),
			},
			"auth":     dto.AuthResponse{Token: res.Session.Token, ExpiresAt: res.ExpiresAt},
			"redirect": DashboardPath(res.Session.Role),
		},
	})
}

// Logout handles GET and POST /auth/logout. Cookies are cleared and the caller
// is redirected to the login page whatever the identity provider answered.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, _ := session.FromContext(c)
	h.auth.Logout(c.UserContext(), sess)

	session.ClearCookies(c)
	return c.Redirect(h.loginPath, fiber.StatusFound)
}

// DashboardPath is where a role lands after signing in.
func DashboardPath(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin/dashboard"
	case domain.RoleLibrarian:
		return "/librarian/dashboard"
	default:
		return "/customer/dashboard"
	}
}
