package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/openshelf/storefront/internal/api/http/handlers"
	"github.com/openshelf/storefront/internal/auth"
	"github.com/openshelf/storefront/internal/domain"
)

// LogoutPath is where every dashboard sends its logout action.
const LogoutPath = "/auth/logout"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Checkout  *handlers.CheckoutHandler
	Sessions  *auth.SessionMiddleware
	Metrics   fiber.Handler
	LoginPath string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	web := app.Group("", cfg.Sessions.Handle)

	web.Get(cfg.LoginPath, cfg.Auth.LoginPage)
	web.Post("/auth/login", cfg.Auth.Login)
	web.Post(LogoutPath, cfg.Auth.Logout)
	web.Get(LogoutPath, cfg.Auth.Logout)
	web.Get("/logout", cfg.Auth.Logout)

	for _, section := range []domain.Section{domain.SectionAdmin, domain.SectionLibrarian, domain.SectionCustomer} {
		gated := web.Group("/"+string(section), auth.RequireSection(section, cfg.LoginPath))
		gated.Get("/dashboard", cfg.Dashboard.Show(section))
	}

	checkout := web.Group("/checkout")
	checkout.Post("/upi", cfg.Checkout.Create)
	checkout.Get("/upi/qr", cfg.Checkout.Image)
}
