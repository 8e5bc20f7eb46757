package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/openshelf/storefront/internal/api/dto"
	"github.com/openshelf/storefront/internal/domain"
	"github.com/openshelf/storefront/internal/session"
)

var navigation = map[domain.Section][]dto.NavItem{
	domain.SectionAdmin: {
		{Label: "Overview", Path: "/admin/dashboard"},
		{Label: "Users", Path: "/admin/users"},
		{Label: "Inventory", Path: "/admin/inventory"},
		{Label: "Reports", Path: "/admin/reports"},
	},
	domain.SectionLibrarian: {
		{Label: "Overview", Path: "/librarian/dashboard"},
		{Label: "Catalog", Path: "/librarian/catalog"},
		{Label: "Loans", Path: "/librarian/loans"},
		{Label: "Members", Path: "/librarian/members"},
	},
	domain.SectionCustomer: {
		{Label: "Overview", Path: "/customer/dashboard"},
		{Label: "Browse", Path: "/customer/books"},
		{Label: "Orders", Path: "/customer/orders"},
		{Label: "Checkout", Path: "/customer/checkout"},
	},
}

// DashboardHandler serves the dashboard shell of each section.
type DashboardHandler struct {
	logoutPath string
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(logoutPath string) *DashboardHandler {
	return &DashboardHandler{logoutPath: logoutPath}
}

// Show returns the shell for section. It must sit behind auth.RequireSection.
func (h *DashboardHandler) Show(section domain.Section) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := session.FromContext(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		email := sess.Email
		if section == domain.SectionLibrarian && sess.SectionEmail != "" {
			email = sess.SectionEmail
		}

		return c.JSON(fiber.Map{"data": dto.DashboardShell{
			Section:    string(section),
			Role:       sess.Role.String(),
			Email:      email,
			DeviceID:   sess.DeviceID,
			Navigation: navigation[section],
			LogoutPath: h.logoutPath,
		}})
	}
}
