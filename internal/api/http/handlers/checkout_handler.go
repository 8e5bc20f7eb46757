package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/openshelf/storefront/internal/api/dto"
	"github.com/openshelf/storefront/internal/qr"
	"github.com/openshelf/storefront/internal/service"
	"github.com/openshelf/storefront/internal/session"
)

// CheckoutHandler exposes UPI payment links and their QR codes.
type CheckoutHandler struct {
	checkout *service.CheckoutService
}

// NewCheckoutHandler constructs handler.
func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Create handles POST /checkout/upi.
func (h *CheckoutHandler) Create(c *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	sess, _ := session.FromContext(c)
	res, err := h.checkout.Prepare(c.UserContext(), req.ToDomain(), sess)
	if err != nil {
		return err
	}

	resp := dto.CheckoutResponse{
		UpiURI:       res.URI.String(),
		QR:           res.QR,
		FallbackLink: res.FallbackLink,
	}
	if h.checkout.Strategy() != qr.StrategyHosted {
		resp.HostedQRURL = h.checkout.HostedLink(c.UserContext(), req.ToDomain())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resp})
}

// Image handles GET /checkout/upi/qr and returns a downloadable image. Hosted
// codes are served by redirecting to the image service.
func (h *CheckoutHandler) Image(c *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := c.QueryParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid query")
	}

	ref, err := h.checkout.QRImage(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}

	body, err := ref.Bytes()
	if errors.Is(err, qr.ErrRemoteImage) {
		return c.Redirect(ref.Value, fiber.StatusFound)
	}
	if err != nil {
		return err
	}

	filename := "upi-qr.png"
	if ref.Kind == qr.KindSVG {
		filename = "upi-qr.svg"
	}
	c.Set(fiber.HeaderContentType, ref.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}
