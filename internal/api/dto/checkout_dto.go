package dto

import (
	"github.com/openshelf/storefront/internal/domain"
	"github.com/openshelf/storefront/internal/qr"
)

// CheckoutRequest carries payment fields from the checkout page, as JSON or query string.
type CheckoutRequest struct {
	UpiID       string  `json:"upi_id" query:"upi_id"`
	PayeeName   string  `json:"payee_name" query:"payee_name"`
	Amount      float64 `json:"amount" query:"amount"`
	Description string  `json:"description" query:"description"`
	OrderID     string  `json:"order_id" query:"order_id"`
}

// ToDomain converts the payload into a payment request.
func (r CheckoutRequest) ToDomain() domain.PaymentRequest {
	return domain.PaymentRequest{
		UpiID:       r.UpiID,
		PayeeName:   r.PayeeName,
		Amount:      r.Amount,
		Description: r.Description,
		OrderID:     r.OrderID,
	}
}

// CheckoutResponse is rendered by the checkout page. QR is null when the code
// could not be generated; the page then shows FallbackLink as a plain link.
type CheckoutResponse struct {
	UpiURI       string       `json:"upi_uri"`
	QR           *qr.ImageRef `json:"qr"`
	FallbackLink string       `json:"fallback_link"`
	HostedQRURL  string       `json:"hosted_qr_url,omitempty"`
}
