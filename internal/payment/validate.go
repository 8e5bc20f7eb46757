package payment

import (
	"math"
	"strings"

	"github.com/openshelf/storefront/internal/domain"
	apperrors "github.com/openshelf/storefront/pkg/util"
)

// Validate checks a request before it reaches BuildUpiURI.
func Validate(req domain.PaymentRequest) error {
	details := map[string]any{}

	local, host, found := strings.Cut(req.UpiID, "@")
	if !found || local == "" || host == "" || strings.Contains(host, "@") {
		details["upi_id"] = "must look like name@bank"
	}
	if strings.TrimSpace(req.PayeeName) == "" {
		details["payee_name"] = "required"
	}
	switch {
	case math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0):
		details["amount"] = "must be a finite number"
	case req.Amount <= 0:
		details["amount"] = "must be greater than zero"
	case fractionDigits(req.Amount) > 2:
		details["amount"] = "at most two decimal places"
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("invalid payment request", details)
	}
	return nil
}

func fractionDigits(amount float64) int {
	_, frac, found := strings.Cut(FormatAmount(amount), ".")
	if !found {
		return 0
	}
	return len(frac)
}
