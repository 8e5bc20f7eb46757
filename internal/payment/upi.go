// Package payment builds UPI deep links for checkout.
package payment

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/openshelf/storefront/internal/domain"
)

const (
	// Scheme is the fixed prefix of every UPI payment link.
	Scheme = "upi://pay?"
	// Currency is the only currency the storefront charges in.
	Currency = "INR"
)

// ErrNotUpiURI is returned by ParseUpiURI for strings without the upi://pay? prefix.
var ErrNotUpiURI = errors.New("not a upi payment uri")

// UpiURI is a fully built payment link.
type UpiURI string

func (u UpiURI) String() string {
	return string(u)
}

// BuildUpiURI renders pa, pn, am, cu, tn, tr in that order. Text fields are
// encoded one by one; the amount is written as its shortest decimal literal.
// No validation happens here.
func BuildUpiURI(upiID, name string, amount float64, description, orderID string) UpiURI {
	var b strings.Builder
	b.Grow(len(Scheme) + len(upiID) + len(name) + len(description) + len(orderID) + 48)
	b.WriteString(Scheme)
	b.WriteString("pa=")
	b.WriteString(EncodeComponent(upiID))
	b.WriteString("&pn=")
	b.WriteString(EncodeComponent(name))
	b.WriteString("&am=")
	b.WriteString(FormatAmount(amount))
	b.WriteString("&cu=")
	b.WriteString(Currency)
	b.WriteString("&tn=")
	b.WriteString(EncodeComponent(description))
	b.WriteString("&tr=")
	b.WriteString(EncodeComponent(orderID))
	return UpiURI(b.String())
}

// URI builds the payment link for a request.
func URI(req domain.PaymentRequest) UpiURI {
	return BuildUpiURI(req.UpiID, req.PayeeName, req.Amount, req.Description, req.OrderID)
}

// FormatAmount writes amount without trailing zeros: 199.00 -> "199", 12.50 -> "12.5".
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s the way browsers encode a URI component.
// Letters, digits and -_.!~*'() pass through; every other byte becomes %XX.
func EncodeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	out := make([]byte, 0, len(s)+2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			out = append(out, c)
			continue
		}
		out = append(out, '%', upperhex[c>>4], upperhex[c&15])
	}
	return string(out)
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// ParseUpiURI decodes a link produced by BuildUpiURI.
func ParseUpiURI(raw string) (domain.PaymentRequest, error) {
	var req domain.PaymentRequest
	if !strings.HasPrefix(raw, Scheme) {
		return req, ErrNotUpiURI
	}

	for _, pair := range strings.Split(strings.TrimPrefix(raw, Scheme), "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		decoded, err := url.PathUnescape(value)
		if err != nil {
			return req, fmt.Errorf("decode %s: %w", key, err)
		}
		switch key {
		case "pa":
			req.UpiID = decoded
		case "pn":
			req.PayeeName = decoded
		case "tn":
			req.Description = decoded
		case "tr":
			req.OrderID = decoded
		case "am":
			amount, err := strconv.ParseFloat(decoded, 64)
			if err != nil {
				return req, fmt.Errorf("decode am: %w", err)
			}
			req.Amount = amount
		case "cu":
			if decoded != Currency {
				return req, fmt.Errorf("unsupported currency %q", decoded)
			}
		}
	}
	return req, nil
}
