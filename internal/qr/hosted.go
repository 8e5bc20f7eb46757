package qr

import (
	"context"
	"fmt"
	"strings"

	"github.com/openshelf/storefront/internal/payment"
)

// HostedRenderer points at an external QR image service. It never calls the
// service itself; the returned URL is meant for an <img src>.
type HostedRenderer struct {
	baseURL string
	size    int
	margin  int
}

// NewHostedRenderer targets baseURL, e.g. https://api.qrserver.com/v1/create-qr-code/.
func NewHostedRenderer(baseURL string) *HostedRenderer {
	return &HostedRenderer{baseURL: baseURL, size: DefaultSize, margin: 10}
}

func (h *HostedRenderer) Strategy() Strategy { return StrategyHosted }

// Render builds <base>?data=<content>&size=250x250&margin=10.
func (h *HostedRenderer) Render(_ context.Context, content string) (*ImageRef, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if h.baseURL == "" {
		return nil, fmt.Errorf("qr: hosted base url not configured")
	}

	sep := "?"
	if strings.Contains(h.baseURL, "?") {
		sep = "&"
	}
	link := fmt.Sprintf("%s%sdata=%s&size=%dx%d&margin=%d",
		h.baseURL, sep, payment.EncodeComponent(content), h.size, h.size, h.margin)

	return &ImageRef{Strategy: StrategyHosted, Kind: KindURL, Value: link, ContentType: "image/png"}, nil
}
