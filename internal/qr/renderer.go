// Package qr turns payment links into displayable QR images.
package qr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Strategy names a rendering backend.
type Strategy string

const (
	StrategyHosted  Strategy = "hosted"
	StrategySVG     Strategy = "svg"
	StrategyDataURL Strategy = "data_url"
)

// Kind describes what ImageRef.Value holds.
type Kind string

const (
	KindURL     Kind = "url"
	KindSVG     Kind = "svg"
	KindDataURL Kind = "data_url"
)

const (
	// DefaultSize is the edge length in pixels of every rendered code.
	DefaultSize = 250

	dataURLPrefix = "data:image/png;base64,"
)

var (
	ErrEmptyContent    = errors.New("qr: empty content")
	ErrRemoteImage     = errors.New("qr: image is hosted remotely")
	ErrUnknownStrategy = errors.New("qr: unknown strategy")
)

// ImageRef points at a rendered code: a remote URL, inline SVG markup or a data URL.
type ImageRef struct {
	Strategy    Strategy `json:"strategy"`
	Kind        Kind     `json:"kind"`
	Value       string   `json:"value"`
	ContentType string   `json:"content_type"`
}

// Bytes returns the image body for inline kinds. Hosted images return ErrRemoteImage.
func (r *ImageRef) Bytes() ([]byte, error) {
	switch r.Kind {
	case KindSVG:
		return []byte(r.Value), nil
	case KindDataURL:
		if !strings.HasPrefix(r.Value, dataURLPrefix) {
			return nil, fmt.Errorf("qr: unexpected data url prefix")
		}
		return base64.StdEncoding.DecodeString(strings.TrimPrefix(r.Value, dataURLPrefix))
	default:
		return nil, ErrRemoteImage
	}
}

// Renderer encodes content into an image reference.
type Renderer interface {
	Strategy() Strategy
	Render(ctx context.Context, content string) (*ImageRef, error)
}

// ParseStrategy maps a configuration value to a Strategy.
func ParseStrategy(raw string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(raw))) {
	case StrategyHosted, "":
		return StrategyHosted, nil
	case StrategySVG, "inline":
		return StrategySVG, nil
	case StrategyDataURL, "dataurl", "png":
		return StrategyDataURL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, raw)
	}
}

// New builds the renderer for strategy. hostedBaseURL is only used by the hosted strategy.
func New(strategy Strategy, hostedBaseURL string) (Renderer, error) {
	switch strategy {
	case StrategyHosted:
		return NewHostedRenderer(hostedBaseURL), nil
	case StrategySVG:
		return NewSVGRenderer(), nil
	case StrategyDataURL:
		return NewDataURLRenderer(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// Safe renders content and swallows every failure, including panics, into a nil
// result. Callers treat nil as "QR unavailable" and fall back to the raw link.
func Safe(ctx context.Context, logger *zap.Logger, r Renderer, content string) (ref *ImageRef) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("qr render panicked", zap.String("strategy", string(r.Strategy())), zap.Any("panic", rec))
			ref = nil
		}
	}()

	ref, err := r.Render(ctx, content)
	if err != nil {
		logger.Warn("qr render failed", zap.String("strategy", string(r.Strategy())), zap.Error(err))
		return nil
	}
	return ref
}
