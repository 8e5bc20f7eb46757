package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/openshelf/storefront/internal/domain"
	"github.com/openshelf/storefront/internal/events"
	"github.com/openshelf/storefront/internal/observability"
	"github.com/openshelf/storefront/internal/payment"
	"github.com/openshelf/storefront/internal/qr"
	apperrors "github.com/openshelf/storefront/pkg/util"
)

// CheckoutService turns a payment request into a UPI link and its QR image.
type CheckoutService struct {
	renderer   qr.Renderer
	hosted     *qr.HostedRenderer
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// CheckoutDependencies encapsulates collaborators for the checkout service.
type CheckoutDependencies struct {
	Renderer      qr.Renderer
	HostedBaseURL string
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewCheckoutService builds the service.
func NewCheckoutService(deps CheckoutDependencies) *CheckoutService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		renderer:   deps.Renderer,
		hosted:     qr.NewHostedRenderer(deps.HostedBaseURL),
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// CheckoutResult is what the checkout page needs to show. QR is nil when
// rendering failed; FallbackLink always carries the raw payment link.
type CheckoutResult struct {
	URI          payment.UpiURI
	QR           *qr.ImageRef
	FallbackLink string
}

// Prepare validates req, builds its link and renders the QR code.
func (s *CheckoutService) Prepare(ctx context.Context, req domain.PaymentRequest, actor *domain.Session) (*CheckoutResult, error) {
	if err := payment.Validate(req); err != nil {
		return nil, err
	}

	uri := payment.URI(req)
	ref := qr.Safe(ctx, s.logger, s.renderer, uri.String())
	s.metrics.RecordQRRender(string(s.renderer.Strategy()), ref != nil)

	sessionID := ""
	if actor != nil {
		sessionID = actor.ID
	}
	ev := events.New(events.EventPaymentLinkCreated, sessionID, events.ActorFromSession(actor), events.PaymentLinkCreatedPayload{
		OrderID:    req.OrderID,
		Amount:     req.Amount,
		QRStrategy: string(s.renderer.Strategy()),
		QRRendered: ref != nil,
	})
	if s.dispatcher != nil {
		if err := s.dispatcher.Publish(ctx, ev); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(ev.Type)), zap.Error(err))
		}
	}

	return &CheckoutResult{URI: uri, QR: ref, FallbackLink: uri.String()}, nil
}

// QRImage renders the code for download. It fails with UNAVAILABLE when the
// renderer cannot produce an image.
func (s *CheckoutService) QRImage(ctx context.Context, req domain.PaymentRequest) (*qr.ImageRef, error) {
	if err := payment.Validate(req); err != nil {
		return nil, err
	}
	ref := qr.Safe(ctx, s.logger, s.renderer, payment.URI(req).String())
	s.metrics.RecordQRRender(string(s.renderer.Strategy()), ref != nil)
	if ref == nil {
		return nil, apperrors.NewUnavailable("qr code generation unavailable")
	}
	return ref, nil
}

// HostedLink returns the hosted QR image URL for req, or "" when the request
// has no UPI id or the URL cannot be built. It never fails the caller.
func (s *CheckoutService) HostedLink(ctx context.Context, req domain.PaymentRequest) string {
	if strings.TrimSpace(req.UpiID) == "" {
		s.logger.Warn("hosted qr link requested without upi id", zap.String("order_id", req.OrderID))
		return ""
	}
	ref := qr.Safe(ctx, s.logger, s.hosted, payment.URI(req).String())
	if ref == nil {
		return ""
	}
	return ref.Value
}

// Strategy reports the configured QR strategy.
func (s *CheckoutService) Strategy() qr.Strategy {
	return s.renderer.Strategy()
}
