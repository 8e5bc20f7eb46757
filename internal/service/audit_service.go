package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/openshelf/storefront/internal/events"
)

// AuditService writes session and payment events to the audit log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSessionStarted, a.handleSessionStarted)
	a.dispatcher.Subscribe(events.EventSessionEnded, a.handleSessionEnded)
	a.dispatcher.Subscribe(events.EventPaymentLinkCreated, a.handlePaymentLinkCreated)
}

func (a *AuditService) handleSessionStarted(_ context.Context, event events.Event) error {
	a.logger.Info("SessionStarted", actorFields(event)...)
	return nil
}

func (a *AuditService) handleSessionEnded(_ context.Context, event events.Event) error {
	a.logger.Info("SessionEnded", append(actorFields(event), zap.Any("payload", event.Payload))...)
	return nil
}

func (a *AuditService) handlePaymentLinkCreated(_ context.Context, event events.Event) error {
	a.logger.Info("PaymentLinkCreated", append(actorFields(event), zap.Any("payload", event.Payload))...)
	return nil
}

func actorFields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("session_id", event.SessionID),
		zap.String("user_id", event.Actor.UserID),
		zap.String("role", string(event.Actor.Role)),
		zap.Time("at", event.Timestamp),
	}
}
