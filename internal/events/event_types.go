package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/storefront/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionStarted     EventType = "session_started"
	EventSessionEnded       EventType = "session_ended"
	EventPaymentLinkCreated EventType = "payment_link_created"
)

// Actor identifies who caused an event.
type Actor struct {
	UserID   string      `json:"user_id,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
	DeviceID string      `json:"device_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, sessionID string, actor Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ActorFromSession builds an Actor from a session; nil yields an anonymous actor.
func ActorFromSession(s *domain.Session) Actor {
	if s == nil {
		return Actor{}
	}
	return Actor{UserID: s.UserID, Role: s.Role, DeviceID: s.DeviceID}
}

// SessionEndedPayload records how the logout went.
type SessionEndedPayload struct {
	RemoteSignOut string `json:"remote_sign_out"`
	LocalCleared  bool   `json:"local_cleared"`
}

// PaymentLinkCreatedPayload records a checkout link without the payee handle.
type PaymentLinkCreatedPayload struct {
	OrderID    string  `json:"order_id"`
	Amount     float64 `json:"amount"`
	QRStrategy string  `json:"qr_strategy"`
	QRRendered bool    `json:"qr_rendered"`
}
