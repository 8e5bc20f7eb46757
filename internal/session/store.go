// Package session keeps the server-side record behind every signed-in browser.
package session

import (
	"context"
	"errors"

	"github.com/openshelf/storefront/internal/domain"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store persists sessions. Implementations refresh the idle expiry on Create and Touch.
type Store interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
