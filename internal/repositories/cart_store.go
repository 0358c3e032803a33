package repositories

import (
	"context"

	"deeskinstore/internal/models"
)

// CartStore holds in-progress carts keyed by browsing session. A cart is
// never shared across sessions, so implementations need no cross-session
// coordination beyond safe concurrent access to the store itself.
//
// Get returns a fresh empty cart for an unknown session; a missing cart is
// not an error.
type CartStore interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, sessionID string) error
	// ActiveCount reports how many non-empty carts the store holds,
	// feeding the active-carts gauge.
	ActiveCount(ctx context.Context) (int64, error)
}
