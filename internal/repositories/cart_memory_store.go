package repositories

import (
	"context"
	"sync"

	"deeskinstore/internal/models"
)

// MemoryCartStore is an in-memory implementation of CartStore. Carts live
// for the life of the process; suitable for a single instance and for tests.
type MemoryCartStore struct {
	carts map[string]models.Cart
	mu    sync.RWMutex
}

// NewMemoryCartStore creates a new instance of MemoryCartStore.
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{
		carts: make(map[string]models.Cart),
	}
}

// Get returns the session's cart, or a fresh empty cart if none is stored.
func (s *MemoryCartStore) Get(_ context.Context, sessionID string) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return &models.Cart{SessionID: sessionID}, nil
	}
	// Copy the slice so callers can't mutate the stored cart in place.
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	cart.Items = items
	return &cart, nil
}

// Save stores the cart under its session ID.
func (s *MemoryCartStore) Save(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cart.SessionID] = *cart
	return nil
}

// Delete removes the session's cart.
func (s *MemoryCartStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

// ActiveCount returns the number of stored carts that have items.
func (s *MemoryCartStore) ActiveCount(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, cart := range s.carts {
		if len(cart.Items) > 0 {
			count++
		}
	}
	return count, nil
}
