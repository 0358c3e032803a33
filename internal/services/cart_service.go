package services

import (
	"context"
	"errors"
	"fmt"

	"deeskinstore/internal/metrics"
	"deeskinstore/internal/models"
	"deeskinstore/internal/pricing"
	"deeskinstore/internal/repositories"

	"github.com/rs/zerolog"
)

var (
	// ErrOutOfStock is returned when adding a product marked out of stock.
	ErrOutOfStock = errors.New("product is out of stock")
	// ErrInvalidSize is returned when adding a size the product is not sold in.
	ErrInvalidSize = errors.New("product is not available in that size")
	// ErrInvalidQuantity is returned for add quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// CartService is the single source of truth for in-progress carts. Every
// mutation recomputes the cart's derived total and item count before the
// cart is stored, so they can never drift from the line items.
type CartService struct {
	store    repositories.CartStore
	products repositories.ProductRepository
	pricing  pricing.Config
	metrics  *metrics.StoreMetrics
	logger   zerolog.Logger
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.CartStore, products repositories.ProductRepository, cfg pricing.Config, m *metrics.StoreMetrics, logger zerolog.Logger) *CartService {
	return &CartService{
		store:    store,
		products: products,
		pricing:  cfg,
		metrics:  m,
		logger:   logger,
	}
}

// Get returns the session's cart (a fresh empty one for a new session).
func (s *CartService) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	return s.store.Get(ctx, sessionID)
}

// Totals derives the price breakdown for a cart.
func (s *CartService) Totals(cart *models.Cart) pricing.Totals {
	return s.pricing.Calculate(cart.Items)
}

// AddItem puts quantity units of a product in a chosen size into the cart.
// A line item with the same (product, size) pair has its quantity
// incremented; a different size of the same product is a distinct line.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID, size string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}
	if !product.InStock {
		return nil, fmt.Errorf("%s: %w", product.Name, ErrOutOfStock)
	}
	if !product.HasSize(size) {
		return nil, fmt.Errorf("%s (%s): %w", product.Name, size, ErrInvalidSize)
	}

	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].Product.ID == productID && cart.Items[i].SelectedSize == size {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			Product:      *product,
			SelectedSize: size,
			Quantity:     quantity,
		})
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the quantity of every line item for the product. The
// UI disables the decrement control at quantity one, so zero should not
// arrive here in normal operation; if it does (or a negative value does),
// the line items are removed.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID)
	}

	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Items {
		if cart.Items[i].Product.ID == productID {
			cart.Items[i].Quantity = quantity
		}
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes the product's line items outright, every size,
// regardless of quantity.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*models.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart. Called exactly once per order, immediately after
// a confirmed successful submission.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.recordActiveCarts(ctx)
	return nil
}

// save recomputes derived totals and persists the cart. Empty carts are
// deleted from the store rather than stored.
func (s *CartService) save(ctx context.Context, cart *models.Cart) error {
	cart.Recalculate()

	var err error
	if cart.IsEmpty() {
		err = s.store.Delete(ctx, cart.SessionID)
	} else {
		err = s.store.Save(ctx, cart)
	}
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	s.recordActiveCarts(ctx)
	return nil
}

func (s *CartService) recordActiveCarts(ctx context.Context) {
	count, err := s.store.ActiveCount(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to count active carts")
		return
	}
	s.metrics.RecordActiveCarts(ctx, count)
}
