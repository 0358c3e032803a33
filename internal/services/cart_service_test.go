package services

import (
	"context"
	"testing"

	"deeskinstore/internal/models"
	"deeskinstore/internal/pricing"
	"deeskinstore/internal/repositories"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestCartService(t *testing.T, products ...models.Product) *CartService {
	t.Helper()

	productRepo := repositories.NewMockProductRepository()
	for i := range products {
		assert.NoError(t, productRepo.Create(&products[i]))
	}
	return NewCartService(
		repositories.NewMemoryCartStore(),
		productRepo,
		pricing.DefaultConfig(),
		nil,
		zerolog.Nop(),
	)
}

func serumProduct() models.Product {
	return models.Product{
		ID:      "prod-serum",
		Name:    "Niacinamide Serum",
		Brand:   "Dee Organics",
		Price:   4200,
		Sizes:   []string{"50ml", "150ml"},
		InStock: true,
	}
}

func cleanserProduct() models.Product {
	return models.Product{
		ID:      "prod-cleanser",
		Name:    "Gentle Foaming Cleanser",
		Brand:   "Dee Organics",
		Price:   3500,
		Sizes:   []string{"200ml"},
		InStock: true,
	}
}

func TestAddItemMergesSameProductAndSize(t *testing.T) {
	service := newTestCartService(t, serumProduct())
	ctx := context.Background()

	_, err := service.AddItem(ctx, "sess-1", "prod-serum", "150ml", 1)
	assert.NoError(t, err)
	cart, err := service.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	assert.Len(t, cart.Items, 1, "same product and size merges into one line")
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, 12600.0, cart.Total)
}

func TestAddItemDifferentSizesAreDistinctLines(t *testing.T) {
	service := newTestCartService(t, serumProduct())
	ctx := context.Background()

	_, err := service.AddItem(ctx, "sess-1", "prod-serum", "50ml", 1)
	assert.NoError(t, err)
	cart, err := service.AddItem(ctx, "sess-1", "prod-serum", "150ml", 1)
	assert.NoError(t, err)

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.ItemCount)
}

func TestAddItemValidation(t *testing.T) {
	outOfStock := serumProduct()
	outOfStock.ID = "prod-oos"
	outOfStock.InStock = false

	service := newTestCartService(t, serumProduct(), outOfStock)
	ctx := context.Background()

	_, err := service.AddItem(ctx, "sess-1", "prod-serum", "150ml", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = service.AddItem(ctx, "sess-1", "prod-oos", "150ml", 1)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = service.AddItem(ctx, "sess-1", "prod-serum", "999ml", 1)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = service.AddItem(ctx, "sess-1", "no-such-product", "150ml", 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	cart, err := service.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.True(t, cart.IsEmpty(), "failed adds leave the cart untouched")
}

func TestUpdateQuantity(t *testing.T) {
	service := newTestCartService(t, serumProduct(), cleanserProduct())
	ctx := context.Background()

	_, err := service.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)
	_, err = service.AddItem(ctx, "sess-1", "prod-cleanser", "200ml", 1)
	assert.NoError(t, err)

	cart, err := service.UpdateQuantity(ctx, "sess-1", "prod-serum", 5)
	assert.NoError(t, err)

	assert.Equal(t, 6, cart.ItemCount)
	assert.Equal(t, 5*4200.0+3500.0, cart.Total, "totals track every mutation")
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	service := newTestCartService(t, serumProduct(), cleanserProduct())
	ctx := context.Background()

	_, err := service.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)
	_, err = service.AddItem(ctx, "sess-1", "prod-cleanser", "200ml", 1)
	assert.NoError(t, err)

	cart, err := service.UpdateQuantity(ctx, "sess-1", "prod-serum", 0)
	assert.NoError(t, err)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "prod-cleanser", cart.Items[0].Product.ID)
	assert.Equal(t, 3500.0, cart.Total)
}

func TestRemoveItemDropsEverySizeOfProduct(t *testing.T) {
	service := newTestCartService(t, serumProduct(), cleanserProduct())
	ctx := context.Background()

	_, err := service.AddItem(ctx, "sess-1", "prod-serum", "50ml", 1)
	assert.NoError(t, err)
	_, err = service.AddItem(ctx, "sess-1", "prod-serum", "150ml", 3)
	assert.NoError(t, err)
	_, err = service.AddItem(ctx, "sess-1", "prod-cleanser", "200ml", 1)
	assert.NoError(t, err)

	cart, err := service.RemoveItem(ctx, "sess-1", "prod-serum")
	assert.NoError(t, err)

	assert.Len(t, cart.Items, 1, "removal drops all size variants of the product")
	assert.Equal(t, "prod-cleanser", cart.Items[0].Product.ID)
}

func TestClearEmptiesCart(t *testing.T) {
	service := newTestCartService(t, serumProduct())
	ctx := context.Background()

	_, err := service.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	assert.NoError(t, service.Clear(ctx, "sess-1"))

	cart, err := service.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0.0, cart.Total)
	assert.Equal(t, 0, cart.ItemCount)
}

func TestCartsAreIsolatedPerSession(t *testing.T) {
	service := newTestCartService(t, serumProduct())
	ctx := context.Background()

	_, err := service.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	other, err := service.Get(ctx, "sess-2")
	assert.NoError(t, err)
	assert.True(t, other.IsEmpty())
}
