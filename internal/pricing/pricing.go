// Package pricing derives shipping, tax and grand totals from a cart.
// All functions are pure; the calculator holds only configuration.
package pricing

import (
	"deeskinstore/internal/models"

	"github.com/shopspring/decimal"
)

// Config holds the store's pricing rules.
type Config struct {
	// FreeShippingThreshold is the subtotal (NGN) at or above which
	// shipping is free.
	FreeShippingThreshold float64
	// FlatShippingFee is charged below the threshold.
	FlatShippingFee float64
	// TaxRate is applied to the subtotal, e.g. 0.075 for 7.5% VAT.
	TaxRate float64
}

// DefaultConfig returns the store's standard rates: free shipping from
// NGN 15,000, NGN 1,500 flat fee below that, 7.5% VAT.
func DefaultConfig() Config {
	return Config{
		FreeShippingThreshold: 15000,
		FlatShippingFee:       1500,
		TaxRate:               0.075,
	}
}

// Totals is the price breakdown of a cart.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grand_total"`
}

// Calculate derives the full breakdown for the given line items.
func (c Config) Calculate(items []models.CartItem) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal()
	}

	shipping := c.ShippingCost(subtotal)
	tax := subtotal * c.TaxRate

	return Totals{
		Subtotal:   subtotal,
		Shipping:   shipping,
		Tax:        tax,
		GrandTotal: subtotal + shipping + tax,
	}
}

// ShippingCost returns the shipping fee for a subtotal: zero at or above
// the free-shipping threshold, the flat fee otherwise.
func (c Config) ShippingCost(subtotal float64) float64 {
	if subtotal >= c.FreeShippingThreshold {
		return 0
	}
	return c.FlatShippingFee
}

// GrandTotalKobo converts the grand total to integer kobo for the payment
// gateway, rounding to the nearest minor unit. Gateways only accept whole
// minor-unit amounts, so the conversion goes through decimal arithmetic
// rather than float multiplication.
func (t Totals) GrandTotalKobo() int64 {
	return decimal.NewFromFloat(t.GrandTotal).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
