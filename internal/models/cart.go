package models

// CartItem is a single line in a cart: a product in a chosen package size.
// Two lines with the same product but different sizes are distinct items.
type CartItem struct {
	Product      Product `json:"product"`
	SelectedSize string  `json:"selected_size"`
	Quantity     int     `json:"quantity"`
}

// LineTotal returns unit price times quantity for this line.
func (i CartItem) LineTotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Cart holds the ordered line items of one browsing session.
// Total and ItemCount are derived from Items; Recalculate keeps them in
// sync and must be called after every mutation.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"item_count"`
}

// Recalculate recomputes Total and ItemCount from the line items.
func (c *Cart) Recalculate() {
	c.Total = 0
	c.ItemCount = 0
	for _, item := range c.Items {
		c.Total += item.LineTotal()
		c.ItemCount += item.Quantity
	}
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
