package models

import "time"

// Order statuses. An order is created in StatusPending right after a
// successful payment callback; later transitions are administrative.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// ValidOrderStatus reports whether status is one of the known order statuses.
func ValidOrderStatus(status string) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderItem is a single line within an order. Price is the unit price at
// the time of purchase; later catalog changes never touch it.
type OrderItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string  `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string  `json:"product_id" gorm:"type:varchar(36)"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is a customer order. CustomerID is nil for guest checkout. The
// shipping address is snapshotted as entered, not a reference.
type Order struct {
	ID               string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID       *string         `json:"customer_id" gorm:"type:varchar(36)"`
	Items            []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount      float64         `json:"total_amount"`
	Status           string          `json:"status"`
	PaymentReference string          `json:"payment_reference"`
	ShippingAddress  ShippingDetails `json:"shipping_address" gorm:"serializer:json"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ItemsTotal sums price times quantity over the order's items. At creation
// time it must equal TotalAmount minus shipping and tax, and is used by
// tests to check the snapshot never drifts.
func (o *Order) ItemsTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
