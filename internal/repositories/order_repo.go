package repositories

import (
	"deeskinstore/internal/models"
)

// OrderRepository defines the interface for order data access. Create
// persists the order header; CreateItems persists the line rows for an
// already-created header. The two calls are deliberately separate, matching
// how the store has always written orders, so a failure between them is
// observable rather than hidden.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	CreateItems(orderID string, items []models.OrderItem) error
	UpdateStatus(id string, status string) error
}
