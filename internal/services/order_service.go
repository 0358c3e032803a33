package services

import (
	"fmt"

	"deeskinstore/internal/models"
	"deeskinstore/internal/repositories"
)

// OrderService handles the back-office side of orders: listing, lookup,
// status transitions and dashboard stats. Order creation happens only in
// the checkout flow.
type OrderService struct {
	repo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo repositories.OrderRepository) *OrderService {
	return &OrderService{
		repo: repo,
	}
}

// GetAllOrders retrieves all orders with their items.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.repo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.repo.GetByID(id)
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("invalid order status: %s", status)
	}
	if err := s.repo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

// OrderStats is the dashboard summary of order activity.
type OrderStats struct {
	TotalRevenue    float64 `json:"total_revenue"`
	TotalOrders     int     `json:"total_orders"`
	PendingOrders   int     `json:"pending_orders"`
	CompletedOrders int     `json:"completed_orders"`
}

// GetStats aggregates revenue and order counts for the admin dashboard.
func (s *OrderService) GetStats() (*OrderStats, error) {
	orders, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for stats: %w", err)
	}

	stats := &OrderStats{TotalOrders: len(orders)}
	for _, order := range orders {
		stats.TotalRevenue += order.TotalAmount
		switch order.Status {
		case models.StatusPending:
			stats.PendingOrders++
		case models.StatusDelivered:
			stats.CompletedOrders++
		}
	}
	return stats, nil
}
