package repositories

import (
	"deeskinstore/internal/models"
)

// CustomerRepository defines the interface for customer data access.
// GetByEmail wraps ErrNotFound when no customer has the address, which the
// checkout flow treats as "create one" rather than a failure.
type CustomerRepository interface {
	GetByEmail(email string) (*models.Customer, error)
	GetByID(id string) (*models.Customer, error)
	Create(customer *models.Customer) error
}
