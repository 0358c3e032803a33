package repositories

import (
	"fmt"
	"sync"

	"deeskinstore/internal/models"

	"github.com/google/uuid"
)

// MockCustomerRepository is an in-memory implementation of CustomerRepository.
type MockCustomerRepository struct {
	customers map[string]models.Customer
	mu        sync.RWMutex
}

// NewMockCustomerRepository creates a new instance of MockCustomerRepository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]models.Customer),
	}
}

// GetByEmail returns the customer with the given email address.
func (r *MockCustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, customer := range r.customers {
		if customer.Email == email {
			c := customer
			return &c, nil
		}
	}
	return nil, fmt.Errorf("customer with email %s: %w", email, ErrNotFound)
}

// GetByID returns a customer by its ID.
func (r *MockCustomerRepository) GetByID(id string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer with ID %s: %w", id, ErrNotFound)
	}
	return &customer, nil
}

// Create adds a new customer.
func (r *MockCustomerRepository) Create(customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	r.customers[customer.ID] = *customer
	return nil
}
