package repositories

import (
	"deeskinstore/internal/models"
)

// ReviewRepository defines the interface for product review data access.
type ReviewRepository interface {
	GetAll() ([]models.Review, error)
	GetApprovedByProductID(productID string) ([]models.Review, error)
	Create(review *models.Review) error
	SetApproved(id string, approved bool) error
	Delete(id string) error
}
