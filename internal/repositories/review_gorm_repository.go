package repositories

import (
	"fmt"

	"deeskinstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// GetAll retrieves all reviews, newest first.
func (r *GORMReviewRepository) GetAll() ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to get all reviews: %w", err)
	}
	return reviews, nil
}

// GetApprovedByProductID retrieves the approved reviews for a product.
func (r *GORMReviewRepository) GetApprovedByProductID(productID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for product %s: %w", productID, err)
	}
	return reviews, nil
}

// Create creates a new review in the database.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// SetApproved publishes or unpublishes a review.
func (r *GORMReviewRepository) SetApproved(id string, approved bool) error {
	res := r.db.Model(&models.Review{}).Where("id = ?", id).Update("is_approved", approved)
	if res.Error != nil {
		return fmt.Errorf("failed to update review %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a review.
func (r *GORMReviewRepository) Delete(id string) error {
	res := r.db.Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
