package services

import (
	"fmt"

	"deeskinstore/internal/models"
	"deeskinstore/internal/repositories"
)

// ReviewService handles product reviews: storefront submission and listing,
// back-office moderation.
type ReviewService struct {
	reviews  repositories.ReviewRepository
	products repositories.ProductRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews repositories.ReviewRepository, products repositories.ProductRepository) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
	}
}

// SubmitReview creates a review for an existing product. New reviews are
// unapproved until a moderator publishes them.
func (s *ReviewService) SubmitReview(review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", review.Rating)
	}
	if _, err := s.products.GetByID(review.ProductID); err != nil {
		return fmt.Errorf("failed to submit review: %w", err)
	}
	review.IsApproved = false
	if err := s.reviews.Create(review); err != nil {
		return fmt.Errorf("failed to submit review: %w", err)
	}
	return nil
}

// GetProductReviews lists the approved reviews for a product.
func (s *ReviewService) GetProductReviews(productID string) ([]models.Review, error) {
	return s.reviews.GetApprovedByProductID(productID)
}

// GetAllReviews lists every review for moderation.
func (s *ReviewService) GetAllReviews() ([]models.Review, error) {
	return s.reviews.GetAll()
}

// SetApproved publishes or unpublishes a review.
func (s *ReviewService) SetApproved(id string, approved bool) error {
	return s.reviews.SetApproved(id, approved)
}

// DeleteReview removes a review.
func (s *ReviewService) DeleteReview(id string) error {
	return s.reviews.Delete(id)
}
