package handlers

import (
	"errors"
	"fmt"

	"deeskinstore/internal/models"
	"deeskinstore/internal/repositories"
	"deeskinstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles product review routes: public submission and
// listing, admin moderation.
type ReviewHandler struct {
	service *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service: service,
	}
}

// RegisterRoutes registers the public review routes with the Fiber app.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products/:id/reviews", h.HandleGetProductReviews)
	router.Post("/products/:id/reviews", h.HandleSubmitReview)
}

// RegisterAdminRoutes registers the moderation routes.
func (h *ReviewHandler) RegisterAdminRoutes(router fiber.Router) {
	reviewRoutes := router.Group("/reviews")
	reviewRoutes.Get("/", h.HandleGetAllReviews)
	reviewRoutes.Patch("/:id/approve", h.HandleApproveReview)
	reviewRoutes.Delete("/:id", h.HandleDeleteReview)
}

// HandleGetProductReviews lists the approved reviews for a product.
func (h *ReviewHandler) HandleGetProductReviews(c *fiber.Ctx) error {
	reviews, err := h.service.GetProductReviews(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve reviews",
			"error":   err.Error(),
		})
	}
	return c.JSON(reviews)
}

// SubmitReviewRequest is the request body for a product review.
type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// HandleSubmitReview creates a review pending moderation.
func (h *ReviewHandler) HandleSubmitReview(c *fiber.Ctx) error {
	var req SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	review := models.Review{
		ProductID: c.Params("id"),
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.service.SubmitReview(&review); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", review.ProductID),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not submit review",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleGetAllReviews lists every review for moderation.
func (h *ReviewHandler) HandleGetAllReviews(c *fiber.Ctx) error {
	reviews, err := h.service.GetAllReviews()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve reviews",
			"error":   err.Error(),
		})
	}
	return c.JSON(reviews)
}

// HandleApproveReview publishes or unpublishes a review.
func (h *ReviewHandler) HandleApproveReview(c *fiber.Ctx) error {
	var req struct {
		Approved bool `json:"approved"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	reviewID := c.Params("id")
	if err := h.service.SetApproved(reviewID, req.Approved); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Review with ID %s not found", reviewID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update review",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Review %s updated successfully", reviewID),
	})
}

// HandleDeleteReview removes a review.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	reviewID := c.Params("id")
	if err := h.service.DeleteReview(reviewID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Review with ID %s not found", reviewID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete review",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Review %s deleted successfully", reviewID),
	})
}
