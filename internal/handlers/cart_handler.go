package handlers

import (
	"errors"

	"deeskinstore/internal/middleware"
	"deeskinstore/internal/repositories"
	"deeskinstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the session cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:productId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the session's cart with its price breakdown.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.Get(c.Context(), middleware.SessionID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"cart":   cart,
		"totals": h.service.Totals(cart),
	})
}

// AddItemRequest is the request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// HandleAddItem adds a product/size to the cart, merging quantities when
// the same pair is already present.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" || req.Size == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id and size are required.",
		})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.service.AddItem(c.Context(), middleware.SessionID(c), req.ProductID, req.Size, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
				"error":   err.Error(),
			})
		case errors.Is(err, services.ErrOutOfStock),
			errors.Is(err, services.ErrInvalidSize),
			errors.Is(err, services.ErrInvalidQuantity):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Could not add item to cart",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"cart":   cart,
		"totals": h.service.Totals(cart),
	})
}

// UpdateQuantityRequest is the request body for a quantity change.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateQuantity sets the quantity of the product's line items. Zero
// removes them.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Quantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Quantity cannot be negative.",
		})
	}

	cart, err := h.service.UpdateQuantity(c.Context(), middleware.SessionID(c), c.Params("productId"), req.Quantity)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update quantity",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"cart":   cart,
		"totals": h.service.Totals(cart),
	})
}

// HandleRemoveItem deletes the product's line items outright.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(c.Context(), middleware.SessionID(c), c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"cart":   cart,
		"totals": h.service.Totals(cart),
	})
}

// HandleClearCart empties the session's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.Clear(c.Context(), middleware.SessionID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
