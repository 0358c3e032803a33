package handlers

import (
	"errors"
	"sync"

	"deeskinstore/internal/middleware"
	"deeskinstore/internal/models"
	"deeskinstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler drives the checkout state machine over HTTP. It owns the
// per-session checkout state; the machine itself lives in the service and
// is handed the session explicitly on every call.
type CheckoutHandler struct {
	service *services.CheckoutService

	mu       sync.Mutex
	sessions map[string]*models.CheckoutSession
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service:  service,
		sessions: make(map[string]*models.CheckoutSession),
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Get("/", h.HandleGetState)
	checkoutRoutes.Post("/begin", h.HandleBegin)
	checkoutRoutes.Post("/shipping", h.HandleSubmitShipping)
	checkoutRoutes.Post("/back", h.HandleBack)
	checkoutRoutes.Post("/pay", h.HandleInitiatePayment)
	checkoutRoutes.Post("/confirm", h.HandleConfirmPayment)
	checkoutRoutes.Post("/cancel", h.HandleCancelPayment)
	checkoutRoutes.Delete("/", h.HandleAbandon)
}

// session returns the browsing session's checkout state, creating a fresh
// one at the cart step on first touch.
func (h *CheckoutHandler) session(c *fiber.Ctx) *models.CheckoutSession {
	sessionID := middleware.SessionID(c)

	h.mu.Lock()
	defer h.mu.Unlock()
	session, ok := h.sessions[sessionID]
	if !ok {
		session = h.service.NewSession(sessionID)
		h.sessions[sessionID] = session
	}
	return session
}

// drop discards the browsing session's checkout state. The cart is not
// touched; abandoning checkout never loses items.
func (h *CheckoutHandler) drop(c *fiber.Ctx) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, middleware.SessionID(c))
}

// HandleGetState returns the current step and collected data.
func (h *CheckoutHandler) HandleGetState(c *fiber.Ctx) error {
	session := h.session(c)
	return c.JSON(fiber.Map{
		"step":               session.Step,
		"shipping":           session.Shipping,
		"shipping_submitted": session.ShippingSubmitted,
		"pending_reference":  session.PendingReference,
	})
}

// HandleBegin moves the session from cart review to shipping collection.
func (h *CheckoutHandler) HandleBegin(c *fiber.Ctx) error {
	session := h.session(c)
	if err := h.service.Begin(c.Context(), session); err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Cannot check out an empty cart.",
			})
		}
		return h.transitionError(c, err)
	}
	return c.JSON(fiber.Map{"step": session.Step})
}

// HandleSubmitShipping validates the shipping details and advances to the
// payment step, or reports one error per invalid field.
func (h *CheckoutHandler) HandleSubmitShipping(c *fiber.Ctx) error {
	var details models.ShippingDetails
	if err := c.BodyParser(&details); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	session := h.session(c)
	if err := h.service.SubmitShipping(session, details); err != nil {
		var fieldErrs services.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  fieldErrs,
			})
		}
		return h.transitionError(c, err)
	}
	return c.JSON(fiber.Map{"step": session.Step})
}

// HandleBack navigates one step backwards without losing entered data.
func (h *CheckoutHandler) HandleBack(c *fiber.Ctx) error {
	session := h.session(c)
	if err := h.service.Back(session); err != nil {
		return h.transitionError(c, err)
	}
	return c.JSON(fiber.Map{"step": session.Step})
}

// HandleInitiatePayment opens a payment attempt with the gateway and
// returns the hosted payment page.
func (h *CheckoutHandler) HandleInitiatePayment(c *fiber.Ctx) error {
	session := h.session(c)
	auth, err := h.service.InitiatePayment(c.Context(), session)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Cannot pay for an empty cart.",
			})
		}
		if errors.Is(err, services.ErrInvalidTransition) {
			return h.transitionError(c, err)
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not start payment",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"authorization_url": auth.AuthorizationURL,
		"access_code":       auth.AccessCode,
		"reference":         auth.Reference,
	})
}

// ConfirmPaymentRequest is the request body carrying the gateway's success
// callback reference.
type ConfirmPaymentRequest struct {
	Reference string `json:"reference"`
}

// HandleConfirmPayment verifies the payment and places the order. Failures
// surface the underlying error; the cart is only cleared when the order
// fully exists.
func (h *CheckoutHandler) HandleConfirmPayment(c *fiber.Ctx) error {
	var req ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "reference is required.",
		})
	}

	session := h.session(c)
	order, err := h.service.ConfirmPayment(c.Context(), session, req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoPendingPayment),
			errors.Is(err, services.ErrReferenceMismatch),
			errors.Is(err, services.ErrPaymentExpired),
			errors.Is(err, services.ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Could not confirm payment",
				"error":   err.Error(),
			})
		case errors.Is(err, services.ErrPaymentNotSuccessful):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"message": "Payment was not successful. Your cart is unchanged; you can try again.",
				"error":   err.Error(),
			})
		}
		// Persistence failure: the cart was deliberately not cleared so
		// the customer keeps their items and can retry.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Your payment went through but the order could not be saved. Please retry.",
			"error":   err.Error(),
		})
	}

	// The flow is complete; the session leaves checkout entirely.
	h.drop(c)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// HandleCancelPayment handles the gateway's close/cancel outcome: no order
// is created and the cart stays intact for a retry.
func (h *CheckoutHandler) HandleCancelPayment(c *fiber.Ctx) error {
	session := h.session(c)
	if err := h.service.CancelPayment(c.Context(), session); err != nil {
		if errors.Is(err, services.ErrNoPendingPayment) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "No payment in progress",
			})
		}
		return h.transitionError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Payment cancelled. Your cart is unchanged.",
		"step":    session.Step,
	})
}

// HandleAbandon discards all in-progress checkout state but preserves the
// cart.
func (h *CheckoutHandler) HandleAbandon(c *fiber.Ctx) error {
	h.drop(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CheckoutHandler) transitionError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"message": "Invalid checkout step for this action",
		"error":   err.Error(),
	})
}
