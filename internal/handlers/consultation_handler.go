package handlers

import (
	"fmt"

	"deeskinstore/internal/models"
	"deeskinstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ConsultationHandler handles consultation request routes.
type ConsultationHandler struct {
	service  *services.ConsultationService
	validate *validator.Validate
}

// NewConsultationHandler creates a new ConsultationHandler.
func NewConsultationHandler(service *services.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public consultation route with the Fiber app.
func (h *ConsultationHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/consultations", h.HandleSubmitRequest)
}

// RegisterAdminRoutes registers the back-office consultation listing.
func (h *ConsultationHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/consultations", h.HandleGetAllRequests)
}

// HandleSubmitRequest validates and stores a consultation request, then
// forwards it to the email worker.
func (h *ConsultationHandler) HandleSubmitRequest(c *fiber.Ctx) error {
	var request models.ConsultationRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(request); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.SubmitRequest(c.Context(), &request); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not submit consultation request",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Consultation request received",
		"request": request,
	})
}

// HandleGetAllRequests lists consultation requests for the back office.
func (h *ConsultationHandler) HandleGetAllRequests(c *fiber.Ctx) error {
	requests, err := h.service.GetAllRequests()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve consultation requests",
			"error":   err.Error(),
		})
	}
	return c.JSON(requests)
}
