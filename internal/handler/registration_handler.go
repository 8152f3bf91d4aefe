package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rvegajr/blessbox/internal/model"
	"github.com/rvegajr/blessbox/internal/service"
)

// RegistrationServiceInterface defines the interface for registration intake logic.
type RegistrationServiceInterface interface {
	Create(ctx context.Context, req *model.CreateRegistrationRequest) (*model.Registration, error)
	UpdateDeliveryStatus(ctx context.Context, id, status string) error
}

// RegistrationHandler handles HTTP requests for registration intake.
type RegistrationHandler struct {
	service   RegistrationServiceInterface
	validator *validator.Validate
}

// NewRegistrationHandler creates a new RegistrationHandler with the given service and validator.
func NewRegistrationHandler(svc RegistrationServiceInterface, v *validator.Validate) *RegistrationHandler {
	return &RegistrationHandler{service: svc, validator: v}
}

// CreateRegistration handles POST /api/registrations: the public form
// submission. The response includes the freshly issued check-in token, which
// downstream rendering embeds in the attendee's QR code.
func (h *RegistrationHandler) CreateRegistration(c *fiber.Ctx) error {
	var req model.CreateRegistrationRequest

	// Parse JSON body
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	reg, err := h.service.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrQRCodeSetNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "qr code set not found"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("qr_code_set_id", req.QRCodeSetID).
			Msg("failed to create registration")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("registration_id", reg.ID.String()).
		Str("entry_point_id", reg.EntryPointID).
		Msg("registration created")

	return c.Status(fiber.StatusCreated).JSON(reg)
}

// UpdateDelivery handles PATCH /api/registrations/:id/delivery requests from
// the delivery pipeline.
func (h *RegistrationHandler) UpdateDelivery(c *fiber.Ctx) error {
	id := c.Params("id")

	var req model.UpdateDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.service.UpdateDeliveryStatus(c.Context(), id, req.Status); err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "registration not found"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("registration_id", id).Msg("failed to update delivery status")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{"id": id, "delivery_status": req.Status})
}
