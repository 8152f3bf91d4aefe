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

// CheckinServiceInterface defines the interface for check-in business logic.
type CheckinServiceInterface interface {
	Lookup(ctx context.Context, tok string) (*model.CheckinDetails, error)
	CheckIn(ctx context.Context, tok, actor string) (*model.Registration, error)
	UndoCheckIn(ctx context.Context, tok string) (*model.Registration, error)
}

// CheckinHandler handles HTTP requests for the check-in flow.
type CheckinHandler struct {
	service   CheckinServiceInterface
	validator *validator.Validate
}

// NewCheckinHandler creates a new CheckinHandler with the given service and validator.
func NewCheckinHandler(svc CheckinServiceInterface, v *validator.Validate) *CheckinHandler {
	return &CheckinHandler{service: svc, validator: v}
}

// Lookup handles GET /api/check-in/:token requests from the scan screen.
func (h *CheckinHandler) Lookup(c *fiber.Ctx) error {
	tok := c.Params("token")
	if tok == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request: token is required",
		})
	}

	details, err := h.service.Lookup(c.Context(), tok)
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "registration not found",
			})
		}
		log.Error().Err(err).Msg("failed to look up checkin token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(details)
}

// CheckIn handles POST /api/check-in requests to consume a token.
func (h *CheckinHandler) CheckIn(c *fiber.Ctx) error {
	var req model.CheckInRequest

	// Parse JSON body
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	reg, err := h.service.CheckIn(c.Context(), req.Token, req.ActorName)
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "registration not found"})
		}
		if errors.Is(err, service.ErrAlreadyCheckedIn) {
			// Conflict, not failure: surface who holds the check-in.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":         "already checked in",
				"checked_in_at": reg.CheckedInAt,
				"checked_in_by": reg.CheckedInBy,
			})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("actor_name", req.ActorName).
			Msg("failed to check in")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("registration_id", reg.ID.String()).
		Str("actor_name", req.ActorName).
		Msg("registration checked in")

	return c.JSON(reg)
}

// UndoCheckIn handles POST /api/check-in/undo requests to revert a mis-scan.
func (h *CheckinHandler) UndoCheckIn(c *fiber.Ctx) error {
	var req model.UndoCheckInRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	reg, err := h.service.UndoCheckIn(c.Context(), req.Token)
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "registration not found"})
		}
		if errors.Is(err, service.ErrNotCheckedIn) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "not checked in"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Msg("failed to undo check in")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("registration_id", reg.ID.String()).
		Msg("check in undone")

	return c.JSON(reg)
}
