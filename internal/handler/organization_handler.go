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

// OrganizationServiceInterface defines the interface for tenant administration logic.
type OrganizationServiceInterface interface {
	CreateOrganization(ctx context.Context, req *model.CreateOrganizationRequest) (*model.Organization, error)
	CreateQRCodeSet(ctx context.Context, req *model.CreateQRCodeSetRequest) (*model.QRCodeSet, error)
}

// OrganizationHandler handles HTTP requests for tenant administration.
type OrganizationHandler struct {
	service   OrganizationServiceInterface
	validator *validator.Validate
}

// NewOrganizationHandler creates a new OrganizationHandler with the given service and validator.
func NewOrganizationHandler(svc OrganizationServiceInterface, v *validator.Validate) *OrganizationHandler {
	return &OrganizationHandler{service: svc, validator: v}
}

// CreateOrganization handles POST /api/organizations requests.
func (h *OrganizationHandler) CreateOrganization(c *fiber.Ctx) error {
	var req model.CreateOrganizationRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	org, err := h.service.CreateOrganization(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("organization_name", req.Name).Msg("failed to create organization")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(org)
}

// CreateQRCodeSet handles POST /api/qr-code-sets requests.
func (h *OrganizationHandler) CreateQRCodeSet(c *fiber.Ctx) error {
	var req model.CreateQRCodeSetRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	set, err := h.service.CreateQRCodeSet(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrOrganizationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "organization not found"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("organization_id", req.OrganizationID).Msg("failed to create qr code set")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(set)
}
