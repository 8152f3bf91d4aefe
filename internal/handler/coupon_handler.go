package handler

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rvegajr/blessbox/internal/model"
	"github.com/rvegajr/blessbox/internal/service"
)

// CouponServiceInterface defines the interface for coupon business logic.
type CouponServiceInterface interface {
	Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	Validate(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error)
	Redeem(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error)
}

// CouponHandler handles HTTP requests for coupon operations.
type CouponHandler struct {
	service   CouponServiceInterface
	validator *validator.Validate
}

// NewCouponHandler creates a new CouponHandler with the given service and validator.
func NewCouponHandler(svc CouponServiceInterface, v *validator.Validate) *CouponHandler {
	return &CouponHandler{service: svc, validator: v}
}

// CreateCoupon handles POST /api/coupons requests to create a new coupon.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req model.CreateCouponRequest

	// Parse JSON body
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	coupon, err := h.service.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCouponExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "coupon already exists"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("coupon_code", req.Code).Msg("failed to create coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// GetCoupon handles GET /api/coupons/:code requests to retrieve coupon details.
func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request: code is required",
		})
	}

	coupon, err := h.service.GetByCode(c.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		}
		log.Error().Err(err).Str("coupon_code", code).Msg("failed to get coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(coupon)
}

// ValidateCoupon handles POST /api/coupons/validate during checkout. Rule
// failures are not hard errors: they come back 200 with valid=false so the
// checkout form can surface them inline next to the coupon field.
func (h *CouponHandler) ValidateCoupon(c *fiber.Ctx) error {
	var req model.QuoteCouponRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	discount, err := h.service.Validate(c.Context(), req.Code, req.PlanType, *req.Amount, time.Now().UTC())
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"valid": false,
				"error": "coupon not found",
			})
		}
		if msg, ok := couponRuleError(err); ok {
			return c.JSON(fiber.Map{"valid": false, "error": msg})
		}
		log.Error().Err(err).Str("coupon_code", req.Code).Msg("failed to validate coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(model.CouponQuote{Valid: true, DiscountAmount: discount})
}

// RedeemCoupon handles POST /api/coupons/redeem, invoked on payment
// confirmation only. Abandoned carts never reach this path, so validation
// alone never consumes a use.
func (h *CouponHandler) RedeemCoupon(c *fiber.Ctx) error {
	var req model.QuoteCouponRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	discount, err := h.service.Redeem(c.Context(), req.Code, req.PlanType, *req.Amount, time.Now().UTC())
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		}
		if msg, ok := couponRuleError(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("coupon_code", req.Code).
			Str("plan_type", req.PlanType).
			Msg("failed to redeem coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("coupon_code", req.Code).
		Str("plan_type", req.PlanType).
		Int64("discount_amount", discount).
		Msg("coupon redeemed")

	return c.JSON(model.CouponQuote{Valid: true, DiscountAmount: discount})
}

// couponRuleError maps redeemability-rule sentinels to their API messages.
func couponRuleError(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrCouponInactive):
		return "coupon is inactive", true
	case errors.Is(err, service.ErrCouponExpired):
		return "coupon has expired", true
	case errors.Is(err, service.ErrPlanNotEligible):
		return "coupon not applicable to this plan", true
	case errors.Is(err, service.ErrLimitReached):
		return "coupon usage limit reached", true
	}
	return "", false
}
