package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/rvegajr/blessbox/internal/model"
	"github.com/rvegajr/blessbox/internal/service"
	"github.com/rvegajr/blessbox/internal/validator"
)

// mockCouponService is a mock implementation of CouponServiceInterface.
type mockCouponService struct {
	createFn    func(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	getByCodeFn func(ctx context.Context, code string) (*model.Coupon, error)
	validateFn  func(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error)
	redeemFn    func(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error)
}

func (m *mockCouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil, nil
}

func (m *mockCouponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockCouponService) Validate(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, code, planType, subtotal, now)
	}
	return 0, nil
}

func (m *mockCouponService) Redeem(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error) {
	if m.redeemFn != nil {
		return m.redeemFn(ctx, code, planType, subtotal, now)
	}
	return 0, nil
}

func setupCouponApp(mockSvc *mockCouponService) *fiber.App {
	app := fiber.New()
	h := NewCouponHandler(mockSvc, validator.New())
	app.Post("/api/coupons", h.CreateCoupon)
	app.Get("/api/coupons/:code", h.GetCoupon)
	app.Post("/api/coupons/validate", h.ValidateCoupon)
	app.Post("/api/coupons/redeem", h.RedeemCoupon)
	return app
}

func TestCreateCoupon_Success(t *testing.T) {
	mockSvc := &mockCouponService{
		createFn: func(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
			return &model.Coupon{Code: "SAVE20", DiscountType: model.DiscountTypeFixed, DiscountValue: 2000, Currency: "USD", Active: true}, nil
		},
	}
	app := setupCouponApp(mockSvc)

	resp := postJSON(t, app, "/api/coupons", `{"code": "save20", "discount_type": "fixed", "discount_value": 2000}`)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	result := decodeBody(t, resp)
	assert.Equal(t, "SAVE20", result["code"])
	assert.Equal(t, true, result["active"])
}

func TestCreateCoupon_Duplicate(t *testing.T) {
	mockSvc := &mockCouponService{
		createFn: func(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
			return nil, service.ErrCouponExists
		},
	}
	app := setupCouponApp(mockSvc)

	resp := postJSON(t, app, "/api/coupons", `{"code": "save20", "discount_type": "fixed", "discount_value": 2000}`)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	result := decodeBody(t, resp)
	assert.Equal(t, "coupon already exists", result["error"])
}

func TestCreateCoupon_MissingCode(t *testing.T) {
	app := setupCouponApp(&mockCouponService{})

	resp := postJSON(t, app, "/api/coupons", `{"discount_type": "fixed", "discount_value": 2000}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	result := decodeBody(t, resp)
	assert.Equal(t, "invalid request: code is required", result["error"])
}

func TestCreateCoupon_BadDiscountType(t *testing.T) {
	app := setupCouponApp(&mockCouponService{})

	resp := postJSON(t, app, "/api/coupons", `{"code": "X", "discount_type": "bogus", "discount_value": 10}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	result := decodeBody(t, resp)
	assert.Equal(t, "invalid request: discount_type has an unsupported value", result["error"])
}

func TestGetCoupon_NotFound(t *testing.T) {
	mockSvc := &mockCouponService{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return nil, service.ErrCouponNotFound
		},
	}
	app := setupCouponApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/coupons/MISSING", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestValidateCoupon_Success(t *testing.T) {
	mockSvc := &mockCouponService{
		validateFn: func(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error) {
			assert.Equal(t, "SAVE20", code)
			assert.Equal(t, "starter", planType)
			assert.Equal(t, int64(1900), subtotal)
			return 1900, nil
		},
	}
	app := setupCouponApp(mockSvc)

	resp := postJSON(t, app, "/api/coupons/validate", `{"code": "SAVE20", "plan_type": "starter", "amount": 1900}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeBody(t, resp)
	assert.Equal(t, true, result["valid"])
	assert.Equal(t, float64(1900), result["discount_amount"])
}

func TestValidateCoupon_RuleFailureIsInlineNotError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		message string
	}{
		{"inactive", service.ErrCouponInactive, "coupon is inactive"},
		{"expired", service.ErrCouponExpired, "coupon has expired"},
		{"plan not eligible", service.ErrPlanNotEligible, "coupon not applicable to this plan"},
		{"limit reached", service.ErrLimitReached, "coupon usage limit reached"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc := &mockCouponService{
				validateFn: func(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error) {
					return 0, tc.err
				},
			}
			app := setupCouponApp(mockSvc)

			resp := postJSON(t, app, "/api/coupons/validate", `{"code": "X", "plan_type": "starter", "amount": 1000}`)

			// Rule failures surface inline in the checkout form, not as
			// transport errors.
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			result := decodeBody(t, resp)
			assert.Equal(t, false, result["valid"])
			assert.Equal(t, tc.message, result["error"])
		})
	}
}

func TestValidateCoupon_NotFound(t *testing.T) {
	mockSvc := &mockCouponService{
		validateFn: func(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error) {
			return 0, service.ErrCouponNotFound
		},
	}
	app := setupCouponApp(mockSvc)

	resp := postJSON(t, app, "/api/coupons/validate", `{"code": "MISSING", "plan_type": "starter", "amount": 1000}`)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	result := decodeBody(t, resp)
	assert.Equal(t, false, result["valid"])
	assert.Equal(t, "coupon not found", result["error"])
}

func TestValidateCoupon_MissingAmount(t *testing.T) {
	app := setupCouponApp(&mockCouponService{})

	resp := postJSON(t, app, "/api/coupons/validate", `{"code": "SAVE20", "plan_type": "starter"}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	result := decodeBody(t, resp)
	assert.Equal(t, "invalid request: amount is required", result["error"])
}

func TestRedeemCoupon_Success(t *testing.T) {
	mockSvc := &mockCouponService{
		redeemFn: func(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error) {
			return 500, nil
		},
	}
	app := setupCouponApp(mockSvc)

	resp := postJSON(t, app, "/api/coupons/redeem", `{"code": "SAVE20", "plan_type": "starter", "amount": 5000}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeBody(t, resp)
	assert.Equal(t, true, result["valid"])
	assert.Equal(t, float64(500), result["discount_amount"])
}

func TestRedeemCoupon_LimitReached(t *testing.T) {
	mockSvc := &mockCouponService{
		redeemFn: func(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error) {
			return 0, service.ErrLimitReached
		},
	}
	app := setupCouponApp(mockSvc)

	resp := postJSON(t, app, "/api/coupons/redeem", `{"code": "MAXEDOUT", "plan_type": "starter", "amount": 1000}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	result := decodeBody(t, resp)
	assert.Equal(t, "coupon usage limit reached", result["error"])
}
