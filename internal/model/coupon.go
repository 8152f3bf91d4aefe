package model

import "time"

// Coupon discount types.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon is a discount code scoped to an organization's subscription plans.
// DiscountValue is integer cents for fixed coupons, and a percentage with at
// most one decimal place for percentage coupons. CurrentUses never exceeds
// MaxUses when MaxUses is set; the redeem path's conditional increment
// enforces this.
type Coupon struct {
	Code            string     `json:"code"`
	DiscountType    string     `json:"discount_type"`
	DiscountValue   float64    `json:"discount_value"`
	Currency        string     `json:"currency"`
	MaxDiscount     *int64     `json:"max_discount,omitempty"` // cents, percentage type only
	MaxUses         *int       `json:"max_uses,omitempty"`
	CurrentUses     int        `json:"current_uses"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	ApplicablePlans []string   `json:"applicable_plans,omitempty"` // empty = all plans
	Active          bool       `json:"active"`
	CreatedAt       time.Time  `json:"-"` // Not exposed in API
}

// CreateCouponRequest is the DTO for creating a coupon.
type CreateCouponRequest struct {
	Code            string     `json:"code" validate:"required,notblank,max=64"`
	DiscountType    string     `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue   *float64   `json:"discount_value" validate:"required,gt=0"`
	Currency        string     `json:"currency" validate:"omitempty,len=3,alpha"`
	MaxDiscount     *int64     `json:"max_discount" validate:"omitempty,gte=1"`
	MaxUses         *int       `json:"max_uses" validate:"omitempty,gte=1"`
	ExpiresAt       *time.Time `json:"expires_at"`
	ApplicablePlans []string   `json:"applicable_plans" validate:"omitempty,dive,notblank"`
}

// QuoteCouponRequest is the DTO for both validate and redeem calls made
// during checkout. Amount is the order subtotal in cents.
type QuoteCouponRequest struct {
	Code     string `json:"code" validate:"required,notblank,max=64"`
	PlanType string `json:"plan_type" validate:"required,notblank,max=64"`
	Amount   *int64 `json:"amount" validate:"required,gte=0"`
}

// CouponQuote is the response for validate/redeem: the discount in cents
// that applies to the submitted subtotal.
type CouponQuote struct {
	Valid          bool   `json:"valid"`
	DiscountAmount int64  `json:"discount_amount"`
	Currency       string `json:"currency,omitempty"`
}
