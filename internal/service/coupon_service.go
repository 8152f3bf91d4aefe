package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rvegajr/blessbox/internal/model"
)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	IncrementUses(ctx context.Context, code string) (bool, error)
}

// CouponService provides business logic for the coupon redemption ledger.
// Validate is read-only; only Redeem moves the use counter, and it does so
// through the repository's conditional increment so two concurrent redeems
// of a nearly-exhausted coupon cannot both succeed.
type CouponService struct {
	couponRepo CouponRepositoryInterface
}

// NewCouponService creates a new CouponService with the given repository.
func NewCouponService(couponRepo CouponRepositoryInterface) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// NormalizeCode canonicalizes a coupon code the way it is stored: trimmed
// and uppercased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create creates a new coupon from the request. The code is normalized
// before storage.
// Returns ErrCouponExists if the normalized code is already taken.
// Returns ErrInvalidRequest if request data is nil or inconsistent.
func (s *CouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	// Defense-in-depth: check for nil pointer even though handler validates
	if req == nil || req.DiscountValue == nil {
		return nil, ErrInvalidRequest
	}

	value := *req.DiscountValue
	switch req.DiscountType {
	case model.DiscountTypePercentage:
		if value > 100 {
			return nil, ErrInvalidRequest
		}
		// At most one decimal place of percentage precision is kept.
		value = math.Round(value*10) / 10
	case model.DiscountTypeFixed:
		// Fixed discounts are whole cents.
		if value != math.Trunc(value) {
			return nil, ErrInvalidRequest
		}
		if req.MaxDiscount != nil {
			return nil, ErrInvalidRequest
		}
	default:
		return nil, ErrInvalidRequest
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	coupon := &model.Coupon{
		Code:            NormalizeCode(req.Code),
		DiscountType:    req.DiscountType,
		DiscountValue:   value,
		Currency:        currency,
		MaxDiscount:     req.MaxDiscount,
		MaxUses:         req.MaxUses,
		CurrentUses:     0,
		ExpiresAt:       req.ExpiresAt,
		ApplicablePlans: req.ApplicablePlans,
		Active:          true,
	}
	if err := s.couponRepo.Insert(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// GetByCode retrieves a coupon by code.
// Returns ErrCouponNotFound if the coupon doesn't exist.
func (s *CouponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Validate checks a coupon against the order context and returns the
// discount in cents that would apply. It never mutates the use counter.
// Rule failures are reported in a fixed order:
//   - ErrCouponNotFound, then ErrCouponInactive, ErrCouponExpired,
//     ErrPlanNotEligible, ErrLimitReached
func (s *CouponService) Validate(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		return 0, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return 0, ErrCouponNotFound
	}
	return evaluate(coupon, planType, subtotal, now)
}

// Redeem re-validates the coupon and then consumes one use. The conditional
// increment is the guard: if the counter reached max_uses between the
// validate read and the update, zero rows are affected and the redeem fails
// with ErrLimitReached instead of over-redeeming.
// Called on payment confirmation only, never on mere validation.
func (s *CouponService) Redeem(ctx context.Context, code, planType string, subtotal int64, now time.Time) (int64, error) {
	discount, err := s.Validate(ctx, code, planType, subtotal, now)
	if err != nil {
		return 0, err
	}

	applied, err := s.couponRepo.IncrementUses(ctx, NormalizeCode(code))
	if err != nil {
		return 0, fmt.Errorf("increment uses: %w", err)
	}
	if !applied {
		return 0, ErrLimitReached
	}
	return discount, nil
}

// evaluate applies the redeemability rules and computes the discount. Pure
// over the coupon record and order context.
func evaluate(coupon *model.Coupon, planType string, subtotal int64, now time.Time) (int64, error) {
	if !coupon.Active {
		return 0, ErrCouponInactive
	}
	if coupon.ExpiresAt != nil && !coupon.ExpiresAt.After(now) {
		return 0, ErrCouponExpired
	}
	if len(coupon.ApplicablePlans) > 0 {
		eligible := false
		for _, plan := range coupon.ApplicablePlans {
			if plan == planType {
				eligible = true
				break
			}
		}
		if !eligible {
			return 0, ErrPlanNotEligible
		}
	}
	if coupon.MaxUses != nil && coupon.CurrentUses >= *coupon.MaxUses {
		return 0, ErrLimitReached
	}
	return discountFor(coupon, subtotal), nil
}

// discountFor computes the discount in cents. Percentage discounts are
// applied in integer arithmetic (tenths of a percent against cents) and
// round down; the result is clamped so the discounted total is never
// negative.
func discountFor(coupon *model.Coupon, subtotal int64) int64 {
	var discount int64
	switch coupon.DiscountType {
	case model.DiscountTypePercentage:
		tenths := int64(math.Round(coupon.DiscountValue * 10))
		discount = subtotal * tenths / 1000
		if coupon.MaxDiscount != nil && discount > *coupon.MaxDiscount {
			discount = *coupon.MaxDiscount
		}
	default:
		discount = int64(coupon.DiscountValue)
	}

	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
