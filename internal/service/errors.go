package service

import "errors"

var (
	// ErrRegistrationNotFound is returned when no registration matches the given id or token
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrAlreadyCheckedIn is returned when checking in a token that is already used
	ErrAlreadyCheckedIn = errors.New("already checked in")

	// ErrNotCheckedIn is returned when undoing a check-in on a token that is still active
	ErrNotCheckedIn = errors.New("not checked in")

	// ErrOrganizationNotFound is returned when an organization cannot be found
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrQRCodeSetNotFound is returned when a QR code set cannot be found
	ErrQRCodeSetNotFound = errors.New("qr code set not found")

	// ErrCouponExists is returned when attempting to create a coupon whose code is taken
	ErrCouponExists = errors.New("coupon already exists")

	// ErrCouponNotFound is returned when a coupon code cannot be found
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponInactive is returned when a coupon has been deactivated
	ErrCouponInactive = errors.New("coupon is inactive")

	// ErrCouponExpired is returned when a coupon's expiry timestamp has passed
	ErrCouponExpired = errors.New("coupon has expired")

	// ErrPlanNotEligible is returned when a coupon does not apply to the target plan
	ErrPlanNotEligible = errors.New("coupon not applicable to this plan")

	// ErrLimitReached is returned when a coupon's use counter has hit its maximum
	ErrLimitReached = errors.New("coupon usage limit reached")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")
)
