package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rvegajr/blessbox/internal/model"
	"github.com/rvegajr/blessbox/internal/service"
)

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom
// pool interface. This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// Insert inserts a new coupon. The code must already be normalized to
// uppercase by the service layer.
// Returns service.ErrCouponExists if a coupon with the same code exists.
func (r *CouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO coupons (code, discount_type, discount_value, currency, max_discount,
			max_uses, current_uses, expires_at, applicable_plans, active)
		 VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9)`,
		coupon.Code, coupon.DiscountType, coupon.DiscountValue, coupon.Currency, coupon.MaxDiscount,
		coupon.MaxUses, coupon.ExpiresAt, coupon.ApplicablePlans, coupon.Active)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCouponExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// GetByCode retrieves a coupon by its normalized code.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT code, discount_type, discount_value, currency, max_discount,
			max_uses, current_uses, expires_at, applicable_plans, active, created_at
		FROM coupons WHERE code = $1`

	var coupon model.Coupon
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&coupon.Code,
		&coupon.DiscountType,
		&coupon.DiscountValue,
		&coupon.Currency,
		&coupon.MaxDiscount,
		&coupon.MaxUses,
		&coupon.CurrentUses,
		&coupon.ExpiresAt,
		&coupon.ApplicablePlans,
		&coupon.Active,
		&coupon.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get coupon by code %s: %w", code, err)
	}
	return &coupon, nil
}

// IncrementUses bumps current_uses by one, but only while the use limit has
// not been reached. The conditional update is the atomic guard against
// over-redemption: under concurrent redeems of a max_uses=1 coupon exactly
// one caller observes an affected row. Returns whether the increment applied.
func (r *CouponRepository) IncrementUses(ctx context.Context, code string) (bool, error) {
	query := `UPDATE coupons
		SET current_uses = current_uses + 1
		WHERE code = $1 AND (max_uses IS NULL OR current_uses < max_uses)`

	tag, err := r.pool.Exec(ctx, query, code)
	if err != nil {
		return false, fmt.Errorf("increment uses for %s: %w", code, err)
	}
	return tag.RowsAffected() > 0, nil
}
