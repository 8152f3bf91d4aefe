package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rvegajr/blessbox/internal/model"
)

// OrganizationRepository provides data access for organizations and their
// QR code sets using pgx.
type OrganizationRepository struct {
	pool PoolInterface
}

// NewOrganizationRepository creates a new OrganizationRepository with the given pool.
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

// NewOrganizationRepositoryWithPool creates a new OrganizationRepository with
// a custom pool interface. This is primarily used for testing.
func NewOrganizationRepositoryWithPool(pool PoolInterface) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

// InsertOrganization inserts a new organization.
func (r *OrganizationRepository) InsertOrganization(ctx context.Context, org *model.Organization) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO organizations (id, name, created_at) VALUES ($1, $2, $3)`,
		org.ID, org.Name, org.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetOrganization retrieves an organization by id.
// Returns nil, nil if not found.
func (r *OrganizationRepository) GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM organizations WHERE id = $1`, id).Scan(
		&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization %s: %w", id, err)
	}
	return &org, nil
}

// InsertQRCodeSet inserts a new QR code set for an organization.
func (r *OrganizationRepository) InsertQRCodeSet(ctx context.Context, set *model.QRCodeSet) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO qr_code_sets (id, organization_id, event_name, entry_points, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		set.ID, set.OrganizationID, set.EventName, set.EntryPoints, set.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert qr code set: %w", err)
	}
	return nil
}

// GetQRCodeSet retrieves a QR code set by id.
// Returns nil, nil if not found.
func (r *OrganizationRepository) GetQRCodeSet(ctx context.Context, id uuid.UUID) (*model.QRCodeSet, error) {
	var set model.QRCodeSet
	err := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, event_name, entry_points, created_at
		 FROM qr_code_sets WHERE id = $1`, id).Scan(
		&set.ID, &set.OrganizationID, &set.EventName, &set.EntryPoints, &set.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get qr code set %s: %w", id, err)
	}
	return &set, nil
}
