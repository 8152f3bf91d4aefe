package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rvegajr/blessbox/internal/model"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RegistrationRepository provides data access for registrations using pgx.
type RegistrationRepository struct {
	pool PoolInterface
}

// NewRegistrationRepository creates a new RegistrationRepository with the given pool.
func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

// NewRegistrationRepositoryWithPool creates a new RegistrationRepository with a
// custom pool interface. This is primarily used for testing.
func NewRegistrationRepositoryWithPool(pool PoolInterface) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

const registrationColumns = `id, qr_code_set_id, entry_point_id, form_data, registered_at,
	delivery_status, checkin_token, token_status, checked_in_at, checked_in_by`

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(
		&reg.ID,
		&reg.QRCodeSetID,
		&reg.EntryPointID,
		&reg.FormData,
		&reg.RegisteredAt,
		&reg.DeliveryStatus,
		&reg.CheckinToken,
		&reg.TokenStatus,
		&reg.CheckedInAt,
		&reg.CheckedInBy,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Insert inserts a new registration into the database. The caller is
// responsible for populating the id, check-in token, and status fields.
func (r *RegistrationRepository) Insert(ctx context.Context, reg *model.Registration) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO registrations (id, qr_code_set_id, entry_point_id, form_data, registered_at,
			delivery_status, checkin_token, token_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		reg.ID, reg.QRCodeSetID, reg.EntryPointID, reg.FormData, reg.RegisteredAt,
		reg.DeliveryStatus, reg.CheckinToken, reg.TokenStatus)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// GetByToken retrieves a registration by its check-in token. Used tokens are
// returned as well; the service layer decides what a used token means.
// Returns nil, nil if no registration matches (service layer handles this).
func (r *RegistrationRepository) GetByToken(ctx context.Context, tok string) (*model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE checkin_token = $1`

	reg, err := scanRegistration(r.pool.QueryRow(ctx, query, tok))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get registration by token: %w", err)
	}
	return reg, nil
}

// GetCheckinDetails retrieves a registration by token together with the
// owning organization and event names, for the scan screen.
// Returns nil, nil if no registration matches.
func (r *RegistrationRepository) GetCheckinDetails(ctx context.Context, tok string) (*model.CheckinDetails, error) {
	query := `SELECT r.id, r.qr_code_set_id, r.entry_point_id, r.form_data, r.registered_at,
			r.delivery_status, r.checkin_token, r.token_status, r.checked_in_at, r.checked_in_by,
			o.name, q.event_name
		FROM registrations r
		JOIN qr_code_sets q ON q.id = r.qr_code_set_id
		JOIN organizations o ON o.id = q.organization_id
		WHERE r.checkin_token = $1`

	var reg model.Registration
	var details model.CheckinDetails
	err := r.pool.QueryRow(ctx, query, tok).Scan(
		&reg.ID,
		&reg.QRCodeSetID,
		&reg.EntryPointID,
		&reg.FormData,
		&reg.RegisteredAt,
		&reg.DeliveryStatus,
		&reg.CheckinToken,
		&reg.TokenStatus,
		&reg.CheckedInAt,
		&reg.CheckedInBy,
		&details.OrganizationName,
		&details.EventName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get checkin details: %w", err)
	}
	details.Registration = &reg
	return &details, nil
}

// CheckIn transitions a token from active to used, recording who checked the
// registrant in and when. The WHERE clause on token_status is the concurrency
// guard: of two simultaneous scans, exactly one update applies and the other
// sees zero rows affected. Returns whether the update applied.
func (r *RegistrationRepository) CheckIn(ctx context.Context, tok, actor string, at time.Time) (bool, error) {
	query := `UPDATE registrations
		SET token_status = $1, checked_in_at = $2, checked_in_by = $3
		WHERE checkin_token = $4 AND token_status = $5`

	tag, err := r.pool.Exec(ctx, query, model.TokenStatusUsed, at, actor, tok, model.TokenStatusActive)
	if err != nil {
		return false, fmt.Errorf("check in token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UndoCheckIn reverts a used token to active and clears the check-in
// timestamp and actor. Guarded by token_status = used so an undo on an
// active token applies nothing. Returns whether the update applied.
func (r *RegistrationRepository) UndoCheckIn(ctx context.Context, tok string) (bool, error) {
	query := `UPDATE registrations
		SET token_status = $1, checked_in_at = NULL, checked_in_by = NULL
		WHERE checkin_token = $2 AND token_status = $3`

	tag, err := r.pool.Exec(ctx, query, model.TokenStatusActive, tok, model.TokenStatusUsed)
	if err != nil {
		return false, fmt.Errorf("undo check in: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateDeliveryStatus sets the confirmation-delivery status of a
// registration. Returns whether a row matched the id.
func (r *RegistrationRepository) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE registrations SET delivery_status = $1 WHERE id = $2`,
		status, id)
	if err != nil {
		return false, fmt.Errorf("update delivery status for %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
