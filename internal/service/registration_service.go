package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rvegajr/blessbox/internal/model"
	"github.com/rvegajr/blessbox/internal/token"
)

// RegistrationRepositoryInterface defines the interface for registration data access.
type RegistrationRepositoryInterface interface {
	Insert(ctx context.Context, reg *model.Registration) error
	GetByToken(ctx context.Context, tok string) (*model.Registration, error)
	GetCheckinDetails(ctx context.Context, tok string) (*model.CheckinDetails, error)
	CheckIn(ctx context.Context, tok, actor string, at time.Time) (bool, error)
	UndoCheckIn(ctx context.Context, tok string) (bool, error)
	UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)
}

// RegistrationService provides business logic for registration intake.
type RegistrationService struct {
	regRepo RegistrationRepositoryInterface
	orgRepo OrganizationRepositoryInterface
}

// NewRegistrationService creates a new RegistrationService with the given repositories.
func NewRegistrationService(regRepo RegistrationRepositoryInterface, orgRepo OrganizationRepositoryInterface) *RegistrationService {
	return &RegistrationService{regRepo: regRepo, orgRepo: orgRepo}
}

// Create records a public form submission and issues its one-time check-in
// token. Token issuance happens exactly once, here; check-in and undo only
// ever flip the token's status.
// Returns ErrQRCodeSetNotFound if the submission targets an unknown set.
// Returns ErrInvalidRequest if request data is nil or incomplete.
func (s *RegistrationService) Create(ctx context.Context, req *model.CreateRegistrationRequest) (*model.Registration, error) {
	// Defense-in-depth: check for nil pointer even though handler validates
	if req == nil || len(req.FormData) == 0 {
		return nil, ErrInvalidRequest
	}

	setID, err := uuid.Parse(req.QRCodeSetID)
	if err != nil {
		return nil, ErrInvalidRequest
	}

	set, err := s.orgRepo.GetQRCodeSet(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("get qr code set: %w", err)
	}
	if set == nil {
		return nil, ErrQRCodeSetNotFound
	}

	tok, err := token.New()
	if err != nil {
		return nil, fmt.Errorf("issue checkin token: %w", err)
	}

	reg := &model.Registration{
		ID:             uuid.New(),
		QRCodeSetID:    setID,
		EntryPointID:   req.EntryPointID,
		FormData:       req.FormData,
		RegisteredAt:   time.Now().UTC(),
		DeliveryStatus: model.DeliveryStatusPending,
		CheckinToken:   tok,
		TokenStatus:    model.TokenStatusActive,
	}
	if err := s.regRepo.Insert(ctx, reg); err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	return reg, nil
}

// UpdateDeliveryStatus records the outcome of the confirmation delivery for
// a registration.
// Returns ErrRegistrationNotFound if the id is unknown.
func (s *RegistrationService) UpdateDeliveryStatus(ctx context.Context, id, status string) error {
	regID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidRequest
	}

	switch status {
	case model.DeliveryStatusPending, model.DeliveryStatusDelivered, model.DeliveryStatusCancelled:
	default:
		return ErrInvalidRequest
	}

	matched, err := s.regRepo.UpdateDeliveryStatus(ctx, regID, status)
	if err != nil {
		return fmt.Errorf("update delivery status: %w", err)
	}
	if !matched {
		return ErrRegistrationNotFound
	}
	return nil
}
