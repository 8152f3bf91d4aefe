package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rvegajr/blessbox/internal/model"
)

// OrganizationRepositoryInterface defines the interface for organization and
// QR code set data access.
type OrganizationRepositoryInterface interface {
	InsertOrganization(ctx context.Context, org *model.Organization) error
	GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	InsertQRCodeSet(ctx context.Context, set *model.QRCodeSet) error
	GetQRCodeSet(ctx context.Context, id uuid.UUID) (*model.QRCodeSet, error)
}

// OrganizationService provides business logic for tenant administration.
type OrganizationService struct {
	orgRepo OrganizationRepositoryInterface
}

// NewOrganizationService creates a new OrganizationService with the given repository.
func NewOrganizationService(orgRepo OrganizationRepositoryInterface) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo}
}

// CreateOrganization creates a new tenant.
func (s *OrganizationService) CreateOrganization(ctx context.Context, req *model.CreateOrganizationRequest) (*model.Organization, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	org := &model.Organization{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.orgRepo.InsertOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("insert organization: %w", err)
	}
	return org, nil
}

// CreateQRCodeSet creates a QR code set under an organization.
// Returns ErrOrganizationNotFound if the owning organization doesn't exist.
func (s *OrganizationService) CreateQRCodeSet(ctx context.Context, req *model.CreateQRCodeSetRequest) (*model.QRCodeSet, error) {
	if req == nil || len(req.EntryPoints) == 0 {
		return nil, ErrInvalidRequest
	}

	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		return nil, ErrInvalidRequest
	}

	org, err := s.orgRepo.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	if org == nil {
		return nil, ErrOrganizationNotFound
	}

	set := &model.QRCodeSet{
		ID:             uuid.New(),
		OrganizationID: orgID,
		EventName:      req.EventName,
		EntryPoints:    req.EntryPoints,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.orgRepo.InsertQRCodeSet(ctx, set); err != nil {
		return nil, fmt.Errorf("insert qr code set: %w", err)
	}
	return set, nil
}
