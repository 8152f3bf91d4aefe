package model

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a tenant. Every QR code set, and transitively every
// registration and coupon, belongs to exactly one organization.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// QRCodeSet groups the QR entry points generated for a single event.
// Rendering the QR images themselves is handled elsewhere; this service
// only tracks the set and its entry point labels.
type QRCodeSet struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	EventName      string    `json:"event_name"`
	EntryPoints    []string  `json:"entry_points"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateOrganizationRequest is the DTO for creating an organization.
type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

// CreateQRCodeSetRequest is the DTO for creating a QR code set.
type CreateQRCodeSetRequest struct {
	OrganizationID string   `json:"organization_id" validate:"required,uuid4"`
	EventName      string   `json:"event_name" validate:"required,notblank,max=255"`
	EntryPoints    []string `json:"entry_points" validate:"required,min=1,dive,notblank,max=255"`
}
