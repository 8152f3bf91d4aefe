package model

import (
	"time"

	"github.com/google/uuid"
)

// Token status values for a registration's check-in credential.
// The credential is a two-state machine: active → used on check-in,
// used → active on undo. There is no terminal state.
const (
	TokenStatusActive = "active"
	TokenStatusUsed   = "used"
)

// Delivery status values for a registration's confirmation email.
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusCancelled = "cancelled"
)

// Registration is a single attendee submission collected through a QR entry
// point. CheckedInAt is set iff TokenStatus is "used"; CheckedInBy is set
// only alongside CheckedInAt.
type Registration struct {
	ID             uuid.UUID         `json:"id"`
	QRCodeSetID    uuid.UUID         `json:"qr_code_set_id"`
	EntryPointID   string            `json:"entry_point_id"`
	FormData       map[string]string `json:"form_data"`
	RegisteredAt   time.Time         `json:"registered_at"`
	DeliveryStatus string            `json:"delivery_status"`
	CheckinToken   string            `json:"checkin_token"`
	TokenStatus    string            `json:"token_status"`
	CheckedInAt    *time.Time        `json:"checked_in_at,omitempty"`
	CheckedInBy    *string           `json:"checked_in_by,omitempty"`
}

// CheckinDetails is the lookup response shown on the scan screen. It is
// returned for used tokens too, so staff can see who already checked in.
type CheckinDetails struct {
	Registration     *Registration `json:"registration"`
	OrganizationName string        `json:"organization_name"`
	EventName        string        `json:"event_name"`
}

// CreateRegistrationRequest is the DTO for the public form submission.
type CreateRegistrationRequest struct {
	QRCodeSetID  string            `json:"qr_code_set_id" validate:"required,uuid4"`
	EntryPointID string            `json:"entry_point_id" validate:"required,notblank,max=255"`
	FormData     map[string]string `json:"form_data" validate:"required,min=1"`
}

// UpdateDeliveryRequest is the DTO for PATCH /api/registrations/:id/delivery.
type UpdateDeliveryRequest struct {
	Status string `json:"status" validate:"required,oneof=pending delivered cancelled"`
}

// CheckInRequest is the DTO for POST /api/check-in.
type CheckInRequest struct {
	Token     string `json:"token" validate:"required,notblank,max=255"`
	ActorName string `json:"actor_name" validate:"required,notblank,max=255"`
}

// UndoCheckInRequest is the DTO for POST /api/check-in/undo.
type UndoCheckInRequest struct {
	Token string `json:"token" validate:"required,notblank,max=255"`
}
