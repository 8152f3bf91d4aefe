package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rvegajr/blessbox/internal/model"
)

// CheckinService drives the check-in token state machine: active → used on
// check-in, used → active on undo. Both transitions are single conditional
// updates in the repository, so concurrent scans of the same token are
// resolved by the database, not by this service.
type CheckinService struct {
	regRepo RegistrationRepositoryInterface
}

// NewCheckinService creates a new CheckinService with the given repository.
func NewCheckinService(regRepo RegistrationRepositoryInterface) *CheckinService {
	return &CheckinService{regRepo: regRepo}
}

// Lookup resolves a check-in token to its registration plus the owning
// organization and event names. Used tokens resolve too, so the scan screen
// can show who already checked in.
// Returns ErrRegistrationNotFound if no registration matches.
func (s *CheckinService) Lookup(ctx context.Context, tok string) (*model.CheckinDetails, error) {
	details, err := s.regRepo.GetCheckinDetails(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	if details == nil {
		return nil, ErrRegistrationNotFound
	}
	return details, nil
}

// CheckIn marks the registration behind the token as checked in by actor.
// Returns:
//   - ErrRegistrationNotFound if the token resolves to nothing
//   - ErrAlreadyCheckedIn if the token is already used; the returned
//     registration then carries the prior actor and timestamp untouched,
//     so callers can show "already checked in by X at T"
func (s *CheckinService) CheckIn(ctx context.Context, tok, actor string) (*model.Registration, error) {
	applied, err := s.regRepo.CheckIn(ctx, tok, actor, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("check in: %w", err)
	}

	reg, err := s.regRepo.GetByToken(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if reg == nil {
		return nil, ErrRegistrationNotFound
	}
	if !applied {
		// The conditional update lost: someone else holds the check-in.
		return reg, ErrAlreadyCheckedIn
	}
	return reg, nil
}

// UndoCheckIn reverts a mis-scan: the token returns to active and the
// recorded actor and timestamp are cleared. The token stays valid for any
// number of further check-in/undo cycles.
// Returns:
//   - ErrRegistrationNotFound if the token resolves to nothing
//   - ErrNotCheckedIn if the token is still active
func (s *CheckinService) UndoCheckIn(ctx context.Context, tok string) (*model.Registration, error) {
	applied, err := s.regRepo.UndoCheckIn(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("undo check in: %w", err)
	}

	reg, err := s.regRepo.GetByToken(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if reg == nil {
		return nil, ErrRegistrationNotFound
	}
	if !applied {
		return reg, ErrNotCheckedIn
	}
	return reg, nil
}
