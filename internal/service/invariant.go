package service

import (
	"context"

	"ridebook/internal/domain"
	"ridebook/internal/repository"
)

// InvariantChecker enforces the one-active-ride rule: at most one ride
// per rider, and at most one per driver, may be REQUESTED, ACCEPTED,
// PICKED_UP, or IN_TRANSIT at a time. The check is an existence query;
// callers serialize it against the subsequent write with the per-actor
// booking lock, and the schema's partial unique indexes back it up.
type InvariantChecker struct {
	rideRepo repository.RideRepository
}

// NewInvariantChecker creates a new InvariantChecker.
func NewInvariantChecker(rideRepo repository.RideRepository) *InvariantChecker {
	return &InvariantChecker{rideRepo: rideRepo}
}

// EnsureNoActiveRide returns a Conflict-kind error if the actor already
// participates in an active ride.
func (c *InvariantChecker) EnsureNoActiveRide(ctx context.Context, actorID string, role domain.Role) error {
	switch role {
	case domain.RoleRider:
		ride, err := c.rideRepo.GetActiveByRider(ctx, actorID)
		if err != nil {
			return err
		}
		if ride != nil {
			return ErrRiderHasActiveRide
		}
	case domain.RoleDriver:
		ride, err := c.rideRepo.GetActiveByDriver(ctx, actorID)
		if err != nil {
			return err
		}
		if ride != nil {
			return ErrDriverHasActiveRide
		}
	}
	return nil
}
