package service

import (
	"ridebook/internal/domain"
)

// AuthorizationPolicy decides whether an actor may perform an action on a
// ride. Stateless; every role and ownership rule lives here so each rule
// is testable in isolation and no role check leaks into other layers.
type AuthorizationPolicy struct{}

// NewAuthorizationPolicy creates a new AuthorizationPolicy.
func NewAuthorizationPolicy() *AuthorizationPolicy {
	return &AuthorizationPolicy{}
}

// Authorize returns nil if the actor may perform the action, or a
// Forbidden-kind error naming the reason. For ActionCreate and
// ActionAccept no ride is bound yet and ride may be nil.
func (p *AuthorizationPolicy) Authorize(actor domain.Actor, ride *domain.Ride, action domain.Action) error {
	if actor.ID == "" || !actor.Role.IsValid() {
		return ErrInvalidActor
	}

	switch action {
	case domain.ActionCreate:
		if actor.Role != domain.RoleRider {
			return ErrNotRider
		}
		return nil

	case domain.ActionAccept:
		// Any driver may attempt; the concurrency check gates the rest.
		if actor.Role != domain.RoleDriver {
			return ErrNotDriver
		}
		return nil

	case domain.ActionPickup, domain.ActionStartTransit, domain.ActionComplete, domain.ActionRelease:
		if actor.Role != domain.RoleDriver {
			return ErrNotDriver
		}
		if ride == nil || ride.DriverID != actor.ID {
			return ErrNotAssignedDriver
		}
		return nil

	case domain.ActionCancel:
		if ride != nil && actor.Role == domain.RoleRider && ride.RiderID == actor.ID {
			return nil
		}
		if ride != nil && actor.Role == domain.RoleDriver && ride.DriverID == actor.ID {
			return nil
		}
		return ErrNotRideParticipant

	case domain.ActionView:
		if actor.Role.IsAdmin() {
			return nil
		}
		if ride != nil && ride.RiderID == actor.ID {
			return nil
		}
		if ride != nil && ride.DriverID != "" && ride.DriverID == actor.ID {
			return nil
		}
		return ErrNotRideParticipant
	}

	return ErrNotRideParticipant
}
