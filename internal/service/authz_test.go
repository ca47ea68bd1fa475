package service

import (
	"errors"
	"testing"

	"ridebook/internal/domain"
)

func TestAuthorize_Create(t *testing.T) {
	t.Parallel()

	p := NewAuthorizationPolicy()

	if err := p.Authorize(domain.Actor{ID: "u1", Role: domain.RoleRider}, nil, domain.ActionCreate); err != nil {
		t.Errorf("rider create: %v", err)
	}
	for _, role := range []domain.Role{domain.RoleDriver, domain.RoleAdmin, domain.RoleSuperAdmin} {
		if err := p.Authorize(domain.Actor{ID: "u1", Role: role}, nil, domain.ActionCreate); !errors.Is(err, ErrNotRider) {
			t.Errorf("%s create: expected ErrNotRider, got %v", role, err)
		}
	}
}

func TestAuthorize_DriverTransitions(t *testing.T) {
	t.Parallel()

	p := NewAuthorizationPolicy()
	ride := &domain.Ride{ID: "r1", RiderID: "rider-1", DriverID: "driver-1"}

	actions := []domain.Action{
		domain.ActionPickup,
		domain.ActionStartTransit,
		domain.ActionComplete,
		domain.ActionRelease,
	}

	for _, action := range actions {
		if err := p.Authorize(domain.Actor{ID: "driver-1", Role: domain.RoleDriver}, ride, action); err != nil {
			t.Errorf("assigned driver %s: %v", action, err)
		}
		if err := p.Authorize(domain.Actor{ID: "driver-2", Role: domain.RoleDriver}, ride, action); !errors.Is(err, ErrNotAssignedDriver) {
			t.Errorf("other driver %s: expected ErrNotAssignedDriver, got %v", action, err)
		}
		if err := p.Authorize(domain.Actor{ID: "rider-1", Role: domain.RoleRider}, ride, action); !errors.Is(err, ErrNotDriver) {
			t.Errorf("rider %s: expected ErrNotDriver, got %v", action, err)
		}
		// Admins may inspect but never drive the lifecycle.
		if err := p.Authorize(domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}, ride, action); !errors.Is(err, ErrNotDriver) {
			t.Errorf("admin %s: expected ErrNotDriver, got %v", action, err)
		}
	}
}

func TestAuthorize_Cancel(t *testing.T) {
	t.Parallel()

	p := NewAuthorizationPolicy()
	ride := &domain.Ride{ID: "r1", RiderID: "rider-1", DriverID: "driver-1"}

	if err := p.Authorize(domain.Actor{ID: "rider-1", Role: domain.RoleRider}, ride, domain.ActionCancel); err != nil {
		t.Errorf("owning rider cancel: %v", err)
	}
	if err := p.Authorize(domain.Actor{ID: "driver-1", Role: domain.RoleDriver}, ride, domain.ActionCancel); err != nil {
		t.Errorf("assigned driver cancel: %v", err)
	}
	if err := p.Authorize(domain.Actor{ID: "rider-2", Role: domain.RoleRider}, ride, domain.ActionCancel); !errors.Is(err, ErrNotRideParticipant) {
		t.Errorf("other rider cancel: expected ErrNotRideParticipant, got %v", err)
	}
	if err := p.Authorize(domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}, ride, domain.ActionCancel); !errors.Is(err, ErrNotRideParticipant) {
		t.Errorf("admin cancel: expected ErrNotRideParticipant, got %v", err)
	}
}

func TestAuthorize_View(t *testing.T) {
	t.Parallel()

	p := NewAuthorizationPolicy()
	ride := &domain.Ride{ID: "r1", RiderID: "rider-1", DriverID: "driver-1"}

	allowed := []domain.Actor{
		{ID: "rider-1", Role: domain.RoleRider},
		{ID: "driver-1", Role: domain.RoleDriver},
		{ID: "admin-1", Role: domain.RoleAdmin},
		{ID: "sa-1", Role: domain.RoleSuperAdmin},
	}
	for _, actor := range allowed {
		if err := p.Authorize(actor, ride, domain.ActionView); err != nil {
			t.Errorf("%s view: %v", actor.Role, err)
		}
	}

	if err := p.Authorize(domain.Actor{ID: "rider-2", Role: domain.RoleRider}, ride, domain.ActionView); !errors.Is(err, ErrNotRideParticipant) {
		t.Errorf("stranger view: expected ErrNotRideParticipant, got %v", err)
	}

	// An unassigned ride must not match drivers via the empty DriverID.
	open := &domain.Ride{ID: "r2", RiderID: "rider-1"}
	if err := p.Authorize(domain.Actor{ID: "driver-2", Role: domain.RoleDriver}, open, domain.ActionView); !errors.Is(err, ErrNotRideParticipant) {
		t.Errorf("driver view of open ride: expected ErrNotRideParticipant, got %v", err)
	}
}

func TestAuthorize_InvalidActor(t *testing.T) {
	t.Parallel()

	p := NewAuthorizationPolicy()

	if err := p.Authorize(domain.Actor{}, nil, domain.ActionCreate); !errors.Is(err, ErrInvalidActor) {
		t.Errorf("empty actor: expected ErrInvalidActor, got %v", err)
	}
	if err := p.Authorize(domain.Actor{ID: "u1", Role: "INTERN"}, nil, domain.ActionCreate); !errors.Is(err, ErrInvalidActor) {
		t.Errorf("unknown role: expected ErrInvalidActor, got %v", err)
	}
}
