package tests

import (
	"context"
	"errors"
	"testing"

	"ridebook/internal/domain"
	"ridebook/internal/service"
)

// ──────────────────────────────────────────────
// RIDE CREATION EDGE CASES
// ──────────────────────────────────────────────

func TestRideCreation_ValidInput_Succeeds(t *testing.T) {
	t.Parallel()

	f := newFixture()

	ride, err := f.engine.Create(context.Background(), rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "Airport Terminal 2",
		DestinationLocation: "Central Station",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if ride.ID == "" {
		t.Error("expected ride ID to be set")
	}
	if ride.RiderID != "rider-1" {
		t.Errorf("expected rider-1, got %s", ride.RiderID)
	}
	if ride.DriverID != "" {
		t.Errorf("expected no driver yet, got %s", ride.DriverID)
	}
	if ride.Status != domain.RideStatusRequested {
		t.Errorf("expected REQUESTED, got %s", ride.Status)
	}
}

func TestRideCreation_OnlyRiders(t *testing.T) {
	t.Parallel()

	f := newFixture()

	for _, role := range []domain.Role{domain.RoleDriver, domain.RoleAdmin, domain.RoleSuperAdmin} {
		_, err := f.engine.Create(context.Background(), domain.Actor{ID: "user-1", Role: role}, service.CreateRideRequest{
			PickupLocation:      "A",
			DestinationLocation: "B",
		})
		if !errors.Is(err, service.ErrNotRider) {
			t.Errorf("role %s: expected ErrNotRider, got %v", role, err)
		}
	}
}

func TestRideCreation_LocationValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		pickup      string
		destination string
		wantErr     error
	}{
		{"missing pickup", "", "B", service.ErrMissingLocations},
		{"missing destination", "A", "", service.ErrMissingLocations},
		{"whitespace pickup", "   ", "B", service.ErrMissingLocations},
		{"equal locations", "Main Square", "Main Square", service.ErrSameLocation},
		{"equal after trim", "  Main Square ", "Main Square", service.ErrSameLocation},
		{"equal ignoring case", "main square", "MAIN SQUARE", service.ErrSameLocation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.engine.Create(context.Background(), rider("rider-1"), service.CreateRideRequest{
				PickupLocation:      tc.pickup,
				DestinationLocation: tc.destination,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}

			// Nothing may be persisted on a rejected create.
			if f.rideRepo.CreateCallCount != 0 {
				t.Error("expected no ride to be persisted")
			}
		})
	}
}

func TestRideCreation_RiderWithActiveRide_Conflicts(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	if _, err := f.engine.Create(ctx, rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := f.engine.Create(ctx, rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "C",
		DestinationLocation: "D",
	})
	if !errors.Is(err, service.ErrRiderHasActiveRide) {
		t.Fatalf("expected ErrRiderHasActiveRide, got %v", err)
	}

	if n := f.rideRepo.CountActiveForRider("rider-1"); n != 1 {
		t.Errorf("expected 1 active ride, got %d", n)
	}
}

func TestRideCreation_AfterTerminalRide_Succeeds(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	first, err := f.engine.Create(ctx, rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.engine.Cancel(ctx, rider("rider-1"), first.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Terminal rides do not count toward the active limit.
	if _, err := f.engine.Create(ctx, rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	}); err != nil {
		t.Fatalf("second create: %v", err)
	}
}

func TestRideCreation_BookingLockHeld_Conflicts(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.lockStore.HoldLock("rider-1")

	_, err := f.engine.Create(context.Background(), rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	})
	if !errors.Is(err, service.ErrBookingInProgress) {
		t.Fatalf("expected ErrBookingInProgress, got %v", err)
	}
}

func TestRideAccept_DriverWithActiveRide_Conflicts(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addDriver("driver-1")
	ctx := context.Background()

	first, err := f.engine.Create(ctx, rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := f.engine.Create(ctx, rider("rider-2"), service.CreateRideRequest{
		PickupLocation:      "C",
		DestinationLocation: "D",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.engine.Accept(ctx, driver("driver-1"), first.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, err := f.engine.Accept(ctx, driver("driver-1"), second.ID); !errors.Is(err, service.ErrDriverHasActiveRide) {
		t.Fatalf("expected ErrDriverHasActiveRide, got %v", err)
	}

	if n := f.rideRepo.CountActiveForDriver("driver-1"); n != 1 {
		t.Errorf("expected 1 active ride for driver, got %d", n)
	}
}
