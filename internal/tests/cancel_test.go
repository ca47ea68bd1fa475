package tests

import (
	"context"
	"errors"
	"testing"

	"ridebook/internal/domain"
	"ridebook/internal/service"
)

// ──────────────────────────────────────────────
// CANCELLATION RULES
// ──────────────────────────────────────────────

func TestCancel_RiderWhileRequested_Succeeds(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	ride, err := f.engine.Create(ctx, rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cancelled, err := f.engine.Cancel(ctx, rider("rider-1"), ride.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if cancelled.Status != domain.RideStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt.IsZero() {
		t.Error("expected cancelled_at to be set")
	}
	if cancelled.DriverID != "" {
		t.Errorf("expected no driver ever assigned, got %s", cancelled.DriverID)
	}
}

func TestCancel_RiderAfterPickup_FailsButDriverMay(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addDriver("driver-1")
	ctx := context.Background()

	ride, err := f.engine.Create(ctx, rider("rider-2"), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.engine.Accept(ctx, driver("driver-1"), ride.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.engine.Pickup(ctx, driver("driver-1"), ride.ID); err != nil {
		t.Fatalf("pickup: %v", err)
	}

	// Riders may only cancel while the ride is still REQUESTED.
	if _, err := f.engine.Cancel(ctx, rider("rider-2"), ride.ID); !errors.Is(err, service.ErrRiderCancelWindow) {
		t.Fatalf("expected ErrRiderCancelWindow, got %v", err)
	}

	// The assigned driver may still cancel the same ride.
	cancelled, err := f.engine.Cancel(ctx, driver("driver-1"), ride.ID)
	if err != nil {
		t.Fatalf("driver cancel: %v", err)
	}
	if cancelled.Status != domain.RideStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}
}

func TestCancel_ByOutsider_Forbidden(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addDriver("driver-1")
	ctx := context.Background()

	ride, err := f.engine.Create(ctx, rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.engine.Cancel(ctx, rider("rider-9"), ride.ID); !errors.Is(err, service.ErrNotRideParticipant) {
		t.Fatalf("expected ErrNotRideParticipant for other rider, got %v", err)
	}
	if _, err := f.engine.Cancel(ctx, driver("driver-9"), ride.ID); !errors.Is(err, service.ErrNotRideParticipant) {
		t.Fatalf("expected ErrNotRideParticipant for unassigned driver, got %v", err)
	}
}

func TestCancel_TerminalRide_Fails(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addDriver("driver-1")
	ctx := context.Background()

	ride, err := f.engine.Create(ctx, rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.engine.Cancel(ctx, rider("rider-1"), ride.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Cancelling twice fails rather than being idempotent.
	if _, err := f.engine.Cancel(ctx, rider("rider-1"), ride.ID); !errors.Is(err, service.ErrRideNotCancellable) {
		t.Fatalf("expected ErrRideNotCancellable, got %v", err)
	}
}

func TestCancel_CompletedRide_Fails(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addDriver("driver-1")
	ctx := context.Background()

	ride := completeRide(t, f, "rider-1", "driver-1")

	if _, err := f.engine.Cancel(ctx, driver("driver-1"), ride.ID); !errors.Is(err, service.ErrRideNotCancellable) {
		t.Fatalf("expected ErrRideNotCancellable, got %v", err)
	}
}

// ──────────────────────────────────────────────
// DRIVER RELEASE
// ──────────────────────────────────────────────

func TestRelease_AcceptedRide_ReturnsToPool(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addDriver("driver-1")
	f.addDriver("driver-2")
	ctx := context.Background()

	ride, err := f.engine.Create(ctx, rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.engine.Accept(ctx, driver("driver-1"), ride.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	released, err := f.engine.Release(ctx, driver("driver-1"), ride.ID)
	if err != nil {
		t.Fatalf("release: %v", err)
	}

	if released.Status != domain.RideStatusRequested {
		t.Errorf("expected REQUESTED, got %s", released.Status)
	}
	if released.DriverID != "" {
		t.Errorf("expected driver cleared, got %s", released.DriverID)
	}
	if !released.AcceptedAt.IsZero() {
		t.Error("expected accepted_at cleared")
	}

	// The released ride is back in the open pool for other drivers.
	available, err := f.engine.GetAvailable(ctx)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(available) != 1 || available[0].ID != ride.ID {
		t.Fatalf("expected released ride in pool, got %v", available)
	}

	if _, err := f.engine.Accept(ctx, driver("driver-2"), ride.ID); err != nil {
		t.Fatalf("re-accept by another driver: %v", err)
	}
}

func TestRelease_AfterPickup_Fails(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addDriver("driver-1")
	ctx := context.Background()

	ride, err := f.engine.Create(ctx, rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.engine.Accept(ctx, driver("driver-1"), ride.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.engine.Pickup(ctx, driver("driver-1"), ride.ID); err != nil {
		t.Fatalf("pickup: %v", err)
	}

	if _, err := f.engine.Release(ctx, driver("driver-1"), ride.ID); !errors.Is(err, service.ErrRideNotReleasable) {
		t.Fatalf("expected ErrRideNotReleasable, got %v", err)
	}
}

func TestRelease_FreesDriverForOtherRides(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addDriver("driver-1")
	ctx := context.Background()

	ride, err := f.engine.Create(ctx, rider("rider-1"), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	other, err := f.engine.Create(ctx, rider("rider-2"), service.CreateRideRequest{
		PickupLocation:      "C",
		DestinationLocation: "D",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.engine.Accept(ctx, driver("driver-1"), ride.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.engine.Release(ctx, driver("driver-1"), ride.ID); err != nil {
		t.Fatalf("release: %v", err)
	}

	// With the first ride released the driver is free again.
	if _, err := f.engine.Accept(ctx, driver("driver-1"), other.ID); err != nil {
		t.Fatalf("accept after release: %v", err)
	}

	if n := f.rideRepo.CountActiveForDriver("driver-1"); n != 1 {
		t.Errorf("expected 1 active ride for driver, got %d", n)
	}
}

// completeRide drives a fresh ride through the full lifecycle.
func completeRide(t *testing.T, f *fixture, riderID, driverID string) *domain.Ride {
	t.Helper()
	ctx := context.Background()

	ride, err := f.engine.Create(ctx, rider(riderID), service.CreateRideRequest{
		PickupLocation:      "A",
		DestinationLocation: "B",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.engine.Accept(ctx, driver(driverID), ride.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.engine.Pickup(ctx, driver(driverID), ride.ID); err != nil {
		t.Fatalf("pickup: %v", err)
	}
	if _, err := f.engine.StartTransit(ctx, driver(driverID), ride.ID); err != nil {
		t.Fatalf("start transit: %v", err)
	}
	done, err := f.engine.Complete(ctx, driver(driverID), ride.ID, service.CompleteRideRequest{
		DistanceKm:      3,
		DurationMinutes: 8,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	return done
}
