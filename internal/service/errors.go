package service

import "errors"

// Bad request: malformed input or a transition attempted from the wrong state.
var (
	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidActor is returned when the actor identity or role is missing.
	ErrInvalidActor = errors.New("invalid actor")

	// ErrMissingLocations is returned when pickup or destination is absent.
	ErrMissingLocations = errors.New("pickup and destination locations are required")

	// ErrSameLocation is returned when pickup equals destination after trimming.
	ErrSameLocation = errors.New("pickup and destination locations must be different")

	// ErrInvalidStatus is returned when a status filter names an unknown state.
	ErrInvalidStatus = errors.New("invalid ride status")

	// ErrInvalidMetrics is returned when distance or duration is negative.
	ErrInvalidMetrics = errors.New("distance and duration must be non-negative")

	// ErrRideNotRequested is returned when accepting a ride that is not open.
	ErrRideNotRequested = errors.New("ride is not awaiting a driver")

	// ErrRideNotAccepted is returned when picking up before acceptance.
	ErrRideNotAccepted = errors.New("ride has not been accepted")

	// ErrRideNotPickedUp is returned when starting transit before pickup.
	ErrRideNotPickedUp = errors.New("rider has not been picked up")

	// ErrRideNotInTransit is returned when completing a ride that is not underway.
	ErrRideNotInTransit = errors.New("ride is not in transit")

	// ErrRideNotCancellable is returned when cancelling a finished ride.
	ErrRideNotCancellable = errors.New("ride can no longer be cancelled")

	// ErrRiderCancelWindow is returned when a rider cancels after acceptance.
	ErrRiderCancelWindow = errors.New("riders may only cancel while the ride is requested")

	// ErrRideNotReleasable is returned when releasing a ride past pickup.
	ErrRideNotReleasable = errors.New("ride can no longer be released")
)

// Forbidden: role or ownership mismatch.
var (
	// ErrNotRider is returned when a non-rider requests a ride.
	ErrNotRider = errors.New("only riders may request rides")

	// ErrNotDriver is returned when a non-driver attempts a driver transition.
	ErrNotDriver = errors.New("only drivers may perform this action")

	// ErrNotAssignedDriver is returned when the actor is not the ride's driver.
	ErrNotAssignedDriver = errors.New("driver is not assigned to this ride")

	// ErrNotRideParticipant is returned when the actor is neither the owning
	// rider, the assigned driver, nor an admin.
	ErrNotRideParticipant = errors.New("not a participant of this ride")

	// ErrAdminOnly is returned when a non-admin requests an admin view.
	ErrAdminOnly = errors.New("admin access required")

	// ErrDriverNotEligible is returned when the driver is blocked, deleted,
	// unapproved, or offline.
	ErrDriverNotEligible = errors.New("driver is not eligible to accept rides")
)

// Conflict: the one-active-ride invariant would be violated.
var (
	// ErrRiderHasActiveRide is returned when the rider already has an ongoing ride.
	ErrRiderHasActiveRide = errors.New("rider already has an ongoing ride")

	// ErrDriverHasActiveRide is returned when the driver already has an ongoing ride.
	ErrDriverHasActiveRide = errors.New("driver already has an ongoing ride")

	// ErrBookingInProgress is returned when another booking for the same
	// actor holds the serialization lock.
	ErrBookingInProgress = errors.New("another booking is in progress for this user")
)
