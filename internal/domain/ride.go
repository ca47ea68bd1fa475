package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusRequested RideStatus = "REQUESTED"
	RideStatusAccepted  RideStatus = "ACCEPTED"
	RideStatusPickedUp  RideStatus = "PICKED_UP"
	RideStatusInTransit RideStatus = "IN_TRANSIT"
	RideStatusCompleted RideStatus = "COMPLETED"
	RideStatusCancelled RideStatus = "CANCELLED"
)

// ActiveStatuses are the statuses that count toward the one-active-ride
// limit per rider and per driver.
var ActiveStatuses = []RideStatus{
	RideStatusRequested,
	RideStatusAccepted,
	RideStatusPickedUp,
	RideStatusInTransit,
}

// IsActive reports whether the status counts as an ongoing ride.
func (s RideStatus) IsActive() bool {
	switch s {
	case RideStatusRequested, RideStatusAccepted, RideStatusPickedUp, RideStatusInTransit:
		return true
	}
	return false
}

// IsTerminal reports whether the status is final.
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// IsValid reports whether the status is one of the known lifecycle states.
func (s RideStatus) IsValid() bool {
	switch s {
	case RideStatusRequested, RideStatusAccepted, RideStatusPickedUp,
		RideStatusInTransit, RideStatusCompleted, RideStatusCancelled:
		return true
	}
	return false
}

// Ride represents a ride request in the system. Each transition method
// returns a new snapshot rather than mutating the receiver; persistence
// guards the write with a precondition on the previous status.
type Ride struct {
	ID                  string
	RiderID             string
	DriverID            string // empty until a driver accepts
	PickupLocation      string
	DestinationLocation string
	DistanceKm          float64
	DurationMinutes     float64
	Fare                int64 // whole currency units, authoritative once COMPLETED
	Status              RideStatus
	RequestedAt         time.Time
	AcceptedAt          time.Time
	PickedUpAt          time.Time
	TransitStartedAt    time.Time
	CompletedAt         time.Time
	CancelledAt         time.Time
}

// Accept binds a driver to the ride.
func (r Ride) Accept(driverID string, now time.Time) Ride {
	r.DriverID = driverID
	r.Status = RideStatusAccepted
	r.AcceptedAt = now
	return r
}

// Pickup marks the rider as picked up.
func (r Ride) Pickup(now time.Time) Ride {
	r.Status = RideStatusPickedUp
	r.PickedUpAt = now
	return r
}

// StartTransit marks the ride as underway.
func (r Ride) StartTransit(now time.Time) Ride {
	r.Status = RideStatusInTransit
	r.TransitStartedAt = now
	return r
}

// Complete finalizes the ride with its trip metrics and computed fare.
func (r Ride) Complete(distanceKm, durationMinutes float64, fare int64, now time.Time) Ride {
	r.DistanceKm = distanceKm
	r.DurationMinutes = durationMinutes
	r.Fare = fare
	r.Status = RideStatusCompleted
	r.CompletedAt = now
	return r
}

// Cancel terminates the ride.
func (r Ride) Cancel(now time.Time) Ride {
	r.Status = RideStatusCancelled
	r.CancelledAt = now
	return r
}

// Release returns an accepted ride to the open pool. The driver binding
// and acceptance timestamp are cleared; the result is indistinguishable
// from a ride that was never accepted.
func (r Ride) Release() Ride {
	r.DriverID = ""
	r.Status = RideStatusRequested
	r.AcceptedAt = time.Time{}
	return r
}
