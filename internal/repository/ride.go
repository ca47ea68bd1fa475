package repository

import (
	"context"
	"time"

	"ridebook/internal/domain"
)

// RideFilter narrows history queries. Zero values mean "no constraint".
type RideFilter struct {
	RiderID  string
	DriverID string
	Status   domain.RideStatus
	Search   string // matched against pickup and destination
	From     time.Time
	To       time.Time
	Page     int
	Limit    int
	SortBy   string // requested_at, status, fare
	SortDesc bool
}

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetActiveByRider retrieves the rider's ongoing ride.
	// Returns nil if no active ride exists.
	GetActiveByRider(ctx context.Context, riderID string) (*domain.Ride, error)

	// GetActiveByDriver retrieves the driver's ongoing ride.
	// Returns nil if no active ride exists.
	GetActiveByDriver(ctx context.Context, driverID string) (*domain.Ride, error)

	// GetAvailable retrieves all rides in REQUESTED state.
	GetAvailable(ctx context.Context) ([]*domain.Ride, error)

	// GetAll retrieves all rides.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// List retrieves rides matching the filter, paginated and sorted.
	List(ctx context.Context, filter RideFilter) ([]*domain.Ride, error)

	// Update persists a new ride snapshot guarded by a precondition on
	// the previous status. Returns ErrStaleStatus if the persisted status
	// no longer matches expected, ErrNotFound if the ride is gone.
	Update(ctx context.Context, ride *domain.Ride, expected domain.RideStatus) error
}
