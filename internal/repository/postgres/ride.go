package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"ridebook/internal/domain"
	"ridebook/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, rider_id, driver_id, pickup_location, destination_location,
	distance_km, duration_minutes, fare, status,
	requested_at, accepted_at, picked_up_at, transit_started_at, completed_at, cancelled_at`

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RiderID,
		nullString(ride.DriverID),
		ride.PickupLocation,
		ride.DestinationLocation,
		ride.DistanceKm,
		ride.DurationMinutes,
		ride.Fare,
		ride.Status,
		ride.RequestedAt,
		nullTime(ride.AcceptedAt),
		nullTime(ride.PickedUpAt),
		nullTime(ride.TransitStartedAt),
		nullTime(ride.CompletedAt),
		nullTime(ride.CancelledAt),
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// GetActiveByRider retrieves the rider's ongoing ride, nil if none.
func (r *RideRepository) GetActiveByRider(ctx context.Context, riderID string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE rider_id = $1 AND status = ANY($2) LIMIT 1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, riderID, pq.Array(activeStatusStrings())))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ride, nil
}

// GetActiveByDriver retrieves the driver's ongoing ride, nil if none.
func (r *RideRepository) GetActiveByDriver(ctx context.Context, driverID string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE driver_id = $1 AND status = ANY($2) LIMIT 1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, driverID, pq.Array(activeStatusStrings())))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ride, nil
}

// GetAvailable retrieves all rides awaiting a driver, oldest first.
func (r *RideRepository) GetAvailable(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE status = $1 ORDER BY requested_at ASC`

	rows, err := r.q.QueryContext(ctx, query, domain.RideStatusRequested)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRides(rows)
}

// GetAll retrieves all rides, newest first.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY requested_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRides(rows)
}

// sortColumns whitelists sortable fields to keep user input out of SQL.
var sortColumns = map[string]string{
	"requested_at": "requested_at",
	"status":       "status",
	"fare":         "fare",
}

// List retrieves rides matching the filter, paginated and sorted.
func (r *RideRepository) List(ctx context.Context, filter repository.RideFilter) ([]*domain.Ride, error) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.RiderID != "" {
		add("rider_id = $%d", filter.RiderID)
	}
	if filter.DriverID != "" {
		add("driver_id = $%d", filter.DriverID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(pickup_location ILIKE $%d OR destination_location ILIKE $%d)", len(args), len(args)))
	}
	if !filter.From.IsZero() {
		add("requested_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("requested_at <= $%d", filter.To)
	}

	query := `SELECT ` + rideColumns + ` FROM rides`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	sortBy, ok := sortColumns[filter.SortBy]
	if !ok {
		sortBy = "requested_at"
	}
	order := "ASC"
	if filter.SortDesc {
		order = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, order)

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, (page-1)*limit)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRides(rows)
}

// Update persists a ride snapshot guarded on the previous status. The
// WHERE clause is what serializes concurrent transitions on one ride:
// the second writer finds zero rows and fails instead of clobbering.
func (r *RideRepository) Update(ctx context.Context, ride *domain.Ride, expected domain.RideStatus) error {
	query := `
		UPDATE rides
		SET driver_id = $1, distance_km = $2, duration_minutes = $3, fare = $4, status = $5,
			accepted_at = $6, picked_up_at = $7, transit_started_at = $8, completed_at = $9, cancelled_at = $10
		WHERE id = $11 AND status = $12
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(ride.DriverID),
		ride.DistanceKm,
		ride.DurationMinutes,
		ride.Fare,
		ride.Status,
		nullTime(ride.AcceptedAt),
		nullTime(ride.PickedUpAt),
		nullTime(ride.TransitStartedAt),
		nullTime(ride.CompletedAt),
		nullTime(ride.CancelledAt),
		ride.ID,
		expected,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a vanished ride from a concurrent transition.
		var exists bool
		if err := r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rides WHERE id = $1)`, ride.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrStaleStatus
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var (
		ride             domain.Ride
		driverID         sql.NullString
		acceptedAt       sql.NullTime
		pickedUpAt       sql.NullTime
		transitStartedAt sql.NullTime
		completedAt      sql.NullTime
		cancelledAt      sql.NullTime
	)

	err := row.Scan(
		&ride.ID,
		&ride.RiderID,
		&driverID,
		&ride.PickupLocation,
		&ride.DestinationLocation,
		&ride.DistanceKm,
		&ride.DurationMinutes,
		&ride.Fare,
		&ride.Status,
		&ride.RequestedAt,
		&acceptedAt,
		&pickedUpAt,
		&transitStartedAt,
		&completedAt,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		ride.DriverID = driverID.String
	}
	if acceptedAt.Valid {
		ride.AcceptedAt = acceptedAt.Time
	}
	if pickedUpAt.Valid {
		ride.PickedUpAt = pickedUpAt.Time
	}
	if transitStartedAt.Valid {
		ride.TransitStartedAt = transitStartedAt.Time
	}
	if completedAt.Valid {
		ride.CompletedAt = completedAt.Time
	}
	if cancelledAt.Valid {
		ride.CancelledAt = cancelledAt.Time
	}

	return &ride, nil
}

func scanRides(rows *sql.Rows) ([]*domain.Ride, error) {
	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
