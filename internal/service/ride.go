package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"ridebook/internal/domain"
	"ridebook/internal/redis"
	"ridebook/internal/repository"
)

const bookingLockTTL = 10 * time.Second

// RideService is the ride lifecycle engine. It validates transitions
// against the persisted status, delegates role checks to the
// authorization policy and the one-active-ride rule to the invariant
// checker, and computes the fare on completion. All writes go through
// the repository's status-guarded update.
type RideService struct {
	rideRepo   repository.RideRepository
	userRepo   repository.UserRepository
	policy     *AuthorizationPolicy
	invariant  *InvariantChecker
	fareEngine *FareEngine
	lockStore  redis.BookingLockStoreInterface
	cacheStore *redis.CacheStore
}

// NewRideService creates a new RideService.
func NewRideService(
	rideRepo repository.RideRepository,
	userRepo repository.UserRepository,
	policy *AuthorizationPolicy,
	invariant *InvariantChecker,
	fareEngine *FareEngine,
	lockStore redis.BookingLockStoreInterface,
	cacheStore *redis.CacheStore,
) *RideService {
	return &RideService{
		rideRepo:   rideRepo,
		userRepo:   userRepo,
		policy:     policy,
		invariant:  invariant,
		fareEngine: fareEngine,
		lockStore:  lockStore,
		cacheStore: cacheStore,
	}
}

// CreateRideRequest contains the parameters for requesting a ride.
type CreateRideRequest struct {
	PickupLocation      string
	DestinationLocation string
}

// Create requests a new ride on behalf of a rider.
func (s *RideService) Create(ctx context.Context, actor domain.Actor, req CreateRideRequest) (*domain.Ride, error) {
	if err := s.policy.Authorize(actor, nil, domain.ActionCreate); err != nil {
		return nil, err
	}

	pickup := strings.TrimSpace(req.PickupLocation)
	destination := strings.TrimSpace(req.DestinationLocation)
	if pickup == "" || destination == "" {
		return nil, ErrMissingLocations
	}
	if strings.EqualFold(pickup, destination) {
		return nil, ErrSameLocation
	}

	release, err := s.acquireBookingLock(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.invariant.EnsureNoActiveRide(ctx, actor.ID, actor.Role); err != nil {
		return nil, err
	}

	ride := &domain.Ride{
		ID:                  uuid.New().String(),
		RiderID:             actor.ID,
		PickupLocation:      pickup,
		DestinationLocation: destination,
		Status:              domain.RideStatusRequested,
		RequestedAt:         time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	s.invalidateAvailable(ctx)

	return ride, nil
}

// Accept assigns the calling driver to an open ride.
func (s *RideService) Accept(ctx context.Context, actor domain.Actor, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if err := s.policy.Authorize(actor, nil, domain.ActionAccept); err != nil {
		return nil, err
	}

	if err := s.checkDriverEligibility(ctx, actor.ID); err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusRequested {
		return nil, ErrRideNotRequested
	}

	release, err := s.acquireBookingLock(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.invariant.EnsureNoActiveRide(ctx, actor.ID, actor.Role); err != nil {
		return nil, err
	}

	next := ride.Accept(actor.ID, time.Now())
	if err := s.persist(ctx, &next, domain.RideStatusRequested, ErrRideNotRequested); err != nil {
		return nil, err
	}

	s.invalidateRide(ctx, next.ID)
	s.invalidateAvailable(ctx)

	return &next, nil
}

// Pickup marks the rider as picked up by the assigned driver.
func (s *RideService) Pickup(ctx context.Context, actor domain.Actor, rideID string) (*domain.Ride, error) {
	ride, err := s.loadForTransition(ctx, actor, rideID, domain.ActionPickup)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusAccepted {
		return nil, ErrRideNotAccepted
	}

	next := ride.Pickup(time.Now())
	if err := s.persist(ctx, &next, domain.RideStatusAccepted, ErrRideNotAccepted); err != nil {
		return nil, err
	}

	s.invalidateRide(ctx, next.ID)

	return &next, nil
}

// StartTransit marks the ride as underway.
func (s *RideService) StartTransit(ctx context.Context, actor domain.Actor, rideID string) (*domain.Ride, error) {
	ride, err := s.loadForTransition(ctx, actor, rideID, domain.ActionStartTransit)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusPickedUp {
		return nil, ErrRideNotPickedUp
	}

	next := ride.StartTransit(time.Now())
	if err := s.persist(ctx, &next, domain.RideStatusPickedUp, ErrRideNotPickedUp); err != nil {
		return nil, err
	}

	s.invalidateRide(ctx, next.ID)

	return &next, nil
}

// CompleteRideRequest carries the trip metrics reported at drop-off.
// Zero values fall back to the metrics already stored on the ride.
type CompleteRideRequest struct {
	DistanceKm      float64
	DurationMinutes float64
}

// Complete ends an in-transit ride and computes the authoritative fare.
func (s *RideService) Complete(ctx context.Context, actor domain.Actor, rideID string, req CompleteRideRequest) (*domain.Ride, error) {
	if req.DistanceKm < 0 || req.DurationMinutes < 0 {
		return nil, ErrInvalidMetrics
	}

	ride, err := s.loadForTransition(ctx, actor, rideID, domain.ActionComplete)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusInTransit {
		return nil, ErrRideNotInTransit
	}

	distance := req.DistanceKm
	if distance == 0 {
		distance = ride.DistanceKm
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = ride.DurationMinutes
	}

	fare := s.fareEngine.Fare(distance, duration)

	next := ride.Complete(distance, duration, fare, time.Now())
	if err := s.persist(ctx, &next, domain.RideStatusInTransit, ErrRideNotInTransit); err != nil {
		return nil, err
	}

	s.invalidateRide(ctx, next.ID)

	return &next, nil
}

// Cancel terminates a ride. Riders may cancel only while the ride is
// still REQUESTED; the assigned driver may cancel at any point before
// completion.
func (s *RideService) Cancel(ctx context.Context, actor domain.Actor, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Authorize(actor, ride, domain.ActionCancel); err != nil {
		return nil, err
	}

	if ride.Status.IsTerminal() {
		return nil, ErrRideNotCancellable
	}
	if actor.Role == domain.RoleRider && ride.Status != domain.RideStatusRequested {
		return nil, ErrRiderCancelWindow
	}

	next := ride.Cancel(time.Now())
	if err := s.persist(ctx, &next, ride.Status, ErrRideNotCancellable); err != nil {
		return nil, err
	}

	s.invalidateRide(ctx, next.ID)
	s.invalidateAvailable(ctx)

	return &next, nil
}

// Release gives an accepted ride back to the open pool. Unlike Cancel it
// moves the lifecycle backward: the driver binding is cleared and the
// ride becomes REQUESTED again.
func (s *RideService) Release(ctx context.Context, actor domain.Actor, rideID string) (*domain.Ride, error) {
	ride, err := s.loadForTransition(ctx, actor, rideID, domain.ActionRelease)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusAccepted {
		return nil, ErrRideNotReleasable
	}

	next := ride.Release()
	if err := s.persist(ctx, &next, domain.RideStatusAccepted, ErrRideNotReleasable); err != nil {
		return nil, err
	}

	s.invalidateRide(ctx, next.ID)
	s.invalidateAvailable(ctx)

	return &next, nil
}

// Get retrieves a single ride, gated by the view policy.
func (s *RideService) Get(ctx context.Context, actor domain.Actor, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetRide(ctx, rideID)
		if err == nil && cached != nil {
			if err := s.policy.Authorize(actor, cached, domain.ActionView); err != nil {
				return nil, err
			}
			return cached, nil
		}
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Authorize(actor, ride, domain.ActionView); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetRide(ctx, ride)
	}

	return ride, nil
}

// GetAvailable lists the open pool of REQUESTED rides for drivers.
func (s *RideService) GetAvailable(ctx context.Context) ([]*domain.Ride, error) {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetAvailable(ctx)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	rides, err := s.rideRepo.GetAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetAvailable(ctx, rides)
	}

	return rides, nil
}

// GetAll lists every ride; admin only.
func (s *RideService) GetAll(ctx context.Context, actor domain.Actor) ([]*domain.Ride, error) {
	if !actor.Role.IsAdmin() {
		return nil, ErrAdminOnly
	}
	return s.rideRepo.GetAll(ctx)
}

// HistoryQuery narrows a ride-history listing.
type HistoryQuery struct {
	Status   domain.RideStatus
	Search   string
	From     time.Time
	To       time.Time
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

// History lists the actor's own rides: riders see rides they requested,
// drivers rides they served, admins everything.
func (s *RideService) History(ctx context.Context, actor domain.Actor, q HistoryQuery) ([]*domain.Ride, error) {
	if actor.ID == "" || !actor.Role.IsValid() {
		return nil, ErrInvalidActor
	}
	if q.Status != "" && !q.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	filter := repository.RideFilter{
		Status:   q.Status,
		Search:   q.Search,
		From:     q.From,
		To:       q.To,
		Page:     q.Page,
		Limit:    q.Limit,
		SortBy:   q.SortBy,
		SortDesc: q.SortDesc,
	}

	switch actor.Role {
	case domain.RoleRider:
		filter.RiderID = actor.ID
	case domain.RoleDriver:
		filter.DriverID = actor.ID
	case domain.RoleAdmin, domain.RoleSuperAdmin:
		// Unscoped.
	}

	return s.rideRepo.List(ctx, filter)
}

// EstimateFare returns a non-binding pre-booking quote after validating
// the prospective locations the same way Create does.
func (s *RideService) EstimateFare(pickup, destination string) (Estimate, error) {
	pickup = strings.TrimSpace(pickup)
	destination = strings.TrimSpace(destination)
	if pickup == "" || destination == "" {
		return Estimate{}, ErrMissingLocations
	}
	if strings.EqualFold(pickup, destination) {
		return Estimate{}, ErrSameLocation
	}
	return s.fareEngine.EstimateFare(), nil
}

// checkDriverEligibility verifies the accepting driver's standing from
// the read-only user record.
func (s *RideService) checkDriverEligibility(ctx context.Context, driverID string) error {
	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDriverNotEligible
		}
		return err
	}
	if !driver.CanDrive() {
		return ErrDriverNotEligible
	}
	return nil
}

// loadForTransition loads a ride and authorizes a driver-bound action.
func (s *RideService) loadForTransition(ctx context.Context, actor domain.Actor, rideID string, action domain.Action) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Authorize(actor, ride, action); err != nil {
		return nil, err
	}

	return ride, nil
}

// persist writes a snapshot guarded on the previous status, translating
// a lost race into the same wrong-state error a stale caller would get.
func (s *RideService) persist(ctx context.Context, ride *domain.Ride, expected domain.RideStatus, staleErr error) error {
	err := s.rideRepo.Update(ctx, ride, expected)
	if errors.Is(err, repository.ErrStaleStatus) {
		return staleErr
	}
	return err
}

// acquireBookingLock serializes create/accept per actor. The returned
// func releases the lock; it is a no-op when no lock store is wired.
func (s *RideService) acquireBookingLock(ctx context.Context, actorID string) (func(), error) {
	if s.lockStore == nil {
		return func() {}, nil
	}

	locked, err := s.lockStore.AcquireBookingLock(ctx, actorID, bookingLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrBookingInProgress
	}

	return func() {
		_ = s.lockStore.ReleaseBookingLock(ctx, actorID)
	}, nil
}

func (s *RideService) invalidateRide(ctx context.Context, rideID string) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateRide(ctx, rideID)
}

func (s *RideService) invalidateAvailable(ctx context.Context) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateAvailable(ctx)
}
