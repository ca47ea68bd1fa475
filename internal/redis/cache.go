package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"ridebook/internal/domain"
)

// CacheStore handles ride caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	RideCacheTTL      = 10 * time.Second // ride status changes during transitions
	AvailableCacheTTL = 5 * time.Second  // open pool churns as drivers accept
)

// Key prefixes
const (
	rideCachePrefix   = "cache:ride:"
	availableCacheKey = "cache:rides:available"
)

// GetRide retrieves a ride from cache. Returns nil on a miss.
func (s *CacheStore) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	data, err := s.client.Get(ctx, rideCachePrefix+rideID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var ride domain.Ride
	if err := json.Unmarshal(data, &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

// SetRide stores a ride in cache.
func (s *CacheStore) SetRide(ctx context.Context, ride *domain.Ride) error {
	data, err := json.Marshal(ride)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, rideCachePrefix+ride.ID, data, RideCacheTTL).Err()
}

// InvalidateRide removes a ride from cache.
func (s *CacheStore) InvalidateRide(ctx context.Context, rideID string) error {
	return s.client.Del(ctx, rideCachePrefix+rideID).Err()
}

// GetAvailable retrieves the cached open pool. Returns nil on a miss.
func (s *CacheStore) GetAvailable(ctx context.Context) ([]*domain.Ride, error) {
	data, err := s.client.Get(ctx, availableCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var rides []*domain.Ride
	if err := json.Unmarshal(data, &rides); err != nil {
		return nil, err
	}
	return rides, nil
}

// SetAvailable stores the open pool in cache.
func (s *CacheStore) SetAvailable(ctx context.Context, rides []*domain.Ride) error {
	data, err := json.Marshal(rides)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, availableCacheKey, data, AvailableCacheTTL).Err()
}

// InvalidateAvailable removes the open pool from cache.
func (s *CacheStore) InvalidateAvailable(ctx context.Context) error {
	return s.client.Del(ctx, availableCacheKey).Err()
}
