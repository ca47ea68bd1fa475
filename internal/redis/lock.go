package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BookingLockStore handles per-actor booking locks in Redis. Routing all
// create/accept calls for an actor through this lock serializes the
// active-ride existence check with the subsequent write.
type BookingLockStore struct {
	client *redis.Client
}

// NewBookingLockStore creates a new BookingLockStore.
func NewBookingLockStore(client *redis.Client) *BookingLockStore {
	return &BookingLockStore{client: client}
}

// AcquireBookingLock attempts to acquire the booking lock for an actor.
// Returns true if the lock was acquired, false if already held.
func (s *BookingLockStore) AcquireBookingLock(ctx context.Context, actorID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:booking:%s", actorID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseBookingLock releases the booking lock for an actor.
func (s *BookingLockStore) ReleaseBookingLock(ctx context.Context, actorID string) error {
	key := fmt.Sprintf("lock:booking:%s", actorID)

	return s.client.Del(ctx, key).Err()
}
