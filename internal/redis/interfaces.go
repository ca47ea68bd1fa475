package redis

import (
	"context"
	"time"
)

// BookingLockStoreInterface defines the interface for per-actor booking locks.
type BookingLockStoreInterface interface {
	AcquireBookingLock(ctx context.Context, actorID string, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, actorID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ BookingLockStoreInterface = (*BookingLockStore)(nil)
)
