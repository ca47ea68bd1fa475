package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStaleStatus is returned when a conditional update finds the ride
	// in a different status than the snapshot it was derived from.
	ErrStaleStatus = errors.New("ride status changed since read")
)
