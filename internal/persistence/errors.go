package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrUnavailable is returned when the store cannot be reached.
	ErrUnavailable = errors.New("persistence: store unavailable")
	// ErrSlotTaken is returned when a non-cancelled reservation already
	// occupies the requested (court, day, hour) slot.
	ErrSlotTaken = errors.New("persistence: slot already reserved")
)
