package testfixtures

import (
	"fmt"
	"sync/atomic"

	"github.com/example/courtbooking/internal/persistence"
)

var (
	userCounter        uint64
	courtCounter       uint64
	reservationCounter uint64
)

// NewUser returns a deterministic user record. Overrides go through the
// option functions.
func NewUser(opts ...func(*persistence.User)) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	user := persistence.User{
		Email:        fmt.Sprintf("user-%03d@example.com", idx),
		Name:         fmt.Sprintf("User%03d", idx),
		Lastname:     "Fixture",
		Role:         "user",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		CreatedAt:    referenceTime,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// NewCourt returns a deterministic court record.
func NewCourt(opts ...func(*persistence.Court)) persistence.Court {
	idx := atomic.AddUint64(&courtCounter, 1)
	court := persistence.Court{
		ID:           fmt.Sprintf("court-%03d", idx),
		Num:          int(idx),
		Sport:        "padel",
		Description:  "fixture court",
		PlayersNum:   4,
		PricePerHour: 20,
		CreatedAt:    referenceTime,
	}
	for _, opt := range opts {
		opt(&court)
	}
	return court
}

// NewReservation returns a deterministic pending reservation record.
func NewReservation(opts ...func(*persistence.Reservation)) persistence.Reservation {
	idx := atomic.AddUint64(&reservationCounter, 1)
	reservation := persistence.Reservation{
		ID:         fmt.Sprintf("res-%03d", idx),
		CourtID:    "court-001",
		UserEmail:  "user-001@example.com",
		TotalTime:  60,
		TotalPrice: 20,
		Hour:       fmt.Sprintf("%02d:00", 8+idx%12),
		Day:        "2026-09-02",
		Status:     "pending",
		Name:       "User",
		Lastname:   "Fixture",
		CreatedAt:  referenceTime,
	}
	for _, opt := range opts {
		opt(&reservation)
	}
	return reservation
}
