package persistence

import "context"

// UserRepository exposes account storage operations keyed by email.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// CourtRepository exposes court catalog storage operations.
type CourtRepository interface {
	CreateCourt(ctx context.Context, court Court) error
	GetCourt(ctx context.Context, id string) (Court, error)
	ListCourts(ctx context.Context) ([]Court, error)
	ListCourtsBySport(ctx context.Context, sport string) ([]Court, error)
	GetCourtID(ctx context.Context, sport string, num int) (string, error)
}

// ReservationRepository stores reservation slots and their lifecycle state.
//
// CreateReservation must perform the slot availability check and the insert
// inside a single transaction so two concurrent bookings for the same
// (court, day, hour) cannot both commit.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListReservations(ctx context.Context) ([]Reservation, error)
	ListReservationsByUser(ctx context.Context, userEmail string) ([]Reservation, error)
	ListReservedHours(ctx context.Context, day, courtID string) ([]string, error)
	UpdateReservationStatus(ctx context.Context, id, status string) (Reservation, error)
	DeleteReservation(ctx context.Context, id string) (Reservation, error)
}
