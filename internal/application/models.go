package application

import (
	"time"

	"github.com/example/courtbooking/internal/persistence"
)

// RoleAdmin marks accounts allowed to manage the court catalog and inspect
// every reservation.
const RoleAdmin = "admin"

// RoleUser is the default role assigned at registration.
const RoleUser = "user"

// Identity is the point-in-time snapshot of a user embedded in the session
// credential. It never carries password material.
type Identity struct {
	Email    string
	Name     string
	Lastname string
	Phone    string
	Role     string
	Points   int
}

// IsAdmin reports whether the identity may perform administrative actions.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsAnonymous reports whether the request carried no valid credential.
func (i Identity) IsAnonymous() bool {
	return i.Email == ""
}

// RegisterParams captures the fields required to create an account.
type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Lastname string
	Phone    string
}

// LoginParams captures the credentials presented at login.
type LoginParams struct {
	Email    string
	Password string
}

// AuthResult bundles the identity snapshot with its freshly issued
// session credential.
type AuthResult struct {
	Identity  Identity
	Token     string
	ExpiresAt time.Time
}

// CourtInput captures caller provided court fields.
type CourtInput struct {
	Num          int
	Sport        string
	Description  string
	PlayersNum   int
	PricePerHour float64
}

// Court represents a catalog entry for a bookable court.
type Court struct {
	ID           string
	Num          int
	Sport        string
	Description  string
	PlayersNum   int
	PricePerHour float64
	CreatedAt    time.Time
}

// CreateCourtParams wraps the data required to create a court.
type CreateCourtParams struct {
	Identity Identity
	Input    CourtInput
}

// ReservationInput captures caller provided booking fields.
type ReservationInput struct {
	CourtID    string
	TotalTime  int
	TotalPrice float64
	Hour       string
	Day        string
	Name       string
	Lastname   string
}

// Reservation represents a booked slot and its lifecycle state.
type Reservation struct {
	ID         string
	CourtID    string
	UserEmail  string
	TotalTime  int
	TotalPrice float64
	Hour       string
	Day        string
	Status     string
	Name       string
	Lastname   string
	CreatedAt  time.Time
}

// CreateReservationParams wraps the data required to book a slot. The
// booking is recorded against the authenticated identity's email.
type CreateReservationParams struct {
	Identity Identity
	Input    ReservationInput
}

// ChangeReservationStatusParams wraps the data required to move a
// reservation between lifecycle states.
type ChangeReservationStatusParams struct {
	Identity      Identity
	ReservationID string
	Status        string
}

// DeleteReservationParams wraps the data required to remove a reservation.
type DeleteReservationParams struct {
	Identity      Identity
	ReservationID string
}

// Reservation lifecycle states. New bookings start pending; confirmed and
// cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

func identityFromUser(user persistence.User) Identity {
	return Identity{
		Email:    user.Email,
		Name:     user.Name,
		Lastname: user.Lastname,
		Phone:    user.Phone,
		Role:     user.Role,
		Points:   user.Points,
	}
}

func courtFromPersistence(court persistence.Court) Court {
	return Court{
		ID:           court.ID,
		Num:          court.Num,
		Sport:        court.Sport,
		Description:  court.Description,
		PlayersNum:   court.PlayersNum,
		PricePerHour: court.PricePerHour,
		CreatedAt:    court.CreatedAt,
	}
}

func reservationFromPersistence(reservation persistence.Reservation) Reservation {
	return Reservation{
		ID:         reservation.ID,
		CourtID:    reservation.CourtID,
		UserEmail:  reservation.UserEmail,
		TotalTime:  reservation.TotalTime,
		TotalPrice: reservation.TotalPrice,
		Hour:       reservation.Hour,
		Day:        reservation.Day,
		Status:     reservation.Status,
		Name:       reservation.Name,
		Lastname:   reservation.Lastname,
		CreatedAt:  reservation.CreatedAt,
	}
}

func reservationsFromPersistence(stored []persistence.Reservation) []Reservation {
	if len(stored) == 0 {
		return nil
	}
	reservations := make([]Reservation, 0, len(stored))
	for _, reservation := range stored {
		reservations = append(reservations, reservationFromPersistence(reservation))
	}
	return reservations
}

func courtsFromPersistence(stored []persistence.Court) []Court {
	if len(stored) == 0 {
		return nil
	}
	courts := make([]Court, 0, len(stored))
	for _, court := range stored {
		courts = append(courts, courtFromPersistence(court))
	}
	return courts
}
