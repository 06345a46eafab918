package persistence

import "time"

// User represents a registered account keyed by email.
type User struct {
	Email        string
	Name         string
	Lastname     string
	Phone        string
	Role         string
	Points       int
	PasswordHash string
	CreatedAt    time.Time
}

// Court represents a bookable court catalog entry.
type Court struct {
	ID           string
	Num          int
	Sport        string
	Description  string
	PlayersNum   int
	PricePerHour float64
	CreatedAt    time.Time
}

// Reservation represents a booked (court, day, hour) slot.
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
