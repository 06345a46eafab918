package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/courtbooking/internal/persistence"
)

// ReservationStore exposes the slot storage operations required by the
// reservation service.
type ReservationStore interface {
	CreateReservation(ctx context.Context, reservation persistence.Reservation) (persistence.Reservation, error)
	GetReservation(ctx context.Context, id string) (persistence.Reservation, error)
	ListReservations(ctx context.Context) ([]persistence.Reservation, error)
	ListReservationsByUser(ctx context.Context, userEmail string) ([]persistence.Reservation, error)
	ListReservedHours(ctx context.Context, day, courtID string) ([]string, error)
	UpdateReservationStatus(ctx context.Context, id, status string) (persistence.Reservation, error)
	DeleteReservation(ctx context.Context, id string) (persistence.Reservation, error)
}

// ReservationService manages the booking lifecycle: creation with
// slot-uniqueness enforcement, queries, deletion, and status transitions.
type ReservationService struct {
	reservations ReservationStore
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewReservationService constructs a reservation service with the provided
// dependencies.
func NewReservationService(reservations ReservationStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{reservations: reservations, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// Create books a slot for the authenticated identity. The store performs
// the availability check and the insert in one transaction; an occupied
// slot is surfaced as ErrSlotTaken, an unknown court as ErrNotFound.
func (s *ReservationService) Create(ctx context.Context, params CreateReservationParams) (reservation Reservation, err error) {
	if s == nil || s.reservations == nil {
		err = fmt.Errorf("ReservationService not configured")
		return
	}

	logger := s.loggerWith(ctx, "Create",
		"actor", params.Identity.Email,
		"court_id", params.Input.CourtID,
		"day", params.Input.Day,
		"hour", params.Input.Hour,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("reservation_id", reservation.ID).InfoContext(ctx, "reservation created")
	}()

	if params.Identity.IsAnonymous() {
		err = ErrUnauthorized
		return
	}

	vErr := validateReservationInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	name := strings.TrimSpace(params.Input.Name)
	lastname := strings.TrimSpace(params.Input.Lastname)
	if name == "" {
		name = params.Identity.Name
	}
	if lastname == "" {
		lastname = params.Identity.Lastname
	}

	stored := persistence.Reservation{
		ID:         s.idGenerator(),
		CourtID:    params.Input.CourtID,
		UserEmail:  params.Identity.Email,
		TotalTime:  params.Input.TotalTime,
		TotalPrice: params.Input.TotalPrice,
		Hour:       strings.TrimSpace(params.Input.Hour),
		Day:        strings.TrimSpace(params.Input.Day),
		Status:     StatusPending,
		Name:       name,
		Lastname:   lastname,
		CreatedAt:  s.now(),
	}

	var persisted persistence.Reservation
	persisted, err = s.reservations.CreateReservation(ctx, stored)
	if err != nil {
		switch {
		case errors.Is(err, persistence.ErrSlotTaken):
			err = fmt.Errorf("%w: %s %s", ErrSlotTaken, stored.Day, stored.Hour)
		case errors.Is(err, persistence.ErrNotFound):
			err = fmt.Errorf("%w: court %s", ErrNotFound, stored.CourtID)
		}
		return
	}

	reservation = reservationFromPersistence(persisted)
	return
}

// GetByUser returns the reservations booked under one email.
func (s *ReservationService) GetByUser(ctx context.Context, userEmail string) ([]Reservation, error) {
	if s == nil || s.reservations == nil {
		return nil, fmt.Errorf("ReservationService not configured")
	}

	stored, err := s.reservations.ListReservationsByUser(ctx, strings.TrimSpace(strings.ToLower(userEmail)))
	if err != nil {
		s.loggerWith(ctx, "GetByUser", "user_email", userEmail).ErrorContext(ctx, "failed to list reservations", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return reservationsFromPersistence(stored), nil
}

// GetAll returns every reservation. Restricted to administrators.
func (s *ReservationService) GetAll(ctx context.Context, identity Identity) ([]Reservation, error) {
	if s == nil || s.reservations == nil {
		return nil, fmt.Errorf("ReservationService not configured")
	}
	if !identity.IsAdmin() {
		return nil, ErrUnauthorized
	}

	stored, err := s.reservations.ListReservations(ctx)
	if err != nil {
		s.loggerWith(ctx, "GetAll", "actor", identity.Email).ErrorContext(ctx, "failed to list reservations", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return reservationsFromPersistence(stored), nil
}

// GetHoursForDay returns the occupied hours for a court on a given day,
// reflecting only non-cancelled reservations.
func (s *ReservationService) GetHoursForDay(ctx context.Context, day, courtID string) ([]string, error) {
	if s == nil || s.reservations == nil {
		return nil, fmt.Errorf("ReservationService not configured")
	}

	hours, err := s.reservations.ListReservedHours(ctx, strings.TrimSpace(day), strings.TrimSpace(courtID))
	if err != nil {
		s.loggerWith(ctx, "GetHoursForDay", "day", day, "court_id", courtID).ErrorContext(ctx, "failed to list reserved hours", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return hours, nil
}

// Delete removes a reservation and returns the deleted record. The actor
// must be an administrator or the booking owner.
func (s *ReservationService) Delete(ctx context.Context, params DeleteReservationParams) (reservation Reservation, err error) {
	if s == nil || s.reservations == nil {
		err = fmt.Errorf("ReservationService not configured")
		return
	}

	logger := s.loggerWith(ctx, "Delete",
		"actor", params.Identity.Email,
		"reservation_id", params.ReservationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation deleted")
	}()

	var existing persistence.Reservation
	existing, err = s.reservations.GetReservation(ctx, params.ReservationID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		return
	}

	if !params.Identity.IsAdmin() && existing.UserEmail != params.Identity.Email {
		err = ErrUnauthorized
		return
	}

	var deleted persistence.Reservation
	deleted, err = s.reservations.DeleteReservation(ctx, params.ReservationID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		return
	}

	reservation = reservationFromPersistence(deleted)
	return
}

// ChangeStatus moves a pending reservation to confirmed or cancelled.
// Unknown states and transitions out of a terminal state are rejected with
// ErrInvalidStatus and leave the record unchanged.
func (s *ReservationService) ChangeStatus(ctx context.Context, params ChangeReservationStatusParams) (reservation Reservation, err error) {
	if s == nil || s.reservations == nil {
		err = fmt.Errorf("ReservationService not configured")
		return
	}

	logger := s.loggerWith(ctx, "ChangeStatus",
		"actor", params.Identity.Email,
		"reservation_id", params.ReservationID,
		"status", params.Status,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to change reservation status", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation status changed")
	}()

	if params.Status != StatusConfirmed && params.Status != StatusCancelled {
		err = fmt.Errorf("%w: %q", ErrInvalidStatus, params.Status)
		return
	}

	var existing persistence.Reservation
	existing, err = s.reservations.GetReservation(ctx, params.ReservationID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		return
	}

	if !params.Identity.IsAdmin() && existing.UserEmail != params.Identity.Email {
		err = ErrUnauthorized
		return
	}

	if existing.Status != StatusPending {
		err = fmt.Errorf("%w: reservation is already %s", ErrInvalidStatus, existing.Status)
		return
	}

	var updated persistence.Reservation
	updated, err = s.reservations.UpdateReservationStatus(ctx, params.ReservationID, params.Status)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		return
	}

	reservation = reservationFromPersistence(updated)
	return
}

func validateReservationInput(input ReservationInput) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.CourtID) == "" {
		vErr.add("court_id", "court_id is required")
	}
	if strings.TrimSpace(input.Day) == "" {
		vErr.add("day", "day is required")
	}
	if strings.TrimSpace(input.Hour) == "" {
		vErr.add("hour", "hour is required")
	}
	if input.TotalTime <= 0 {
		vErr.add("total_time", "total_time must be positive")
	}
	if input.TotalPrice < 0 {
		vErr.add("total_price", "total_price must not be negative")
	}
	return vErr
}
