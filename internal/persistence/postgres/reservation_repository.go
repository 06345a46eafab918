package postgres

import (
	"context"

	"github.com/example/courtbooking/internal/persistence"
)

// ReservationRepository implements persistence.ReservationRepository on
// PostgreSQL.
type ReservationRepository struct {
	pool *Pool
}

// NewReservationRepository creates a reservation repository over the shared pool.
func NewReservationRepository(pool *Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const reservationColumns = "id, court_id, user_email, total_time, total_price, hour, day, status, name, lastname, created_at"

// CreateReservation books a slot. The availability check and the insert run
// in one transaction; the partial unique index on non-cancelled
// (court_id, day, hour) rows closes the remaining race between two
// concurrent transactions, surfacing as persistence.ErrSlotTaken.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) (persistence.Reservation, error) {
	created := reservation

	err := r.pool.WithTx(ctx, nil, func(ctx context.Context, tx DBTX) error {
		checkQuery := `
			SELECT EXISTS (
				SELECT 1 FROM court_reservation
				WHERE court_id = $1 AND day = $2 AND hour = $3 AND status <> 'cancelled'
			)
		`

		var taken bool
		if err := tx.QueryRowContext(ctx, checkQuery, reservation.CourtID, reservation.Day, reservation.Hour).Scan(&taken); err != nil {
			return mapError(err)
		}
		if taken {
			return persistence.ErrSlotTaken
		}

		insertQuery := `
			INSERT INTO court_reservation (id, court_id, user_email, total_time, total_price, hour, day, status, name, lastname)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING created_at
		`

		err := tx.QueryRowContext(ctx, insertQuery,
			reservation.ID,
			reservation.CourtID,
			reservation.UserEmail,
			reservation.TotalTime,
			reservation.TotalPrice,
			reservation.Hour,
			reservation.Day,
			reservation.Status,
			reservation.Name,
			reservation.Lastname,
		).Scan(&created.CreatedAt)
		if err != nil {
			return mapError(err)
		}
		return nil
	})
	if err != nil {
		return persistence.Reservation{}, err
	}
	return created, nil
}

// GetReservation retrieves a reservation by id.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM court_reservation WHERE id = $1`

	reservation, err := scanReservation(r.pool.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.Reservation{}, mapError(err)
	}
	return reservation, nil
}

// ListReservations returns every reservation ordered by day then hour.
func (r *ReservationRepository) ListReservations(ctx context.Context) ([]persistence.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM court_reservation ORDER BY day ASC, hour ASC`
	return r.queryReservations(ctx, query)
}

// ListReservationsByUser returns the reservations booked by one user.
func (r *ReservationRepository) ListReservationsByUser(ctx context.Context, userEmail string) ([]persistence.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM court_reservation WHERE user_email = $1 ORDER BY day ASC, hour ASC`
	return r.queryReservations(ctx, query, userEmail)
}

// ListReservedHours returns the occupied hours for a court on a given day.
// Cancelled reservations do not occupy their slot.
func (r *ReservationRepository) ListReservedHours(ctx context.Context, day, courtID string) ([]string, error) {
	query := `
		SELECT hour FROM court_reservation
		WHERE day = $1 AND court_id = $2 AND status <> 'cancelled'
		ORDER BY hour ASC
	`

	rows, err := r.pool.db.QueryContext(ctx, query, day, courtID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var hours []string
	for rows.Next() {
		var hour string
		if err := rows.Scan(&hour); err != nil {
			return nil, mapError(err)
		}
		hours = append(hours, hour)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return hours, nil
}

// UpdateReservationStatus sets the status of a reservation and returns the
// updated row, or persistence.ErrNotFound when the id does not exist.
func (r *ReservationRepository) UpdateReservationStatus(ctx context.Context, id, status string) (persistence.Reservation, error) {
	query := `
		UPDATE court_reservation SET status = $2
		WHERE id = $1
		RETURNING ` + reservationColumns

	reservation, err := scanReservation(r.pool.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		return persistence.Reservation{}, mapError(err)
	}
	return reservation, nil
}

// DeleteReservation removes a reservation and returns the deleted row, or
// persistence.ErrNotFound when the id does not exist.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	query := `
		DELETE FROM court_reservation
		WHERE id = $1
		RETURNING ` + reservationColumns

	reservation, err := scanReservation(r.pool.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.Reservation{}, mapError(err)
	}
	return reservation, nil
}

func (r *ReservationRepository) queryReservations(ctx context.Context, query string, args ...any) ([]persistence.Reservation, error) {
	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, mapError(err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return reservations, nil
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var reservation persistence.Reservation
	err := row.Scan(
		&reservation.ID,
		&reservation.CourtID,
		&reservation.UserEmail,
		&reservation.TotalTime,
		&reservation.TotalPrice,
		&reservation.Hour,
		&reservation.Day,
		&reservation.Status,
		&reservation.Name,
		&reservation.Lastname,
		&reservation.CreatedAt,
	)
	return reservation, err
}
