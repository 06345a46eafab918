package postgres

import (
	"context"

	"github.com/example/courtbooking/internal/persistence"
)

// CourtRepository implements persistence.CourtRepository on PostgreSQL.
type CourtRepository struct {
	db DBTX
}

// NewCourtRepository creates a court repository over the shared pool.
func NewCourtRepository(db DBTX) *CourtRepository {
	return &CourtRepository{db: db}
}

const courtColumns = "id, num, sport, description, players_num, price_per_hour, created_at"

// CreateCourt inserts a new court. An id or (sport, num) collision
// surfaces as persistence.ErrDuplicate.
func (r *CourtRepository) CreateCourt(ctx context.Context, court persistence.Court) error {
	query := `
		INSERT INTO court (id, num, sport, description, players_num, price_per_hour)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		court.ID,
		court.Num,
		court.Sport,
		court.Description,
		court.PlayersNum,
		court.PricePerHour,
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetCourt retrieves a court by id.
func (r *CourtRepository) GetCourt(ctx context.Context, id string) (persistence.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM court WHERE id = $1`

	court, err := scanCourt(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.Court{}, mapError(err)
	}
	return court, nil
}

// ListCourts returns all courts ordered by sport then number.
func (r *CourtRepository) ListCourts(ctx context.Context) ([]persistence.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM court ORDER BY sport ASC, num ASC`
	return r.queryCourts(ctx, query)
}

// ListCourtsBySport returns the courts for one sport, possibly none.
func (r *CourtRepository) ListCourtsBySport(ctx context.Context, sport string) ([]persistence.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM court WHERE sport = $1 ORDER BY num ASC`
	return r.queryCourts(ctx, query, sport)
}

// GetCourtID resolves the id of the court identified by sport and number.
func (r *CourtRepository) GetCourtID(ctx context.Context, sport string, num int) (string, error) {
	query := `SELECT id FROM court WHERE sport = $1 AND num = $2`

	var id string
	if err := r.db.QueryRowContext(ctx, query, sport, num).Scan(&id); err != nil {
		return "", mapError(err)
	}
	return id, nil
}

func (r *CourtRepository) queryCourts(ctx context.Context, query string, args ...any) ([]persistence.Court, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var courts []persistence.Court
	for rows.Next() {
		court, err := scanCourt(rows)
		if err != nil {
			return nil, mapError(err)
		}
		courts = append(courts, court)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return courts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourt(row rowScanner) (persistence.Court, error) {
	var court persistence.Court
	err := row.Scan(
		&court.ID,
		&court.Num,
		&court.Sport,
		&court.Description,
		&court.PlayersNum,
		&court.PricePerHour,
		&court.CreatedAt,
	)
	return court, err
}
