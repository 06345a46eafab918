package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/courtbooking/internal/persistence"
)

const courtColumnsPattern = `id,\s*num,\s*sport,\s*description,\s*players_num,\s*price_per_hour,\s*created_at`

func courtRows(courts ...persistence.Court) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "num", "sport", "description", "players_num", "price_per_hour", "created_at"})
	for _, c := range courts {
		rows.AddRow(c.ID, c.Num, c.Sport, c.Description, c.PlayersNum, c.PricePerHour, c.CreatedAt)
	}
	return rows
}

func TestCourtRepositoryCreateCourt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourtRepository(db)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+court\s*\(id,\s*num,\s*sport,\s*description,\s*players_num,\s*price_per_hour\)`).
		WithArgs("court-1", 1, "padel", "center court", 4, 20.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateCourt(context.Background(), persistence.Court{
		ID:           "court-1",
		Num:          1,
		Sport:        "padel",
		Description:  "center court",
		PlayersNum:   4,
		PricePerHour: 20,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourtRepositoryCreateCourtDuplicateSportNum(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourtRepository(db)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+court`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "court_sport_num_key"})

	err := repo.CreateCourt(context.Background(), persistence.Court{ID: "court-1", Num: 1, Sport: "padel"})
	require.ErrorIs(t, err, persistence.ErrDuplicate)
}

func TestCourtRepositoryGetCourt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourtRepository(db)

	created := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)SELECT\s+`+courtColumnsPattern+`\s+FROM\s+court\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("court-1").
		WillReturnRows(courtRows(persistence.Court{
			ID: "court-1", Num: 1, Sport: "padel", PlayersNum: 4, PricePerHour: 20, CreatedAt: created,
		}))

	court, err := repo.GetCourt(context.Background(), "court-1")
	require.NoError(t, err)
	assert.Equal(t, "court-1", court.ID)
	assert.Equal(t, "padel", court.Sport)
	assert.Equal(t, 20.0, court.PricePerHour)
}

func TestCourtRepositoryGetCourtNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourtRepository(db)

	mock.ExpectQuery(`(?s)SELECT\s+` + courtColumnsPattern).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetCourt(context.Background(), "missing")
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestCourtRepositoryListCourts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourtRepository(db)

	mock.ExpectQuery(`(?s)SELECT\s+`+courtColumnsPattern+`\s+FROM\s+court\s+ORDER\s+BY\s+sport\s+ASC,\s*num\s+ASC`).
		WillReturnRows(courtRows(
			persistence.Court{ID: "court-1", Num: 1, Sport: "padel"},
			persistence.Court{ID: "court-2", Num: 1, Sport: "tennis"},
		))

	courts, err := repo.ListCourts(context.Background())
	require.NoError(t, err)
	require.Len(t, courts, 2)
	assert.Equal(t, "padel", courts[0].Sport)
	assert.Equal(t, "tennis", courts[1].Sport)
}

func TestCourtRepositoryListCourtsBySport(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourtRepository(db)

	mock.ExpectQuery(`(?s)SELECT\s+`+courtColumnsPattern+`\s+FROM\s+court\s+WHERE\s+sport\s*=\s*\$1`).
		WithArgs("padel").
		WillReturnRows(courtRows(persistence.Court{ID: "court-1", Num: 1, Sport: "padel"}))

	courts, err := repo.ListCourtsBySport(context.Background(), "padel")
	require.NoError(t, err)
	require.Len(t, courts, 1)
}

func TestCourtRepositoryListCourtsBySportEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourtRepository(db)

	mock.ExpectQuery(`(?s)SELECT\s+` + courtColumnsPattern).
		WithArgs("squash").
		WillReturnRows(courtRows())

	courts, err := repo.ListCourtsBySport(context.Background(), "squash")
	require.NoError(t, err)
	assert.Empty(t, courts)
}

func TestCourtRepositoryGetCourtID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourtRepository(db)

	mock.ExpectQuery(`(?s)SELECT\s+id\s+FROM\s+court\s+WHERE\s+sport\s*=\s*\$1\s+AND\s+num\s*=\s*\$2`).
		WithArgs("padel", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("court-7"))

	id, err := repo.GetCourtID(context.Background(), "padel", 2)
	require.NoError(t, err)
	assert.Equal(t, "court-7", id)
}

func TestCourtRepositoryGetCourtIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourtRepository(db)

	mock.ExpectQuery(`(?s)SELECT\s+id\s+FROM\s+court`).
		WithArgs("padel", 9).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetCourtID(context.Background(), "padel", 9)
	require.ErrorIs(t, err, persistence.ErrNotFound)
}
