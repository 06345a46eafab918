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

// CourtStore exposes the catalog storage operations required by the court
// service.
type CourtStore interface {
	CreateCourt(ctx context.Context, court persistence.Court) error
	GetCourt(ctx context.Context, id string) (persistence.Court, error)
	ListCourts(ctx context.Context) ([]persistence.Court, error)
	ListCourtsBySport(ctx context.Context, sport string) ([]persistence.Court, error)
	GetCourtID(ctx context.Context, sport string, num int) (string, error)
}

// CourtService orchestrates validation, authorization, and persistence for
// the court catalog.
type CourtService struct {
	courts      CourtStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCourtService constructs a court service with the provided dependencies.
func NewCourtService(courts CourtStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CourtService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CourtService{courts: courts, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *CourtService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CourtService", operation, attrs...)
}

// Create validates input, assigns a server-generated id, and persists a new
// court. Only administrators may create courts. An id collision is
// surfaced as ErrDuplicateKey rather than retried.
func (s *CourtService) Create(ctx context.Context, params CreateCourtParams) (court Court, err error) {
	if s == nil || s.courts == nil {
		err = fmt.Errorf("CourtService not configured")
		return
	}

	logger := s.loggerWith(ctx, "Create",
		"actor", params.Identity.Email,
		"sport", params.Input.Sport,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create court", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("court_id", court.ID).InfoContext(ctx, "court created")
	}()

	if !params.Identity.IsAdmin() {
		err = ErrUnauthorized
		return
	}

	vErr := validateCourtInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	num := params.Input.Num
	if num <= 0 {
		num = 1
	}

	stored := persistence.Court{
		ID:           s.idGenerator(),
		Num:          num,
		Sport:        strings.TrimSpace(params.Input.Sport),
		Description:  strings.TrimSpace(params.Input.Description),
		PlayersNum:   params.Input.PlayersNum,
		PricePerHour: params.Input.PricePerHour,
		CreatedAt:    s.now(),
	}

	if err = s.courts.CreateCourt(ctx, stored); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			err = fmt.Errorf("%w: court already exists", ErrDuplicateKey)
		}
		return
	}

	court = courtFromPersistence(stored)
	return
}

// GetAll returns every court in the catalog.
func (s *CourtService) GetAll(ctx context.Context) ([]Court, error) {
	if s == nil || s.courts == nil {
		return nil, fmt.Errorf("CourtService not configured")
	}

	stored, err := s.courts.ListCourts(ctx)
	if err != nil {
		s.loggerWith(ctx, "GetAll").ErrorContext(ctx, "failed to list courts", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return courtsFromPersistence(stored), nil
}

// GetByID returns one court, or ErrNotFound.
func (s *CourtService) GetByID(ctx context.Context, id string) (Court, error) {
	if s == nil || s.courts == nil {
		return Court{}, fmt.Errorf("CourtService not configured")
	}

	stored, err := s.courts.GetCourt(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		s.loggerWith(ctx, "GetByID", "court_id", id).ErrorContext(ctx, "failed to get court", "error", err, "error_kind", ErrorKind(err))
		return Court{}, err
	}
	return courtFromPersistence(stored), nil
}

// GetBySport returns the courts for one sport; the result may be empty.
func (s *CourtService) GetBySport(ctx context.Context, sport string) ([]Court, error) {
	if s == nil || s.courts == nil {
		return nil, fmt.Errorf("CourtService not configured")
	}

	stored, err := s.courts.ListCourtsBySport(ctx, strings.TrimSpace(sport))
	if err != nil {
		s.loggerWith(ctx, "GetBySport", "sport", sport).ErrorContext(ctx, "failed to list courts by sport", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return courtsFromPersistence(stored), nil
}

// GetIDByCourtAndNum resolves a court id from its sport and number, or
// ErrNotFound.
func (s *CourtService) GetIDByCourtAndNum(ctx context.Context, sport string, num int) (string, error) {
	if s == nil || s.courts == nil {
		return "", fmt.Errorf("CourtService not configured")
	}

	id, err := s.courts.GetCourtID(ctx, strings.TrimSpace(sport), num)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		s.loggerWith(ctx, "GetIDByCourtAndNum", "sport", sport, "num", num).ErrorContext(ctx, "failed to resolve court id", "error", err, "error_kind", ErrorKind(err))
		return "", err
	}
	return id, nil
}

func validateCourtInput(input CourtInput) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Sport) == "" {
		vErr.add("sport", "sport is required")
	}
	if input.PlayersNum <= 0 {
		vErr.add("players_num", "players_num must be positive")
	}
	if input.PricePerHour < 0 {
		vErr.add("price_per_hour", "price_per_hour must not be negative")
	}
	return vErr
}
