package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/courtbooking/internal/application"
)

type courtService interface {
	Create(ctx context.Context, params application.CreateCourtParams) (application.Court, error)
	GetAll(ctx context.Context) ([]application.Court, error)
	GetByID(ctx context.Context, id string) (application.Court, error)
	GetBySport(ctx context.Context, sport string) ([]application.Court, error)
	GetIDByCourtAndNum(ctx context.Context, sport string, num int) (string, error)
}

// CourtHandler serves the court catalog endpoints.
type CourtHandler struct {
	service   courtService
	responder responder
	logger    *slog.Logger
}

// NewCourtHandler constructs a CourtHandler.
func NewCourtHandler(service courtService, logger *slog.Logger) *CourtHandler {
	base := defaultLogger(logger)
	return &CourtHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CourtHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CourtHandler", operation, attrs...)
}

// Create registers a new court. The service enforces the administrator
// requirement.
func (h *CourtHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, _ := IdentityFromContext(r.Context())

	var req courtDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode court request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "actor", identity.Email, "sport", req.Sport)

	court, err := h.service.Create(r.Context(), application.CreateCourtParams{
		Identity: identity,
		Input: application.CourtInput{
			Num:          req.Num,
			Sport:        req.Sport,
			Description:  req.Description,
			PlayersNum:   req.PlayersNum,
			PricePerHour: req.PricePerHour,
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to create court", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("court_id", court.ID).InfoContext(r.Context(), "court created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, courtDTOFrom(court))
}

// List returns the whole catalog, or one sport's courts when the sport
// query parameter is present.
func (h *CourtHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sport := strings.TrimSpace(r.URL.Query().Get("sport"))
	logger := h.log(r.Context(), "List", "sport", sport)

	var (
		courts []application.Court
		err    error
	)
	if sport == "" {
		courts, err = h.service.GetAll(r.Context())
	} else {
		courts, err = h.service.GetBySport(r.Context(), sport)
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list courts", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]courtDTO, 0, len(courts))
	for _, court := range courts {
		dtos = append(dtos, courtDTOFrom(court))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}

// Get returns one court resolved from the request path.
func (h *CourtHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := CourtIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourtID)
		return
	}

	logger := h.log(r.Context(), "Get", "court_id", id)

	court, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to get court", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, courtDTOFrom(court))
}

// Lookup resolves a court id from its sport and number.
func (h *CourtHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	sport := strings.TrimSpace(query.Get("sport"))
	num, err := strconv.Atoi(query.Get("num"))
	if sport == "" || err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Lookup", "sport", sport, "num", num)

	id, err := h.service.GetIDByCourtAndNum(r.Context(), sport, num)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to resolve court id", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, courtIDResponse{ID: id})
}

type courtDTO struct {
	ID           string  `json:"id,omitempty"`
	Num          int     `json:"num"`
	Sport        string  `json:"sport"`
	Description  string  `json:"description"`
	PlayersNum   int     `json:"players_num"`
	PricePerHour float64 `json:"price_per_hour"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

func courtDTOFrom(court application.Court) courtDTO {
	dto := courtDTO{
		ID:           court.ID,
		Num:          court.Num,
		Sport:        court.Sport,
		Description:  court.Description,
		PlayersNum:   court.PlayersNum,
		PricePerHour: court.PricePerHour,
	}
	if !court.CreatedAt.IsZero() {
		dto.CreatedAt = court.CreatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

type courtIDResponse struct {
	ID string `json:"id"`
}
