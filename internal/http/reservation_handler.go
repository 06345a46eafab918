package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/courtbooking/internal/application"
)

type reservationService interface {
	Create(ctx context.Context, params application.CreateReservationParams) (application.Reservation, error)
	GetByUser(ctx context.Context, userEmail string) ([]application.Reservation, error)
	GetAll(ctx context.Context, identity application.Identity) ([]application.Reservation, error)
	GetHoursForDay(ctx context.Context, day, courtID string) ([]string, error)
	Delete(ctx context.Context, params application.DeleteReservationParams) (application.Reservation, error)
	ChangeStatus(ctx context.Context, params application.ChangeReservationStatusParams) (application.Reservation, error)
}

// ReservationHandler serves the booking endpoints.
type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

// Create books a slot under the authenticated identity.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, _ := IdentityFromContext(r.Context())

	var req reservationDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create",
		"actor", identity.Email,
		"court_id", req.CourtID,
		"day", req.Day,
		"hour", req.Hour,
	)

	reservation, err := h.service.Create(r.Context(), application.CreateReservationParams{
		Identity: identity,
		Input: application.ReservationInput{
			CourtID:    req.CourtID,
			TotalTime:  req.TotalTime,
			TotalPrice: req.TotalPrice,
			Hour:       req.Hour,
			Day:        req.Day,
			Name:       req.Name,
			Lastname:   req.Lastname,
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to create reservation", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("reservation_id", reservation.ID).InfoContext(r.Context(), "reservation created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, reservationDTOFrom(reservation))
}

// List returns reservations. Without a user_email parameter it returns the
// caller's own bookings; administrators may pass user_email to inspect
// another account or all=true for every reservation.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, _ := IdentityFromContext(r.Context())
	query := r.URL.Query()
	userEmail := strings.TrimSpace(strings.ToLower(query.Get("user_email")))
	wantAll := query.Get("all") == "true"

	logger := h.log(r.Context(), "List", "actor", identity.Email, "user_email", userEmail, "all", wantAll)

	var (
		reservations []application.Reservation
		err          error
	)
	switch {
	case wantAll:
		reservations, err = h.service.GetAll(r.Context(), identity)
	case userEmail == "" || userEmail == identity.Email:
		reservations, err = h.service.GetByUser(r.Context(), identity.Email)
	case identity.IsAdmin():
		reservations, err = h.service.GetByUser(r.Context(), userEmail)
	default:
		err = application.ErrUnauthorized
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list reservations", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]reservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		dtos = append(dtos, reservationDTOFrom(reservation))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}

// Hours returns the occupied hours for a court on a day so callers can
// render availability. Public: no identity required.
func (h *ReservationHandler) Hours(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	day := strings.TrimSpace(query.Get("day"))
	courtID := strings.TrimSpace(query.Get("court_id"))
	if day == "" || courtID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Hours", "day", day, "court_id", courtID)

	hours, err := h.service.GetHoursForDay(r.Context(), day, courtID)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list hours", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if hours == nil {
		hours = []string{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, hoursResponse{Day: day, CourtID: courtID, Hours: hours})
}

// Delete removes a reservation resolved from the request path.
func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, _ := IdentityFromContext(r.Context())
	id, ok := ReservationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidReservationID)
		return
	}

	logger := h.log(r.Context(), "Delete", "actor", identity.Email, "reservation_id", id)

	reservation, err := h.service.Delete(r.Context(), application.DeleteReservationParams{Identity: identity, ReservationID: id})
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to delete reservation", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "reservation deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationDTOFrom(reservation))
}

// ChangeStatus moves a reservation between lifecycle states.
func (h *ReservationHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, _ := IdentityFromContext(r.Context())
	id, ok := ReservationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidReservationID)
		return
	}

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "ChangeStatus", "actor", identity.Email, "reservation_id", id, "status", req.Status)

	reservation, err := h.service.ChangeStatus(r.Context(), application.ChangeReservationStatusParams{
		Identity:      identity,
		ReservationID: id,
		Status:        req.Status,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to change reservation status", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "reservation status changed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationDTOFrom(reservation))
}

type reservationDTO struct {
	ID         string  `json:"id,omitempty"`
	CourtID    string  `json:"court_id"`
	UserEmail  string  `json:"user_email,omitempty"`
	TotalTime  int     `json:"total_time"`
	TotalPrice float64 `json:"total_price"`
	Hour       string  `json:"hour"`
	Day        string  `json:"day"`
	Status     string  `json:"status,omitempty"`
	Name       string  `json:"name,omitempty"`
	Lastname   string  `json:"lastname,omitempty"`
	CreatedAt  string  `json:"created_at,omitempty"`
}

func reservationDTOFrom(reservation application.Reservation) reservationDTO {
	dto := reservationDTO{
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
	}
	if !reservation.CreatedAt.IsZero() {
		dto.CreatedAt = reservation.CreatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type hoursResponse struct {
	Day     string   `json:"day"`
	CourtID string   `json:"court_id"`
	Hours   []string `json:"hours"`
}
