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

type authService interface {
	Register(ctx context.Context, params application.RegisterParams) (application.AuthResult, error)
	Login(ctx context.Context, params application.LoginParams) (application.AuthResult, error)
	GetUserByEmail(ctx context.Context, email string) (application.Identity, error)
}

// AuthHandler serves registration, login, logout, and identity endpoints.
type AuthHandler struct {
	service   authService
	cookieTTL time.Duration
	responder responder
	logger    *slog.Logger
}

// NewAuthHandler constructs an AuthHandler. cookieTTL bounds the lifetime
// of the access_token cookie and should match the token TTL.
func NewAuthHandler(service authService, cookieTTL time.Duration, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	if cookieTTL <= 0 {
		cookieTTL = time.Hour
	}
	return &AuthHandler{service: service, cookieTTL: cookieTTL, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// Register creates an account and immediately establishes a session.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Register", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode register request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Register", "email", req.Email)

	result, err := h.service.Register(r.Context(), application.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Lastname: req.Lastname,
		Phone:    req.Phone,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	logger.InfoContext(r.Context(), "user registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, sessionResponse{
		IsAuthenticated: true,
		User:            identityDTOFrom(result.Identity),
		ExpiresAt:       result.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Login verifies credentials and establishes a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	logger := h.log(r.Context(), "Login", "email", email)

	result, err := h.service.Login(r.Context(), application.LoginParams{Email: email, Password: req.Password})
	if err != nil {
		logger.ErrorContext(r.Context(), "login rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	logger.InfoContext(r.Context(), "user authenticated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{
		IsAuthenticated: true,
		User:            identityDTOFrom(result.Identity),
		ExpiresAt:       result.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout clears the session cookie. The credential itself is stateless, so
// clearing the cookie is the whole operation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.clearSessionCookie(w)
	h.log(r.Context(), "Logout").InfoContext(r.Context(), "session cookie cleared")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, logoutResponse{Message: "session closed"})
}

// Session reports the identity behind the current cookie. Anonymous
// requests receive is_authenticated=false rather than an error.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok || identity.IsAnonymous() {
		h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{IsAuthenticated: false})
		return
	}

	dto := identityDTOFrom(identity)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{IsAuthenticated: true, User: dto})
}

// LookupUser returns the identity view of an account by email. Restricted
// to administrators.
func (h *AuthHandler) LookupUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok || !identity.IsAdmin() {
		h.log(r.Context(), "LookupUser", "error_kind", "unauthorized").ErrorContext(r.Context(), "non-administrator attempted user lookup")
		h.responder.handleServiceError(r.Context(), w, application.ErrUnauthorized)
		return
	}

	var req lookupUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "LookupUser", "email", req.Email, "actor", identity.Email)

	found, err := h.service.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		logger.ErrorContext(r.Context(), "user lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, identityDTOFrom(found))
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type lookupUserRequest struct {
	Email string `json:"email"`
}

type identityDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Points   int    `json:"points"`
}

func identityDTOFrom(identity application.Identity) *identityDTO {
	return &identityDTO{
		Email:    identity.Email,
		Name:     identity.Name,
		Lastname: identity.Lastname,
		Phone:    identity.Phone,
		Role:     identity.Role,
		Points:   identity.Points,
	}
}

type sessionResponse struct {
	IsAuthenticated bool         `json:"is_authenticated"`
	User            *identityDTO `json:"user,omitempty"`
	ExpiresAt       string       `json:"expires_at,omitempty"`
}

type logoutResponse struct {
	Message string `json:"message"`
}
