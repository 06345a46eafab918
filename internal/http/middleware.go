package http

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/example/courtbooking/internal/application"
	"github.com/example/courtbooking/internal/session"
)

// SessionCookieName is the cookie carrying the signed session credential.
const SessionCookieName = "access_token"

// TokenVerifier reconstructs identity claims from a signed session token.
type TokenVerifier interface {
	Verify(token string) (session.Claims, error)
}

// ResolveIdentity attaches the identity behind the access_token cookie to
// the request context. A missing cookie is not an error: the request
// proceeds anonymously. An invalid or expired token also degrades to
// anonymous so public endpoints keep working; it is recorded at debug
// level only.
func ResolveIdentity(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	base := defaultLogger(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := application.Identity{}

			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				claims, verifyErr := verifier.Verify(cookie.Value)
				if verifyErr != nil {
					base.DebugContext(r.Context(), "session token rejected", "error", verifyErr)
				} else {
					identity = application.Identity{
						Email:    claims.Email(),
						Name:     claims.Name,
						Lastname: claims.Lastname,
						Phone:    claims.Phone,
						Role:     claims.Role,
						Points:   claims.Points,
					}
				}
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects anonymous requests with 401. It assumes
// ResolveIdentity already ran.
func RequireIdentity(logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok || identity.IsAnonymous() {
				responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
					ErrorCode: "AUTH_REQUIRED",
					Message:   errAuthenticationNeeded.Error(),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger attaches a request scoped logger to the context and records
// the request lifecycle.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
