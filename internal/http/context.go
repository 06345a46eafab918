package http

import (
	"context"
	"log/slog"

	"github.com/example/courtbooking/internal/application"
	"github.com/example/courtbooking/internal/logging"
)

type contextKey string

const (
	identityContextKey      contextKey = "identity"
	reservationIDContextKey contextKey = "reservation_id"
	courtIDContextKey       contextKey = "court_id"
)

// ContextWithIdentity returns a derived context carrying the resolved identity.
func ContextWithIdentity(ctx context.Context, identity application.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext extracts the resolved identity. The boolean is false
// when no identity middleware ran; an anonymous request yields a zero
// Identity with ok set to true.
func IdentityFromContext(ctx context.Context) (application.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(application.Identity)
	return identity, ok
}

// ContextWithReservationID injects the reservation identifier resolved from
// the request path.
func ContextWithReservationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reservationIDContextKey, id)
}

// ReservationIDFromContext extracts a reservation identifier previously
// associated with the context.
func ReservationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(reservationIDContextKey).(string)
	return id, ok
}

// ContextWithCourtID injects the court identifier resolved from the request
// path.
func ContextWithCourtID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, courtIDContextKey, id)
}

// CourtIDFromContext extracts a court identifier previously associated with
// the context.
func CourtIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(courtIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request scoped logger, if any.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
