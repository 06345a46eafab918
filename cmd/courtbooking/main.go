package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/courtbooking/internal/application"
	"github.com/example/courtbooking/internal/config"
	httptransport "github.com/example/courtbooking/internal/http"
	"github.com/example/courtbooking/internal/logging"
	"github.com/example/courtbooking/internal/persistence/postgres"
	"github.com/example/courtbooking/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger(os.Stderr, "error").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(os.Stdout, cfg.LogLevel)

	pool, err := postgres.Open(ctx, cfg.DatabaseDSN())
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	if err := pool.Migrate(ctx); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	userRepo := postgres.NewUserRepository(pool.DB())
	courtRepo := postgres.NewCourtRepository(pool.DB())
	reservationRepo := postgres.NewReservationRepository(pool)

	tokens := session.NewManager([]byte(cfg.JWTSecret), cfg.SessionTTL, now)

	authService := application.NewAuthService(userRepo, tokens, application.HashPassword, application.VerifyPassword, now, logger)
	courtService := application.NewCourtService(courtRepo, idGenerator, now, logger)
	reservationService := application.NewReservationService(reservationRepo, idGenerator, now, logger)

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         httptransport.NewAuthHandler(authService, tokens.TTL(), logger),
		Courts:       httptransport.NewCourtHandler(courtService, logger),
		Reservations: httptransport.NewReservationHandler(reservationService, logger),
		Logger:       logger,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.ResolveIdentity(tokens, logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
