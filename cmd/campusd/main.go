package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/config"
	httptransport "github.com/example/campus-events/internal/http"
	"github.com/example/campus-events/internal/logging"
	"github.com/example/campus-events/internal/persistence/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	organizerStore := newOrganizerStoreAdapter(sqlite.NewOrganizerRepository(pool))
	venueStore := newVenueStoreAdapter(sqlite.NewVenueRepository(pool))
	eventStore := newEventStoreAdapter(sqlite.NewEventRepository(pool))
	activityStore := newActivityStoreAdapter(sqlite.NewActivityRepository(pool))
	participantStore := newParticipantStoreAdapter(sqlite.NewParticipantRepository(pool))
	inscriptionStore := newInscriptionStoreAdapter(sqlite.NewInscriptionRepository(pool))
	sessionStore := newSessionStoreAdapter(sqlite.NewSessionRepository(pool))

	organizerService := application.NewOrganizerService(organizerStore, eventStore, idGenerator, now, logger)
	venueService := application.NewVenueService(venueStore, idGenerator, now, logger)
	eventService := application.NewEventService(eventStore, organizerStore, idGenerator, now, logger)
	activityService := application.NewActivityService(activityStore, eventStore, venueStore, idGenerator, now, logger)
	participantService := application.NewParticipantService(participantStore, idGenerator, now, logger)
	inscriptionService := application.NewInscriptionService(inscriptionStore, activityStore, participantStore, idGenerator, now, logger)
	authService := application.NewAuthService(organizerStore, sessionStore, idGenerator, tokenGenerator, now, cfg.SessionTTL, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:             httptransport.NewAuthHandler(authService, logger),
		Organizers:       httptransport.NewOrganizerHandler(organizerService, logger),
		Events:           httptransport.NewEventHandler(eventService, logger),
		Activities:       httptransport.NewActivityHandler(activityService, logger),
		Venues:           httptransport.NewVenueHandler(venueService, logger),
		Participants:     httptransport.NewParticipantHandler(participantService, logger),
		Inscriptions:     httptransport.NewInscriptionHandler(inscriptionService, logger),
		SessionValidator: authService,
		Logger:           logger,
	})

	go purgeExpiredSessions(ctx, authService, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
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

	logger.Info("campus events API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// purgeExpiredSessions reaps expired session rows periodically so the
// sessions table does not grow without bound.
func purgeExpiredSessions(ctx context.Context, auth *application.AuthService, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := auth.PurgeExpiredSessions(ctx); err != nil {
				logger.Error("failed to purge expired sessions", "error", err)
			}
		}
	}
}

// randomHex returns n bytes of cryptographic randomness, hex encoded. Session
// tokens must never degrade to a guessable value, so a broken entropy source
// aborts the process instead of substituting one.
func randomHex(n int) string {
	if n <= 0 {
		n = 16
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return hex.EncodeToString(buf)
}
