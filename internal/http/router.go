package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig wires handlers and middleware into the API router. Nil handlers
// leave their routes unregistered.
type RouterConfig struct {
	Auth         *AuthHandler
	Organizers   *OrganizerHandler
	Events       *EventHandler
	Activities   *ActivityHandler
	Venues       *VenueHandler
	Participants *ParticipantHandler
	Inscriptions *InscriptionHandler

	SessionValidator SessionValidator
	Logger           *slog.Logger
}

// NewRouter builds the chi router for the campus events API. Session creation
// and organizer signup are public; everything else requires a valid session.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := ensureLogger(cfg.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	if cfg.Auth != nil {
		r.Post("/sessions", cfg.Auth.CreateSession)
	}
	if cfg.Organizers != nil {
		r.Post("/organizers", cfg.Organizers.Create)
	}

	r.Group(func(r chi.Router) {
		if cfg.SessionValidator != nil {
			r.Use(RequireSession(cfg.SessionValidator, logger))
		}

		if cfg.Auth != nil {
			r.Post("/sessions/refresh", cfg.Auth.RefreshSession)
			r.Delete("/sessions/current", cfg.Auth.DeleteCurrentSession)
		}

		if cfg.Organizers != nil {
			r.Get("/organizers", cfg.Organizers.List)
			r.Get("/organizers/{organizerID}", cfg.Organizers.Get)
			r.Put("/organizers/{organizerID}", cfg.Organizers.Update)
			r.Delete("/organizers/{organizerID}", cfg.Organizers.Delete)
		}

		if cfg.Events != nil {
			r.Get("/events", cfg.Events.List)
			r.Post("/events", cfg.Events.Create)
			r.Get("/events/code/next", cfg.Events.PreviewCode)
			r.Get("/events/{eventID}", cfg.Events.Get)
			r.Put("/events/{eventID}", cfg.Events.Update)
			r.Delete("/events/{eventID}", cfg.Events.Delete)
			r.Post("/events/{eventID}/status", cfg.Events.ChangeStatus)
		}

		if cfg.Activities != nil {
			r.Get("/events/{eventID}/activities", cfg.Activities.ListForEvent)
			r.Post("/events/{eventID}/activities", cfg.Activities.Create)
			r.Get("/activities/conflict-check", cfg.Activities.ConflictCheck)
			r.Get("/activities/{activityID}", cfg.Activities.Get)
			r.Put("/activities/{activityID}", cfg.Activities.Update)
			r.Delete("/activities/{activityID}", cfg.Activities.Delete)
			r.Post("/activities/{activityID}/finalize", cfg.Activities.Finalize)
		}

		if cfg.Venues != nil {
			r.Get("/venues", cfg.Venues.List)
			r.Post("/venues", cfg.Venues.Create)
			r.Get("/venues/{venueID}", cfg.Venues.Get)
			r.Put("/venues/{venueID}", cfg.Venues.Update)
			r.Delete("/venues/{venueID}", cfg.Venues.Delete)
		}

		if cfg.Participants != nil {
			r.Get("/participants", cfg.Participants.List)
			r.Post("/participants", cfg.Participants.Create)
			r.Get("/participants/{participantID}", cfg.Participants.Get)
			r.Put("/participants/{participantID}", cfg.Participants.Update)
			r.Delete("/participants/{participantID}", cfg.Participants.Delete)
		}

		if cfg.Inscriptions != nil {
			r.Get("/activities/{activityID}/inscriptions", cfg.Inscriptions.ListForActivity)
			r.Post("/activities/{activityID}/inscriptions", cfg.Inscriptions.Create)
			r.Get("/participants/{participantID}/inscriptions", cfg.Inscriptions.ListForParticipant)
			r.Delete("/inscriptions/{inscriptionID}", cfg.Inscriptions.Cancel)
			r.Put("/inscriptions/{inscriptionID}/attendance", cfg.Inscriptions.MarkAttendance)
		}
	})

	return r
}
