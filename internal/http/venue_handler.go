package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/campus-events/internal/application"
)

type venueService interface {
	RegisterVenue(ctx context.Context, principal application.Principal, input application.VenueInput) (application.Venue, error)
	UpdateVenue(ctx context.Context, principal application.Principal, id string, input application.VenueInput) (application.Venue, error)
	GetVenue(ctx context.Context, id string) (application.Venue, error)
	ListVenues(ctx context.Context) ([]application.Venue, error)
	DeleteVenue(ctx context.Context, principal application.Principal, id string) error
}

// VenueHandler serves venue catalog endpoints.
type VenueHandler struct {
	service   venueService
	responder responder
	logger    *slog.Logger
}

// NewVenueHandler creates a VenueHandler backed by the given service.
func NewVenueHandler(service venueService, logger *slog.Logger) *VenueHandler {
	base := ensureLogger(logger)
	return &VenueHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *VenueHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return scopedLogger(ctx, h.logger, "VenueHandler", operation, attrs...)
}

// Create registers a new venue.
func (h *VenueHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req venueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.OrganizerID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode venue request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.OrganizerID)

	venue, err := h.service.RegisterVenue(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "venue registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("venue_id", venue.ID).InfoContext(r.Context(), "venue registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, venueResponse{Venue: toVenueDTO(venue)})
}

// Update modifies an existing venue.
func (h *VenueHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	venueID := chi.URLParam(r, "venueID")
	if venueID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req venueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.OrganizerID, "venue_id", venueID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode venue update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.OrganizerID, "venue_id", venueID)

	venue, err := h.service.UpdateVenue(r.Context(), principal, venueID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "venue update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "venue updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, venueResponse{Venue: toVenueDTO(venue)})
}

// Get returns a single venue.
func (h *VenueHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	venueID := chi.URLParam(r, "venueID")
	if venueID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	venue, err := h.service.GetVenue(r.Context(), venueID)
	if err != nil {
		h.log(r.Context(), "Get", "venue_id", venueID).ErrorContext(r.Context(), "venue lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, venueResponse{Venue: toVenueDTO(venue)})
}

// List returns all venues ordered by name.
func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")

	venues, err := h.service.ListVenues(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "venue list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(venues)).InfoContext(r.Context(), "venues listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listVenuesResponse{Venues: toVenueDTOs(venues)})
}

// Delete removes a venue that no activity references.
func (h *VenueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	venueID := chi.URLParam(r, "venueID")
	if venueID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.OrganizerID, "venue_id", venueID)

	if err := h.service.DeleteVenue(r.Context(), principal, venueID); err != nil {
		logger.ErrorContext(r.Context(), "venue delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "venue deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type venueRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
}

func (r venueRequest) toInput() application.VenueInput {
	return application.VenueInput{
		Name:     strings.TrimSpace(r.Name),
		Type:     application.VenueType(strings.TrimSpace(r.Type)),
		Capacity: r.Capacity,
	}
}

type venueResponse struct {
	Venue venueDTO `json:"venue"`
}

type listVenuesResponse struct {
	Venues []venueDTO `json:"venues"`
}

type venueDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Capacity  int    `json:"capacity"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toVenueDTO(venue application.Venue) venueDTO {
	return venueDTO{
		ID:        venue.ID,
		Name:      venue.Name,
		Type:      string(venue.Type),
		Capacity:  venue.Capacity,
		CreatedAt: venue.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: venue.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toVenueDTOs(venues []application.Venue) []venueDTO {
	if len(venues) == 0 {
		return nil
	}
	out := make([]venueDTO, 0, len(venues))
	for _, venue := range venues {
		out = append(out, toVenueDTO(venue))
	}
	return out
}
