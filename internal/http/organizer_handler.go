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

type organizerService interface {
	RegisterOrganizer(ctx context.Context, input application.OrganizerInput) (application.Organizer, error)
	UpdateOrganizer(ctx context.Context, principal application.Principal, id string, input application.OrganizerInput) (application.Organizer, error)
	GetOrganizer(ctx context.Context, id string) (application.Organizer, error)
	ListOrganizers(ctx context.Context) ([]application.Organizer, error)
	DeleteOrganizer(ctx context.Context, principal application.Principal, id string) error
}

// OrganizerHandler serves organizer account endpoints. Signup is public;
// everything else requires a session.
type OrganizerHandler struct {
	service   organizerService
	responder responder
	logger    *slog.Logger
}

// NewOrganizerHandler creates an OrganizerHandler backed by the given service.
func NewOrganizerHandler(service organizerService, logger *slog.Logger) *OrganizerHandler {
	base := ensureLogger(logger)
	return &OrganizerHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *OrganizerHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return scopedLogger(ctx, h.logger, "OrganizerHandler", operation, attrs...)
}

// Create registers a new organizer account.
func (h *OrganizerHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req organizerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode organizer request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "email", strings.TrimSpace(strings.ToLower(req.Email)))

	organizer, err := h.service.RegisterOrganizer(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "organizer registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("organizer_id", organizer.ID).InfoContext(r.Context(), "organizer registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, organizerResponse{Organizer: toOrganizerDTO(organizer)})
}

// Update modifies the authenticated organizer's own account.
func (h *OrganizerHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	organizerID := chi.URLParam(r, "organizerID")
	if organizerID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req organizerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.OrganizerID, "organizer_id", organizerID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode organizer update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.OrganizerID, "organizer_id", organizerID)

	organizer, err := h.service.UpdateOrganizer(r.Context(), principal, organizerID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "organizer update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "organizer updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, organizerResponse{Organizer: toOrganizerDTO(organizer)})
}

// Get returns a single organizer.
func (h *OrganizerHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	organizerID := chi.URLParam(r, "organizerID")
	if organizerID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	organizer, err := h.service.GetOrganizer(r.Context(), organizerID)
	if err != nil {
		h.log(r.Context(), "Get", "organizer_id", organizerID).ErrorContext(r.Context(), "organizer lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, organizerResponse{Organizer: toOrganizerDTO(organizer)})
}

// List returns all organizer accounts.
func (h *OrganizerHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")

	organizers, err := h.service.ListOrganizers(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "organizer list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(organizers)).InfoContext(r.Context(), "organizers listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listOrganizersResponse{Organizers: toOrganizerDTOs(organizers)})
}

// Delete removes the authenticated organizer's own account.
func (h *OrganizerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	organizerID := chi.URLParam(r, "organizerID")
	if organizerID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.OrganizerID, "organizer_id", organizerID)

	if err := h.service.DeleteOrganizer(r.Context(), principal, organizerID); err != nil {
		logger.ErrorContext(r.Context(), "organizer delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "organizer deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type organizerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (r organizerRequest) toInput() application.OrganizerInput {
	return application.OrganizerInput{
		FullName: strings.TrimSpace(r.FullName),
		Email:    strings.TrimSpace(r.Email),
		Role:     application.OrganizerRole(strings.TrimSpace(r.Role)),
		Password: r.Password,
	}
}

type organizerResponse struct {
	Organizer organizerDTO `json:"organizer"`
}

type listOrganizersResponse struct {
	Organizers []organizerDTO `json:"organizers"`
}

type organizerDTO struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toOrganizerDTO(organizer application.Organizer) organizerDTO {
	return organizerDTO{
		ID:        organizer.ID,
		FullName:  organizer.FullName,
		Email:     organizer.Email,
		Role:      string(organizer.Role),
		CreatedAt: organizer.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: organizer.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toOrganizerDTOs(organizers []application.Organizer) []organizerDTO {
	if len(organizers) == 0 {
		return nil
	}
	out := make([]organizerDTO, 0, len(organizers))
	for _, organizer := range organizers {
		out = append(out, toOrganizerDTO(organizer))
	}
	return out
}
