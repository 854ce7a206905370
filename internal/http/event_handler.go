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
	"github.com/example/campus-events/internal/lifecycle"
)

type eventService interface {
	RegisterEvent(ctx context.Context, principal application.Principal, input application.EventInput) (application.Event, error)
	UpdateEvent(ctx context.Context, principal application.Principal, params application.UpdateEventParams) (application.Event, error)
	ChangeEventStatus(ctx context.Context, principal application.Principal, params application.ChangeEventStatusParams) (application.Event, error)
	GenerateEventCode(ctx context.Context, principal application.Principal) (string, error)
	GetEvent(ctx context.Context, id string) (application.Event, error)
	ListEvents(ctx context.Context) ([]application.Event, error)
	DeleteEvent(ctx context.Context, principal application.Principal, id string) error
}

// EventHandler serves event registration, lifecycle, and listing endpoints.
type EventHandler struct {
	service   eventService
	responder responder
	logger    *slog.Logger
}

// NewEventHandler creates an EventHandler backed by the given service.
func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	base := ensureLogger(logger)
	return &EventHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EventHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return scopedLogger(ctx, h.logger, "EventHandler", operation, attrs...)
}

// Create registers a new event owned by the authenticated organizer.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.OrganizerID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode event request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.OrganizerID)

	event, err := h.service.RegisterEvent(r.Context(), principal, req.toInput(principal))
	if err != nil {
		logger.ErrorContext(r.Context(), "event registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("event_id", event.ID, "event_code", event.Code).InfoContext(r.Context(), "event registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, eventResponse{Event: toEventDTO(event)})
}

// Update modifies an existing planned event.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.OrganizerID, "event_id", eventID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode event update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.OrganizerID, "event_id", eventID)

	event, err := h.service.UpdateEvent(r.Context(), principal, application.UpdateEventParams{
		EventID: eventID,
		Input:   req.toInput(principal),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "event update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "event updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: toEventDTO(event)})
}

// ChangeStatus advances the event through its lifecycle.
func (h *EventHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "ChangeStatus", "principal_id", principal.OrganizerID, "event_id", eventID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode status request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	requested, err := lifecycle.ParseStatus(strings.TrimSpace(req.Status))
	if err != nil {
		vErr := &application.ValidationError{FieldErrors: map[string]string{"status": "status is invalid"}}
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "ChangeStatus", "principal_id", principal.OrganizerID, "event_id", eventID, "requested_status", string(requested))

	event, err := h.service.ChangeEventStatus(r.Context(), principal, application.ChangeEventStatusParams{
		EventID:   eventID,
		Requested: requested,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "status change failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "event status changed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: toEventDTO(event)})
}

// PreviewCode returns the code the next registration in the current period
// would receive. The value is advisory; registration assigns the final code.
func (h *EventHandler) PreviewCode(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "PreviewCode", "principal_id", principal.OrganizerID)

	code, err := h.service.GenerateEventCode(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "code preview failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, codePreviewResponse{Code: code})
}

// Get returns a single event.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	event, err := h.service.GetEvent(r.Context(), eventID)
	if err != nil {
		h.log(r.Context(), "Get", "event_id", eventID).ErrorContext(r.Context(), "event lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: toEventDTO(event)})
}

// List returns all events ordered by start time.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")

	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "event list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(events)).InfoContext(r.Context(), "events listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{Events: toEventDTOs(events)})
}

// Delete removes an event together with its activities and enrollments.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.OrganizerID, "event_id", eventID)

	if err := h.service.DeleteEvent(r.Context(), principal, eventID); err != nil {
		logger.ErrorContext(r.Context(), "event delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "event deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Modality    string `json:"modality"`
	Start       string `json:"start"`
	End         string `json:"end"`
	OrganizerID string `json:"organizer_id"`
}

func (r eventRequest) toInput(principal application.Principal) application.EventInput {
	organizerID := strings.TrimSpace(r.OrganizerID)
	if organizerID == "" {
		organizerID = principal.OrganizerID
	}
	return application.EventInput{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		Modality:    application.Modality(strings.TrimSpace(r.Modality)),
		Start:       parseTimestamp(r.Start),
		End:         parseTimestamp(r.End),
		OrganizerID: organizerID,
	}
}

// parseTimestamp tolerates invalid input by returning the zero time; the
// services reject zero instants with field-level validation errors.
func parseTimestamp(value string) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

type statusRequest struct {
	Status string `json:"status"`
}

type eventResponse struct {
	Event eventDTO `json:"event"`
}

type listEventsResponse struct {
	Events []eventDTO `json:"events"`
}

type codePreviewResponse struct {
	Code string `json:"code"`
}

type eventDTO struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Modality    string `json:"modality"`
	Start       string `json:"start"`
	End         string `json:"end"`
	OrganizerID string `json:"organizer_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toEventDTO(event application.Event) eventDTO {
	return eventDTO{
		ID:          event.ID,
		Code:        event.Code,
		Title:       event.Title,
		Description: event.Description,
		Status:      string(event.Status),
		Modality:    string(event.Modality),
		Start:       event.Start.UTC().Format(time.RFC3339Nano),
		End:         event.End.UTC().Format(time.RFC3339Nano),
		OrganizerID: event.OrganizerID,
		CreatedAt:   event.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   event.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toEventDTOs(events []application.Event) []eventDTO {
	if len(events) == 0 {
		return nil
	}
	out := make([]eventDTO, 0, len(events))
	for _, event := range events {
		out = append(out, toEventDTO(event))
	}
	return out
}
