package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/campus-events/internal/application"
)

type activityService interface {
	RegisterActivity(ctx context.Context, principal application.Principal, params application.RegisterActivityParams) (application.Activity, error)
	UpdateActivity(ctx context.Context, principal application.Principal, params application.UpdateActivityParams) (application.Activity, error)
	FinalizeActivity(ctx context.Context, principal application.Principal, activityID string) (application.Activity, error)
	CheckScheduleConflict(ctx context.Context, params application.ConflictCheckParams) (*application.ConflictWarning, error)
	GetActivity(ctx context.Context, id string) (application.Activity, error)
	ListActivities(ctx context.Context, eventID string) ([]application.ActivityListItem, error)
	DeleteActivity(ctx context.Context, principal application.Principal, activityID string) error
}

// ActivityHandler serves activity scheduling and conflict probing endpoints.
type ActivityHandler struct {
	service   activityService
	responder responder
	logger    *slog.Logger
}

// NewActivityHandler creates an ActivityHandler backed by the given service.
func NewActivityHandler(service activityService, logger *slog.Logger) *ActivityHandler {
	base := ensureLogger(logger)
	return &ActivityHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ActivityHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return scopedLogger(ctx, h.logger, "ActivityHandler", operation, attrs...)
}

// Create schedules an activity inside an event.
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.OrganizerID, "event_id", eventID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode activity request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.OrganizerID, "event_id", eventID)

	activity, err := h.service.RegisterActivity(r.Context(), principal, application.RegisterActivityParams{
		EventID: eventID,
		Input:   req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "activity registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("activity_id", activity.ID).InfoContext(r.Context(), "activity registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, activityResponse{Activity: toActivityDTO(activity)})
}

// Update modifies an existing activity.
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activityID := chi.URLParam(r, "activityID")
	if activityID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.OrganizerID, "activity_id", activityID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode activity update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.OrganizerID, "activity_id", activityID)

	activity, err := h.service.UpdateActivity(r.Context(), principal, application.UpdateActivityParams{
		ActivityID: activityID,
		Input:      req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "activity update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "activity updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, activityResponse{Activity: toActivityDTO(activity)})
}

// Finalize latches the activity closed. Repeating the call is a no-op.
func (h *ActivityHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activityID := chi.URLParam(r, "activityID")
	if activityID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Finalize", "principal_id", principal.OrganizerID, "activity_id", activityID)

	activity, err := h.service.FinalizeActivity(r.Context(), principal, activityID)
	if err != nil {
		logger.ErrorContext(r.Context(), "activity finalization failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "activity finalized")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, activityResponse{Activity: toActivityDTO(activity)})
}

// ConflictCheck probes a venue time window without writing anything.
func (h *ActivityHandler) ConflictCheck(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	duration, _ := strconv.Atoi(query.Get("duration_minutes"))
	params := application.ConflictCheckParams{
		VenueID:           strings.TrimSpace(query.Get("venue_id")),
		Start:             parseTimestamp(query.Get("start")),
		DurationMinutes:   duration,
		ExcludeActivityID: strings.TrimSpace(query.Get("exclude_activity_id")),
	}

	logger := h.log(r.Context(), "ConflictCheck", "venue_id", params.VenueID)

	warning, err := h.service.CheckScheduleConflict(r.Context(), params)
	if err != nil {
		logger.ErrorContext(r.Context(), "conflict check failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := conflictCheckResponse{Conflict: warning != nil}
	if warning != nil {
		dto := toConflictWarningDTO(*warning)
		response.Warning = &dto
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, response)
}

// Get returns a single activity.
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activityID := chi.URLParam(r, "activityID")
	if activityID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	activity, err := h.service.GetActivity(r.Context(), activityID)
	if err != nil {
		h.log(r.Context(), "Get", "activity_id", activityID).ErrorContext(r.Context(), "activity lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, activityResponse{Activity: toActivityDTO(activity)})
}

// ListForEvent returns the event's activities with advisory conflict warnings.
func (h *ActivityHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	logger := h.log(r.Context(), "ListForEvent", "event_id", eventID)

	items, err := h.service.ListActivities(r.Context(), eventID)
	if err != nil {
		logger.ErrorContext(r.Context(), "activity list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(items)).InfoContext(r.Context(), "activities listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listActivitiesResponse{Activities: toActivityListDTOs(items)})
}

// Delete removes an activity together with its inscriptions.
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activityID := chi.URLParam(r, "activityID")
	if activityID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.OrganizerID, "activity_id", activityID)

	if err := h.service.DeleteActivity(r.Context(), principal, activityID); err != nil {
		logger.ErrorContext(r.Context(), "activity delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "activity deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type activityRequest struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	VenueID         string `json:"venue_id"`
	Start           string `json:"start"`
	DurationMinutes int    `json:"duration_minutes"`
	Capacity        int    `json:"capacity"`
}

func (r activityRequest) toInput() application.ActivityInput {
	return application.ActivityInput{
		Name:            strings.TrimSpace(r.Name),
		Type:            strings.TrimSpace(r.Type),
		VenueID:         strings.TrimSpace(r.VenueID),
		Start:           parseTimestamp(r.Start),
		DurationMinutes: r.DurationMinutes,
		Capacity:        r.Capacity,
	}
}

type activityResponse struct {
	Activity activityDTO `json:"activity"`
}

type listActivitiesResponse struct {
	Activities []activityListItemDTO `json:"activities"`
}

type conflictCheckResponse struct {
	Conflict bool                `json:"conflict"`
	Warning  *conflictWarningDTO `json:"warning,omitempty"`
}

type activityDTO struct {
	ID              string `json:"id"`
	EventID         string `json:"event_id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	VenueID         string `json:"venue_id"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"duration_minutes"`
	Capacity        int    `json:"capacity"`
	Finalized       bool   `json:"finalized"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type activityListItemDTO struct {
	Activity activityDTO          `json:"activity"`
	Warnings []conflictWarningDTO `json:"warnings,omitempty"`
}

type conflictWarningDTO struct {
	ActivityID     string `json:"activity_id,omitempty"`
	WithActivityID string `json:"with_activity_id"`
	VenueID        string `json:"venue_id"`
	Start          string `json:"start"`
	End            string `json:"end"`
}

func toActivityDTO(activity application.Activity) activityDTO {
	return activityDTO{
		ID:              activity.ID,
		EventID:         activity.EventID,
		Name:            activity.Name,
		Type:            activity.Type,
		VenueID:         activity.VenueID,
		Start:           activity.Start.UTC().Format(time.RFC3339Nano),
		End:             activity.End().UTC().Format(time.RFC3339Nano),
		DurationMinutes: activity.DurationMinutes,
		Capacity:        activity.Capacity,
		Finalized:       activity.Finalized,
		CreatedAt:       activity.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       activity.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toConflictWarningDTO(warning application.ConflictWarning) conflictWarningDTO {
	return conflictWarningDTO{
		ActivityID:     warning.ActivityID,
		WithActivityID: warning.WithActivityID,
		VenueID:        warning.VenueID,
		Start:          warning.Start.UTC().Format(time.RFC3339Nano),
		End:            warning.End.UTC().Format(time.RFC3339Nano),
	}
}

func toActivityListDTOs(items []application.ActivityListItem) []activityListItemDTO {
	if len(items) == 0 {
		return nil
	}
	out := make([]activityListItemDTO, 0, len(items))
	for _, item := range items {
		dto := activityListItemDTO{Activity: toActivityDTO(item.Activity)}
		for _, warning := range item.Warnings {
			dto.Warnings = append(dto.Warnings, toConflictWarningDTO(warning))
		}
		out = append(out, dto)
	}
	return out
}
