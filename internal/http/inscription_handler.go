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

type inscriptionService interface {
	RegisterInscription(ctx context.Context, principal application.Principal, params application.RegisterInscriptionParams) (application.Inscription, error)
	CancelInscription(ctx context.Context, principal application.Principal, inscriptionID string) error
	MarkAttendance(ctx context.Context, principal application.Principal, params application.MarkAttendanceParams) (application.Inscription, error)
	ListInscriptionsForActivity(ctx context.Context, activityID string) ([]application.Inscription, error)
	ListInscriptionsForParticipant(ctx context.Context, participantID string) ([]application.Inscription, error)
}

// InscriptionHandler serves enrollment and attendance endpoints.
type InscriptionHandler struct {
	service   inscriptionService
	responder responder
	logger    *slog.Logger
}

// NewInscriptionHandler creates an InscriptionHandler backed by the given service.
func NewInscriptionHandler(service inscriptionService, logger *slog.Logger) *InscriptionHandler {
	base := ensureLogger(logger)
	return &InscriptionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *InscriptionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return scopedLogger(ctx, h.logger, "InscriptionHandler", operation, attrs...)
}

// Create enrolls a participant into the activity.
func (h *InscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req inscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.OrganizerID, "activity_id", activityID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode inscription request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.OrganizerID, "activity_id", activityID, "participant_id", req.ParticipantID)

	inscription, err := h.service.RegisterInscription(r.Context(), principal, application.RegisterInscriptionParams{
		ActivityID:    activityID,
		ParticipantID: strings.TrimSpace(req.ParticipantID),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "inscription failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("inscription_id", inscription.ID).InfoContext(r.Context(), "participant enrolled")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, inscriptionResponse{Inscription: toInscriptionDTO(inscription)})
}

// Cancel removes an enrollment, freeing the seat.
func (h *InscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	inscriptionID := chi.URLParam(r, "inscriptionID")
	if inscriptionID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Cancel", "principal_id", principal.OrganizerID, "inscription_id", inscriptionID)

	if err := h.service.CancelInscription(r.Context(), principal, inscriptionID); err != nil {
		logger.ErrorContext(r.Context(), "inscription cancel failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "inscription cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// MarkAttendance records whether the participant attended.
func (h *InscriptionHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	inscriptionID := chi.URLParam(r, "inscriptionID")
	if inscriptionID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "MarkAttendance", "principal_id", principal.OrganizerID, "inscription_id", inscriptionID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode attendance request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "MarkAttendance", "principal_id", principal.OrganizerID, "inscription_id", inscriptionID, "attended", req.Attended)

	inscription, err := h.service.MarkAttendance(r.Context(), principal, application.MarkAttendanceParams{
		InscriptionID: inscriptionID,
		Attended:      req.Attended,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "attendance update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "attendance recorded")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, inscriptionResponse{Inscription: toInscriptionDTO(inscription)})
}

// ListForActivity returns the activity's enrollments.
func (h *InscriptionHandler) ListForActivity(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activityID := chi.URLParam(r, "activityID")
	if activityID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	logger := h.log(r.Context(), "ListForActivity", "activity_id", activityID)

	inscriptions, err := h.service.ListInscriptionsForActivity(r.Context(), activityID)
	if err != nil {
		logger.ErrorContext(r.Context(), "inscription list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(inscriptions)).InfoContext(r.Context(), "inscriptions listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listInscriptionsResponse{Inscriptions: toInscriptionDTOs(inscriptions)})
}

// ListForParticipant returns a participant's enrollments.
func (h *InscriptionHandler) ListForParticipant(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	participantID := chi.URLParam(r, "participantID")
	if participantID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	logger := h.log(r.Context(), "ListForParticipant", "participant_id", participantID)

	inscriptions, err := h.service.ListInscriptionsForParticipant(r.Context(), participantID)
	if err != nil {
		logger.ErrorContext(r.Context(), "inscription list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(inscriptions)).InfoContext(r.Context(), "inscriptions listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listInscriptionsResponse{Inscriptions: toInscriptionDTOs(inscriptions)})
}

type inscriptionRequest struct {
	ParticipantID string `json:"participant_id"`
}

type attendanceRequest struct {
	Attended bool `json:"attended"`
}

type inscriptionResponse struct {
	Inscription inscriptionDTO `json:"inscription"`
}

type listInscriptionsResponse struct {
	Inscriptions []inscriptionDTO `json:"inscriptions"`
}

type inscriptionDTO struct {
	ID            string `json:"id"`
	ActivityID    string `json:"activity_id"`
	ParticipantID string `json:"participant_id"`
	Attendance    string `json:"attendance"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func toInscriptionDTO(inscription application.Inscription) inscriptionDTO {
	return inscriptionDTO{
		ID:            inscription.ID,
		ActivityID:    inscription.ActivityID,
		ParticipantID: inscription.ParticipantID,
		Attendance:    string(inscription.Attendance),
		CreatedAt:     inscription.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     inscription.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toInscriptionDTOs(inscriptions []application.Inscription) []inscriptionDTO {
	if len(inscriptions) == 0 {
		return nil
	}
	out := make([]inscriptionDTO, 0, len(inscriptions))
	for _, inscription := range inscriptions {
		out = append(out, toInscriptionDTO(inscription))
	}
	return out
}
