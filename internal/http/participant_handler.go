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

type participantService interface {
	RegisterParticipant(ctx context.Context, principal application.Principal, input application.ParticipantInput) (application.Participant, error)
	UpdateParticipant(ctx context.Context, principal application.Principal, id string, input application.ParticipantInput) (application.Participant, error)
	GetParticipant(ctx context.Context, id string) (application.Participant, error)
	ListParticipants(ctx context.Context) ([]application.Participant, error)
	DeleteParticipant(ctx context.Context, principal application.Principal, id string) error
}

// ParticipantHandler serves participant registry endpoints.
type ParticipantHandler struct {
	service   participantService
	responder responder
	logger    *slog.Logger
}

// NewParticipantHandler creates a ParticipantHandler backed by the given service.
func NewParticipantHandler(service participantService, logger *slog.Logger) *ParticipantHandler {
	base := ensureLogger(logger)
	return &ParticipantHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ParticipantHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return scopedLogger(ctx, h.logger, "ParticipantHandler", operation, attrs...)
}

// Create registers a new participant.
func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.OrganizerID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode participant request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.OrganizerID)

	participant, err := h.service.RegisterParticipant(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "participant registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("participant_id", participant.ID).InfoContext(r.Context(), "participant registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, participantResponse{Participant: toParticipantDTO(participant)})
}

// Update modifies an existing participant.
func (h *ParticipantHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	participantID := chi.URLParam(r, "participantID")
	if participantID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.OrganizerID, "participant_id", participantID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode participant update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.OrganizerID, "participant_id", participantID)

	participant, err := h.service.UpdateParticipant(r.Context(), principal, participantID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "participant update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "participant updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, participantResponse{Participant: toParticipantDTO(participant)})
}

// Get returns a single participant.
func (h *ParticipantHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	participantID := chi.URLParam(r, "participantID")
	if participantID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	participant, err := h.service.GetParticipant(r.Context(), participantID)
	if err != nil {
		h.log(r.Context(), "Get", "participant_id", participantID).ErrorContext(r.Context(), "participant lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, participantResponse{Participant: toParticipantDTO(participant)})
}

// List returns all participants ordered by name.
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")

	participants, err := h.service.ListParticipants(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "participant list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(participants)).InfoContext(r.Context(), "participants listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listParticipantsResponse{Participants: toParticipantDTOs(participants)})
}

// Delete removes a participant with no enrollments.
func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	participantID := chi.URLParam(r, "participantID")
	if participantID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.OrganizerID, "participant_id", participantID)

	if err := h.service.DeleteParticipant(r.Context(), principal, participantID); err != nil {
		logger.ErrorContext(r.Context(), "participant delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "participant deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type participantRequest struct {
	Kind          string  `json:"kind"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	StudentNumber *string `json:"student_number"`
	Department    *string `json:"department"`
	Organization  *string `json:"organization"`
}

func (r participantRequest) toInput() application.ParticipantInput {
	return application.ParticipantInput{
		Kind:          application.ParticipantKind(strings.TrimSpace(r.Kind)),
		FirstName:     strings.TrimSpace(r.FirstName),
		LastName:      strings.TrimSpace(r.LastName),
		Email:         strings.TrimSpace(r.Email),
		StudentNumber: r.StudentNumber,
		Department:    r.Department,
		Organization:  r.Organization,
	}
}

type participantResponse struct {
	Participant participantDTO `json:"participant"`
}

type listParticipantsResponse struct {
	Participants []participantDTO `json:"participants"`
}

type participantDTO struct {
	ID              string  `json:"id"`
	Kind            string  `json:"kind"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	AttendanceCount int     `json:"attendance_count"`
	StudentNumber   *string `json:"student_number,omitempty"`
	Department      *string `json:"department,omitempty"`
	Organization    *string `json:"organization,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toParticipantDTO(participant application.Participant) participantDTO {
	return participantDTO{
		ID:              participant.ID,
		Kind:            string(participant.Kind),
		FirstName:       participant.FirstName,
		LastName:        participant.LastName,
		Email:           participant.Email,
		AttendanceCount: participant.AttendanceCount,
		StudentNumber:   participant.StudentNumber,
		Department:      participant.Department,
		Organization:    participant.Organization,
		CreatedAt:       participant.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       participant.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toParticipantDTOs(participants []application.Participant) []participantDTO {
	if len(participants) == 0 {
		return nil
	}
	out := make([]participantDTO, 0, len(participants))
	for _, participant := range participants {
		out = append(out, toParticipantDTO(participant))
	}
	return out
}
