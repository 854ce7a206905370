package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/lifecycle"
)

var (
	errBadRequestBody      = errors.New("the request body could not be parsed")
	errMissingResourceID   = errors.New("a resource identifier is required")
	errMissingSessionToken = errors.New("a session token is required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := err.Error(); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError translates application sentinels into HTTP status codes
// and stable error codes for API clients.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "you are not allowed to perform this operation",
		})
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "the email or password is incorrect",
		})
	case errors.Is(err, application.ErrAccountDisabled):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_ACCOUNT_DISABLED",
			Message:   "this account has been disabled",
		})
	case errors.Is(err, application.ErrSessionExpired), errors.Is(err, application.ErrSessionRevoked):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_SESSION_EXPIRED",
			Message:   "the session is no longer valid, please sign in again",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "the requested resource was not found"})
	case errors.Is(err, application.ErrScheduleConflict):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "SCHEDULE_CONFLICT",
			Message:   "the venue is already booked during the requested time window",
		})
	case errors.Is(err, application.ErrDuplicateTitle):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "DUPLICATE_TITLE",
			Message:   "an event with this title already exists in the period",
		})
	case errors.Is(err, application.ErrDuplicateName):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "DUPLICATE_NAME",
			Message:   "an activity with this name already exists in the event",
		})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ALREADY_EXISTS",
			Message:   "a resource with the same identity already exists",
		})
	case errors.Is(err, application.ErrEventNotPlanned):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "EVENT_NOT_PLANNED",
			Message:   "the event can no longer be modified in its current status",
		})
	case errors.Is(err, application.ErrActivityFinalized):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ACTIVITY_FINALIZED",
			Message:   "the activity has been finalized and no longer accepts changes",
		})
	case errors.Is(err, application.ErrAlreadyEnrolled):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ALREADY_ENROLLED",
			Message:   "the participant is already enrolled in this activity",
		})
	case errors.Is(err, application.ErrCapacityFull):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "CAPACITY_FULL",
			Message:   "the activity has reached its capacity",
		})
	case errors.Is(err, application.ErrOrganizerHasEvents):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ORGANIZER_HAS_EVENTS",
			Message:   "the organizer still owns events and cannot be removed",
		})
	case errors.Is(err, application.ErrVenueInUse):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "VENUE_IN_USE",
			Message:   "the venue is referenced by scheduled activities and cannot be removed",
		})
	case errors.Is(err, application.ErrParticipantEnrolled):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "PARTICIPANT_ENROLLED",
			Message:   "the participant has active enrollments and cannot be removed",
		})
	default:
		var tErr *lifecycle.TransitionError
		if errors.As(err, &tErr) {
			r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
				ErrorCode: "INVALID_TRANSITION",
				Message:   tErr.Error(),
			})
			return
		}

		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "the submitted input is invalid",
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "an internal error occurred"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

// ensureLogger substitutes the process-wide default when no logger was wired.
func ensureLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// scopedLogger derives a handler-scoped logger, preferring the request-scoped
// one the logging middleware put on the context.
func scopedLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = ensureLogger(fallback)
	}
	logger = logger.With("handler", handlerName)
	if operation != "" {
		logger = logger.With("operation", operation)
	}
	return logger.With(attrs...)
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
