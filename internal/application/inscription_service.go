package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/example/campus-events/internal/enrollment"
)

// InscriptionRepository is the persistence contract the inscription service
// depends on.
type InscriptionRepository interface {
	CreateInscription(ctx context.Context, inscription Inscription) (Inscription, error)
	GetInscription(ctx context.Context, id string) (Inscription, error)
	GetInscriptionForPair(ctx context.Context, activityID, participantID string) (Inscription, error)
	UpdateInscription(ctx context.Context, inscription Inscription) (Inscription, error)
	DeleteInscription(ctx context.Context, id string) error
	ListInscriptionsForActivity(ctx context.Context, activityID string) ([]Inscription, error)
	ListInscriptionsForParticipant(ctx context.Context, participantID string) ([]Inscription, error)
	CountInscriptionsForActivity(ctx context.Context, activityID string) (int, error)
}

// ParticipantResolver loads and updates participants for attendance tracking.
type ParticipantResolver interface {
	GetParticipant(ctx context.Context, id string) (Participant, error)
	UpdateParticipant(ctx context.Context, participant Participant) (Participant, error)
}

// ActivityResolver loads activities for enrollment checks.
type ActivityResolver interface {
	GetActivity(ctx context.Context, id string) (Activity, error)
}

// InscriptionService enrolls participants into activities, enforcing the
// finalized, duplicate and capacity rules in that order, and records
// attendance afterwards.
type InscriptionService struct {
	inscriptions InscriptionRepository
	activities   ActivityResolver
	participants ParticipantResolver
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

func NewInscriptionService(inscriptions InscriptionRepository, activities ActivityResolver, participants ParticipantResolver, idGenerator func() string, now func() time.Time, logger *slog.Logger) *InscriptionService {
	if idGenerator == nil {
		panic("application: NewInscriptionService requires an id generator")
	}
	if now == nil {
		now = time.Now
	}
	return &InscriptionService{
		inscriptions: inscriptions,
		activities:   activities,
		participants: participants,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// RegisterInscription enrolls a participant into an activity. The storage
// layer re-checks the duplicate and capacity rules inside its transaction, so
// a race lost here still surfaces as the matching sentinel.
func (s *InscriptionService) RegisterInscription(ctx context.Context, principal Principal, params RegisterInscriptionParams) (Inscription, error) {
	logger := serviceLogger(ctx, s.logger, "InscriptionService", "RegisterInscription")
	if !principal.Authenticated() {
		logger.Warn("inscription rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return Inscription{}, ErrUnauthorized
	}

	activity, err := s.activities.GetActivity(ctx, params.ActivityID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load activity", slog.String("error", err.Error()))
		}
		return Inscription{}, err
	}
	if _, err := s.participants.GetParticipant(ctx, params.ParticipantID); err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load participant", slog.String("error", err.Error()))
		}
		return Inscription{}, err
	}

	alreadyEnrolled := false
	if _, err := s.inscriptions.GetInscriptionForPair(ctx, params.ActivityID, params.ParticipantID); err == nil {
		alreadyEnrolled = true
	} else if !errors.Is(err, ErrNotFound) {
		logger.Error("failed to check existing inscription", slog.String("error", err.Error()))
		return Inscription{}, err
	}

	enrolled, err := s.inscriptions.CountInscriptionsForActivity(ctx, params.ActivityID)
	if err != nil {
		logger.Error("failed to count inscriptions", slog.String("error", err.Error()))
		return Inscription{}, err
	}

	snapshot := enrollment.ActivitySnapshot{Finalized: activity.Finalized, Capacity: activity.Capacity}
	if err := enrollment.CanEnroll(snapshot, alreadyEnrolled, enrolled); err != nil {
		mapped := mapRejection(err)
		logger.Warn("inscription rejected",
			slog.String("activity_id", params.ActivityID),
			slog.String("error_kind", ErrorKind(mapped)))
		return Inscription{}, mapped
	}

	reference := s.now()
	inscription := Inscription{
		ID:            s.idGenerator(),
		ActivityID:    params.ActivityID,
		ParticipantID: params.ParticipantID,
		Attendance:    AttendanceUnset,
		CreatedAt:     reference,
		UpdatedAt:     reference,
	}
	created, err := s.inscriptions.CreateInscription(ctx, inscription)
	if err != nil {
		if errors.Is(err, ErrAlreadyEnrolled) || errors.Is(err, ErrCapacityFull) {
			logger.Warn("inscription rejected",
				slog.String("activity_id", params.ActivityID),
				slog.String("error_kind", ErrorKind(err)))
			return Inscription{}, err
		}
		logger.Error("failed to create inscription", slog.String("error", err.Error()))
		return Inscription{}, err
	}
	logger.Info("participant enrolled",
		slog.String("inscription_id", created.ID),
		slog.String("activity_id", created.ActivityID),
		slog.String("participant_id", created.ParticipantID))
	return created, nil
}

// CancelInscription removes an inscription outright. Cancellation is refused
// once the activity is finalized.
func (s *InscriptionService) CancelInscription(ctx context.Context, principal Principal, inscriptionID string) error {
	logger := serviceLogger(ctx, s.logger, "InscriptionService", "CancelInscription")
	if !principal.Authenticated() {
		logger.Warn("cancellation rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return ErrUnauthorized
	}

	inscription, err := s.inscriptions.GetInscription(ctx, inscriptionID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load inscription", slog.String("error", err.Error()))
		}
		return err
	}
	activity, err := s.activities.GetActivity(ctx, inscription.ActivityID)
	if err != nil {
		logger.Error("failed to load activity", slog.String("error", err.Error()))
		return err
	}
	if err := enrollment.CanCancel(activity.Finalized); err != nil {
		mapped := mapRejection(err)
		logger.Warn("cancellation rejected",
			slog.String("inscription_id", inscriptionID),
			slog.String("error_kind", ErrorKind(mapped)))
		return mapped
	}

	if err := s.inscriptions.DeleteInscription(ctx, inscriptionID); err != nil {
		logger.Error("failed to delete inscription", slog.String("error", err.Error()))
		return err
	}
	logger.Info("inscription cancelled", slog.String("inscription_id", inscriptionID))
	return nil
}

// MarkAttendance records whether the participant attended. The participant's
// attendance counter increments only on the transition into attended and is
// never decremented, so corrections away from attended leave it untouched.
func (s *InscriptionService) MarkAttendance(ctx context.Context, principal Principal, params MarkAttendanceParams) (Inscription, error) {
	logger := serviceLogger(ctx, s.logger, "InscriptionService", "MarkAttendance")
	if !principal.Authenticated() {
		logger.Warn("attendance rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return Inscription{}, ErrUnauthorized
	}

	inscription, err := s.inscriptions.GetInscription(ctx, params.InscriptionID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load inscription", slog.String("error", err.Error()))
		}
		return Inscription{}, err
	}

	requested := AttendanceNotAttended
	if params.Attended {
		requested = AttendanceAttended
	}
	if inscription.Attendance == requested {
		return inscription, nil
	}
	enteredAttended := requested == AttendanceAttended

	inscription.Attendance = requested
	inscription.UpdatedAt = s.now()
	updated, err := s.inscriptions.UpdateInscription(ctx, inscription)
	if err != nil {
		logger.Error("failed to update inscription", slog.String("error", err.Error()))
		return Inscription{}, err
	}

	if enteredAttended {
		participant, err := s.participants.GetParticipant(ctx, updated.ParticipantID)
		if err != nil {
			logger.Error("failed to load participant", slog.String("error", err.Error()))
			return Inscription{}, err
		}
		participant.AttendanceCount++
		participant.UpdatedAt = s.now()
		if _, err := s.participants.UpdateParticipant(ctx, participant); err != nil {
			logger.Error("failed to update participant", slog.String("error", err.Error()))
			return Inscription{}, err
		}
	}

	logger.Info("attendance recorded",
		slog.String("inscription_id", updated.ID),
		slog.String("attendance", string(updated.Attendance)))
	return updated, nil
}

func (s *InscriptionService) ListInscriptionsForActivity(ctx context.Context, activityID string) ([]Inscription, error) {
	logger := serviceLogger(ctx, s.logger, "InscriptionService", "ListInscriptionsForActivity")
	inscriptions, err := s.inscriptions.ListInscriptionsForActivity(ctx, activityID)
	if err != nil {
		logger.Error("failed to list inscriptions", slog.String("error", err.Error()))
		return nil, err
	}
	return inscriptions, nil
}

func (s *InscriptionService) ListInscriptionsForParticipant(ctx context.Context, participantID string) ([]Inscription, error) {
	logger := serviceLogger(ctx, s.logger, "InscriptionService", "ListInscriptionsForParticipant")
	inscriptions, err := s.inscriptions.ListInscriptionsForParticipant(ctx, participantID)
	if err != nil {
		logger.Error("failed to list inscriptions", slog.String("error", err.Error()))
		return nil, err
	}
	return inscriptions, nil
}

// mapRejection translates enrollment guard rejections into application sentinels.
func mapRejection(err error) error {
	var rejection *enrollment.Rejection
	if !errors.As(err, &rejection) {
		return err
	}
	switch rejection.Reason {
	case enrollment.ReasonActivityFinalized:
		return ErrActivityFinalized
	case enrollment.ReasonAlreadyEnrolled:
		return ErrAlreadyEnrolled
	case enrollment.ReasonCapacityFull:
		return ErrCapacityFull
	}
	return err
}
