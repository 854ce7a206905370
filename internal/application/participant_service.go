package application

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"
)

// ParticipantRepository is the persistence contract the participant service
// depends on.
type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, participant Participant) (Participant, error)
	GetParticipant(ctx context.Context, id string) (Participant, error)
	UpdateParticipant(ctx context.Context, participant Participant) (Participant, error)
	DeleteParticipant(ctx context.Context, id string) error
	ListParticipants(ctx context.Context) ([]Participant, error)
}

// ParticipantService maintains the registry of people who can enroll in
// activities. Each participant is one of three variants and carries only the
// detail field belonging to its kind.
type ParticipantService struct {
	participants ParticipantRepository
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

func NewParticipantService(participants ParticipantRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ParticipantService {
	if idGenerator == nil {
		panic("application: NewParticipantService requires an id generator")
	}
	if now == nil {
		now = time.Now
	}
	return &ParticipantService{
		participants: participants,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// RegisterParticipant stores a new participant. Email addresses are
// normalized to lower case and must be unique across all kinds.
func (s *ParticipantService) RegisterParticipant(ctx context.Context, principal Principal, input ParticipantInput) (Participant, error) {
	logger := serviceLogger(ctx, s.logger, "ParticipantService", "RegisterParticipant")
	if !principal.Authenticated() {
		logger.Warn("participant registration rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return Participant{}, ErrUnauthorized
	}
	if err := validateParticipantInput(input); err != nil {
		logger.Warn("participant registration rejected", slog.String("error_kind", ErrorKind(err)))
		return Participant{}, err
	}

	reference := s.now()
	participant := Participant{
		ID:        s.idGenerator(),
		Kind:      input.Kind,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     normalizeEmail(input.Email),
		CreatedAt: reference,
		UpdatedAt: reference,
	}
	applyKindDetail(&participant, input)

	created, err := s.participants.CreateParticipant(ctx, participant)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			logger.Warn("participant registration rejected", slog.String("error_kind", ErrorKind(err)))
			return Participant{}, err
		}
		logger.Error("failed to create participant", slog.String("error", err.Error()))
		return Participant{}, err
	}
	logger.Info("participant registered",
		slog.String("participant_id", created.ID),
		slog.String("kind", string(created.Kind)))
	return created, nil
}

// UpdateParticipant edits a participant's identity fields. The kind may
// change, in which case the detail field is swapped to the new variant's. The
// attendance counter is never writable through this operation.
func (s *ParticipantService) UpdateParticipant(ctx context.Context, principal Principal, id string, input ParticipantInput) (Participant, error) {
	logger := serviceLogger(ctx, s.logger, "ParticipantService", "UpdateParticipant")
	if !principal.Authenticated() {
		logger.Warn("participant update rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return Participant{}, ErrUnauthorized
	}
	if err := validateParticipantInput(input); err != nil {
		logger.Warn("participant update rejected", slog.String("error_kind", ErrorKind(err)))
		return Participant{}, err
	}

	existing, err := s.participants.GetParticipant(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load participant", slog.String("error", err.Error()))
		}
		return Participant{}, err
	}

	existing.Kind = input.Kind
	existing.FirstName = strings.TrimSpace(input.FirstName)
	existing.LastName = strings.TrimSpace(input.LastName)
	existing.Email = normalizeEmail(input.Email)
	existing.UpdatedAt = s.now()
	applyKindDetail(&existing, input)

	updated, err := s.participants.UpdateParticipant(ctx, existing)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			logger.Warn("participant update rejected", slog.String("error_kind", ErrorKind(err)))
			return Participant{}, err
		}
		logger.Error("failed to update participant", slog.String("error", err.Error()))
		return Participant{}, err
	}
	logger.Info("participant updated", slog.String("participant_id", updated.ID))
	return updated, nil
}

func (s *ParticipantService) GetParticipant(ctx context.Context, id string) (Participant, error) {
	logger := serviceLogger(ctx, s.logger, "ParticipantService", "GetParticipant")
	participant, err := s.participants.GetParticipant(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load participant", slog.String("error", err.Error()))
		}
		return Participant{}, err
	}
	return participant, nil
}

// ListParticipants returns the registry ordered by last then first name.
func (s *ParticipantService) ListParticipants(ctx context.Context) ([]Participant, error) {
	logger := serviceLogger(ctx, s.logger, "ParticipantService", "ListParticipants")
	participants, err := s.participants.ListParticipants(ctx)
	if err != nil {
		logger.Error("failed to list participants", slog.String("error", err.Error()))
		return nil, err
	}
	sort.Slice(participants, func(i, j int) bool {
		if participants[i].LastName == participants[j].LastName {
			return participants[i].FirstName < participants[j].FirstName
		}
		return participants[i].LastName < participants[j].LastName
	})
	return participants, nil
}

// DeleteParticipant removes a participant with no inscriptions. Existing
// inscriptions must be cancelled first.
func (s *ParticipantService) DeleteParticipant(ctx context.Context, principal Principal, id string) error {
	logger := serviceLogger(ctx, s.logger, "ParticipantService", "DeleteParticipant")
	if !principal.Authenticated() {
		logger.Warn("participant deletion rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return ErrUnauthorized
	}
	if err := s.participants.DeleteParticipant(ctx, id); err != nil {
		if errors.Is(err, ErrParticipantEnrolled) || errors.Is(err, ErrNotFound) {
			logger.Warn("participant deletion rejected", slog.String("error_kind", ErrorKind(err)))
			return err
		}
		logger.Error("failed to delete participant", slog.String("error", err.Error()))
		return err
	}
	logger.Info("participant deleted", slog.String("participant_id", id))
	return nil
}

// applyKindDetail keeps exactly the detail field matching the participant's
// kind and clears the others.
func applyKindDetail(participant *Participant, input ParticipantInput) {
	participant.StudentNumber = nil
	participant.Department = nil
	participant.Organization = nil
	switch input.Kind {
	case KindStudent:
		participant.StudentNumber = trimmedPtr(input.StudentNumber)
	case KindFaculty:
		participant.Department = trimmedPtr(input.Department)
	case KindExternal:
		participant.Organization = trimmedPtr(input.Organization)
	}
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateParticipantInput(input ParticipantInput) error {
	vErr := &ValidationError{}
	if !input.Kind.Valid() {
		vErr.add("kind", "kind must be student, faculty or external")
	}
	if strings.TrimSpace(input.FirstName) == "" {
		vErr.add("first_name", "first_name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		vErr.add("last_name", "last_name is required")
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "email is not a valid address")
	}

	switch input.Kind {
	case KindStudent:
		if trimmedPtr(input.StudentNumber) == nil {
			vErr.add("student_number", "student_number is required for students")
		}
	case KindFaculty:
		if trimmedPtr(input.Department) == nil {
			vErr.add("department", "department is required for faculty")
		}
	case KindExternal:
		if trimmedPtr(input.Organization) == nil {
			vErr.add("organization", "organization is required for external participants")
		}
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
