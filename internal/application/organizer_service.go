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

// OrganizerRepository is the persistence contract the organizer service
// depends on.
type OrganizerRepository interface {
	CreateOrganizer(ctx context.Context, credentials OrganizerCredentials) (Organizer, error)
	GetOrganizer(ctx context.Context, id string) (Organizer, error)
	UpdateOrganizer(ctx context.Context, organizer Organizer) (Organizer, error)
	DeleteOrganizer(ctx context.Context, id string) error
	ListOrganizers(ctx context.Context) ([]Organizer, error)
}

// EventCounter reports how many events an organizer owns.
type EventCounter interface {
	CountEventsForOrganizer(ctx context.Context, organizerID string) (int, error)
}

// OrganizerService manages organizer accounts.
type OrganizerService struct {
	organizers  OrganizerRepository
	events      EventCounter
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

func NewOrganizerService(organizers OrganizerRepository, events EventCounter, idGenerator func() string, now func() time.Time, logger *slog.Logger) *OrganizerService {
	if idGenerator == nil {
		panic("application: NewOrganizerService requires an id generator")
	}
	if now == nil {
		now = time.Now
	}
	return &OrganizerService{
		organizers:  organizers,
		events:      events,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// RegisterOrganizer creates an organizer account with a hashed password.
func (s *OrganizerService) RegisterOrganizer(ctx context.Context, input OrganizerInput) (Organizer, error) {
	logger := serviceLogger(ctx, s.logger, "OrganizerService", "RegisterOrganizer")
	if err := validateOrganizerInput(input, true); err != nil {
		logger.Warn("organizer registration rejected", slog.String("error_kind", ErrorKind(err)))
		return Organizer{}, err
	}

	hash, err := CreatePasswordHash(input.Password, DefaultArgon2idParams)
	if err != nil {
		logger.Error("failed to hash password", slog.String("error", err.Error()))
		return Organizer{}, err
	}

	reference := s.now()
	credentials := OrganizerCredentials{
		Organizer: Organizer{
			ID:        s.idGenerator(),
			FullName:  strings.TrimSpace(input.FullName),
			Email:     normalizeEmail(input.Email),
			Role:      input.Role,
			CreatedAt: reference,
			UpdatedAt: reference,
		},
		PasswordHash: hash,
	}

	created, err := s.organizers.CreateOrganizer(ctx, credentials)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			logger.Warn("organizer registration rejected", slog.String("error_kind", ErrorKind(err)))
			return Organizer{}, err
		}
		logger.Error("failed to create organizer", slog.String("error", err.Error()))
		return Organizer{}, err
	}
	logger.Info("organizer registered",
		slog.String("organizer_id", created.ID),
		slog.String("role", string(created.Role)))
	return created, nil
}

// UpdateOrganizer edits the principal's own account. Password changes go
// through the auth service, not here.
func (s *OrganizerService) UpdateOrganizer(ctx context.Context, principal Principal, id string, input OrganizerInput) (Organizer, error) {
	logger := serviceLogger(ctx, s.logger, "OrganizerService", "UpdateOrganizer")
	if !principal.Authenticated() || principal.OrganizerID != id {
		logger.Warn("organizer update rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return Organizer{}, ErrUnauthorized
	}
	if err := validateOrganizerInput(input, false); err != nil {
		logger.Warn("organizer update rejected", slog.String("error_kind", ErrorKind(err)))
		return Organizer{}, err
	}

	existing, err := s.organizers.GetOrganizer(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load organizer", slog.String("error", err.Error()))
		}
		return Organizer{}, err
	}

	existing.FullName = strings.TrimSpace(input.FullName)
	existing.Email = normalizeEmail(input.Email)
	existing.Role = input.Role
	existing.UpdatedAt = s.now()

	updated, err := s.organizers.UpdateOrganizer(ctx, existing)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			logger.Warn("organizer update rejected", slog.String("error_kind", ErrorKind(err)))
			return Organizer{}, err
		}
		logger.Error("failed to update organizer", slog.String("error", err.Error()))
		return Organizer{}, err
	}
	logger.Info("organizer updated", slog.String("organizer_id", updated.ID))
	return updated, nil
}

func (s *OrganizerService) GetOrganizer(ctx context.Context, id string) (Organizer, error) {
	logger := serviceLogger(ctx, s.logger, "OrganizerService", "GetOrganizer")
	organizer, err := s.organizers.GetOrganizer(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load organizer", slog.String("error", err.Error()))
		}
		return Organizer{}, err
	}
	return organizer, nil
}

func (s *OrganizerService) ListOrganizers(ctx context.Context) ([]Organizer, error) {
	logger := serviceLogger(ctx, s.logger, "OrganizerService", "ListOrganizers")
	organizers, err := s.organizers.ListOrganizers(ctx)
	if err != nil {
		logger.Error("failed to list organizers", slog.String("error", err.Error()))
		return nil, err
	}
	sort.Slice(organizers, func(i, j int) bool {
		return organizers[i].FullName < organizers[j].FullName
	})
	return organizers, nil
}

// DeleteOrganizer removes the principal's own account. Accounts that still
// own events cannot be deleted; the events must be deleted or handed off
// first.
func (s *OrganizerService) DeleteOrganizer(ctx context.Context, principal Principal, id string) error {
	logger := serviceLogger(ctx, s.logger, "OrganizerService", "DeleteOrganizer")
	if !principal.Authenticated() || principal.OrganizerID != id {
		logger.Warn("organizer deletion rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return ErrUnauthorized
	}

	owned, err := s.events.CountEventsForOrganizer(ctx, id)
	if err != nil {
		logger.Error("failed to count organizer events", slog.String("error", err.Error()))
		return err
	}
	if owned > 0 {
		logger.Warn("organizer deletion rejected",
			slog.Int("owned_events", owned),
			slog.String("error_kind", ErrorKind(ErrOrganizerHasEvents)))
		return ErrOrganizerHasEvents
	}

	if err := s.organizers.DeleteOrganizer(ctx, id); err != nil {
		logger.Error("failed to delete organizer", slog.String("error", err.Error()))
		return err
	}
	logger.Info("organizer deleted", slog.String("organizer_id", id))
	return nil
}

func validateOrganizerInput(input OrganizerInput, requirePassword bool) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.FullName) == "" {
		vErr.add("full_name", "full_name is required")
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "email is not a valid address")
	}
	if !input.Role.Valid() {
		vErr.add("role", "role must be organizer, speaker or responsible")
	}
	if requirePassword {
		if len(input.Password) < 8 {
			vErr.add("password", "password must be at least 8 characters")
		}
	} else if input.Password != "" {
		vErr.add("password", "password cannot be changed here")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
