package application

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// VenueRepository is the persistence contract the venue service depends on.
type VenueRepository interface {
	CreateVenue(ctx context.Context, venue Venue) (Venue, error)
	GetVenue(ctx context.Context, id string) (Venue, error)
	UpdateVenue(ctx context.Context, venue Venue) (Venue, error)
	DeleteVenue(ctx context.Context, id string) error
	ListVenues(ctx context.Context) ([]Venue, error)
}

// VenueService maintains the catalog of places activities can be scheduled at.
type VenueService struct {
	venues      VenueRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

func NewVenueService(venues VenueRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *VenueService {
	if idGenerator == nil {
		panic("application: NewVenueService requires an id generator")
	}
	if now == nil {
		now = time.Now
	}
	return &VenueService{
		venues:      venues,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *VenueService) RegisterVenue(ctx context.Context, principal Principal, input VenueInput) (Venue, error) {
	logger := serviceLogger(ctx, s.logger, "VenueService", "RegisterVenue")
	if !principal.Authenticated() {
		logger.Warn("venue registration rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return Venue{}, ErrUnauthorized
	}
	if err := validateVenueInput(input); err != nil {
		logger.Warn("venue registration rejected", slog.String("error_kind", ErrorKind(err)))
		return Venue{}, err
	}

	reference := s.now()
	venue := Venue{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		Type:      input.Type,
		Capacity:  input.Capacity,
		CreatedAt: reference,
		UpdatedAt: reference,
	}
	created, err := s.venues.CreateVenue(ctx, venue)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			vErr := &ValidationError{}
			vErr.add("name", "venue name is already in use")
			logger.Warn("venue registration rejected", slog.String("error_kind", ErrorKind(vErr)))
			return Venue{}, vErr
		}
		logger.Error("failed to create venue", slog.String("error", err.Error()))
		return Venue{}, err
	}
	logger.Info("venue registered", slog.String("venue_id", created.ID))
	return created, nil
}

func (s *VenueService) UpdateVenue(ctx context.Context, principal Principal, id string, input VenueInput) (Venue, error) {
	logger := serviceLogger(ctx, s.logger, "VenueService", "UpdateVenue")
	if !principal.Authenticated() {
		logger.Warn("venue update rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return Venue{}, ErrUnauthorized
	}
	if err := validateVenueInput(input); err != nil {
		logger.Warn("venue update rejected", slog.String("error_kind", ErrorKind(err)))
		return Venue{}, err
	}

	existing, err := s.venues.GetVenue(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load venue", slog.String("error", err.Error()))
		}
		return Venue{}, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Type = input.Type
	existing.Capacity = input.Capacity
	existing.UpdatedAt = s.now()

	updated, err := s.venues.UpdateVenue(ctx, existing)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			vErr := &ValidationError{}
			vErr.add("name", "venue name is already in use")
			logger.Warn("venue update rejected", slog.String("error_kind", ErrorKind(vErr)))
			return Venue{}, vErr
		}
		logger.Error("failed to update venue", slog.String("error", err.Error()))
		return Venue{}, err
	}
	logger.Info("venue updated", slog.String("venue_id", updated.ID))
	return updated, nil
}

func (s *VenueService) GetVenue(ctx context.Context, id string) (Venue, error) {
	logger := serviceLogger(ctx, s.logger, "VenueService", "GetVenue")
	venue, err := s.venues.GetVenue(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load venue", slog.String("error", err.Error()))
		}
		return Venue{}, err
	}
	return venue, nil
}

// ListVenues returns the catalog ordered by name for stable display.
func (s *VenueService) ListVenues(ctx context.Context) ([]Venue, error) {
	logger := serviceLogger(ctx, s.logger, "VenueService", "ListVenues")
	venues, err := s.venues.ListVenues(ctx)
	if err != nil {
		logger.Error("failed to list venues", slog.String("error", err.Error()))
		return nil, err
	}
	sort.Slice(venues, func(i, j int) bool {
		if venues[i].Name == venues[j].Name {
			return venues[i].ID < venues[j].ID
		}
		return venues[i].Name < venues[j].Name
	})
	return venues, nil
}

// DeleteVenue removes a venue that no activity references.
func (s *VenueService) DeleteVenue(ctx context.Context, principal Principal, id string) error {
	logger := serviceLogger(ctx, s.logger, "VenueService", "DeleteVenue")
	if !principal.Authenticated() {
		logger.Warn("venue deletion rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return ErrUnauthorized
	}
	if err := s.venues.DeleteVenue(ctx, id); err != nil {
		if errors.Is(err, ErrVenueInUse) || errors.Is(err, ErrNotFound) {
			logger.Warn("venue deletion rejected", slog.String("error_kind", ErrorKind(err)))
			return err
		}
		logger.Error("failed to delete venue", slog.String("error", err.Error()))
		return err
	}
	logger.Info("venue deleted", slog.String("venue_id", id))
	return nil
}

func validateVenueInput(input VenueInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if !input.Type.Valid() {
		vErr.add("type", "type must be room, lab or virtual_platform")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
