package application

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/campus-events/internal/eventcode"
	"github.com/example/campus-events/internal/lifecycle"
)

// codeGenerationAttempts bounds how many times RegisterEvent regenerates the
// event code after losing a uniqueness race on insert.
const codeGenerationAttempts = 3

// EventRepository is the persistence contract the event service depends on.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) (Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context) ([]Event, error)
	ListEventsWithCodePrefix(ctx context.Context, prefix string) ([]Event, error)
	ListCodesWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// OrganizerDirectory resolves organizer existence for ownership checks.
type OrganizerDirectory interface {
	OrganizerExists(ctx context.Context, id string) (bool, error)
}

// EventService owns the event lifecycle: registration with period-scoped
// codes, edits while planned, and forward-only status transitions.
type EventService struct {
	events      EventRepository
	organizers  OrganizerDirectory
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

func NewEventService(events EventRepository, organizers OrganizerDirectory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EventService {
	if idGenerator == nil {
		panic("application: NewEventService requires an id generator")
	}
	if now == nil {
		now = time.Now
	}
	return &EventService{
		events:      events,
		organizers:  organizers,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// RegisterEvent validates the input, assigns a period-scoped code and stores
// the event with status Planned. The code is regenerated a bounded number of
// times if a concurrent registration claims the same code first.
func (s *EventService) RegisterEvent(ctx context.Context, principal Principal, input EventInput) (Event, error) {
	logger := serviceLogger(ctx, s.logger, "EventService", "RegisterEvent")
	if !principal.Authenticated() {
		logger.Warn("event registration rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return Event{}, ErrUnauthorized
	}

	organizerID := input.OrganizerID
	if organizerID == "" {
		organizerID = principal.OrganizerID
	}
	if organizerID != principal.OrganizerID {
		logger.Warn("event registration rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return Event{}, ErrUnauthorized
	}

	exists, err := s.organizers.OrganizerExists(ctx, organizerID)
	if err != nil {
		logger.Error("failed to resolve organizer", slog.String("error", err.Error()))
		return Event{}, err
	}
	if !exists {
		logger.Warn("event registration rejected", slog.String("error_kind", ErrorKind(ErrUnauthorized)))
		return Event{}, ErrUnauthorized
	}

	reference := s.now()
	if err := s.validateEventInput(input, reference, true); err != nil {
		logger.Warn("event registration rejected", slog.String("error_kind", ErrorKind(err)))
		return Event{}, err
	}

	prefix := eventcode.Prefix(reference)
	if err := s.ensureTitleAvailable(ctx, prefix, input.Title, ""); err != nil {
		logger.Warn("event registration rejected", slog.String("error_kind", ErrorKind(err)))
		return Event{}, err
	}

	event := Event{
		ID:          s.idGenerator(),
		OrganizerID: organizerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Modality:    input.Modality,
		Status:      lifecycle.StatusPlanned,
		Start:       input.Start,
		End:         input.End,
		CreatedAt:   reference,
		UpdatedAt:   reference,
	}

	var lastErr error
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		codes, err := s.events.ListCodesWithPrefix(ctx, prefix)
		if err != nil {
			logger.Error("failed to list event codes", slog.String("error", err.Error()))
			return Event{}, err
		}
		event.Code = eventcode.Generate(reference, codes)

		created, err := s.events.CreateEvent(ctx, event)
		if err == nil {
			logger.Info("event registered",
				slog.String("event_id", created.ID),
				slog.String("event_code", created.Code))
			return created, nil
		}
		if !errors.Is(err, ErrAlreadyExists) {
			logger.Error("failed to create event", slog.String("error", err.Error()))
			return Event{}, err
		}
		lastErr = err
	}
	logger.Error("event code generation exhausted retries", slog.String("error", lastErr.Error()))
	return Event{}, lastErr
}

// UpdateEvent applies edits to a planned event. The code, status and
// organizer are fixed at registration and cannot be changed here.
func (s *EventService) UpdateEvent(ctx context.Context, principal Principal, params UpdateEventParams) (Event, error) {
	logger := serviceLogger(ctx, s.logger, "EventService", "UpdateEvent")
	existing, err := s.authorizedEvent(ctx, principal, params.EventID)
	if err != nil {
		logger.Warn("event update rejected", slog.String("error_kind", ErrorKind(err)))
		return Event{}, err
	}
	if existing.Status != lifecycle.StatusPlanned {
		logger.Warn("event update rejected", slog.String("error_kind", ErrorKind(ErrEventNotPlanned)))
		return Event{}, ErrEventNotPlanned
	}

	reference := s.now()
	input := params.Input
	requireFuture := !input.Start.Equal(existing.Start)
	if err := s.validateEventInput(input, reference, requireFuture); err != nil {
		logger.Warn("event update rejected", slog.String("error_kind", ErrorKind(err)))
		return Event{}, err
	}
	if input.OrganizerID != "" && input.OrganizerID != existing.OrganizerID {
		vErr := &ValidationError{}
		vErr.add("organizer_id", "organizer cannot be changed")
		logger.Warn("event update rejected", slog.String("error_kind", ErrorKind(vErr)))
		return Event{}, vErr
	}

	prefix, ok := periodPrefix(existing.Code)
	if ok {
		if err := s.ensureTitleAvailable(ctx, prefix, input.Title, existing.ID); err != nil {
			logger.Warn("event update rejected", slog.String("error_kind", ErrorKind(err)))
			return Event{}, err
		}
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Description = strings.TrimSpace(input.Description)
	existing.Modality = input.Modality
	existing.Start = input.Start
	existing.End = input.End
	existing.UpdatedAt = reference

	updated, err := s.events.UpdateEvent(ctx, existing)
	if err != nil {
		logger.Error("failed to update event", slog.String("error", err.Error()))
		return Event{}, err
	}
	logger.Info("event updated", slog.String("event_id", updated.ID))
	return updated, nil
}

// ChangeEventStatus moves the event forward through its lifecycle. Requesting
// the current status is a no-op and returns the event unchanged.
func (s *EventService) ChangeEventStatus(ctx context.Context, principal Principal, params ChangeEventStatusParams) (Event, error) {
	logger := serviceLogger(ctx, s.logger, "EventService", "ChangeEventStatus")
	existing, err := s.authorizedEvent(ctx, principal, params.EventID)
	if err != nil {
		logger.Warn("status change rejected", slog.String("error_kind", ErrorKind(err)))
		return Event{}, err
	}

	if err := lifecycle.ValidateTransition(existing.Status, params.Requested); err != nil {
		logger.Warn("status change rejected",
			slog.String("event_id", existing.ID),
			slog.String("error_kind", ErrorKind(err)))
		return Event{}, err
	}
	if existing.Status == params.Requested {
		return existing, nil
	}

	existing.Status = params.Requested
	existing.UpdatedAt = s.now()
	updated, err := s.events.UpdateEvent(ctx, existing)
	if err != nil {
		logger.Error("failed to update event status", slog.String("error", err.Error()))
		return Event{}, err
	}
	logger.Info("event status changed",
		slog.String("event_id", updated.ID),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

// GenerateEventCode returns the code the next registration in the current
// period would receive. The value is advisory: the insert may still lose a
// race and be assigned a later sequence number.
func (s *EventService) GenerateEventCode(ctx context.Context, principal Principal) (string, error) {
	logger := serviceLogger(ctx, s.logger, "EventService", "GenerateEventCode")
	if !principal.Authenticated() {
		return "", ErrUnauthorized
	}
	reference := s.now()
	codes, err := s.events.ListCodesWithPrefix(ctx, eventcode.Prefix(reference))
	if err != nil {
		logger.Error("failed to list event codes", slog.String("error", err.Error()))
		return "", err
	}
	return eventcode.Generate(reference, codes), nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (Event, error) {
	logger := serviceLogger(ctx, s.logger, "EventService", "GetEvent")
	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load event", slog.String("error", err.Error()))
		}
		return Event{}, err
	}
	return event, nil
}

// ListEvents returns all events ordered by start time, then ID for stability.
func (s *EventService) ListEvents(ctx context.Context) ([]Event, error) {
	logger := serviceLogger(ctx, s.logger, "EventService", "ListEvents")
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		logger.Error("failed to list events", slog.String("error", err.Error()))
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Start.Equal(events[j].Start) {
			return events[i].ID < events[j].ID
		}
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

// DeleteEvent removes the event together with its activities and their
// inscriptions.
func (s *EventService) DeleteEvent(ctx context.Context, principal Principal, id string) error {
	logger := serviceLogger(ctx, s.logger, "EventService", "DeleteEvent")
	if _, err := s.authorizedEvent(ctx, principal, id); err != nil {
		logger.Warn("event deletion rejected", slog.String("error_kind", ErrorKind(err)))
		return err
	}
	if err := s.events.DeleteEvent(ctx, id); err != nil {
		logger.Error("failed to delete event", slog.String("error", err.Error()))
		return err
	}
	logger.Info("event deleted", slog.String("event_id", id))
	return nil
}

// authorizedEvent loads the event and verifies the principal owns it.
func (s *EventService) authorizedEvent(ctx context.Context, principal Principal, id string) (Event, error) {
	if !principal.Authenticated() {
		return Event{}, ErrUnauthorized
	}
	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if event.OrganizerID != principal.OrganizerID {
		return Event{}, ErrUnauthorized
	}
	return event, nil
}

func (s *EventService) validateEventInput(input EventInput, reference time.Time, requireFutureStart bool) error {
	vErr := &ValidationError{}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		vErr.add("title", "title is required")
	}
	if !input.Modality.Valid() {
		vErr.add("modality", "modality must be on_site, online or hybrid")
	}
	switch {
	case input.Start.IsZero():
		vErr.add("start", "start is required")
	case requireFutureStart && !input.Start.After(reference):
		vErr.add("start", "start must be in the future")
	}
	if input.End.IsZero() {
		vErr.add("end", "end is required")
	} else if !input.Start.IsZero() && input.End.Before(input.Start) {
		vErr.add("end", "end must not be before start")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// ensureTitleAvailable enforces case-insensitive title uniqueness among
// events registered in the same period.
func (s *EventService) ensureTitleAvailable(ctx context.Context, prefix, title, excludeID string) error {
	events, err := s.events.ListEventsWithCodePrefix(ctx, prefix)
	if err != nil {
		return err
	}
	for _, event := range events {
		if event.ID == excludeID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(title), event.Title) {
			return ErrDuplicateTitle
		}
	}
	return nil
}

// periodPrefix extracts the "EV-YYYYMM-" prefix from a stored event code.
func periodPrefix(code string) (string, bool) {
	idx := strings.LastIndex(code, "-")
	if idx < 0 {
		return "", false
	}
	return code[:idx+1], true
}
