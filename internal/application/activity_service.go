package application

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/campus-events/internal/lifecycle"
	"github.com/example/campus-events/internal/scheduling"
)

// ActivityRepository is the persistence contract the activity service depends on.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) (Activity, error)
	GetActivity(ctx context.Context, id string) (Activity, error)
	UpdateActivity(ctx context.Context, activity Activity) (Activity, error)
	DeleteActivity(ctx context.Context, id string) error
	ListActivitiesForEvent(ctx context.Context, eventID string) ([]Activity, error)
	ListActivitiesAtVenue(ctx context.Context, venueID string) ([]Activity, error)
}

// EventResolver loads events for ownership and lifecycle checks.
type EventResolver interface {
	GetEvent(ctx context.Context, id string) (Event, error)
}

// VenueCatalog resolves venues referenced by activities.
type VenueCatalog interface {
	GetVenue(ctx context.Context, id string) (Venue, error)
}

// ActivityService schedules activities inside events, guarding each venue
// against double booking and enforcing the finalized latch.
type ActivityService struct {
	activities  ActivityRepository
	events      EventResolver
	venues      VenueCatalog
	warnings    *warningCache
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

func NewActivityService(activities ActivityRepository, events EventResolver, venues VenueCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ActivityService {
	if idGenerator == nil {
		panic("application: NewActivityService requires an id generator")
	}
	if now == nil {
		now = time.Now
	}
	return &ActivityService{
		activities:  activities,
		events:      events,
		venues:      venues,
		warnings:    newWarningCache(warningCacheTTL, now),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// RegisterActivity schedules a new activity inside a planned event after the
// venue window has been checked for conflicts.
func (s *ActivityService) RegisterActivity(ctx context.Context, principal Principal, params RegisterActivityParams) (Activity, error) {
	logger := serviceLogger(ctx, s.logger, "ActivityService", "RegisterActivity")
	event, err := s.authorizedEvent(ctx, principal, params.EventID)
	if err != nil {
		logger.Warn("activity registration rejected", slog.String("error_kind", ErrorKind(err)))
		return Activity{}, err
	}
	if event.Status != lifecycle.StatusPlanned {
		logger.Warn("activity registration rejected", slog.String("error_kind", ErrorKind(ErrEventNotPlanned)))
		return Activity{}, ErrEventNotPlanned
	}

	reference := s.now()
	input := params.Input
	if err := s.validateActivityInput(ctx, input, reference, true); err != nil {
		logger.Warn("activity registration rejected", slog.String("error_kind", ErrorKind(err)))
		return Activity{}, err
	}

	if err := s.ensureNameAvailable(ctx, event.ID, input.Name, ""); err != nil {
		logger.Warn("activity registration rejected", slog.String("error_kind", ErrorKind(err)))
		return Activity{}, err
	}

	activity := Activity{
		ID:              s.idGenerator(),
		EventID:         event.ID,
		Name:            strings.TrimSpace(input.Name),
		Type:            strings.TrimSpace(input.Type),
		VenueID:         input.VenueID,
		Start:           input.Start,
		DurationMinutes: input.DurationMinutes,
		Capacity:        input.Capacity,
		CreatedAt:       reference,
		UpdatedAt:       reference,
	}

	if err := s.ensureVenueFree(ctx, activity, ""); err != nil {
		logger.Warn("activity registration rejected",
			slog.String("venue_id", activity.VenueID),
			slog.String("error_kind", ErrorKind(err)))
		return Activity{}, err
	}

	created, err := s.activities.CreateActivity(ctx, activity)
	if err != nil {
		if errors.Is(err, ErrScheduleConflict) || errors.Is(err, ErrDuplicateName) {
			logger.Warn("activity registration rejected", slog.String("error_kind", ErrorKind(err)))
			return Activity{}, err
		}
		logger.Error("failed to create activity", slog.String("error", err.Error()))
		return Activity{}, err
	}
	s.warnings.clear()
	logger.Info("activity registered",
		slog.String("activity_id", created.ID),
		slog.String("event_id", created.EventID),
		slog.String("venue_id", created.VenueID))
	return created, nil
}

// UpdateActivity reschedules or renames an activity. Finalized activities are
// immutable and the owning event must still be planned.
func (s *ActivityService) UpdateActivity(ctx context.Context, principal Principal, params UpdateActivityParams) (Activity, error) {
	logger := serviceLogger(ctx, s.logger, "ActivityService", "UpdateActivity")
	existing, event, err := s.authorizedActivity(ctx, principal, params.ActivityID)
	if err != nil {
		logger.Warn("activity update rejected", slog.String("error_kind", ErrorKind(err)))
		return Activity{}, err
	}
	if event.Status != lifecycle.StatusPlanned {
		logger.Warn("activity update rejected", slog.String("error_kind", ErrorKind(ErrEventNotPlanned)))
		return Activity{}, ErrEventNotPlanned
	}
	if existing.Finalized {
		logger.Warn("activity update rejected", slog.String("error_kind", ErrorKind(ErrActivityFinalized)))
		return Activity{}, ErrActivityFinalized
	}

	reference := s.now()
	input := params.Input
	requireFuture := !input.Start.Equal(existing.Start)
	if err := s.validateActivityInput(ctx, input, reference, requireFuture); err != nil {
		logger.Warn("activity update rejected", slog.String("error_kind", ErrorKind(err)))
		return Activity{}, err
	}
	if err := s.ensureNameAvailable(ctx, existing.EventID, input.Name, existing.ID); err != nil {
		logger.Warn("activity update rejected", slog.String("error_kind", ErrorKind(err)))
		return Activity{}, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Type = strings.TrimSpace(input.Type)
	existing.VenueID = input.VenueID
	existing.Start = input.Start
	existing.DurationMinutes = input.DurationMinutes
	existing.Capacity = input.Capacity
	existing.UpdatedAt = reference

	if err := s.ensureVenueFree(ctx, existing, existing.ID); err != nil {
		logger.Warn("activity update rejected",
			slog.String("venue_id", existing.VenueID),
			slog.String("error_kind", ErrorKind(err)))
		return Activity{}, err
	}

	updated, err := s.activities.UpdateActivity(ctx, existing)
	if err != nil {
		if errors.Is(err, ErrScheduleConflict) || errors.Is(err, ErrDuplicateName) {
			logger.Warn("activity update rejected", slog.String("error_kind", ErrorKind(err)))
			return Activity{}, err
		}
		logger.Error("failed to update activity", slog.String("error", err.Error()))
		return Activity{}, err
	}
	s.warnings.clear()
	logger.Info("activity updated", slog.String("activity_id", updated.ID))
	return updated, nil
}

// FinalizeActivity latches the activity closed. Finalizing an already
// finalized activity is a no-op success.
func (s *ActivityService) FinalizeActivity(ctx context.Context, principal Principal, activityID string) (Activity, error) {
	logger := serviceLogger(ctx, s.logger, "ActivityService", "FinalizeActivity")
	existing, _, err := s.authorizedActivity(ctx, principal, activityID)
	if err != nil {
		logger.Warn("activity finalization rejected", slog.String("error_kind", ErrorKind(err)))
		return Activity{}, err
	}
	if existing.Finalized {
		return existing, nil
	}

	existing.Finalized = true
	existing.UpdatedAt = s.now()
	updated, err := s.activities.UpdateActivity(ctx, existing)
	if err != nil {
		logger.Error("failed to finalize activity", slog.String("error", err.Error()))
		return Activity{}, err
	}
	s.warnings.clear()
	logger.Info("activity finalized", slog.String("activity_id", updated.ID))
	return updated, nil
}

// CheckScheduleConflict probes a venue time window and reports the first
// conflicting activity, if any. Finalized activities do not block the window.
func (s *ActivityService) CheckScheduleConflict(ctx context.Context, params ConflictCheckParams) (*ConflictWarning, error) {
	logger := serviceLogger(ctx, s.logger, "ActivityService", "CheckScheduleConflict")
	vErr := &ValidationError{}
	if params.VenueID == "" {
		vErr.add("venue_id", "venue_id is required")
	}
	if params.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if params.DurationMinutes <= 0 {
		vErr.add("duration_minutes", "duration_minutes must be positive")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	slots, err := s.venueSlots(ctx, params.VenueID)
	if err != nil {
		logger.Error("failed to list venue activities", slog.String("error", err.Error()))
		return nil, err
	}
	candidate := scheduling.Slot{
		VenueID:         params.VenueID,
		Start:           params.Start,
		DurationMinutes: params.DurationMinutes,
	}
	conflict, found := scheduling.FindConflict(slots, candidate, params.ExcludeActivityID)
	if !found {
		return nil, nil
	}
	return &ConflictWarning{
		ActivityID:     params.ExcludeActivityID,
		WithActivityID: conflict.WithActivityID,
		VenueID:        conflict.VenueID,
		Start:          conflict.Start,
		End:            conflict.End,
	}, nil
}

func (s *ActivityService) GetActivity(ctx context.Context, id string) (Activity, error) {
	logger := serviceLogger(ctx, s.logger, "ActivityService", "GetActivity")
	activity, err := s.activities.GetActivity(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load activity", slog.String("error", err.Error()))
		}
		return Activity{}, err
	}
	return activity, nil
}

// ListActivities returns the event's activities ordered by start time, each
// annotated with advisory conflict warnings. Warnings never block a listing;
// they surface overlaps that finalization or rescheduling should resolve.
func (s *ActivityService) ListActivities(ctx context.Context, eventID string) ([]ActivityListItem, error) {
	logger := serviceLogger(ctx, s.logger, "ActivityService", "ListActivities")
	if _, err := s.events.GetEvent(ctx, eventID); err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to load event", slog.String("error", err.Error()))
		}
		return nil, err
	}
	activities, err := s.activities.ListActivitiesForEvent(ctx, eventID)
	if err != nil {
		logger.Error("failed to list activities", slog.String("error", err.Error()))
		return nil, err
	}
	sort.Slice(activities, func(i, j int) bool {
		if activities[i].Start.Equal(activities[j].Start) {
			return activities[i].ID < activities[j].ID
		}
		return activities[i].Start.Before(activities[j].Start)
	})

	warnings, err := s.conflictWarnings(ctx, eventID, activities)
	if err != nil {
		logger.Error("failed to compute conflict warnings", slog.String("error", err.Error()))
		return nil, err
	}
	byActivity := make(map[string][]ConflictWarning, len(warnings))
	for _, warning := range warnings {
		byActivity[warning.ActivityID] = append(byActivity[warning.ActivityID], warning)
	}

	items := make([]ActivityListItem, 0, len(activities))
	for _, activity := range activities {
		items = append(items, ActivityListItem{
			Activity: activity,
			Warnings: byActivity[activity.ID],
		})
	}
	return items, nil
}

// DeleteActivity removes an unfinalized activity and its inscriptions while
// the owning event is still planned.
func (s *ActivityService) DeleteActivity(ctx context.Context, principal Principal, activityID string) error {
	logger := serviceLogger(ctx, s.logger, "ActivityService", "DeleteActivity")
	existing, event, err := s.authorizedActivity(ctx, principal, activityID)
	if err != nil {
		logger.Warn("activity deletion rejected", slog.String("error_kind", ErrorKind(err)))
		return err
	}
	if event.Status != lifecycle.StatusPlanned {
		logger.Warn("activity deletion rejected", slog.String("error_kind", ErrorKind(ErrEventNotPlanned)))
		return ErrEventNotPlanned
	}
	if existing.Finalized {
		logger.Warn("activity deletion rejected", slog.String("error_kind", ErrorKind(ErrActivityFinalized)))
		return ErrActivityFinalized
	}
	if err := s.activities.DeleteActivity(ctx, activityID); err != nil {
		logger.Error("failed to delete activity", slog.String("error", err.Error()))
		return err
	}
	s.warnings.clear()
	logger.Info("activity deleted", slog.String("activity_id", activityID))
	return nil
}

// conflictWarnings computes advisory overlaps for the event's activities
// against every activity sharing a venue, caching the result briefly.
func (s *ActivityService) conflictWarnings(ctx context.Context, eventID string, activities []Activity) ([]ConflictWarning, error) {
	if cached, ok := s.warnings.get(eventID); ok {
		return cached, nil
	}

	venueSlots := make(map[string][]scheduling.Slot)
	var warnings []ConflictWarning
	for _, activity := range activities {
		if activity.Finalized {
			continue
		}
		slots, ok := venueSlots[activity.VenueID]
		if !ok {
			loaded, err := s.venueSlots(ctx, activity.VenueID)
			if err != nil {
				return nil, err
			}
			venueSlots[activity.VenueID] = loaded
			slots = loaded
		}
		conflict, found := scheduling.FindConflict(slots, toSlot(activity), activity.ID)
		if !found {
			continue
		}
		warnings = append(warnings, ConflictWarning{
			ActivityID:     activity.ID,
			WithActivityID: conflict.WithActivityID,
			VenueID:        conflict.VenueID,
			Start:          conflict.Start,
			End:            conflict.End,
		})
	}

	s.warnings.store(eventID, warnings)
	return warnings, nil
}

func (s *ActivityService) venueSlots(ctx context.Context, venueID string) ([]scheduling.Slot, error) {
	occupants, err := s.activities.ListActivitiesAtVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	slots := make([]scheduling.Slot, 0, len(occupants))
	for _, occupant := range occupants {
		slots = append(slots, toSlot(occupant))
	}
	return slots, nil
}

// ensureVenueFree runs the conflict detector for the activity's venue window,
// skipping the activity itself on updates.
func (s *ActivityService) ensureVenueFree(ctx context.Context, activity Activity, excludeID string) error {
	slots, err := s.venueSlots(ctx, activity.VenueID)
	if err != nil {
		return err
	}
	if scheduling.HasConflict(slots, toSlot(activity), excludeID) {
		return ErrScheduleConflict
	}
	return nil
}

// ensureNameAvailable enforces case-insensitive name uniqueness among the
// event's activities.
func (s *ActivityService) ensureNameAvailable(ctx context.Context, eventID, name, excludeID string) error {
	siblings, err := s.activities.ListActivitiesForEvent(ctx, eventID)
	if err != nil {
		return err
	}
	for _, sibling := range siblings {
		if sibling.ID == excludeID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), sibling.Name) {
			return ErrDuplicateName
		}
	}
	return nil
}

func (s *ActivityService) validateActivityInput(ctx context.Context, input ActivityInput, reference time.Time, requireFutureStart bool) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(input.Type) == "" {
		vErr.add("type", "type is required")
	}
	switch {
	case input.Start.IsZero():
		vErr.add("start", "start is required")
	case requireFutureStart && !input.Start.After(reference):
		vErr.add("start", "start must be in the future")
	}
	if input.DurationMinutes <= 0 {
		vErr.add("duration_minutes", "duration_minutes must be positive")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}

	if input.VenueID == "" {
		vErr.add("venue_id", "venue_id is required")
	} else {
		venue, err := s.venues.GetVenue(ctx, input.VenueID)
		switch {
		case errors.Is(err, ErrNotFound):
			vErr.add("venue_id", "venue does not exist")
		case err != nil:
			return err
		default:
			if input.Capacity > 0 && venue.Type != VenueVirtualPlatform && input.Capacity > venue.Capacity {
				vErr.add("capacity", "capacity exceeds venue capacity")
			}
		}
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func (s *ActivityService) authorizedEvent(ctx context.Context, principal Principal, eventID string) (Event, error) {
	if !principal.Authenticated() {
		return Event{}, ErrUnauthorized
	}
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return Event{}, err
	}
	if event.OrganizerID != principal.OrganizerID {
		return Event{}, ErrUnauthorized
	}
	return event, nil
}

func (s *ActivityService) authorizedActivity(ctx context.Context, principal Principal, activityID string) (Activity, Event, error) {
	if !principal.Authenticated() {
		return Activity{}, Event{}, ErrUnauthorized
	}
	activity, err := s.activities.GetActivity(ctx, activityID)
	if err != nil {
		return Activity{}, Event{}, err
	}
	event, err := s.events.GetEvent(ctx, activity.EventID)
	if err != nil {
		return Activity{}, Event{}, err
	}
	if event.OrganizerID != principal.OrganizerID {
		return Activity{}, Event{}, ErrUnauthorized
	}
	return activity, event, nil
}

func toSlot(activity Activity) scheduling.Slot {
	return scheduling.Slot{
		ActivityID:      activity.ID,
		VenueID:         activity.VenueID,
		Start:           activity.Start,
		DurationMinutes: activity.DurationMinutes,
		Finalized:       activity.Finalized,
	}
}
