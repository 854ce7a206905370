package main

import (
	"context"
	"errors"
	"time"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/lifecycle"
	"github.com/example/campus-events/internal/persistence"
)

// translateStorageErr maps the generic persistence sentinels onto the
// application-level ones. Domain-specific constraints are handled by the
// individual adapters before falling back here.
func translateStorageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrAlreadyExists
	default:
		return err
	}
}

type organizerStoreAdapter struct {
	repo persistence.OrganizerRepository
}

func newOrganizerStoreAdapter(repo persistence.OrganizerRepository) *organizerStoreAdapter {
	return &organizerStoreAdapter{repo: repo}
}

func (a *organizerStoreAdapter) CreateOrganizer(ctx context.Context, credentials application.OrganizerCredentials) (application.Organizer, error) {
	if err := a.repo.CreateOrganizer(ctx, toPersistenceOrganizer(credentials)); err != nil {
		return application.Organizer{}, translateStorageErr(err)
	}
	stored, err := a.repo.GetOrganizer(ctx, credentials.Organizer.ID)
	if err != nil {
		return application.Organizer{}, translateStorageErr(err)
	}
	return toApplicationOrganizer(stored), nil
}

func (a *organizerStoreAdapter) GetOrganizer(ctx context.Context, id string) (application.Organizer, error) {
	stored, err := a.repo.GetOrganizer(ctx, id)
	if err != nil {
		return application.Organizer{}, translateStorageErr(err)
	}
	return toApplicationOrganizer(stored), nil
}

func (a *organizerStoreAdapter) UpdateOrganizer(ctx context.Context, organizer application.Organizer) (application.Organizer, error) {
	// The application layer never carries credentials, so the stored hash
	// and disabled flag are kept as-is.
	current, err := a.repo.GetOrganizer(ctx, organizer.ID)
	if err != nil {
		return application.Organizer{}, translateStorageErr(err)
	}
	model := toPersistenceOrganizer(application.OrganizerCredentials{
		Organizer:    organizer,
		PasswordHash: current.PasswordHash,
		Disabled:     current.Disabled,
	})
	if err := a.repo.UpdateOrganizer(ctx, model); err != nil {
		return application.Organizer{}, translateStorageErr(err)
	}
	stored, err := a.repo.GetOrganizer(ctx, organizer.ID)
	if err != nil {
		return application.Organizer{}, translateStorageErr(err)
	}
	return toApplicationOrganizer(stored), nil
}

func (a *organizerStoreAdapter) DeleteOrganizer(ctx context.Context, id string) error {
	if err := a.repo.DeleteOrganizer(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrForeignKeyViolation) {
			return application.ErrOrganizerHasEvents
		}
		return translateStorageErr(err)
	}
	return nil
}

func (a *organizerStoreAdapter) ListOrganizers(ctx context.Context) ([]application.Organizer, error) {
	models, err := a.repo.ListOrganizers(ctx)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	organizers := make([]application.Organizer, 0, len(models))
	for _, model := range models {
		organizers = append(organizers, toApplicationOrganizer(model))
	}
	return organizers, nil
}

func (a *organizerStoreAdapter) GetOrganizerCredentialsByEmail(ctx context.Context, email string) (application.OrganizerCredentials, error) {
	stored, err := a.repo.GetOrganizerByEmail(ctx, email)
	if err != nil {
		return application.OrganizerCredentials{}, translateStorageErr(err)
	}
	return application.OrganizerCredentials{
		Organizer:    toApplicationOrganizer(stored),
		PasswordHash: stored.PasswordHash,
		Disabled:     stored.Disabled,
	}, nil
}

func (a *organizerStoreAdapter) OrganizerExists(ctx context.Context, id string) (bool, error) {
	if _, err := a.repo.GetOrganizer(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type venueStoreAdapter struct {
	repo persistence.VenueRepository
}

func newVenueStoreAdapter(repo persistence.VenueRepository) *venueStoreAdapter {
	return &venueStoreAdapter{repo: repo}
}

func (a *venueStoreAdapter) CreateVenue(ctx context.Context, venue application.Venue) (application.Venue, error) {
	if err := a.repo.CreateVenue(ctx, toPersistenceVenue(venue)); err != nil {
		return application.Venue{}, translateStorageErr(err)
	}
	stored, err := a.repo.GetVenue(ctx, venue.ID)
	if err != nil {
		return application.Venue{}, translateStorageErr(err)
	}
	return toApplicationVenue(stored), nil
}

func (a *venueStoreAdapter) GetVenue(ctx context.Context, id string) (application.Venue, error) {
	stored, err := a.repo.GetVenue(ctx, id)
	if err != nil {
		return application.Venue{}, translateStorageErr(err)
	}
	return toApplicationVenue(stored), nil
}

func (a *venueStoreAdapter) UpdateVenue(ctx context.Context, venue application.Venue) (application.Venue, error) {
	if err := a.repo.UpdateVenue(ctx, toPersistenceVenue(venue)); err != nil {
		return application.Venue{}, translateStorageErr(err)
	}
	stored, err := a.repo.GetVenue(ctx, venue.ID)
	if err != nil {
		return application.Venue{}, translateStorageErr(err)
	}
	return toApplicationVenue(stored), nil
}

func (a *venueStoreAdapter) DeleteVenue(ctx context.Context, id string) error {
	if err := a.repo.DeleteVenue(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrForeignKeyViolation) {
			return application.ErrVenueInUse
		}
		return translateStorageErr(err)
	}
	return nil
}

func (a *venueStoreAdapter) ListVenues(ctx context.Context) ([]application.Venue, error) {
	models, err := a.repo.ListVenues(ctx)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	venues := make([]application.Venue, 0, len(models))
	for _, model := range models {
		venues = append(venues, toApplicationVenue(model))
	}
	return venues, nil
}

type eventStoreAdapter struct {
	repo persistence.EventRepository
}

func newEventStoreAdapter(repo persistence.EventRepository) *eventStoreAdapter {
	return &eventStoreAdapter{repo: repo}
}

func (a *eventStoreAdapter) CreateEvent(ctx context.Context, event application.Event) (application.Event, error) {
	if err := a.repo.CreateEvent(ctx, toPersistenceEvent(event)); err != nil {
		return application.Event{}, translateStorageErr(err)
	}
	stored, err := a.repo.GetEvent(ctx, event.ID)
	if err != nil {
		return application.Event{}, translateStorageErr(err)
	}
	return toApplicationEvent(stored), nil
}

func (a *eventStoreAdapter) GetEvent(ctx context.Context, id string) (application.Event, error) {
	stored, err := a.repo.GetEvent(ctx, id)
	if err != nil {
		return application.Event{}, translateStorageErr(err)
	}
	return toApplicationEvent(stored), nil
}

func (a *eventStoreAdapter) UpdateEvent(ctx context.Context, event application.Event) (application.Event, error) {
	if err := a.repo.UpdateEvent(ctx, toPersistenceEvent(event)); err != nil {
		return application.Event{}, translateStorageErr(err)
	}
	stored, err := a.repo.GetEvent(ctx, event.ID)
	if err != nil {
		return application.Event{}, translateStorageErr(err)
	}
	return toApplicationEvent(stored), nil
}

func (a *eventStoreAdapter) DeleteEvent(ctx context.Context, id string) error {
	return translateStorageErr(a.repo.DeleteEvent(ctx, id))
}

func (a *eventStoreAdapter) ListEvents(ctx context.Context) ([]application.Event, error) {
	models, err := a.repo.ListEvents(ctx)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return toApplicationEvents(models), nil
}

func (a *eventStoreAdapter) ListEventsWithCodePrefix(ctx context.Context, prefix string) ([]application.Event, error) {
	models, err := a.repo.ListEventsWithCodePrefix(ctx, prefix)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return toApplicationEvents(models), nil
}

func (a *eventStoreAdapter) ListCodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	codes, err := a.repo.ListCodesWithPrefix(ctx, prefix)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return codes, nil
}

func (a *eventStoreAdapter) CountEventsForOrganizer(ctx context.Context, organizerID string) (int, error) {
	count, err := a.repo.CountEventsForOrganizer(ctx, organizerID)
	if err != nil {
		return 0, translateStorageErr(err)
	}
	return count, nil
}

type activityStoreAdapter struct {
	repo persistence.ActivityRepository
}

func newActivityStoreAdapter(repo persistence.ActivityRepository) *activityStoreAdapter {
	return &activityStoreAdapter{repo: repo}
}

// translateActivityWriteErr covers the storage-level re-checks that close
// race windows the service cannot: the in-transaction venue overlap probe
// and the per-event name uniqueness constraint.
func translateActivityWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrScheduleConflict):
		return application.ErrScheduleConflict
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrDuplicateName
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return application.ErrNotFound
	default:
		return translateStorageErr(err)
	}
}

func (a *activityStoreAdapter) CreateActivity(ctx context.Context, activity application.Activity) (application.Activity, error) {
	if err := a.repo.CreateActivity(ctx, toPersistenceActivity(activity)); err != nil {
		return application.Activity{}, translateActivityWriteErr(err)
	}
	stored, err := a.repo.GetActivity(ctx, activity.ID)
	if err != nil {
		return application.Activity{}, translateStorageErr(err)
	}
	return toApplicationActivity(stored), nil
}

func (a *activityStoreAdapter) GetActivity(ctx context.Context, id string) (application.Activity, error) {
	stored, err := a.repo.GetActivity(ctx, id)
	if err != nil {
		return application.Activity{}, translateStorageErr(err)
	}
	return toApplicationActivity(stored), nil
}

func (a *activityStoreAdapter) UpdateActivity(ctx context.Context, activity application.Activity) (application.Activity, error) {
	if err := a.repo.UpdateActivity(ctx, toPersistenceActivity(activity)); err != nil {
		return application.Activity{}, translateActivityWriteErr(err)
	}
	stored, err := a.repo.GetActivity(ctx, activity.ID)
	if err != nil {
		return application.Activity{}, translateStorageErr(err)
	}
	return toApplicationActivity(stored), nil
}

func (a *activityStoreAdapter) DeleteActivity(ctx context.Context, id string) error {
	return translateStorageErr(a.repo.DeleteActivity(ctx, id))
}

func (a *activityStoreAdapter) ListActivitiesForEvent(ctx context.Context, eventID string) ([]application.Activity, error) {
	models, err := a.repo.ListActivitiesForEvent(ctx, eventID)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return toApplicationActivities(models), nil
}

func (a *activityStoreAdapter) ListActivitiesAtVenue(ctx context.Context, venueID string) ([]application.Activity, error) {
	models, err := a.repo.ListActivitiesAtVenue(ctx, venueID)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return toApplicationActivities(models), nil
}

type participantStoreAdapter struct {
	repo persistence.ParticipantRepository
}

func newParticipantStoreAdapter(repo persistence.ParticipantRepository) *participantStoreAdapter {
	return &participantStoreAdapter{repo: repo}
}

func (a *participantStoreAdapter) CreateParticipant(ctx context.Context, participant application.Participant) (application.Participant, error) {
	if err := a.repo.CreateParticipant(ctx, toPersistenceParticipant(participant)); err != nil {
		return application.Participant{}, translateStorageErr(err)
	}
	stored, err := a.repo.GetParticipant(ctx, participant.ID)
	if err != nil {
		return application.Participant{}, translateStorageErr(err)
	}
	return toApplicationParticipant(stored), nil
}

func (a *participantStoreAdapter) GetParticipant(ctx context.Context, id string) (application.Participant, error) {
	stored, err := a.repo.GetParticipant(ctx, id)
	if err != nil {
		return application.Participant{}, translateStorageErr(err)
	}
	return toApplicationParticipant(stored), nil
}

func (a *participantStoreAdapter) UpdateParticipant(ctx context.Context, participant application.Participant) (application.Participant, error) {
	if err := a.repo.UpdateParticipant(ctx, toPersistenceParticipant(participant)); err != nil {
		return application.Participant{}, translateStorageErr(err)
	}
	stored, err := a.repo.GetParticipant(ctx, participant.ID)
	if err != nil {
		return application.Participant{}, translateStorageErr(err)
	}
	return toApplicationParticipant(stored), nil
}

func (a *participantStoreAdapter) DeleteParticipant(ctx context.Context, id string) error {
	if err := a.repo.DeleteParticipant(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrForeignKeyViolation) {
			return application.ErrParticipantEnrolled
		}
		return translateStorageErr(err)
	}
	return nil
}

func (a *participantStoreAdapter) ListParticipants(ctx context.Context) ([]application.Participant, error) {
	models, err := a.repo.ListParticipants(ctx)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	participants := make([]application.Participant, 0, len(models))
	for _, model := range models {
		participants = append(participants, toApplicationParticipant(model))
	}
	return participants, nil
}

type inscriptionStoreAdapter struct {
	repo persistence.InscriptionRepository
}

func newInscriptionStoreAdapter(repo persistence.InscriptionRepository) *inscriptionStoreAdapter {
	return &inscriptionStoreAdapter{repo: repo}
}

// translateEnrollErr covers the in-transaction guards of the insert path.
// The service pre-checks the finalized latch, so a constraint violation at
// this point means the capacity re-count lost a race.
func translateEnrollErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrAlreadyEnrolled
	case errors.Is(err, persistence.ErrConstraintViolation):
		return application.ErrCapacityFull
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return application.ErrNotFound
	default:
		return translateStorageErr(err)
	}
}

func (a *inscriptionStoreAdapter) CreateInscription(ctx context.Context, inscription application.Inscription) (application.Inscription, error) {
	if err := a.repo.CreateInscription(ctx, toPersistenceInscription(inscription)); err != nil {
		return application.Inscription{}, translateEnrollErr(err)
	}
	stored, err := a.repo.GetInscription(ctx, inscription.ID)
	if err != nil {
		return application.Inscription{}, translateStorageErr(err)
	}
	return toApplicationInscription(stored), nil
}

func (a *inscriptionStoreAdapter) GetInscription(ctx context.Context, id string) (application.Inscription, error) {
	stored, err := a.repo.GetInscription(ctx, id)
	if err != nil {
		return application.Inscription{}, translateStorageErr(err)
	}
	return toApplicationInscription(stored), nil
}

func (a *inscriptionStoreAdapter) GetInscriptionForPair(ctx context.Context, activityID, participantID string) (application.Inscription, error) {
	stored, err := a.repo.GetInscriptionForPair(ctx, activityID, participantID)
	if err != nil {
		return application.Inscription{}, translateStorageErr(err)
	}
	return toApplicationInscription(stored), nil
}

func (a *inscriptionStoreAdapter) UpdateInscription(ctx context.Context, inscription application.Inscription) (application.Inscription, error) {
	if err := a.repo.UpdateInscription(ctx, toPersistenceInscription(inscription)); err != nil {
		return application.Inscription{}, translateStorageErr(err)
	}
	stored, err := a.repo.GetInscription(ctx, inscription.ID)
	if err != nil {
		return application.Inscription{}, translateStorageErr(err)
	}
	return toApplicationInscription(stored), nil
}

func (a *inscriptionStoreAdapter) DeleteInscription(ctx context.Context, id string) error {
	return translateStorageErr(a.repo.DeleteInscription(ctx, id))
}

func (a *inscriptionStoreAdapter) ListInscriptionsForActivity(ctx context.Context, activityID string) ([]application.Inscription, error) {
	models, err := a.repo.ListInscriptionsForActivity(ctx, activityID)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return toApplicationInscriptions(models), nil
}

func (a *inscriptionStoreAdapter) ListInscriptionsForParticipant(ctx context.Context, participantID string) ([]application.Inscription, error) {
	models, err := a.repo.ListInscriptionsForParticipant(ctx, participantID)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return toApplicationInscriptions(models), nil
}

func (a *inscriptionStoreAdapter) CountInscriptionsForActivity(ctx context.Context, activityID string) (int, error) {
	count, err := a.repo.CountInscriptionsForActivity(ctx, activityID)
	if err != nil {
		return 0, translateStorageErr(err)
	}
	return count, nil
}

type sessionStoreAdapter struct {
	repo persistence.SessionRepository
}

func newSessionStoreAdapter(repo persistence.SessionRepository) *sessionStoreAdapter {
	return &sessionStoreAdapter{repo: repo}
}

func (a *sessionStoreAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, translateStorageErr(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionStoreAdapter) GetSessionByToken(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, translateStorageErr(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionStoreAdapter) UpdateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.UpdateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, translateStorageErr(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionStoreAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, translateStorageErr(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionStoreAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return translateStorageErr(a.repo.DeleteExpiredSessions(ctx, reference))
}

func toApplicationOrganizer(model persistence.Organizer) application.Organizer {
	return application.Organizer{
		ID:        model.ID,
		FullName:  model.FullName,
		Email:     model.Email,
		Role:      application.OrganizerRole(model.Role),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceOrganizer(credentials application.OrganizerCredentials) persistence.Organizer {
	organizer := credentials.Organizer
	return persistence.Organizer{
		ID:           organizer.ID,
		FullName:     organizer.FullName,
		Email:        organizer.Email,
		Role:         string(organizer.Role),
		PasswordHash: credentials.PasswordHash,
		Disabled:     credentials.Disabled,
		CreatedAt:    organizer.CreatedAt,
		UpdatedAt:    organizer.UpdatedAt,
	}
}

func toApplicationVenue(model persistence.Venue) application.Venue {
	return application.Venue{
		ID:        model.ID,
		Name:      model.Name,
		Type:      application.VenueType(model.Type),
		Capacity:  model.Capacity,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceVenue(venue application.Venue) persistence.Venue {
	return persistence.Venue{
		ID:        venue.ID,
		Name:      venue.Name,
		Type:      string(venue.Type),
		Capacity:  venue.Capacity,
		CreatedAt: venue.CreatedAt,
		UpdatedAt: venue.UpdatedAt,
	}
}

func toApplicationEvent(model persistence.Event) application.Event {
	return application.Event{
		ID:          model.ID,
		Code:        model.Code,
		Title:       model.Title,
		Description: model.Description,
		Status:      lifecycle.Status(model.Status),
		Modality:    application.Modality(model.Modality),
		Start:       model.Start,
		End:         model.End,
		OrganizerID: model.OrganizerID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toApplicationEvents(models []persistence.Event) []application.Event {
	if len(models) == 0 {
		return nil
	}
	events := make([]application.Event, 0, len(models))
	for _, model := range models {
		events = append(events, toApplicationEvent(model))
	}
	return events
}

func toPersistenceEvent(event application.Event) persistence.Event {
	return persistence.Event{
		ID:          event.ID,
		Code:        event.Code,
		Title:       event.Title,
		Description: event.Description,
		Status:      string(event.Status),
		Modality:    string(event.Modality),
		Start:       event.Start,
		End:         event.End,
		OrganizerID: event.OrganizerID,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

func toApplicationActivity(model persistence.Activity) application.Activity {
	return application.Activity{
		ID:              model.ID,
		EventID:         model.EventID,
		Name:            model.Name,
		Type:            model.Type,
		VenueID:         model.VenueID,
		Start:           model.Start,
		DurationMinutes: model.DurationMinutes,
		Capacity:        model.Capacity,
		Finalized:       model.Finalized,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toApplicationActivities(models []persistence.Activity) []application.Activity {
	if len(models) == 0 {
		return nil
	}
	activities := make([]application.Activity, 0, len(models))
	for _, model := range models {
		activities = append(activities, toApplicationActivity(model))
	}
	return activities
}

func toPersistenceActivity(activity application.Activity) persistence.Activity {
	return persistence.Activity{
		ID:              activity.ID,
		EventID:         activity.EventID,
		Name:            activity.Name,
		Type:            activity.Type,
		VenueID:         activity.VenueID,
		Start:           activity.Start,
		DurationMinutes: activity.DurationMinutes,
		Capacity:        activity.Capacity,
		Finalized:       activity.Finalized,
		CreatedAt:       activity.CreatedAt,
		UpdatedAt:       activity.UpdatedAt,
	}
}

func toApplicationParticipant(model persistence.Participant) application.Participant {
	return application.Participant{
		ID:              model.ID,
		Kind:            application.ParticipantKind(model.Kind),
		FirstName:       model.FirstName,
		LastName:        model.LastName,
		Email:           model.Email,
		AttendanceCount: model.AttendanceCount,
		StudentNumber:   cloneString(model.StudentNumber),
		Department:      cloneString(model.Department),
		Organization:    cloneString(model.Organization),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toPersistenceParticipant(participant application.Participant) persistence.Participant {
	return persistence.Participant{
		ID:              participant.ID,
		Kind:            string(participant.Kind),
		FirstName:       participant.FirstName,
		LastName:        participant.LastName,
		Email:           participant.Email,
		AttendanceCount: participant.AttendanceCount,
		StudentNumber:   cloneString(participant.StudentNumber),
		Department:      cloneString(participant.Department),
		Organization:    cloneString(participant.Organization),
		CreatedAt:       participant.CreatedAt,
		UpdatedAt:       participant.UpdatedAt,
	}
}

func toApplicationInscription(model persistence.Inscription) application.Inscription {
	return application.Inscription{
		ID:            model.ID,
		ActivityID:    model.ActivityID,
		ParticipantID: model.ParticipantID,
		Attendance:    application.Attendance(model.Attendance),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toApplicationInscriptions(models []persistence.Inscription) []application.Inscription {
	if len(models) == 0 {
		return nil
	}
	inscriptions := make([]application.Inscription, 0, len(models))
	for _, model := range models {
		inscriptions = append(inscriptions, toApplicationInscription(model))
	}
	return inscriptions
}

func toPersistenceInscription(inscription application.Inscription) persistence.Inscription {
	return persistence.Inscription{
		ID:            inscription.ID,
		ActivityID:    inscription.ActivityID,
		ParticipantID: inscription.ParticipantID,
		Attendance:    string(inscription.Attendance),
		CreatedAt:     inscription.CreatedAt,
		UpdatedAt:     inscription.UpdatedAt,
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:          model.ID,
		OrganizerID: model.OrganizerID,
		Token:       model.Token,
		Fingerprint: model.Fingerprint,
		ExpiresAt:   model.ExpiresAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		RevokedAt:   cloneTime(model.RevokedAt),
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:          session.ID,
		OrganizerID: session.OrganizerID,
		Token:       session.Token,
		Fingerprint: session.Fingerprint,
		ExpiresAt:   session.ExpiresAt,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		RevokedAt:   cloneTime(session.RevokedAt),
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
