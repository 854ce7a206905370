package persistence

import (
	"context"
	"time"
)

// OrganizerRepository exposes CRUD operations for organizers.
type OrganizerRepository interface {
	CreateOrganizer(ctx context.Context, organizer Organizer) error
	UpdateOrganizer(ctx context.Context, organizer Organizer) error
	GetOrganizer(ctx context.Context, id string) (Organizer, error)
	GetOrganizerByEmail(ctx context.Context, email string) (Organizer, error)
	ListOrganizers(ctx context.Context) ([]Organizer, error)
	DeleteOrganizer(ctx context.Context, id string) error
}

// VenueRepository exposes CRUD operations for venues.
type VenueRepository interface {
	CreateVenue(ctx context.Context, venue Venue) error
	UpdateVenue(ctx context.Context, venue Venue) error
	GetVenue(ctx context.Context, id string) (Venue, error)
	ListVenues(ctx context.Context) ([]Venue, error)
	DeleteVenue(ctx context.Context, id string) error
}

// EventRepository stores events and answers the period-scoped lookups the
// code generator and the title-uniqueness rule need.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) error
	UpdateEvent(ctx context.Context, event Event) error
	GetEvent(ctx context.Context, id string) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	// ListEventsWithCodePrefix returns events registered in the period the
	// code prefix denotes.
	ListEventsWithCodePrefix(ctx context.Context, prefix string) ([]Event, error)
	// ListCodesWithPrefix returns the codes of all events sharing a period prefix.
	ListCodesWithPrefix(ctx context.Context, prefix string) ([]string, error)
	CountEventsForOrganizer(ctx context.Context, organizerID string) (int, error)
	// DeleteEvent removes an event together with its owned activities and
	// their inscriptions.
	DeleteEvent(ctx context.Context, id string) error
}

// ActivityRepository stores activities and answers the venue-scoped lookup
// the conflict detector needs.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) error
	UpdateActivity(ctx context.Context, activity Activity) error
	GetActivity(ctx context.Context, id string) (Activity, error)
	ListActivitiesForEvent(ctx context.Context, eventID string) ([]Activity, error)
	ListActivitiesAtVenue(ctx context.Context, venueID string) ([]Activity, error)
	// DeleteActivity removes an activity together with its inscriptions.
	DeleteActivity(ctx context.Context, id string) error
}

// ParticipantRepository exposes CRUD operations for participants.
type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, participant Participant) error
	UpdateParticipant(ctx context.Context, participant Participant) error
	GetParticipant(ctx context.Context, id string) (Participant, error)
	GetParticipantByEmail(ctx context.Context, email string) (Participant, error)
	ListParticipants(ctx context.Context) ([]Participant, error)
	DeleteParticipant(ctx context.Context, id string) error
}

// InscriptionRepository stores enrollment records and answers the pair and
// count lookups the enrollment guard needs.
type InscriptionRepository interface {
	CreateInscription(ctx context.Context, inscription Inscription) error
	UpdateInscription(ctx context.Context, inscription Inscription) error
	GetInscription(ctx context.Context, id string) (Inscription, error)
	GetInscriptionForPair(ctx context.Context, activityID, participantID string) (Inscription, error)
	ListInscriptionsForActivity(ctx context.Context, activityID string) ([]Inscription, error)
	ListInscriptionsForParticipant(ctx context.Context, participantID string) ([]Inscription, error)
	CountInscriptionsForActivity(ctx context.Context, activityID string) (int, error)
	DeleteInscription(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	UpdateSession(ctx context.Context, session Session) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
