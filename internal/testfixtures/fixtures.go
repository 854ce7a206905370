// Package testfixtures provides deterministic fixtures, clocks, and harnesses
// shared by tests across the module.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/lifecycle"
	"github.com/example/campus-events/internal/persistence"
)

var (
	organizerCounter   uint64
	venueCounter       uint64
	eventCounter       uint64
	activityCounter    uint64
	participantCounter uint64
	inscriptionCounter uint64
	sessionCounter     uint64
)

var referenceTime = time.Date(2025, time.June, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// --------------------------- Organizer fixtures ---------------------------

// OrganizerFixture represents a deterministic organizer account.
type OrganizerFixture struct {
	ID           string
	FullName     string
	Email        string
	Role         application.OrganizerRole
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrganizerOption configures the generated organizer fixture.
type OrganizerOption func(*OrganizerFixture)

// NewOrganizerFixture returns a deterministic organizer fixture with optional
// overrides.
func NewOrganizerFixture(opts ...OrganizerOption) OrganizerFixture {
	idx := atomic.AddUint64(&organizerCounter, 1)
	id := fmt.Sprintf("organizer-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := OrganizerFixture{
		ID:           id,
		FullName:     fmt.Sprintf("Organizer %03d", idx),
		Email:        fmt.Sprintf("%s@campus.example", id),
		Role:         application.RoleOrganizer,
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithOrganizerID overrides the generated organizer ID.
func WithOrganizerID(id string) OrganizerOption {
	return func(f *OrganizerFixture) {
		f.ID = id
	}
}

// WithOrganizerEmail overrides the generated email address.
func WithOrganizerEmail(email string) OrganizerOption {
	return func(f *OrganizerFixture) {
		f.Email = email
	}
}

// WithOrganizerRole overrides the generated role.
func WithOrganizerRole(role application.OrganizerRole) OrganizerOption {
	return func(f *OrganizerFixture) {
		f.Role = role
	}
}

// WithOrganizerPasswordHash overrides the generated password hash.
func WithOrganizerPasswordHash(hash string) OrganizerOption {
	return func(f *OrganizerFixture) {
		f.PasswordHash = hash
	}
}

// WithOrganizerDisabled marks the fixture account as disabled.
func WithOrganizerDisabled(disabled bool) OrganizerOption {
	return func(f *OrganizerFixture) {
		f.Disabled = disabled
	}
}

// Application returns the fixture as an application.Organizer value.
func (f OrganizerFixture) Application() application.Organizer {
	return application.Organizer{
		ID:        f.ID,
		FullName:  f.FullName,
		Email:     f.Email,
		Role:      f.Role,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Credentials returns the fixture as application.OrganizerCredentials.
func (f OrganizerFixture) Credentials() application.OrganizerCredentials {
	return application.OrganizerCredentials{
		Organizer:    f.Application(),
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f OrganizerFixture) Principal() application.Principal {
	return application.Principal{OrganizerID: f.ID}
}

// Persistence returns the fixture as a persistence.Organizer value.
func (f OrganizerFixture) Persistence() persistence.Organizer {
	return persistence.Organizer{
		ID:           f.ID,
		FullName:     f.FullName,
		Email:        f.Email,
		Role:         string(f.Role),
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// ----------------------------- Venue fixtures -----------------------------

// VenueFixture represents a deterministic venue catalog entry.
type VenueFixture struct {
	ID        string
	Name      string
	Type      application.VenueType
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VenueOption configures the generated venue fixture.
type VenueOption func(*VenueFixture)

// NewVenueFixture returns a deterministic venue fixture with optional overrides.
func NewVenueFixture(opts ...VenueOption) VenueFixture {
	idx := atomic.AddUint64(&venueCounter, 1)
	id := fmt.Sprintf("venue-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := VenueFixture{
		ID:        id,
		Name:      fmt.Sprintf("Venue %03d", idx),
		Type:      application.VenueRoom,
		Capacity:  int(40 + idx%60),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithVenueID overrides the generated venue ID.
func WithVenueID(id string) VenueOption {
	return func(f *VenueFixture) {
		f.ID = id
	}
}

// WithVenueName overrides the generated name.
func WithVenueName(name string) VenueOption {
	return func(f *VenueFixture) {
		f.Name = name
	}
}

// WithVenueType overrides the generated venue type.
func WithVenueType(venueType application.VenueType) VenueOption {
	return func(f *VenueFixture) {
		f.Type = venueType
	}
}

// WithVenueCapacity overrides the generated capacity.
func WithVenueCapacity(capacity int) VenueOption {
	return func(f *VenueFixture) {
		f.Capacity = capacity
	}
}

// Application returns the fixture as an application.Venue value.
func (f VenueFixture) Application() application.Venue {
	return application.Venue{
		ID:        f.ID,
		Name:      f.Name,
		Type:      f.Type,
		Capacity:  f.Capacity,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input returns the fixture as an application.VenueInput.
func (f VenueFixture) Input() application.VenueInput {
	return application.VenueInput{
		Name:     f.Name,
		Type:     f.Type,
		Capacity: f.Capacity,
	}
}

// Persistence returns the fixture as a persistence.Venue value.
func (f VenueFixture) Persistence() persistence.Venue {
	return persistence.Venue{
		ID:        f.ID,
		Name:      f.Name,
		Type:      string(f.Type),
		Capacity:  f.Capacity,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ----------------------------- Event fixtures -----------------------------

// EventFixture represents a deterministic academic event.
type EventFixture struct {
	ID          string
	Code        string
	Title       string
	Description string
	Status      lifecycle.Status
	Modality    application.Modality
	Start       time.Time
	End         time.Time
	OrganizerID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventOption configures the generated event fixture.
type EventOption func(*EventFixture)

// NewEventFixture returns a deterministic event fixture with optional
// overrides. The generated code sits in the reference month so prefix-scoped
// lookups find it.
func NewEventFixture(opts ...EventOption) EventFixture {
	idx := atomic.AddUint64(&eventCounter, 1)
	id := fmt.Sprintf("event-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := EventFixture{
		ID:          id,
		Code:        fmt.Sprintf("EV-%s-%03d", referenceTime.Format("200601"), idx),
		Title:       fmt.Sprintf("Event %03d", idx),
		Status:      lifecycle.StatusPlanned,
		Modality:    application.ModalityOnSite,
		Start:       referenceTime.Add(time.Duration(idx) * 24 * time.Hour),
		End:         referenceTime.Add(time.Duration(idx)*24*time.Hour + 8*time.Hour),
		OrganizerID: "organizer-001",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEventID overrides the generated event ID.
func WithEventID(id string) EventOption {
	return func(f *EventFixture) {
		f.ID = id
	}
}

// WithEventCode overrides the generated code.
func WithEventCode(code string) EventOption {
	return func(f *EventFixture) {
		f.Code = code
	}
}

// WithEventTitle overrides the generated title.
func WithEventTitle(title string) EventOption {
	return func(f *EventFixture) {
		f.Title = title
	}
}

// WithEventStatus overrides the generated status.
func WithEventStatus(status lifecycle.Status) EventOption {
	return func(f *EventFixture) {
		f.Status = status
	}
}

// WithEventOrganizer overrides the owning organizer.
func WithEventOrganizer(organizerID string) EventOption {
	return func(f *EventFixture) {
		f.OrganizerID = organizerID
	}
}

// WithEventWindow overrides the start and end instants.
func WithEventWindow(start, end time.Time) EventOption {
	return func(f *EventFixture) {
		f.Start = start
		f.End = end
	}
}

// Application returns the fixture as an application.Event value.
func (f EventFixture) Application() application.Event {
	return application.Event{
		ID:          f.ID,
		Code:        f.Code,
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		Modality:    f.Modality,
		Start:       f.Start,
		End:         f.End,
		OrganizerID: f.OrganizerID,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Input returns the fixture as an application.EventInput.
func (f EventFixture) Input() application.EventInput {
	return application.EventInput{
		Title:       f.Title,
		Description: f.Description,
		Modality:    f.Modality,
		Start:       f.Start,
		End:         f.End,
		OrganizerID: f.OrganizerID,
	}
}

// Persistence returns the fixture as a persistence.Event value.
func (f EventFixture) Persistence() persistence.Event {
	return persistence.Event{
		ID:          f.ID,
		Code:        f.Code,
		Title:       f.Title,
		Description: f.Description,
		Status:      string(f.Status),
		Modality:    string(f.Modality),
		Start:       f.Start,
		End:         f.End,
		OrganizerID: f.OrganizerID,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// ---------------------------- Activity fixtures ----------------------------

// ActivityFixture represents a deterministic scheduled activity.
type ActivityFixture struct {
	ID              string
	EventID         string
	Name            string
	Type            string
	VenueID         string
	Start           time.Time
	DurationMinutes int
	Capacity        int
	Finalized       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ActivityOption configures the generated activity fixture.
type ActivityOption func(*ActivityFixture)

// NewActivityFixture returns a deterministic activity fixture with optional
// overrides. Successive fixtures land in disjoint hour slots so they do not
// conflict unless a test arranges it.
func NewActivityFixture(opts ...ActivityOption) ActivityFixture {
	idx := atomic.AddUint64(&activityCounter, 1)
	id := fmt.Sprintf("activity-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ActivityFixture{
		ID:              id,
		EventID:         "event-001",
		Name:            fmt.Sprintf("Activity %03d", idx),
		Type:            "workshop",
		VenueID:         "venue-001",
		Start:           referenceTime.Add(24*time.Hour + time.Duration(idx)*time.Hour),
		DurationMinutes: 45,
		Capacity:        25,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithActivityID overrides the generated activity ID.
func WithActivityID(id string) ActivityOption {
	return func(f *ActivityFixture) {
		f.ID = id
	}
}

// WithActivityName overrides the generated name.
func WithActivityName(name string) ActivityOption {
	return func(f *ActivityFixture) {
		f.Name = name
	}
}

// WithActivityEvent overrides the owning event.
func WithActivityEvent(eventID string) ActivityOption {
	return func(f *ActivityFixture) {
		f.EventID = eventID
	}
}

// WithActivityVenue overrides the booked venue.
func WithActivityVenue(venueID string) ActivityOption {
	return func(f *ActivityFixture) {
		f.VenueID = venueID
	}
}

// WithActivitySlot overrides the start instant and duration.
func WithActivitySlot(start time.Time, durationMinutes int) ActivityOption {
	return func(f *ActivityFixture) {
		f.Start = start
		f.DurationMinutes = durationMinutes
	}
}

// WithActivityCapacity overrides the generated capacity.
func WithActivityCapacity(capacity int) ActivityOption {
	return func(f *ActivityFixture) {
		f.Capacity = capacity
	}
}

// WithActivityFinalized marks the fixture as finalized.
func WithActivityFinalized(finalized bool) ActivityOption {
	return func(f *ActivityFixture) {
		f.Finalized = finalized
	}
}

// Application returns the fixture as an application.Activity value.
func (f ActivityFixture) Application() application.Activity {
	return application.Activity{
		ID:              f.ID,
		EventID:         f.EventID,
		Name:            f.Name,
		Type:            f.Type,
		VenueID:         f.VenueID,
		Start:           f.Start,
		DurationMinutes: f.DurationMinutes,
		Capacity:        f.Capacity,
		Finalized:       f.Finalized,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// Input returns the fixture as an application.ActivityInput.
func (f ActivityFixture) Input() application.ActivityInput {
	return application.ActivityInput{
		Name:            f.Name,
		Type:            f.Type,
		VenueID:         f.VenueID,
		Start:           f.Start,
		DurationMinutes: f.DurationMinutes,
		Capacity:        f.Capacity,
	}
}

// Persistence returns the fixture as a persistence.Activity value.
func (f ActivityFixture) Persistence() persistence.Activity {
	return persistence.Activity{
		ID:              f.ID,
		EventID:         f.EventID,
		Name:            f.Name,
		Type:            f.Type,
		VenueID:         f.VenueID,
		Start:           f.Start,
		DurationMinutes: f.DurationMinutes,
		Capacity:        f.Capacity,
		Finalized:       f.Finalized,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// -------------------------- Participant fixtures --------------------------

// ParticipantFixture represents a deterministic participant record.
type ParticipantFixture struct {
	ID              string
	Kind            application.ParticipantKind
	FirstName       string
	LastName        string
	Email           string
	AttendanceCount int
	StudentNumber   *string
	Department      *string
	Organization    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ParticipantOption configures the generated participant fixture.
type ParticipantOption func(*ParticipantFixture)

// NewParticipantFixture returns a deterministic student participant with
// optional overrides.
func NewParticipantFixture(opts ...ParticipantOption) ParticipantFixture {
	idx := atomic.AddUint64(&participantCounter, 1)
	id := fmt.Sprintf("participant-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	studentNumber := fmt.Sprintf("S-%04d", idx)
	fixture := ParticipantFixture{
		ID:            id,
		Kind:          application.KindStudent,
		FirstName:     fmt.Sprintf("First%03d", idx),
		LastName:      fmt.Sprintf("Last%03d", idx),
		Email:         fmt.Sprintf("%s@campus.example", id),
		StudentNumber: &studentNumber,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithParticipantID overrides the generated participant ID.
func WithParticipantID(id string) ParticipantOption {
	return func(f *ParticipantFixture) {
		f.ID = id
	}
}

// WithParticipantKind switches the variant and its detail field. The detail
// fields for the other variants are cleared.
func WithParticipantKind(kind application.ParticipantKind, detail string) ParticipantOption {
	return func(f *ParticipantFixture) {
		f.Kind = kind
		f.StudentNumber = nil
		f.Department = nil
		f.Organization = nil
		switch kind {
		case application.KindStudent:
			f.StudentNumber = &detail
		case application.KindFaculty:
			f.Department = &detail
		case application.KindExternal:
			f.Organization = &detail
		}
	}
}

// WithParticipantEmail overrides the generated email address.
func WithParticipantEmail(email string) ParticipantOption {
	return func(f *ParticipantFixture) {
		f.Email = email
	}
}

// WithParticipantAttendanceCount seeds the accumulated attendance counter.
func WithParticipantAttendanceCount(count int) ParticipantOption {
	return func(f *ParticipantFixture) {
		f.AttendanceCount = count
	}
}

// Application returns the fixture as an application.Participant value.
func (f ParticipantFixture) Application() application.Participant {
	return application.Participant{
		ID:              f.ID,
		Kind:            f.Kind,
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Email:           f.Email,
		AttendanceCount: f.AttendanceCount,
		StudentNumber:   f.StudentNumber,
		Department:      f.Department,
		Organization:    f.Organization,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// Input returns the fixture as an application.ParticipantInput.
func (f ParticipantFixture) Input() application.ParticipantInput {
	return application.ParticipantInput{
		Kind:          f.Kind,
		FirstName:     f.FirstName,
		LastName:      f.LastName,
		Email:         f.Email,
		StudentNumber: f.StudentNumber,
		Department:    f.Department,
		Organization:  f.Organization,
	}
}

// Persistence returns the fixture as a persistence.Participant value.
func (f ParticipantFixture) Persistence() persistence.Participant {
	return persistence.Participant{
		ID:              f.ID,
		Kind:            string(f.Kind),
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Email:           f.Email,
		AttendanceCount: f.AttendanceCount,
		StudentNumber:   f.StudentNumber,
		Department:      f.Department,
		Organization:    f.Organization,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// -------------------------- Inscription fixtures --------------------------

// InscriptionFixture represents a deterministic enrollment record.
type InscriptionFixture struct {
	ID            string
	ActivityID    string
	ParticipantID string
	Attendance    application.Attendance
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InscriptionOption configures the generated inscription fixture.
type InscriptionOption func(*InscriptionFixture)

// NewInscriptionFixture returns a deterministic inscription fixture with
// optional overrides.
func NewInscriptionFixture(opts ...InscriptionOption) InscriptionFixture {
	idx := atomic.AddUint64(&inscriptionCounter, 1)
	id := fmt.Sprintf("inscription-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := InscriptionFixture{
		ID:            id,
		ActivityID:    "activity-001",
		ParticipantID: fmt.Sprintf("participant-%03d", idx),
		Attendance:    application.AttendanceUnset,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithInscriptionID overrides the generated inscription ID.
func WithInscriptionID(id string) InscriptionOption {
	return func(f *InscriptionFixture) {
		f.ID = id
	}
}

// WithInscriptionPair overrides the enrolled activity and participant.
func WithInscriptionPair(activityID, participantID string) InscriptionOption {
	return func(f *InscriptionFixture) {
		f.ActivityID = activityID
		f.ParticipantID = participantID
	}
}

// WithInscriptionAttendance overrides the recorded attendance.
func WithInscriptionAttendance(attendance application.Attendance) InscriptionOption {
	return func(f *InscriptionFixture) {
		f.Attendance = attendance
	}
}

// Application returns the fixture as an application.Inscription value.
func (f InscriptionFixture) Application() application.Inscription {
	return application.Inscription{
		ID:            f.ID,
		ActivityID:    f.ActivityID,
		ParticipantID: f.ParticipantID,
		Attendance:    f.Attendance,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Inscription value.
func (f InscriptionFixture) Persistence() persistence.Inscription {
	return persistence.Inscription{
		ID:            f.ID,
		ActivityID:    f.ActivityID,
		ParticipantID: f.ParticipantID,
		Attendance:    string(f.Attendance),
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// ---------------------------- Session fixtures ----------------------------

// SessionFixture represents a deterministic authentication session.
type SessionFixture struct {
	ID          string
	OrganizerID string
	Token       string
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RevokedAt   *time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional
// overrides. The session expires twelve hours after the reference time.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	id := fmt.Sprintf("session-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := SessionFixture{
		ID:          id,
		OrganizerID: "organizer-001",
		Token:       fmt.Sprintf("token-%03d", idx),
		ExpiresAt:   created.Add(12 * time.Hour),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionOrganizer overrides the session owner.
func WithSessionOrganizer(organizerID string) SessionOption {
	return func(f *SessionFixture) {
		f.OrganizerID = organizerID
	}
}

// WithSessionToken overrides the generated token.
func WithSessionToken(token string) SessionOption {
	return func(f *SessionFixture) {
		f.Token = token
	}
}

// WithSessionExpiresAt overrides the expiry instant.
func WithSessionExpiresAt(expiresAt time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.ExpiresAt = expiresAt
	}
}

// WithSessionRevokedAt marks the session as revoked at the given instant.
func WithSessionRevokedAt(revokedAt time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.RevokedAt = &revokedAt
	}
}

// Application returns the fixture as an application.Session value.
func (f SessionFixture) Application() application.Session {
	return application.Session{
		ID:          f.ID,
		OrganizerID: f.OrganizerID,
		Token:       f.Token,
		Fingerprint: f.Fingerprint,
		ExpiresAt:   f.ExpiresAt,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
		RevokedAt:   f.RevokedAt,
	}
}

// Persistence returns the fixture as a persistence.Session value.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:          f.ID,
		OrganizerID: f.OrganizerID,
		Token:       f.Token,
		Fingerprint: f.Fingerprint,
		ExpiresAt:   f.ExpiresAt,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
		RevokedAt:   f.RevokedAt,
	}
}
