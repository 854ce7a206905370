package application

import (
	"time"

	"github.com/example/campus-events/internal/lifecycle"
)

// Principal represents the authenticated organizer invoking a service method.
type Principal struct {
	OrganizerID string
}

// Authenticated reports whether the principal carries an organizer identity.
func (p Principal) Authenticated() bool {
	return p.OrganizerID != ""
}

// Modality identifies how an event is delivered.
type Modality string

const (
	ModalityOnSite Modality = "on_site"
	ModalityOnline Modality = "online"
	ModalityHybrid Modality = "hybrid"
)

// Valid reports whether the modality is one of the known variants.
func (m Modality) Valid() bool {
	switch m {
	case ModalityOnSite, ModalityOnline, ModalityHybrid:
		return true
	}
	return false
}

// VenueType identifies the kind of place a venue is.
type VenueType string

const (
	VenueRoom            VenueType = "room"
	VenueLab             VenueType = "lab"
	VenueVirtualPlatform VenueType = "virtual_platform"
)

// Valid reports whether the venue type is one of the known variants.
func (t VenueType) Valid() bool {
	switch t {
	case VenueRoom, VenueLab, VenueVirtualPlatform:
		return true
	}
	return false
}

// ParticipantKind tags the participant variant.
type ParticipantKind string

const (
	KindStudent  ParticipantKind = "student"
	KindFaculty  ParticipantKind = "faculty"
	KindExternal ParticipantKind = "external"
)

// Valid reports whether the kind is one of the known variants.
func (k ParticipantKind) Valid() bool {
	switch k {
	case KindStudent, KindFaculty, KindExternal:
		return true
	}
	return false
}

// OrganizerRole identifies the role an organizer account holds.
type OrganizerRole string

const (
	RoleOrganizer   OrganizerRole = "organizer"
	RoleSpeaker     OrganizerRole = "speaker"
	RoleResponsible OrganizerRole = "responsible"
)

// Valid reports whether the role is one of the known variants.
func (r OrganizerRole) Valid() bool {
	switch r {
	case RoleOrganizer, RoleSpeaker, RoleResponsible:
		return true
	}
	return false
}

// Attendance tracks whether a participant attended an activity.
type Attendance string

const (
	AttendanceUnset       Attendance = "unset"
	AttendanceAttended    Attendance = "attended"
	AttendanceNotAttended Attendance = "not_attended"
)

// Valid reports whether the attendance status is one of the known variants.
func (a Attendance) Valid() bool {
	switch a {
	case AttendanceUnset, AttendanceAttended, AttendanceNotAttended:
		return true
	}
	return false
}

// EventInput captures caller provided event fields.
type EventInput struct {
	Title       string
	Description string
	Modality    Modality
	Start       time.Time
	End         time.Time
	OrganizerID string
}

// Event represents a persisted academic event.
type Event struct {
	ID          string
	Code        string
	Title       string
	Description string
	Status      lifecycle.Status
	Modality    Modality
	Start       time.Time
	End         time.Time
	OrganizerID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpdateEventParams wraps the data required to update an existing event.
type UpdateEventParams struct {
	EventID string
	Input   EventInput
}

// ChangeEventStatusParams wraps the data required to advance an event's status.
type ChangeEventStatusParams struct {
	EventID   string
	Requested lifecycle.Status
}

// ActivityInput captures caller provided activity fields.
type ActivityInput struct {
	Name            string
	Type            string
	VenueID         string
	Start           time.Time
	DurationMinutes int
	Capacity        int
}

// Activity represents a persisted scheduled activity.
type Activity struct {
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

// End derives the activity's end instant from its start and duration.
func (a Activity) End() time.Time {
	return a.Start.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// RegisterActivityParams wraps the data required to schedule an activity.
type RegisterActivityParams struct {
	EventID string
	Input   ActivityInput
}

// UpdateActivityParams wraps the data required to update an activity.
type UpdateActivityParams struct {
	ActivityID string
	Input      ActivityInput
}

// ConflictCheckParams wraps the data required to probe a venue time window.
type ConflictCheckParams struct {
	VenueID           string
	Start             time.Time
	DurationMinutes   int
	ExcludeActivityID string
}

// ConflictWarning describes a scheduling conflict surfaced to callers.
type ConflictWarning struct {
	ActivityID     string
	WithActivityID string
	VenueID        string
	Start          time.Time
	End            time.Time
}

// ActivityListItem pairs an activity with its advisory conflict warnings.
type ActivityListItem struct {
	Activity Activity
	Warnings []ConflictWarning
}

// VenueInput captures caller provided venue fields.
type VenueInput struct {
	Name     string
	Type     VenueType
	Capacity int
}

// Venue represents a catalog entry for a place activities run at.
type Venue struct {
	ID        string
	Name      string
	Type      VenueType
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParticipantInput captures caller provided participant fields.
type ParticipantInput struct {
	Kind          ParticipantKind
	FirstName     string
	LastName      string
	Email         string
	StudentNumber *string
	Department    *string
	Organization  *string
}

// Participant represents a person who can enroll in activities.
type Participant struct {
	ID              string
	Kind            ParticipantKind
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

// Inscription represents the enrollment of one participant into one activity.
type Inscription struct {
	ID            string
	ActivityID    string
	ParticipantID string
	Attendance    Attendance
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RegisterInscriptionParams wraps the data required to enroll a participant.
type RegisterInscriptionParams struct {
	ActivityID    string
	ParticipantID string
}

// MarkAttendanceParams wraps the data required to record attendance.
type MarkAttendanceParams struct {
	InscriptionID string
	Attended      bool
}

// OrganizerInput captures caller provided organizer fields.
type OrganizerInput struct {
	FullName string
	Email    string
	Role     OrganizerRole
	Password string
}

// Organizer represents an organizer account exposed by the application services.
type Organizer struct {
	ID        string
	FullName  string
	Email     string
	Role      OrganizerRole
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrganizerCredentials models the authentication attributes persisted for an organizer.
type OrganizerCredentials struct {
	Organizer    Organizer
	PasswordHash string
	Disabled     bool
}

// Session represents an authenticated session issued to an organizer.
type Session struct {
	ID          string
	OrganizerID string
	Token       string
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RevokedAt   *time.Time
}

// AuthenticateParams captures the data required to authenticate an organizer.
type AuthenticateParams struct {
	Email       string
	Password    string
	Fingerprint string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	Organizer Organizer
	Session   Session
}
