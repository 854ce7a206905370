package persistence

import "time"

// Organizer represents an event organizer account stored in persistence.
type Organizer struct {
	ID           string
	FullName     string
	Email        string
	Role         string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Venue represents a physical or virtual place activities are scheduled at.
type Venue struct {
	ID        string
	Name      string
	Type      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Event represents an academic event stored in persistence.
type Event struct {
	ID          string
	Code        string
	Title       string
	Description string
	Status      string
	Modality    string
	Start       time.Time
	End         time.Time
	OrganizerID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Activity represents a scheduled sub-unit of an event, bound to a venue
// and a time window. The end instant is derived, never stored.
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

// Participant represents a person who can enroll in activities. Kind tags
// the participant variant; the optional fields belong to specific kinds.
type Participant struct {
	ID              string
	Kind            string
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

// Inscription links one participant to one activity.
type Inscription struct {
	ID            string
	ActivityID    string
	ParticipantID string
	Attendance    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session represents an authentication session persisted for an organizer.
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
