package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/campus-events/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

func (f *ServiceFactory) idFunc(override func() string) func() string {
	if override != nil {
		return override
	}
	return f.IDGenerator.NextFunc()
}

func (f *ServiceFactory) nowFunc(override func() time.Time) func() time.Time {
	if override != nil {
		return override
	}
	return f.Clock.NowFunc()
}

// EventServiceDeps captures dependencies for constructing an event service.
type EventServiceDeps struct {
	Events      application.EventRepository
	Organizers  application.OrganizerDirectory
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewEventService builds an event service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewEventService(deps EventServiceDeps) *application.EventService {
	return application.NewEventService(
		deps.Events,
		deps.Organizers,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// ActivityServiceDeps captures dependencies for constructing an activity service.
type ActivityServiceDeps struct {
	Activities  application.ActivityRepository
	Events      application.EventResolver
	Venues      application.VenueCatalog
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewActivityService builds an activity service using the supplied dependencies.
func (f *ServiceFactory) NewActivityService(deps ActivityServiceDeps) *application.ActivityService {
	return application.NewActivityService(
		deps.Activities,
		deps.Events,
		deps.Venues,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// InscriptionServiceDeps captures dependencies for constructing an inscription service.
type InscriptionServiceDeps struct {
	Inscriptions application.InscriptionRepository
	Activities   application.ActivityResolver
	Participants application.ParticipantResolver
	IDGenerator  func() string
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewInscriptionService builds an inscription service using the supplied dependencies.
func (f *ServiceFactory) NewInscriptionService(deps InscriptionServiceDeps) *application.InscriptionService {
	return application.NewInscriptionService(
		deps.Inscriptions,
		deps.Activities,
		deps.Participants,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// VenueServiceDeps captures dependencies for constructing a venue service.
type VenueServiceDeps struct {
	Venues      application.VenueRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewVenueService builds a venue service using the supplied dependencies.
func (f *ServiceFactory) NewVenueService(deps VenueServiceDeps) *application.VenueService {
	return application.NewVenueService(
		deps.Venues,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// ParticipantServiceDeps captures dependencies for constructing a participant service.
type ParticipantServiceDeps struct {
	Participants application.ParticipantRepository
	IDGenerator  func() string
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewParticipantService builds a participant service using the supplied dependencies.
func (f *ServiceFactory) NewParticipantService(deps ParticipantServiceDeps) *application.ParticipantService {
	return application.NewParticipantService(
		deps.Participants,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// OrganizerServiceDeps captures dependencies for constructing an organizer service.
type OrganizerServiceDeps struct {
	Organizers  application.OrganizerRepository
	Events      application.EventCounter
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewOrganizerService builds an organizer service using the supplied dependencies.
func (f *ServiceFactory) NewOrganizerService(deps OrganizerServiceDeps) *application.OrganizerService {
	return application.NewOrganizerService(
		deps.Organizers,
		deps.Events,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Credentials    application.CredentialStore
	Sessions       application.SessionStore
	IDGenerator    func() string
	TokenGenerator func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service using the supplied dependencies.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	return application.NewAuthService(
		deps.Credentials,
		deps.Sessions,
		f.idFunc(deps.IDGenerator),
		f.idFunc(deps.TokenGenerator),
		f.nowFunc(deps.Now),
		deps.SessionTTL,
		deps.Logger,
	)
}
