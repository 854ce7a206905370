package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/testfixtures"
)

type memoryCredentialStore struct {
	credentials map[string]application.OrganizerCredentials
}

func (s *memoryCredentialStore) GetOrganizerCredentialsByEmail(ctx context.Context, email string) (application.OrganizerCredentials, error) {
	credentials, ok := s.credentials[email]
	if !ok {
		return application.OrganizerCredentials{}, application.ErrNotFound
	}
	return credentials, nil
}

type memorySessionStore struct {
	sessions map[string]application.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]application.Session)}
}

func (s *memorySessionStore) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	s.sessions[session.Token] = session
	return session, nil
}

func (s *memorySessionStore) GetSessionByToken(ctx context.Context, token string) (application.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return application.Session{}, application.ErrNotFound
	}
	return session, nil
}

func (s *memorySessionStore) UpdateSession(ctx context.Context, session application.Session) (application.Session, error) {
	s.sessions[session.Token] = session
	return session, nil
}

func (s *memorySessionStore) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	session, ok := s.sessions[token]
	if !ok || session.RevokedAt != nil {
		return application.Session{}, application.ErrNotFound
	}
	session.RevokedAt = &revokedAt
	s.sessions[token] = session
	return session, nil
}

func (s *memorySessionStore) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	for token, session := range s.sessions {
		if !reference.Before(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
	return nil
}

// The full authenticate/validate/expire/purge cycle driven by a controllable
// clock, wired through the shared service factory.
func TestSessionLifecycleAgainstAdvancingClock(t *testing.T) {
	hash, err := application.CreatePasswordHash("opensesame", application.DefaultArgon2idParams)
	if err != nil {
		t.Fatalf("CreatePasswordHash failed: %v", err)
	}
	organizer := testfixtures.NewOrganizerFixture(testfixtures.WithOrganizerPasswordHash(hash))
	credentials := &memoryCredentialStore{credentials: map[string]application.OrganizerCredentials{
		organizer.Email: organizer.Credentials(),
	}}
	sessions := newMemorySessionStore()

	clock := testfixtures.NewClock(time.Time{})
	factory := testfixtures.NewServiceFactory(
		testfixtures.WithClock(clock),
		testfixtures.WithIDGenerator(testfixtures.NewIDGenerator("session")),
	)
	svc := factory.NewAuthService(testfixtures.AuthServiceDeps{
		Credentials: credentials,
		Sessions:    sessions,
		SessionTTL:  2 * time.Hour,
	})
	ctx := context.Background()

	result, err := svc.Authenticate(ctx, application.AuthenticateParams{
		Email:    organizer.Email,
		Password: "opensesame",
	})
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if !result.Session.ExpiresAt.Equal(clock.Now().Add(2 * time.Hour)) {
		t.Fatalf("expected expiry derived from the clock, got %v", result.Session.ExpiresAt)
	}

	principal, err := svc.ValidateSession(ctx, result.Session.Token)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if principal.OrganizerID != organizer.ID {
		t.Fatalf("expected principal %s, got %s", organizer.ID, principal.OrganizerID)
	}

	clock.Advance(3 * time.Hour)
	if _, err := svc.ValidateSession(ctx, result.Session.Token); !errors.Is(err, application.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired after the TTL elapsed, got %v", err)
	}

	if err := svc.PurgeExpiredSessions(ctx); err != nil {
		t.Fatalf("PurgeExpiredSessions failed: %v", err)
	}
	if _, err := svc.ValidateSession(ctx, result.Session.Token); !errors.Is(err, application.ErrUnauthorized) {
		t.Fatalf("expected purged session to be unknown, got %v", err)
	}
}

func TestSessionLifecycle_RevokedTokenStaysDead(t *testing.T) {
	hash, err := application.CreatePasswordHash("opensesame", application.DefaultArgon2idParams)
	if err != nil {
		t.Fatalf("CreatePasswordHash failed: %v", err)
	}
	organizer := testfixtures.NewOrganizerFixture(testfixtures.WithOrganizerPasswordHash(hash))
	credentials := &memoryCredentialStore{credentials: map[string]application.OrganizerCredentials{
		organizer.Email: organizer.Credentials(),
	}}

	factory := testfixtures.NewServiceFactory()
	svc := factory.NewAuthService(testfixtures.AuthServiceDeps{
		Credentials: credentials,
		Sessions:    newMemorySessionStore(),
	})
	ctx := context.Background()

	result, err := svc.Authenticate(ctx, application.AuthenticateParams{
		Email:    organizer.Email,
		Password: "opensesame",
	})
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	if err := svc.RevokeSession(ctx, result.Session.Token); err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}
	if _, err := svc.ValidateSession(ctx, result.Session.Token); !errors.Is(err, application.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
	if _, err := svc.RefreshSession(ctx, result.Session.Token); !errors.Is(err, application.ErrSessionRevoked) {
		t.Fatalf("expected refresh of a revoked session to fail, got %v", err)
	}
}
