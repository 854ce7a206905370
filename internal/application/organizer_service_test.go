package application

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type organizerRepoStub struct {
	organizer Organizer
	created   OrganizerCredentials
	createErr error
	deleted   string
	deleteErr error
}

func (s *organizerRepoStub) CreateOrganizer(ctx context.Context, credentials OrganizerCredentials) (Organizer, error) {
	if s.createErr != nil {
		return Organizer{}, s.createErr
	}
	s.created = credentials
	return credentials.Organizer, nil
}

func (s *organizerRepoStub) GetOrganizer(ctx context.Context, id string) (Organizer, error) {
	if s.organizer.ID == "" || s.organizer.ID != id {
		return Organizer{}, ErrNotFound
	}
	return s.organizer, nil
}

func (s *organizerRepoStub) UpdateOrganizer(ctx context.Context, organizer Organizer) (Organizer, error) {
	return organizer, nil
}

func (s *organizerRepoStub) DeleteOrganizer(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = id
	return nil
}

func (s *organizerRepoStub) ListOrganizers(ctx context.Context) ([]Organizer, error) {
	return nil, nil
}

type eventCounterStub struct {
	owned int
	err   error
}

func (s *eventCounterStub) CountEventsForOrganizer(ctx context.Context, organizerID string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.owned, nil
}

func newOrganizerService(repo *organizerRepoStub, counter *eventCounterStub) *OrganizerService {
	return NewOrganizerService(repo, counter, sequentialIDs("org"), fixedNow, nil)
}

func TestOrganizerService_RegisterOrganizer_HashesPassword(t *testing.T) {
	repo := &organizerRepoStub{}
	svc := newOrganizerService(repo, &eventCounterStub{})

	input := OrganizerInput{
		FullName: "Grace Hopper",
		Email:    "Grace@example.edu",
		Role:     RoleResponsible,
		Password: "compilers4ever",
	}
	created, err := svc.RegisterOrganizer(context.Background(), input)
	if err != nil {
		t.Fatalf("RegisterOrganizer returned error: %v", err)
	}
	if created.Email != "grace@example.edu" {
		t.Fatalf("expected normalized email, got %s", created.Email)
	}
	if !strings.HasPrefix(repo.created.PasswordHash, "$argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", repo.created.PasswordHash)
	}
	if err := VerifyPassword(repo.created.PasswordHash, "compilers4ever"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestOrganizerService_RegisterOrganizer_RejectsShortPassword(t *testing.T) {
	svc := newOrganizerService(&organizerRepoStub{}, &eventCounterStub{})

	input := OrganizerInput{
		FullName: "Grace Hopper",
		Email:    "grace@example.edu",
		Role:     RoleResponsible,
		Password: "short",
	}
	_, err := svc.RegisterOrganizer(context.Background(), input)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["password"]; !ok {
		t.Fatalf("expected password error, got %v", vErr.FieldErrors)
	}
}

func TestOrganizerService_DeleteOrganizer_BlockedWhileOwningEvents(t *testing.T) {
	repo := &organizerRepoStub{organizer: Organizer{ID: "org-1"}}
	svc := newOrganizerService(repo, &eventCounterStub{owned: 2})

	err := svc.DeleteOrganizer(context.Background(), Principal{OrganizerID: "org-1"}, "org-1")
	if !errors.Is(err, ErrOrganizerHasEvents) {
		t.Fatalf("expected ErrOrganizerHasEvents, got %v", err)
	}
	if repo.deleted != "" {
		t.Fatal("expected no deletion while events are owned")
	}
}

func TestOrganizerService_DeleteOrganizer_RequiresSelf(t *testing.T) {
	repo := &organizerRepoStub{organizer: Organizer{ID: "org-1"}}
	svc := newOrganizerService(repo, &eventCounterStub{})

	if err := svc.DeleteOrganizer(context.Background(), Principal{OrganizerID: "org-2"}, "org-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
