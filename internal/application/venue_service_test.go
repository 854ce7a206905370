package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type venueRepoStub struct {
	venue     Venue
	created   Venue
	createErr error
	updated   Venue
	updateErr error
	deleted   string
	deleteErr error
	list      []Venue
}

func (s *venueRepoStub) CreateVenue(ctx context.Context, venue Venue) (Venue, error) {
	if s.createErr != nil {
		return Venue{}, s.createErr
	}
	s.created = venue
	return venue, nil
}

func (s *venueRepoStub) GetVenue(ctx context.Context, id string) (Venue, error) {
	if s.venue.ID == "" || s.venue.ID != id {
		return Venue{}, ErrNotFound
	}
	return s.venue, nil
}

func (s *venueRepoStub) UpdateVenue(ctx context.Context, venue Venue) (Venue, error) {
	if s.updateErr != nil {
		return Venue{}, s.updateErr
	}
	s.updated = venue
	return venue, nil
}

func (s *venueRepoStub) DeleteVenue(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = id
	return nil
}

func (s *venueRepoStub) ListVenues(ctx context.Context) ([]Venue, error) {
	return append([]Venue(nil), s.list...), nil
}

func newVenueService(repo *venueRepoStub) *VenueService {
	return NewVenueService(repo, sequentialIDs("venue"), fixedNow, nil)
}

func roomInput() VenueInput {
	return VenueInput{
		Name:     "  Auditorium A  ",
		Type:     VenueRoom,
		Capacity: 120,
	}
}

func TestVenueService_RegisterVenue_TrimsName(t *testing.T) {
	repo := &venueRepoStub{}
	svc := newVenueService(repo)

	created, err := svc.RegisterVenue(context.Background(), Principal{OrganizerID: "org-1"}, roomInput())
	if err != nil {
		t.Fatalf("RegisterVenue returned error: %v", err)
	}
	if created.Name != "Auditorium A" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if created.ID != "venue-1" {
		t.Fatalf("expected generated id, got %s", created.ID)
	}
	if !created.CreatedAt.Equal(fixedNow()) || !created.UpdatedAt.Equal(fixedNow()) {
		t.Fatalf("expected timestamps from clock, got %v / %v", created.CreatedAt, created.UpdatedAt)
	}
}

func TestVenueService_RegisterVenue_RejectsUnauthenticated(t *testing.T) {
	svc := newVenueService(&venueRepoStub{})

	if _, err := svc.RegisterVenue(context.Background(), Principal{}, roomInput()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVenueService_RegisterVenue_ValidatesInput(t *testing.T) {
	svc := newVenueService(&venueRepoStub{})

	input := VenueInput{Name: "   ", Type: VenueType("closet"), Capacity: 0}
	_, err := svc.RegisterVenue(context.Background(), Principal{OrganizerID: "org-1"}, input)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"name", "type", "capacity"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Fatalf("expected %s error, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestVenueService_RegisterVenue_ReportsDuplicateName(t *testing.T) {
	repo := &venueRepoStub{createErr: ErrAlreadyExists}
	svc := newVenueService(repo)

	_, err := svc.RegisterVenue(context.Background(), Principal{OrganizerID: "org-1"}, roomInput())
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["name"]; !ok {
		t.Fatalf("expected name error, got %v", vErr.FieldErrors)
	}
}

func TestVenueService_UpdateVenue_PreservesCreatedAt(t *testing.T) {
	existing := Venue{
		ID:        "venue-1",
		Name:      "Lab 3",
		Type:      VenueLab,
		Capacity:  24,
		CreatedAt: fixedNow().Add(-48 * time.Hour),
		UpdatedAt: fixedNow().Add(-48 * time.Hour),
	}
	repo := &venueRepoStub{venue: existing}
	svc := newVenueService(repo)

	input := VenueInput{Name: "Lab 3 (annex)", Type: VenueLab, Capacity: 30}
	updated, err := svc.UpdateVenue(context.Background(), Principal{OrganizerID: "org-1"}, "venue-1", input)
	if err != nil {
		t.Fatalf("UpdateVenue returned error: %v", err)
	}
	if updated.Name != "Lab 3 (annex)" || updated.Capacity != 30 {
		t.Fatalf("expected updated fields, got %+v", updated)
	}
	if !updated.CreatedAt.Equal(existing.CreatedAt) {
		t.Fatalf("expected creation timestamp to survive, got %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(fixedNow()) {
		t.Fatalf("expected update timestamp from clock, got %v", updated.UpdatedAt)
	}
}

func TestVenueService_UpdateVenue_MissingVenue(t *testing.T) {
	svc := newVenueService(&venueRepoStub{})

	input := VenueInput{Name: "Lab 3", Type: VenueLab, Capacity: 24}
	if _, err := svc.UpdateVenue(context.Background(), Principal{OrganizerID: "org-1"}, "venue-9", input); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVenueService_GetVenue_NotFound(t *testing.T) {
	svc := newVenueService(&venueRepoStub{})

	if _, err := svc.GetVenue(context.Background(), "venue-9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVenueService_ListVenues_SortsByName(t *testing.T) {
	repo := &venueRepoStub{list: []Venue{
		{ID: "venue-2", Name: "Workshop Hall"},
		{ID: "venue-3", Name: "Auditorium A"},
		{ID: "venue-1", Name: "Auditorium A"},
	}}
	svc := newVenueService(repo)

	venues, err := svc.ListVenues(context.Background())
	if err != nil {
		t.Fatalf("ListVenues returned error: %v", err)
	}
	ids := []string{venues[0].ID, venues[1].ID, venues[2].ID}
	expected := []string{"venue-1", "venue-3", "venue-2"}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Fatalf("expected order %v, got %v", expected, ids)
		}
	}
}

func TestVenueService_DeleteVenue_SurfacesInUse(t *testing.T) {
	repo := &venueRepoStub{deleteErr: ErrVenueInUse}
	svc := newVenueService(repo)

	if err := svc.DeleteVenue(context.Background(), Principal{OrganizerID: "org-1"}, "venue-1"); !errors.Is(err, ErrVenueInUse) {
		t.Fatalf("expected ErrVenueInUse, got %v", err)
	}
}

func TestVenueService_DeleteVenue_RecordsID(t *testing.T) {
	repo := &venueRepoStub{}
	svc := newVenueService(repo)

	if err := svc.DeleteVenue(context.Background(), Principal{OrganizerID: "org-1"}, "venue-1"); err != nil {
		t.Fatalf("DeleteVenue returned error: %v", err)
	}
	if repo.deleted != "venue-1" {
		t.Fatalf("expected delete of venue-1, got %s", repo.deleted)
	}
}
