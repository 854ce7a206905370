package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/campus-events/internal/persistence"
	"github.com/example/campus-events/internal/testfixtures"
)

func seedOrganizer(t *testing.T, h *testfixtures.SQLiteHarness, opts ...testfixtures.OrganizerOption) testfixtures.OrganizerFixture {
	t.Helper()

	fixture := testfixtures.NewOrganizerFixture(opts...)
	if err := h.Organizers.CreateOrganizer(context.Background(), fixture.Persistence()); err != nil {
		t.Fatalf("CreateOrganizer failed: %v", err)
	}
	return fixture
}

func seedVenue(t *testing.T, h *testfixtures.SQLiteHarness, opts ...testfixtures.VenueOption) testfixtures.VenueFixture {
	t.Helper()

	fixture := testfixtures.NewVenueFixture(opts...)
	if err := h.Venues.CreateVenue(context.Background(), fixture.Persistence()); err != nil {
		t.Fatalf("CreateVenue failed: %v", err)
	}
	return fixture
}

func seedEvent(t *testing.T, h *testfixtures.SQLiteHarness, opts ...testfixtures.EventOption) testfixtures.EventFixture {
	t.Helper()

	fixture := testfixtures.NewEventFixture(opts...)
	if err := h.Events.CreateEvent(context.Background(), fixture.Persistence()); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	return fixture
}

func seedActivity(t *testing.T, h *testfixtures.SQLiteHarness, opts ...testfixtures.ActivityOption) testfixtures.ActivityFixture {
	t.Helper()

	fixture := testfixtures.NewActivityFixture(opts...)
	if err := h.Activities.CreateActivity(context.Background(), fixture.Persistence()); err != nil {
		t.Fatalf("CreateActivity failed: %v", err)
	}
	return fixture
}

func seedParticipant(t *testing.T, h *testfixtures.SQLiteHarness, opts ...testfixtures.ParticipantOption) testfixtures.ParticipantFixture {
	t.Helper()

	fixture := testfixtures.NewParticipantFixture(opts...)
	if err := h.Participants.CreateParticipant(context.Background(), fixture.Persistence()); err != nil {
		t.Fatalf("CreateParticipant failed: %v", err)
	}
	return fixture
}

// seedBooking lays down the organizer/venue/event/activity chain most
// repository tests need.
func seedBooking(t *testing.T, h *testfixtures.SQLiteHarness, activityOpts ...testfixtures.ActivityOption) (testfixtures.EventFixture, testfixtures.VenueFixture, testfixtures.ActivityFixture) {
	t.Helper()

	organizer := seedOrganizer(t, h)
	venue := seedVenue(t, h)
	event := seedEvent(t, h, testfixtures.WithEventOrganizer(organizer.ID))
	opts := append([]testfixtures.ActivityOption{
		testfixtures.WithActivityEvent(event.ID),
		testfixtures.WithActivityVenue(venue.ID),
	}, activityOpts...)
	activity := seedActivity(t, h, opts...)
	return event, venue, activity
}

func TestOrganizerRepository_EmailIsCaseInsensitive(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	organizer := seedOrganizer(t, harness, testfixtures.WithOrganizerEmail("mixed.case@campus.example"))

	retrieved, err := harness.Organizers.GetOrganizerByEmail(ctx, "Mixed.Case@Campus.Example")
	if err != nil {
		t.Fatalf("GetOrganizerByEmail failed: %v", err)
	}
	if retrieved.ID != organizer.ID {
		t.Errorf("Expected organizer %s, got %s", organizer.ID, retrieved.ID)
	}

	duplicate := testfixtures.NewOrganizerFixture(testfixtures.WithOrganizerEmail("MIXED.case@campus.example"))
	if err := harness.Organizers.CreateOrganizer(ctx, duplicate.Persistence()); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate for reused email, got %v", err)
	}
}

func TestVenueRepository_DeleteBlockedWhileBooked(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)

	_, venue, _ := seedBooking(t, harness)

	err := harness.Venues.DeleteVenue(context.Background(), venue.ID)
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("Expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestEventRepository_CodeIsUnique(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	organizer := seedOrganizer(t, harness)
	first := seedEvent(t, harness,
		testfixtures.WithEventOrganizer(organizer.ID),
		testfixtures.WithEventCode("EV-209903-001"))

	duplicate := testfixtures.NewEventFixture(
		testfixtures.WithEventOrganizer(organizer.ID),
		testfixtures.WithEventCode(first.Code))
	if err := harness.Events.CreateEvent(ctx, duplicate.Persistence()); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate for reused code, got %v", err)
	}
}

func TestEventRepository_ListCodesWithPrefix(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	organizer := seedOrganizer(t, harness)
	seedEvent(t, harness, testfixtures.WithEventOrganizer(organizer.ID), testfixtures.WithEventCode("EV-209903-001"))
	seedEvent(t, harness, testfixtures.WithEventOrganizer(organizer.ID), testfixtures.WithEventCode("EV-209903-002"))
	april := seedEvent(t, harness, testfixtures.WithEventOrganizer(organizer.ID), testfixtures.WithEventCode("EV-209904-001"))

	codes, err := harness.Events.ListCodesWithPrefix(ctx, "EV-209903-")
	if err != nil {
		t.Fatalf("ListCodesWithPrefix failed: %v", err)
	}
	if len(codes) != 2 {
		t.Fatalf("Expected 2 codes for March, got %d: %v", len(codes), codes)
	}

	events, err := harness.Events.ListEventsWithCodePrefix(ctx, "EV-209904-")
	if err != nil {
		t.Fatalf("ListEventsWithCodePrefix failed: %v", err)
	}
	if len(events) != 1 || events[0].ID != april.ID {
		t.Fatalf("Expected only %s for April, got %v", april.ID, events)
	}
}

func TestEventRepository_DeleteCascadesToActivities(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	event, _, activity := seedBooking(t, harness)

	if err := harness.Events.DeleteEvent(ctx, event.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}

	_, err := harness.Activities.GetActivity(ctx, activity.ID)
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected activity to be removed with its event, got %v", err)
	}
}

func TestActivityRepository_CreateRejectsVenueOverlap(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	start := testfixtures.ReferenceTime().Add(24 * time.Hour)
	event, venue, _ := seedBooking(t, harness, testfixtures.WithActivitySlot(start, 60))

	overlapping := testfixtures.NewActivityFixture(
		testfixtures.WithActivityEvent(event.ID),
		testfixtures.WithActivityVenue(venue.ID),
		testfixtures.WithActivitySlot(start.Add(30*time.Minute), 60))
	if err := harness.Activities.CreateActivity(ctx, overlapping.Persistence()); !errors.Is(err, persistence.ErrScheduleConflict) {
		t.Fatalf("Expected ErrScheduleConflict, got %v", err)
	}

	// Back-to-back with the occupant's end is allowed.
	adjacent := testfixtures.NewActivityFixture(
		testfixtures.WithActivityEvent(event.ID),
		testfixtures.WithActivityVenue(venue.ID),
		testfixtures.WithActivitySlot(start.Add(60*time.Minute), 60))
	if err := harness.Activities.CreateActivity(ctx, adjacent.Persistence()); err != nil {
		t.Fatalf("Expected adjacent booking to succeed, got %v", err)
	}
}

func TestActivityRepository_FinalizedOccupantReleasesVenue(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	start := testfixtures.ReferenceTime().Add(24 * time.Hour)
	event, venue, occupant := seedBooking(t, harness, testfixtures.WithActivitySlot(start, 60))

	finalized := occupant.Persistence()
	finalized.Finalized = true
	if err := harness.Activities.UpdateActivity(ctx, finalized); err != nil {
		t.Fatalf("UpdateActivity failed: %v", err)
	}

	incoming := testfixtures.NewActivityFixture(
		testfixtures.WithActivityEvent(event.ID),
		testfixtures.WithActivityVenue(venue.ID),
		testfixtures.WithActivitySlot(start, 60))
	if err := harness.Activities.CreateActivity(ctx, incoming.Persistence()); err != nil {
		t.Fatalf("Expected finalized occupant to release the slot, got %v", err)
	}
}

func TestActivityRepository_UpdateExcludesSelfFromOverlapCheck(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	_, _, activity := seedBooking(t, harness)

	resized := activity.Persistence()
	resized.Capacity = 30
	if err := harness.Activities.UpdateActivity(ctx, resized); err != nil {
		t.Fatalf("Expected update sharing its own slot to succeed, got %v", err)
	}

	retrieved, err := harness.Activities.GetActivity(ctx, activity.ID)
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if retrieved.Capacity != 30 {
		t.Errorf("Expected capacity 30, got %d", retrieved.Capacity)
	}
}

func TestActivityRepository_NameUniquePerEvent(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	event, venue, first := seedBooking(t, harness)

	clash := testfixtures.NewActivityFixture(
		testfixtures.WithActivityEvent(event.ID),
		testfixtures.WithActivityVenue(venue.ID),
		testfixtures.WithActivityName(first.Name),
		testfixtures.WithActivitySlot(first.Start.Add(72*time.Hour), 60))
	if err := harness.Activities.CreateActivity(ctx, clash.Persistence()); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate for reused name, got %v", err)
	}
}

func TestInscriptionRepository_CreateEnforcesCapacity(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	_, _, activity := seedBooking(t, harness, testfixtures.WithActivityCapacity(1))
	first := seedParticipant(t, harness)
	second := seedParticipant(t, harness)

	enrollment := testfixtures.NewInscriptionFixture(testfixtures.WithInscriptionPair(activity.ID, first.ID))
	if err := harness.Inscriptions.CreateInscription(ctx, enrollment.Persistence()); err != nil {
		t.Fatalf("CreateInscription failed: %v", err)
	}

	overflow := testfixtures.NewInscriptionFixture(testfixtures.WithInscriptionPair(activity.ID, second.ID))
	if err := harness.Inscriptions.CreateInscription(ctx, overflow.Persistence()); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("Expected ErrConstraintViolation at capacity, got %v", err)
	}

	// Cancelling the first enrollment frees the seat again.
	if err := harness.Inscriptions.DeleteInscription(ctx, enrollment.ID); err != nil {
		t.Fatalf("DeleteInscription failed: %v", err)
	}
	if err := harness.Inscriptions.CreateInscription(ctx, overflow.Persistence()); err != nil {
		t.Fatalf("Expected freed seat to accept the enrollment, got %v", err)
	}
}

func TestInscriptionRepository_PairIsUnique(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	_, _, activity := seedBooking(t, harness)
	participant := seedParticipant(t, harness)

	enrollment := testfixtures.NewInscriptionFixture(testfixtures.WithInscriptionPair(activity.ID, participant.ID))
	if err := harness.Inscriptions.CreateInscription(ctx, enrollment.Persistence()); err != nil {
		t.Fatalf("CreateInscription failed: %v", err)
	}

	repeat := testfixtures.NewInscriptionFixture(testfixtures.WithInscriptionPair(activity.ID, participant.ID))
	if err := harness.Inscriptions.CreateInscription(ctx, repeat.Persistence()); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate for repeated pair, got %v", err)
	}

	retrieved, err := harness.Inscriptions.GetInscriptionForPair(ctx, activity.ID, participant.ID)
	if err != nil {
		t.Fatalf("GetInscriptionForPair failed: %v", err)
	}
	if retrieved.ID != enrollment.ID {
		t.Errorf("Expected %s, got %s", enrollment.ID, retrieved.ID)
	}
}

func TestInscriptionRepository_CreateRejectsFinalizedActivity(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	_, _, activity := seedBooking(t, harness, testfixtures.WithActivityFinalized(true))
	participant := seedParticipant(t, harness)

	enrollment := testfixtures.NewInscriptionFixture(testfixtures.WithInscriptionPair(activity.ID, participant.ID))
	err := harness.Inscriptions.CreateInscription(ctx, enrollment.Persistence())
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("Expected ErrConstraintViolation for finalized activity, got %v", err)
	}
}

func TestParticipantRepository_NullableDetailsRoundTrip(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	participant := seedParticipant(t, harness)

	retrieved, err := harness.Participants.GetParticipant(ctx, participant.ID)
	if err != nil {
		t.Fatalf("GetParticipant failed: %v", err)
	}
	if retrieved.StudentNumber == nil || *retrieved.StudentNumber != *participant.StudentNumber {
		t.Errorf("Expected student number %v, got %v", participant.StudentNumber, retrieved.StudentNumber)
	}
	if retrieved.Department != nil || retrieved.Organization != nil {
		t.Errorf("Expected unset details to stay nil, got %v / %v", retrieved.Department, retrieved.Organization)
	}

	// Switching kind clears the old detail column.
	retrieved.Kind = "external"
	retrieved.StudentNumber = nil
	organization := "ACME Corp"
	retrieved.Organization = &organization
	if err := harness.Participants.UpdateParticipant(ctx, retrieved); err != nil {
		t.Fatalf("UpdateParticipant failed: %v", err)
	}

	updated, err := harness.Participants.GetParticipant(ctx, participant.ID)
	if err != nil {
		t.Fatalf("GetParticipant failed: %v", err)
	}
	if updated.StudentNumber != nil {
		t.Errorf("Expected student number to be cleared, got %v", updated.StudentNumber)
	}
	if updated.Organization == nil || *updated.Organization != organization {
		t.Errorf("Expected organization %q, got %v", organization, updated.Organization)
	}
}

func TestParticipantRepository_DeleteBlockedWhileEnrolled(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	_, _, activity := seedBooking(t, harness)
	participant := seedParticipant(t, harness)

	enrollment := testfixtures.NewInscriptionFixture(testfixtures.WithInscriptionPair(activity.ID, participant.ID))
	if err := harness.Inscriptions.CreateInscription(ctx, enrollment.Persistence()); err != nil {
		t.Fatalf("CreateInscription failed: %v", err)
	}

	err := harness.Participants.DeleteParticipant(ctx, participant.ID)
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("Expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestSessionRepository_RevokeSetsRevokedAt(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	organizer := seedOrganizer(t, harness)
	session := testfixtures.NewSessionFixture(testfixtures.WithSessionOrganizer(organizer.ID))
	if _, err := harness.Sessions.CreateSession(ctx, session.Persistence()); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	revokedAt := testfixtures.ReferenceTime().Add(time.Hour)
	revoked, err := harness.Sessions.RevokeSession(ctx, session.Token, revokedAt)
	if err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}
	if revoked.RevokedAt == nil || !revoked.RevokedAt.Equal(revokedAt) {
		t.Errorf("Expected revoked_at to be recorded, got %v", revoked.RevokedAt)
	}

	// Revoking again finds no live session for the token.
	if _, err := harness.Sessions.RevokeSession(ctx, session.Token, revokedAt.Add(time.Hour)); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for already revoked token, got %v", err)
	}
}

func TestSessionRepository_DeleteExpiredSessions(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	organizer := seedOrganizer(t, harness)
	stale := testfixtures.NewSessionFixture(
		testfixtures.WithSessionOrganizer(organizer.ID),
		testfixtures.WithSessionExpiresAt(testfixtures.ReferenceTime().Add(-time.Hour)))
	live := testfixtures.NewSessionFixture(testfixtures.WithSessionOrganizer(organizer.ID))
	if _, err := harness.Sessions.CreateSession(ctx, stale.Persistence()); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := harness.Sessions.CreateSession(ctx, live.Persistence()); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := harness.Sessions.DeleteExpiredSessions(ctx, testfixtures.ReferenceTime()); err != nil {
		t.Fatalf("DeleteExpiredSessions failed: %v", err)
	}

	if _, err := harness.Sessions.GetSession(ctx, stale.Token); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected stale session to be gone, got %v", err)
	}
	if _, err := harness.Sessions.GetSession(ctx, live.Token); err != nil {
		t.Fatalf("Expected live session to survive, got %v", err)
	}
}
