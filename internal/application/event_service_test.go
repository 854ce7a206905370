package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/campus-events/internal/lifecycle"
)

var testReference = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testReference }

func sequentialIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}

type eventRepoStub struct {
	event      Event
	getErr     error
	created    []Event
	createErrs []error
	updated    Event
	updateErr  error
	deleted    string
	deleteErr  error
	list       []Event
	listErr    error
	codes      []string
	codesErr   error
	period     []Event
	// periodPrefix scopes the stored period events to one code prefix, so
	// lookups for other months come back empty.
	periodPrefix string
}

func (s *eventRepoStub) CreateEvent(ctx context.Context, event Event) (Event, error) {
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		if err != nil {
			return Event{}, err
		}
	}
	s.created = append(s.created, event)
	return event, nil
}

func (s *eventRepoStub) GetEvent(ctx context.Context, id string) (Event, error) {
	if s.getErr != nil {
		return Event{}, s.getErr
	}
	if s.event.ID == "" || s.event.ID != id {
		return Event{}, ErrNotFound
	}
	return s.event, nil
}

func (s *eventRepoStub) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	if s.updateErr != nil {
		return Event{}, s.updateErr
	}
	s.updated = event
	return event, nil
}

func (s *eventRepoStub) DeleteEvent(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = id
	return nil
}

func (s *eventRepoStub) ListEvents(ctx context.Context) ([]Event, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]Event(nil), s.list...), nil
}

func (s *eventRepoStub) ListEventsWithCodePrefix(ctx context.Context, prefix string) ([]Event, error) {
	if s.periodPrefix != "" && s.periodPrefix != prefix {
		return nil, nil
	}
	return append([]Event(nil), s.period...), nil
}

func (s *eventRepoStub) ListCodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	if s.codesErr != nil {
		return nil, s.codesErr
	}
	return append([]string(nil), s.codes...), nil
}

type organizerDirectoryStub struct {
	exists bool
	err    error
}

func (s *organizerDirectoryStub) OrganizerExists(ctx context.Context, id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.exists, nil
}

func newEventService(repo *eventRepoStub) *EventService {
	return NewEventService(repo, &organizerDirectoryStub{exists: true}, sequentialIDs("event"), fixedNow, nil)
}

func validEventInput() EventInput {
	return EventInput{
		Title:    "Research Week",
		Modality: ModalityOnSite,
		Start:    testReference.Add(24 * time.Hour),
		End:      testReference.Add(72 * time.Hour),
	}
}

func TestEventService_RegisterEvent_AssignsSequentialCode(t *testing.T) {
	repo := &eventRepoStub{codes: []string{"EV-202501-001", "EV-202501-002"}}
	svc := newEventService(repo)

	created, err := svc.RegisterEvent(context.Background(), Principal{OrganizerID: "org-1"}, validEventInput())
	if err != nil {
		t.Fatalf("RegisterEvent returned error: %v", err)
	}
	if created.Code != "EV-202501-003" {
		t.Fatalf("expected code EV-202501-003, got %s", created.Code)
	}
	if created.Status != lifecycle.StatusPlanned {
		t.Fatalf("expected planned status, got %s", created.Status)
	}
	if created.OrganizerID != "org-1" {
		t.Fatalf("expected organizer defaulted to principal, got %s", created.OrganizerID)
	}
}

func TestEventService_RegisterEvent_RequiresAuthentication(t *testing.T) {
	svc := newEventService(&eventRepoStub{})

	if _, err := svc.RegisterEvent(context.Background(), Principal{}, validEventInput()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestEventService_RegisterEvent_PreventsOrganizerSpoofing(t *testing.T) {
	svc := newEventService(&eventRepoStub{})

	input := validEventInput()
	input.OrganizerID = "someone-else"
	if _, err := svc.RegisterEvent(context.Background(), Principal{OrganizerID: "org-1"}, input); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestEventService_RegisterEvent_ValidatesRequiredFields(t *testing.T) {
	svc := newEventService(&eventRepoStub{})

	input := validEventInput()
	input.Title = "   "
	input.Modality = Modality("carrier pigeon")
	input.Start = testReference.Add(-time.Hour)

	_, err := svc.RegisterEvent(context.Background(), Principal{OrganizerID: "org-1"}, input)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"title", "modality", "start"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Fatalf("expected field error for %s, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestEventService_RegisterEvent_RejectsEndBeforeStart(t *testing.T) {
	svc := newEventService(&eventRepoStub{})

	input := validEventInput()
	input.End = input.Start.Add(-time.Hour)
	_, err := svc.RegisterEvent(context.Background(), Principal{OrganizerID: "org-1"}, input)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["end"]; !ok {
		t.Fatalf("expected field error for end, got %v", vErr.FieldErrors)
	}
}

func TestEventService_RegisterEvent_RejectsDuplicateTitleInPeriod(t *testing.T) {
	repo := &eventRepoStub{period: []Event{{ID: "other", Title: "Research Week"}}}
	svc := newEventService(repo)

	input := validEventInput()
	input.Title = "research week"
	if _, err := svc.RegisterEvent(context.Background(), Principal{OrganizerID: "org-1"}, input); !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}
}

func TestEventService_RegisterEvent_AllowsSameTitleAcrossPeriods(t *testing.T) {
	repo := &eventRepoStub{
		periodPrefix: "EV-202412-",
		period:       []Event{{ID: "other", Title: "Research Week"}},
	}
	svc := newEventService(repo)

	created, err := svc.RegisterEvent(context.Background(), Principal{OrganizerID: "org-1"}, validEventInput())
	if err != nil {
		t.Fatalf("expected title reuse across periods to succeed, got %v", err)
	}
	if created.Title != "Research Week" {
		t.Fatalf("expected registered title, got %s", created.Title)
	}
}

func TestEventService_RegisterEvent_RetriesLostCodeRace(t *testing.T) {
	repo := &eventRepoStub{createErrs: []error{ErrAlreadyExists, ErrAlreadyExists, nil}}
	svc := newEventService(repo)

	created, err := svc.RegisterEvent(context.Background(), Principal{OrganizerID: "org-1"}, validEventInput())
	if err != nil {
		t.Fatalf("RegisterEvent returned error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected exactly one persisted event, got %d", len(repo.created))
	}
	if created.Code == "" {
		t.Fatal("expected a generated code")
	}
}

func TestEventService_RegisterEvent_GivesUpAfterRepeatedCodeRaces(t *testing.T) {
	repo := &eventRepoStub{createErrs: []error{ErrAlreadyExists, ErrAlreadyExists, ErrAlreadyExists}}
	svc := newEventService(repo)

	if _, err := svc.RegisterEvent(context.Background(), Principal{OrganizerID: "org-1"}, validEventInput()); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists after exhausted retries, got %v", err)
	}
}

func TestEventService_UpdateEvent_RequiresPlannedStatus(t *testing.T) {
	repo := &eventRepoStub{event: Event{
		ID:          "ev-1",
		Code:        "EV-202501-001",
		OrganizerID: "org-1",
		Status:      lifecycle.StatusInProgress,
	}}
	svc := newEventService(repo)

	params := UpdateEventParams{EventID: "ev-1", Input: validEventInput()}
	if _, err := svc.UpdateEvent(context.Background(), Principal{OrganizerID: "org-1"}, params); !errors.Is(err, ErrEventNotPlanned) {
		t.Fatalf("expected ErrEventNotPlanned, got %v", err)
	}
}

func TestEventService_UpdateEvent_BlocksForeignOrganizer(t *testing.T) {
	repo := &eventRepoStub{event: Event{
		ID:          "ev-1",
		OrganizerID: "org-1",
		Status:      lifecycle.StatusPlanned,
	}}
	svc := newEventService(repo)

	params := UpdateEventParams{EventID: "ev-1", Input: validEventInput()}
	if _, err := svc.UpdateEvent(context.Background(), Principal{OrganizerID: "org-2"}, params); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestEventService_UpdateEvent_KeepsCodeAndStatus(t *testing.T) {
	repo := &eventRepoStub{event: Event{
		ID:          "ev-1",
		Code:        "EV-202501-001",
		OrganizerID: "org-1",
		Status:      lifecycle.StatusPlanned,
		Start:       testReference.Add(24 * time.Hour),
	}}
	svc := newEventService(repo)

	input := validEventInput()
	input.Title = "Updated Week"
	params := UpdateEventParams{EventID: "ev-1", Input: input}
	updated, err := svc.UpdateEvent(context.Background(), Principal{OrganizerID: "org-1"}, params)
	if err != nil {
		t.Fatalf("UpdateEvent returned error: %v", err)
	}
	if updated.Code != "EV-202501-001" {
		t.Fatalf("expected code preserved, got %s", updated.Code)
	}
	if updated.Status != lifecycle.StatusPlanned {
		t.Fatalf("expected status preserved, got %s", updated.Status)
	}
	if updated.Title != "Updated Week" {
		t.Fatalf("expected updated title, got %s", updated.Title)
	}
}

func TestEventService_ChangeEventStatus_AllowsForwardTransition(t *testing.T) {
	repo := &eventRepoStub{event: Event{ID: "ev-1", OrganizerID: "org-1", Status: lifecycle.StatusPlanned}}
	svc := newEventService(repo)

	params := ChangeEventStatusParams{EventID: "ev-1", Requested: lifecycle.StatusInProgress}
	updated, err := svc.ChangeEventStatus(context.Background(), Principal{OrganizerID: "org-1"}, params)
	if err != nil {
		t.Fatalf("ChangeEventStatus returned error: %v", err)
	}
	if updated.Status != lifecycle.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", updated.Status)
	}
}

func TestEventService_ChangeEventStatus_SameStatusIsNoOp(t *testing.T) {
	repo := &eventRepoStub{event: Event{ID: "ev-1", OrganizerID: "org-1", Status: lifecycle.StatusFinished}}
	svc := newEventService(repo)

	params := ChangeEventStatusParams{EventID: "ev-1", Requested: lifecycle.StatusFinished}
	updated, err := svc.ChangeEventStatus(context.Background(), Principal{OrganizerID: "org-1"}, params)
	if err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
	if repo.updated.ID != "" {
		t.Fatal("expected no persistence write for a no-op transition")
	}
	if updated.Status != lifecycle.StatusFinished {
		t.Fatalf("expected finished, got %s", updated.Status)
	}
}

func TestEventService_ChangeEventStatus_RejectsBackwardTransition(t *testing.T) {
	repo := &eventRepoStub{event: Event{ID: "ev-1", OrganizerID: "org-1", Status: lifecycle.StatusFinished}}
	svc := newEventService(repo)

	params := ChangeEventStatusParams{EventID: "ev-1", Requested: lifecycle.StatusPlanned}
	_, err := svc.ChangeEventStatus(context.Background(), Principal{OrganizerID: "org-1"}, params)
	var tErr *lifecycle.TransitionError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if tErr.From != lifecycle.StatusFinished || tErr.To != lifecycle.StatusPlanned {
		t.Fatalf("unexpected transition error: %+v", tErr)
	}
}

func TestEventService_GenerateEventCode_ReturnsNextInSequence(t *testing.T) {
	repo := &eventRepoStub{codes: []string{"EV-202501-007", "EV-202501-003", "bogus"}}
	svc := newEventService(repo)

	code, err := svc.GenerateEventCode(context.Background(), Principal{OrganizerID: "org-1"})
	if err != nil {
		t.Fatalf("GenerateEventCode returned error: %v", err)
	}
	if code != "EV-202501-008" {
		t.Fatalf("expected EV-202501-008, got %s", code)
	}
}

func TestEventService_ListEvents_OrdersByStart(t *testing.T) {
	late := Event{ID: "b", Start: testReference.Add(48 * time.Hour)}
	early := Event{ID: "a", Start: testReference.Add(24 * time.Hour)}
	repo := &eventRepoStub{list: []Event{late, early}}
	svc := newEventService(repo)

	events, err := svc.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(events) != 2 || events[0].ID != "a" || events[1].ID != "b" {
		t.Fatalf("expected events ordered by start, got %+v", events)
	}
}

func TestEventService_DeleteEvent_RemovesOwnedEvent(t *testing.T) {
	repo := &eventRepoStub{event: Event{ID: "ev-1", OrganizerID: "org-1", Status: lifecycle.StatusPlanned}}
	svc := newEventService(repo)

	if err := svc.DeleteEvent(context.Background(), Principal{OrganizerID: "org-1"}, "ev-1"); err != nil {
		t.Fatalf("DeleteEvent returned error: %v", err)
	}
	if repo.deleted != "ev-1" {
		t.Fatalf("expected ev-1 deleted, got %q", repo.deleted)
	}
}
