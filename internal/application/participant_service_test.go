package application

import (
	"context"
	"errors"
	"testing"
)

type participantRepoStub struct {
	participant Participant
	created     Participant
	createErr   error
	updated     Participant
	updateErr   error
	deleted     string
	deleteErr   error
	list        []Participant
}

func (s *participantRepoStub) CreateParticipant(ctx context.Context, participant Participant) (Participant, error) {
	if s.createErr != nil {
		return Participant{}, s.createErr
	}
	s.created = participant
	return participant, nil
}

func (s *participantRepoStub) GetParticipant(ctx context.Context, id string) (Participant, error) {
	if s.participant.ID == "" || s.participant.ID != id {
		return Participant{}, ErrNotFound
	}
	return s.participant, nil
}

func (s *participantRepoStub) UpdateParticipant(ctx context.Context, participant Participant) (Participant, error) {
	if s.updateErr != nil {
		return Participant{}, s.updateErr
	}
	s.updated = participant
	return participant, nil
}

func (s *participantRepoStub) DeleteParticipant(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = id
	return nil
}

func (s *participantRepoStub) ListParticipants(ctx context.Context) ([]Participant, error) {
	return append([]Participant(nil), s.list...), nil
}

func newParticipantService(repo *participantRepoStub) *ParticipantService {
	return NewParticipantService(repo, sequentialIDs("part"), fixedNow, nil)
}

func studentInput() ParticipantInput {
	number := "S-1001"
	return ParticipantInput{
		Kind:          KindStudent,
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "Ada.Lovelace@example.edu",
		StudentNumber: &number,
	}
}

func TestParticipantService_RegisterParticipant_NormalizesEmail(t *testing.T) {
	repo := &participantRepoStub{}
	svc := newParticipantService(repo)

	created, err := svc.RegisterParticipant(context.Background(), Principal{OrganizerID: "org-1"}, studentInput())
	if err != nil {
		t.Fatalf("RegisterParticipant returned error: %v", err)
	}
	if created.Email != "ada.lovelace@example.edu" {
		t.Fatalf("expected lower-cased email, got %s", created.Email)
	}
	if created.AttendanceCount != 0 {
		t.Fatalf("expected fresh counter, got %d", created.AttendanceCount)
	}
}

func TestParticipantService_RegisterParticipant_RequiresKindDetail(t *testing.T) {
	svc := newParticipantService(&participantRepoStub{})

	input := studentInput()
	input.StudentNumber = nil
	_, err := svc.RegisterParticipant(context.Background(), Principal{OrganizerID: "org-1"}, input)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["student_number"]; !ok {
		t.Fatalf("expected student_number error, got %v", vErr.FieldErrors)
	}
}

func TestParticipantService_RegisterParticipant_SurfacesDuplicateEmail(t *testing.T) {
	repo := &participantRepoStub{createErr: ErrAlreadyExists}
	svc := newParticipantService(repo)

	if _, err := svc.RegisterParticipant(context.Background(), Principal{OrganizerID: "org-1"}, studentInput()); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestParticipantService_UpdateParticipant_SwapsKindDetail(t *testing.T) {
	number := "S-1001"
	repo := &participantRepoStub{participant: Participant{
		ID:              "part-1",
		Kind:            KindStudent,
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada.lovelace@example.edu",
		StudentNumber:   &number,
		AttendanceCount: 4,
	}}
	svc := newParticipantService(repo)

	department := "Mathematics"
	input := ParticipantInput{
		Kind:       KindFaculty,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada.lovelace@example.edu",
		Department: &department,
	}
	updated, err := svc.UpdateParticipant(context.Background(), Principal{OrganizerID: "org-1"}, "part-1", input)
	if err != nil {
		t.Fatalf("UpdateParticipant returned error: %v", err)
	}
	if updated.Kind != KindFaculty || updated.Department == nil || *updated.Department != "Mathematics" {
		t.Fatalf("expected faculty with department, got %+v", updated)
	}
	if updated.StudentNumber != nil {
		t.Fatal("expected student number cleared after kind change")
	}
	if updated.AttendanceCount != 4 {
		t.Fatalf("expected counter preserved, got %d", updated.AttendanceCount)
	}
}

func TestParticipantService_DeleteParticipant_SurfacesHeldInscriptions(t *testing.T) {
	repo := &participantRepoStub{deleteErr: ErrParticipantEnrolled}
	svc := newParticipantService(repo)

	if err := svc.DeleteParticipant(context.Background(), Principal{OrganizerID: "org-1"}, "part-1"); !errors.Is(err, ErrParticipantEnrolled) {
		t.Fatalf("expected ErrParticipantEnrolled, got %v", err)
	}
}
