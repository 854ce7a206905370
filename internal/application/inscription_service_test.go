package application

import (
	"context"
	"errors"
	"testing"
)

type inscriptionRepoStub struct {
	inscription Inscription
	pair        *Inscription
	pairErr     error
	count       int
	countErr    error
	created     Inscription
	createErr   error
	updated     Inscription
	updateErr   error
	deleted     string
	deleteErr   error
	forActivity []Inscription
}

func (s *inscriptionRepoStub) CreateInscription(ctx context.Context, inscription Inscription) (Inscription, error) {
	if s.createErr != nil {
		return Inscription{}, s.createErr
	}
	s.created = inscription
	return inscription, nil
}

func (s *inscriptionRepoStub) GetInscription(ctx context.Context, id string) (Inscription, error) {
	if s.inscription.ID == "" || s.inscription.ID != id {
		return Inscription{}, ErrNotFound
	}
	return s.inscription, nil
}

func (s *inscriptionRepoStub) GetInscriptionForPair(ctx context.Context, activityID, participantID string) (Inscription, error) {
	if s.pairErr != nil {
		return Inscription{}, s.pairErr
	}
	if s.pair == nil {
		return Inscription{}, ErrNotFound
	}
	return *s.pair, nil
}

func (s *inscriptionRepoStub) UpdateInscription(ctx context.Context, inscription Inscription) (Inscription, error) {
	if s.updateErr != nil {
		return Inscription{}, s.updateErr
	}
	s.updated = inscription
	return inscription, nil
}

func (s *inscriptionRepoStub) DeleteInscription(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = id
	return nil
}

func (s *inscriptionRepoStub) ListInscriptionsForActivity(ctx context.Context, activityID string) ([]Inscription, error) {
	return append([]Inscription(nil), s.forActivity...), nil
}

func (s *inscriptionRepoStub) ListInscriptionsForParticipant(ctx context.Context, participantID string) ([]Inscription, error) {
	return nil, nil
}

func (s *inscriptionRepoStub) CountInscriptionsForActivity(ctx context.Context, activityID string) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.count, nil
}

type activityResolverStub struct {
	activity Activity
}

func (s *activityResolverStub) GetActivity(ctx context.Context, id string) (Activity, error) {
	if s.activity.ID == "" || s.activity.ID != id {
		return Activity{}, ErrNotFound
	}
	return s.activity, nil
}

type participantResolverStub struct {
	participant Participant
	updated     Participant
	updateErr   error
}

func (s *participantResolverStub) GetParticipant(ctx context.Context, id string) (Participant, error) {
	if s.participant.ID == "" || s.participant.ID != id {
		return Participant{}, ErrNotFound
	}
	return s.participant, nil
}

func (s *participantResolverStub) UpdateParticipant(ctx context.Context, participant Participant) (Participant, error) {
	if s.updateErr != nil {
		return Participant{}, s.updateErr
	}
	s.updated = participant
	s.participant = participant
	return participant, nil
}

func openActivity() Activity {
	return Activity{ID: "act-1", EventID: "ev-1", Capacity: 2}
}

func enrolledStudent() Participant {
	number := "S-1001"
	return Participant{ID: "part-1", Kind: KindStudent, StudentNumber: &number}
}

func newInscriptionService(inscriptions *inscriptionRepoStub, activities *activityResolverStub, participants *participantResolverStub) *InscriptionService {
	return NewInscriptionService(inscriptions, activities, participants, sequentialIDs("insc"), fixedNow, nil)
}

func TestInscriptionService_RegisterInscription_EnrollsBelowCapacity(t *testing.T) {
	repo := &inscriptionRepoStub{count: 1}
	svc := newInscriptionService(repo, &activityResolverStub{activity: openActivity()}, &participantResolverStub{participant: enrolledStudent()})

	params := RegisterInscriptionParams{ActivityID: "act-1", ParticipantID: "part-1"}
	created, err := svc.RegisterInscription(context.Background(), Principal{OrganizerID: "org-1"}, params)
	if err != nil {
		t.Fatalf("RegisterInscription returned error: %v", err)
	}
	if created.Attendance != AttendanceUnset {
		t.Fatalf("expected attendance unset, got %s", created.Attendance)
	}
	if repo.created.ID == "" {
		t.Fatal("expected inscription persisted")
	}
}

func TestInscriptionService_RegisterInscription_RejectsAtCapacity(t *testing.T) {
	repo := &inscriptionRepoStub{count: 2}
	svc := newInscriptionService(repo, &activityResolverStub{activity: openActivity()}, &participantResolverStub{participant: enrolledStudent()})

	params := RegisterInscriptionParams{ActivityID: "act-1", ParticipantID: "part-1"}
	if _, err := svc.RegisterInscription(context.Background(), Principal{OrganizerID: "org-1"}, params); !errors.Is(err, ErrCapacityFull) {
		t.Fatalf("expected ErrCapacityFull, got %v", err)
	}
}

func TestInscriptionService_RegisterInscription_RejectsDuplicate(t *testing.T) {
	existing := Inscription{ID: "insc-0", ActivityID: "act-1", ParticipantID: "part-1"}
	repo := &inscriptionRepoStub{pair: &existing, count: 1}
	svc := newInscriptionService(repo, &activityResolverStub{activity: openActivity()}, &participantResolverStub{participant: enrolledStudent()})

	params := RegisterInscriptionParams{ActivityID: "act-1", ParticipantID: "part-1"}
	if _, err := svc.RegisterInscription(context.Background(), Principal{OrganizerID: "org-1"}, params); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
}

func TestInscriptionService_RegisterInscription_FinalizedWinsOverOtherRejections(t *testing.T) {
	activity := openActivity()
	activity.Finalized = true
	existing := Inscription{ID: "insc-0", ActivityID: "act-1", ParticipantID: "part-1"}
	repo := &inscriptionRepoStub{pair: &existing, count: 5}
	svc := newInscriptionService(repo, &activityResolverStub{activity: activity}, &participantResolverStub{participant: enrolledStudent()})

	params := RegisterInscriptionParams{ActivityID: "act-1", ParticipantID: "part-1"}
	if _, err := svc.RegisterInscription(context.Background(), Principal{OrganizerID: "org-1"}, params); !errors.Is(err, ErrActivityFinalized) {
		t.Fatalf("expected ErrActivityFinalized to win, got %v", err)
	}
}

func TestInscriptionService_RegisterInscription_SurfacesStorageRaceAsSentinel(t *testing.T) {
	repo := &inscriptionRepoStub{count: 1, createErr: ErrCapacityFull}
	svc := newInscriptionService(repo, &activityResolverStub{activity: openActivity()}, &participantResolverStub{participant: enrolledStudent()})

	params := RegisterInscriptionParams{ActivityID: "act-1", ParticipantID: "part-1"}
	if _, err := svc.RegisterInscription(context.Background(), Principal{OrganizerID: "org-1"}, params); !errors.Is(err, ErrCapacityFull) {
		t.Fatalf("expected ErrCapacityFull from storage, got %v", err)
	}
}

func TestInscriptionService_CancelInscription_DeletesWhileOpen(t *testing.T) {
	repo := &inscriptionRepoStub{inscription: Inscription{ID: "insc-1", ActivityID: "act-1", ParticipantID: "part-1"}}
	svc := newInscriptionService(repo, &activityResolverStub{activity: openActivity()}, &participantResolverStub{participant: enrolledStudent()})

	if err := svc.CancelInscription(context.Background(), Principal{OrganizerID: "org-1"}, "insc-1"); err != nil {
		t.Fatalf("CancelInscription returned error: %v", err)
	}
	if repo.deleted != "insc-1" {
		t.Fatalf("expected insc-1 deleted, got %q", repo.deleted)
	}
}

func TestInscriptionService_CancelInscription_RejectsFinalizedActivity(t *testing.T) {
	activity := openActivity()
	activity.Finalized = true
	repo := &inscriptionRepoStub{inscription: Inscription{ID: "insc-1", ActivityID: "act-1"}}
	svc := newInscriptionService(repo, &activityResolverStub{activity: activity}, &participantResolverStub{participant: enrolledStudent()})

	if err := svc.CancelInscription(context.Background(), Principal{OrganizerID: "org-1"}, "insc-1"); !errors.Is(err, ErrActivityFinalized) {
		t.Fatalf("expected ErrActivityFinalized, got %v", err)
	}
}

func TestInscriptionService_MarkAttendance_IncrementsCounterOnce(t *testing.T) {
	repo := &inscriptionRepoStub{inscription: Inscription{
		ID:            "insc-1",
		ActivityID:    "act-1",
		ParticipantID: "part-1",
		Attendance:    AttendanceUnset,
	}}
	participants := &participantResolverStub{participant: enrolledStudent()}
	svc := newInscriptionService(repo, &activityResolverStub{activity: openActivity()}, participants)

	params := MarkAttendanceParams{InscriptionID: "insc-1", Attended: true}
	updated, err := svc.MarkAttendance(context.Background(), Principal{OrganizerID: "org-1"}, params)
	if err != nil {
		t.Fatalf("MarkAttendance returned error: %v", err)
	}
	if updated.Attendance != AttendanceAttended {
		t.Fatalf("expected attended, got %s", updated.Attendance)
	}
	if participants.updated.AttendanceCount != 1 {
		t.Fatalf("expected attendance count 1, got %d", participants.updated.AttendanceCount)
	}
}

func TestInscriptionService_MarkAttendance_RepeatIsNoOp(t *testing.T) {
	repo := &inscriptionRepoStub{inscription: Inscription{
		ID:            "insc-1",
		ActivityID:    "act-1",
		ParticipantID: "part-1",
		Attendance:    AttendanceAttended,
	}}
	participants := &participantResolverStub{participant: enrolledStudent()}
	svc := newInscriptionService(repo, &activityResolverStub{activity: openActivity()}, participants)

	params := MarkAttendanceParams{InscriptionID: "insc-1", Attended: true}
	if _, err := svc.MarkAttendance(context.Background(), Principal{OrganizerID: "org-1"}, params); err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
	if participants.updated.ID != "" {
		t.Fatal("expected counter untouched on repeated attended mark")
	}
	if repo.updated.ID != "" {
		t.Fatal("expected no inscription write on repeated attended mark")
	}
}

func TestInscriptionService_MarkAttendance_CorrectionNeverDecrements(t *testing.T) {
	repo := &inscriptionRepoStub{inscription: Inscription{
		ID:            "insc-1",
		ActivityID:    "act-1",
		ParticipantID: "part-1",
		Attendance:    AttendanceAttended,
	}}
	student := enrolledStudent()
	student.AttendanceCount = 3
	participants := &participantResolverStub{participant: student}
	svc := newInscriptionService(repo, &activityResolverStub{activity: openActivity()}, participants)

	params := MarkAttendanceParams{InscriptionID: "insc-1", Attended: false}
	updated, err := svc.MarkAttendance(context.Background(), Principal{OrganizerID: "org-1"}, params)
	if err != nil {
		t.Fatalf("MarkAttendance returned error: %v", err)
	}
	if updated.Attendance != AttendanceNotAttended {
		t.Fatalf("expected not_attended, got %s", updated.Attendance)
	}
	if participants.updated.ID != "" {
		t.Fatal("expected counter untouched when correcting away from attended")
	}
	if participants.participant.AttendanceCount != 3 {
		t.Fatalf("expected attendance count to remain 3, got %d", participants.participant.AttendanceCount)
	}
}

func TestInscriptionService_MarkAttendance_ReAttendIncrementsAgain(t *testing.T) {
	repo := &inscriptionRepoStub{inscription: Inscription{
		ID:            "insc-1",
		ActivityID:    "act-1",
		ParticipantID: "part-1",
		Attendance:    AttendanceNotAttended,
	}}
	student := enrolledStudent()
	student.AttendanceCount = 1
	participants := &participantResolverStub{participant: student}
	svc := newInscriptionService(repo, &activityResolverStub{activity: openActivity()}, participants)

	params := MarkAttendanceParams{InscriptionID: "insc-1", Attended: true}
	if _, err := svc.MarkAttendance(context.Background(), Principal{OrganizerID: "org-1"}, params); err != nil {
		t.Fatalf("MarkAttendance returned error: %v", err)
	}
	if participants.updated.AttendanceCount != 2 {
		t.Fatalf("expected attendance count 2 after re-entry, got %d", participants.updated.AttendanceCount)
	}
}
