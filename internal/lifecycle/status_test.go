package lifecycle

import (
	"errors"
	"testing"
)

func TestValidateTransition_SameStateIsNoOp(t *testing.T) {
	t.Parallel()

	for _, status := range []Status{StatusPlanned, StatusInProgress, StatusFinished} {
		if err := ValidateTransition(status, status); err != nil {
			t.Fatalf("ValidateTransition(%s, %s) = %v, want nil", status, status, err)
		}
	}
}

func TestValidateTransition_ForwardMovesAllowed(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to Status }{
		{StatusPlanned, StatusInProgress},
		{StatusPlanned, StatusFinished},
		{StatusInProgress, StatusFinished},
	}

	for _, tc := range allowed {
		if err := ValidateTransition(tc.from, tc.to); err != nil {
			t.Fatalf("ValidateTransition(%s, %s) = %v, want nil", tc.from, tc.to, err)
		}
	}
}

func TestValidateTransition_BackwardMovesRejected(t *testing.T) {
	t.Parallel()

	rejected := []struct{ from, to Status }{
		{StatusInProgress, StatusPlanned},
		{StatusFinished, StatusPlanned},
		{StatusFinished, StatusInProgress},
	}

	for _, tc := range rejected {
		err := ValidateTransition(tc.from, tc.to)
		var tErr *TransitionError
		if !errors.As(err, &tErr) {
			t.Fatalf("ValidateTransition(%s, %s) = %v, want TransitionError", tc.from, tc.to, err)
		}
		if tErr.From != tc.from || tErr.To != tc.to {
			t.Fatalf("TransitionError carries %s->%s, want %s->%s", tErr.From, tErr.To, tc.from, tc.to)
		}
	}
}

func TestValidateTransition_UnknownStatesRejected(t *testing.T) {
	t.Parallel()

	if err := ValidateTransition(Status("archived"), StatusPlanned); err == nil {
		t.Fatalf("expected error for unknown current status")
	}
	if err := ValidateTransition(StatusPlanned, Status("archived")); err == nil {
		t.Fatalf("expected error for unknown requested status")
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseStatus("in_progress")
	if err != nil {
		t.Fatalf("ParseStatus returned error: %v", err)
	}
	if status != StatusInProgress {
		t.Fatalf("ParseStatus = %s, want %s", status, StatusInProgress)
	}

	if _, err := ParseStatus("cancelled"); err == nil {
		t.Fatalf("expected error for unknown status string")
	}
}
