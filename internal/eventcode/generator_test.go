package eventcode

import (
	"testing"
	"time"
)

var january2025 = time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)

func TestGenerate_SequencesWithinPeriod(t *testing.T) {
	t.Parallel()

	existing := []string{"EV-202501-001", "EV-202501-002"}
	if got := Generate(january2025, existing); got != "EV-202501-003" {
		t.Fatalf("Generate = %s, want EV-202501-003", got)
	}
}

func TestGenerate_StartsAtOneForEmptyPeriod(t *testing.T) {
	t.Parallel()

	if got := Generate(january2025, nil); got != "EV-202501-001" {
		t.Fatalf("Generate = %s, want EV-202501-001", got)
	}
}

func TestGenerate_IgnoresOtherPeriods(t *testing.T) {
	t.Parallel()

	existing := []string{"EV-202412-007", "EV-202501-004", "EV-202502-009"}
	if got := Generate(january2025, existing); got != "EV-202501-005" {
		t.Fatalf("Generate = %s, want EV-202501-005", got)
	}
}

func TestGenerate_SkipsMalformedSuffixes(t *testing.T) {
	t.Parallel()

	existing := []string{"EV-202501-abc", "EV-202501-", "EV-202501-002", "EV-202501--3"}
	if got := Generate(january2025, existing); got != "EV-202501-003" {
		t.Fatalf("Generate = %s, want EV-202501-003", got)
	}
}

func TestGenerate_GrowsPastThreeDigits(t *testing.T) {
	t.Parallel()

	existing := []string{"EV-202501-999"}
	if got := Generate(january2025, existing); got != "EV-202501-1000" {
		t.Fatalf("Generate = %s, want EV-202501-1000", got)
	}
}

func TestPrefix_PadsYearAndMonth(t *testing.T) {
	t.Parallel()

	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := Prefix(march); got != "EV-202503-" {
		t.Fatalf("Prefix = %s, want EV-202503-", got)
	}
}
