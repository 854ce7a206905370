package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/campus-events/internal/persistence"
	"github.com/example/campus-events/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Organizers   persistence.OrganizerRepository
	Venues       persistence.VenueRepository
	Events       persistence.EventRepository
	Activities   persistence.ActivityRepository
	Participants persistence.ParticipantRepository
	Inscriptions persistence.InscriptionRepository
	Sessions     persistence.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness over a temporary database file
// that is migrated automatically. A cleanup callback is registered with the
// provided testing.TB, so calling Close is optional.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "campus.db")

	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Organizers:   sqlite.NewOrganizerRepository(pool),
		Venues:       sqlite.NewVenueRepository(pool),
		Events:       sqlite.NewEventRepository(pool),
		Activities:   sqlite.NewActivityRepository(pool),
		Participants: sqlite.NewParticipantRepository(pool),
		Inscriptions: sqlite.NewInscriptionRepository(pool),
		Sessions:     sqlite.NewSessionRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
