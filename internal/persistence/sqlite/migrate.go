package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations holds the ordered schema steps. The applied count is tracked in
// PRAGMA user_version so re-running Migrate is safe.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS organizers (
		id            TEXT PRIMARY KEY,
		full_name     TEXT NOT NULL,
		email         TEXT NOT NULL COLLATE NOCASE UNIQUE,
		role          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		disabled      INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS venues (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL COLLATE NOCASE UNIQUE,
		type       TEXT NOT NULL,
		capacity   INTEGER NOT NULL CHECK (capacity > 0),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id           TEXT PRIMARY KEY,
		code         TEXT NOT NULL UNIQUE,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL,
		modality     TEXT NOT NULL,
		start_time   TEXT NOT NULL,
		end_time     TEXT NOT NULL,
		organizer_id TEXT NOT NULL REFERENCES organizers(id),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id               TEXT PRIMARY KEY,
		event_id         TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		name             TEXT NOT NULL COLLATE NOCASE,
		type             TEXT NOT NULL,
		venue_id         TEXT NOT NULL REFERENCES venues(id),
		start_time       TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
		capacity         INTEGER NOT NULL CHECK (capacity > 0),
		finalized        INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		UNIQUE (event_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS participants (
		id               TEXT PRIMARY KEY,
		kind             TEXT NOT NULL,
		first_name       TEXT NOT NULL,
		last_name        TEXT NOT NULL,
		email            TEXT NOT NULL COLLATE NOCASE UNIQUE,
		attendance_count INTEGER NOT NULL DEFAULT 0 CHECK (attendance_count >= 0),
		student_number   TEXT,
		department       TEXT,
		organization     TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inscriptions (
		id             TEXT PRIMARY KEY,
		activity_id    TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		participant_id TEXT NOT NULL REFERENCES participants(id),
		attendance     TEXT NOT NULL DEFAULT 'unset',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		UNIQUE (activity_id, participant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		organizer_id TEXT NOT NULL REFERENCES organizers(id) ON DELETE CASCADE,
		token        TEXT NOT NULL UNIQUE,
		fingerprint  TEXT NOT NULL DEFAULT '',
		expires_at   TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		revoked_at   TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_venue ON activities(venue_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_event ON activities(event_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_code ON events(code)`,
	`CREATE INDEX IF NOT EXISTS idx_inscriptions_activity ON inscriptions(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_inscriptions_participant ON inscriptions(participant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token)`,
}

// Migrate applies any schema steps not yet present in the database.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	return cp.WithTransaction(ctx, func(tx *sql.Tx) error {
		var version int
		if err := tx.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
			return fmt.Errorf("sqlite: failed to read schema version: %w", err)
		}
		if version >= len(migrations) {
			return nil
		}

		for i := version; i < len(migrations); i++ {
			if _, err := tx.Exec(migrations[i]); err != nil {
				return fmt.Errorf("sqlite: migration %d failed: %w", i+1, err)
			}
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", len(migrations))); err != nil {
			return fmt.Errorf("sqlite: failed to record schema version: %w", err)
		}
		return nil
	})
}
