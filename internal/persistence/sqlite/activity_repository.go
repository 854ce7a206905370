package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/campus-events/internal/persistence"
	"github.com/example/campus-events/internal/scheduling"
)

// ActivityRepository implements persistence.ActivityRepository using SQLite.
// Writes re-run the venue conflict check inside the write transaction, so two
// racing bookings for the same venue window cannot both commit.
type ActivityRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewActivityRepository creates a new SQLite activity repository.
func NewActivityRepository(pool *ConnectionPool) *ActivityRepository {
	return &ActivityRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const activityColumns = "id, event_id, name, type, venue_id, start_time, duration_minutes, capacity, finalized, created_at, updated_at"

// CreateActivity inserts a new activity after re-checking the venue window
// within the same transaction.
func (r *ActivityRepository) CreateActivity(ctx context.Context, activity persistence.Activity) error {
	if activity.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := r.ensureVenueFreeTx(tx, activity, ""); err != nil {
			return err
		}

		query := `INSERT INTO activities (` + activityColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := r.helper.ExecTx(tx, query,
			activity.ID,
			activity.EventID,
			activity.Name,
			activity.Type,
			activity.VenueID,
			formatTime(activity.Start),
			activity.DurationMinutes,
			activity.Capacity,
			boolToInt(activity.Finalized),
			formatTime(activity.CreatedAt),
			formatTime(activity.UpdatedAt),
		)
		return r.mapper.MapError(err)
	})
}

// UpdateActivity updates an existing activity, excluding the activity itself
// from the in-transaction conflict check.
func (r *ActivityRepository) UpdateActivity(ctx context.Context, activity persistence.Activity) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := r.ensureVenueFreeTx(tx, activity, activity.ID); err != nil {
			return err
		}

		query := `
			UPDATE activities
			SET name = ?, type = ?, venue_id = ?, start_time = ?, duration_minutes = ?, capacity = ?, finalized = ?, updated_at = ?
			WHERE id = ?
		`
		result, err := r.helper.ExecTx(tx, query,
			activity.Name,
			activity.Type,
			activity.VenueID,
			formatTime(activity.Start),
			activity.DurationMinutes,
			activity.Capacity,
			boolToInt(activity.Finalized),
			formatTime(activity.UpdatedAt),
			activity.ID,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return requireRowAffected(result)
	})
}

// GetActivity retrieves an activity by ID.
func (r *ActivityRepository) GetActivity(ctx context.Context, id string) (persistence.Activity, error) {
	if id == "" {
		return persistence.Activity{}, persistence.ErrNotFound
	}
	return r.scanActivity(r.helper.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id))
}

// ListActivitiesForEvent returns the event's activities ordered by start time.
func (r *ActivityRepository) ListActivitiesForEvent(ctx context.Context, eventID string) ([]persistence.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE event_id = ? ORDER BY start_time ASC, id ASC`
	return r.listActivities(ctx, query, eventID)
}

// ListActivitiesAtVenue returns all activities booked at the venue ordered by
// start time, across every event.
func (r *ActivityRepository) ListActivitiesAtVenue(ctx context.Context, venueID string) ([]persistence.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE venue_id = ? ORDER BY start_time ASC, id ASC`
	return r.listActivities(ctx, query, venueID)
}

// DeleteActivity removes an activity. Its inscriptions go with it through the
// ON DELETE CASCADE foreign key.
func (r *ActivityRepository) DeleteActivity(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowAffected(result)
}

// ensureVenueFreeTx loads the venue's occupants inside the transaction and
// runs the overlap detector against them. Timestamps are stored as RFC 3339
// text, so comparisons happen here in Go rather than in SQL.
func (r *ActivityRepository) ensureVenueFreeTx(tx *sql.Tx, activity persistence.Activity, excludeID string) error {
	rows, err := r.helper.QueryTx(tx, `SELECT `+activityColumns+` FROM activities WHERE venue_id = ?`, activity.VenueID)
	if err != nil {
		return r.mapper.MapError(err)
	}
	defer rows.Close()

	var slots []scheduling.Slot
	for rows.Next() {
		occupant, err := r.scanActivity(rows)
		if err != nil {
			return err
		}
		slots = append(slots, scheduling.Slot{
			ActivityID:      occupant.ID,
			VenueID:         occupant.VenueID,
			Start:           occupant.Start,
			DurationMinutes: occupant.DurationMinutes,
			Finalized:       occupant.Finalized,
		})
	}
	if err := rows.Err(); err != nil {
		return r.mapper.MapError(err)
	}

	candidate := scheduling.Slot{
		ActivityID:      activity.ID,
		VenueID:         activity.VenueID,
		Start:           activity.Start,
		DurationMinutes: activity.DurationMinutes,
		Finalized:       activity.Finalized,
	}
	if candidate.Finalized {
		// Finalized activities do not hold the venue.
		return nil
	}
	if scheduling.HasConflict(slots, candidate, excludeID) {
		return persistence.ErrScheduleConflict
	}
	return nil
}

func (r *ActivityRepository) listActivities(ctx context.Context, query string, args ...any) ([]persistence.Activity, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var activities []persistence.Activity
	for rows.Next() {
		activity, err := r.scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return activities, nil
}

func (r *ActivityRepository) scanActivity(scanner rowScanner) (persistence.Activity, error) {
	var activity persistence.Activity
	var finalized int
	var start, createdAt, updatedAt string

	err := scanner.Scan(
		&activity.ID,
		&activity.EventID,
		&activity.Name,
		&activity.Type,
		&activity.VenueID,
		&start,
		&activity.DurationMinutes,
		&activity.Capacity,
		&finalized,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Activity{}, r.mapper.MapError(err)
	}

	activity.Finalized = finalized != 0
	if activity.Start, err = parseTime(start); err != nil {
		return persistence.Activity{}, fmt.Errorf("sqlite: failed to parse start_time: %w", err)
	}
	if activity.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Activity{}, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
	}
	if activity.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Activity{}, fmt.Errorf("sqlite: failed to parse updated_at: %w", err)
	}
	return activity, nil
}
