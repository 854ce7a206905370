package sqlite

import (
	"context"
	"fmt"

	"github.com/example/campus-events/internal/persistence"
)

// EventRepository implements persistence.EventRepository using SQLite. Code
// uniqueness is enforced by the unique index on events.code, so two racing
// registrations for the same period cannot both commit the same code.
type EventRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(pool *ConnectionPool) *EventRepository {
	return &EventRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const eventColumns = "id, code, title, description, status, modality, start_time, end_time, organizer_id, created_at, updated_at"

// CreateEvent inserts a new event.
func (r *EventRepository) CreateEvent(ctx context.Context, event persistence.Event) error {
	if event.ID == "" || event.Code == "" {
		return persistence.ErrConstraintViolation
	}

	query := `INSERT INTO events (` + eventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.helper.Exec(ctx, query,
		event.ID,
		event.Code,
		event.Title,
		event.Description,
		event.Status,
		event.Modality,
		formatTime(event.Start),
		formatTime(event.End),
		event.OrganizerID,
		formatTime(event.CreatedAt),
		formatTime(event.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// UpdateEvent updates an existing event. The code and organizer are fixed at
// creation and never rewritten here.
func (r *EventRepository) UpdateEvent(ctx context.Context, event persistence.Event) error {
	query := `
		UPDATE events
		SET title = ?, description = ?, status = ?, modality = ?, start_time = ?, end_time = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.helper.Exec(ctx, query,
		event.Title,
		event.Description,
		event.Status,
		event.Modality,
		formatTime(event.Start),
		formatTime(event.End),
		formatTime(event.UpdatedAt),
		event.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowAffected(result)
}

// GetEvent retrieves an event by ID.
func (r *EventRepository) GetEvent(ctx context.Context, id string) (persistence.Event, error) {
	if id == "" {
		return persistence.Event{}, persistence.ErrNotFound
	}
	return r.scanEvent(r.helper.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
}

// ListEvents returns all events ordered by start time.
func (r *EventRepository) ListEvents(ctx context.Context) ([]persistence.Event, error) {
	return r.listEvents(ctx, `SELECT `+eventColumns+` FROM events ORDER BY start_time ASC, id ASC`)
}

// ListEventsWithCodePrefix returns events registered in the period the code
// prefix denotes.
func (r *EventRepository) ListEventsWithCodePrefix(ctx context.Context, prefix string) ([]persistence.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE code LIKE ? ESCAPE '\' ORDER BY code ASC`
	return r.listEvents(ctx, query, likePrefix(prefix))
}

// ListCodesWithPrefix returns the codes of all events sharing a period prefix.
func (r *EventRepository) ListCodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.helper.Query(ctx, `SELECT code FROM events WHERE code LIKE ? ESCAPE '\' ORDER BY code ASC`, likePrefix(prefix))
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, r.mapper.MapError(err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return codes, nil
}

// CountEventsForOrganizer reports how many events the organizer owns.
func (r *EventRepository) CountEventsForOrganizer(ctx context.Context, organizerID string) (int, error) {
	var count int
	err := r.helper.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE organizer_id = ?`, organizerID).Scan(&count)
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	return count, nil
}

// DeleteEvent removes an event. Its activities and their inscriptions go with
// it through the ON DELETE CASCADE foreign keys.
func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowAffected(result)
}

func (r *EventRepository) listEvents(ctx context.Context, query string, args ...any) ([]persistence.Event, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var events []persistence.Event
	for rows.Next() {
		event, err := r.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return events, nil
}

func (r *EventRepository) scanEvent(scanner rowScanner) (persistence.Event, error) {
	var event persistence.Event
	var start, end, createdAt, updatedAt string

	err := scanner.Scan(
		&event.ID,
		&event.Code,
		&event.Title,
		&event.Description,
		&event.Status,
		&event.Modality,
		&start,
		&end,
		&event.OrganizerID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Event{}, r.mapper.MapError(err)
	}

	if event.Start, err = parseTime(start); err != nil {
		return persistence.Event{}, fmt.Errorf("sqlite: failed to parse start_time: %w", err)
	}
	if event.End, err = parseTime(end); err != nil {
		return persistence.Event{}, fmt.Errorf("sqlite: failed to parse end_time: %w", err)
	}
	if event.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Event{}, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
	}
	if event.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Event{}, fmt.Errorf("sqlite: failed to parse updated_at: %w", err)
	}
	return event, nil
}

// likePrefix escapes LIKE metacharacters so a code prefix matches literally.
func likePrefix(prefix string) string {
	escaped := make([]byte, 0, len(prefix)+1)
	for i := 0; i < len(prefix); i++ {
		switch prefix[i] {
		case '%', '_', '\\':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, prefix[i])
	}
	return string(escaped) + "%"
}
