package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/campus-events/internal/persistence"
)

// OrganizerRepository implements persistence.OrganizerRepository using SQLite.
type OrganizerRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewOrganizerRepository creates a new SQLite organizer repository.
func NewOrganizerRepository(pool *ConnectionPool) *OrganizerRepository {
	return &OrganizerRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const organizerColumns = "id, full_name, email, role, password_hash, disabled, created_at, updated_at"

// CreateOrganizer inserts a new organizer. A reused email surfaces as
// persistence.ErrDuplicate through the unique index.
func (r *OrganizerRepository) CreateOrganizer(ctx context.Context, organizer persistence.Organizer) error {
	if organizer.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `INSERT INTO organizers (` + organizerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.helper.Exec(ctx, query,
		organizer.ID,
		organizer.FullName,
		organizer.Email,
		organizer.Role,
		organizer.PasswordHash,
		boolToInt(organizer.Disabled),
		formatTime(organizer.CreatedAt),
		formatTime(organizer.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// UpdateOrganizer updates an existing organizer. The password hash column is
// written as provided, so callers must carry the current hash through.
func (r *OrganizerRepository) UpdateOrganizer(ctx context.Context, organizer persistence.Organizer) error {
	query := `
		UPDATE organizers
		SET full_name = ?, email = ?, role = ?, password_hash = ?, disabled = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.helper.Exec(ctx, query,
		organizer.FullName,
		organizer.Email,
		organizer.Role,
		organizer.PasswordHash,
		boolToInt(organizer.Disabled),
		formatTime(organizer.UpdatedAt),
		organizer.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowAffected(result)
}

// GetOrganizer retrieves an organizer by ID.
func (r *OrganizerRepository) GetOrganizer(ctx context.Context, id string) (persistence.Organizer, error) {
	if id == "" {
		return persistence.Organizer{}, persistence.ErrNotFound
	}
	row := r.helper.QueryRow(ctx, `SELECT `+organizerColumns+` FROM organizers WHERE id = ?`, id)
	return r.scanOrganizer(row)
}

// GetOrganizerByEmail retrieves an organizer by email. The lookup is case
// insensitive through the column collation.
func (r *OrganizerRepository) GetOrganizerByEmail(ctx context.Context, email string) (persistence.Organizer, error) {
	row := r.helper.QueryRow(ctx, `SELECT `+organizerColumns+` FROM organizers WHERE email = ?`, email)
	return r.scanOrganizer(row)
}

// ListOrganizers returns all organizers ordered by creation time.
func (r *OrganizerRepository) ListOrganizers(ctx context.Context) ([]persistence.Organizer, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+organizerColumns+` FROM organizers ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var organizers []persistence.Organizer
	for rows.Next() {
		organizer, err := r.scanOrganizerRow(rows)
		if err != nil {
			return nil, err
		}
		organizers = append(organizers, organizer)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return organizers, nil
}

// DeleteOrganizer removes an organizer by ID. Events referencing the
// organizer block the delete with a foreign key violation.
func (r *OrganizerRepository) DeleteOrganizer(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM organizers WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *OrganizerRepository) scanOrganizer(row *sql.Row) (persistence.Organizer, error) {
	return r.scanOrganizerRow(row)
}

func (r *OrganizerRepository) scanOrganizerRow(scanner rowScanner) (persistence.Organizer, error) {
	var organizer persistence.Organizer
	var disabled int
	var createdAt, updatedAt string

	err := scanner.Scan(
		&organizer.ID,
		&organizer.FullName,
		&organizer.Email,
		&organizer.Role,
		&organizer.PasswordHash,
		&disabled,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Organizer{}, r.mapper.MapError(err)
	}

	organizer.Disabled = disabled != 0
	if organizer.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Organizer{}, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
	}
	if organizer.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Organizer{}, fmt.Errorf("sqlite: failed to parse updated_at: %w", err)
	}
	return organizer, nil
}

// --- shared scan helpers ---

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func formatNullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullableTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	t, err := parseTime(value.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
