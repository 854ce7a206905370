package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/campus-events/internal/persistence"
)

// ParticipantRepository implements persistence.ParticipantRepository using SQLite.
type ParticipantRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewParticipantRepository creates a new SQLite participant repository.
func NewParticipantRepository(pool *ConnectionPool) *ParticipantRepository {
	return &ParticipantRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const participantColumns = "id, kind, first_name, last_name, email, attendance_count, student_number, department, organization, created_at, updated_at"

// CreateParticipant inserts a new participant.
func (r *ParticipantRepository) CreateParticipant(ctx context.Context, participant persistence.Participant) error {
	if participant.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `INSERT INTO participants (` + participantColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.helper.Exec(ctx, query,
		participant.ID,
		participant.Kind,
		participant.FirstName,
		participant.LastName,
		participant.Email,
		participant.AttendanceCount,
		nullableString(participant.StudentNumber),
		nullableString(participant.Department),
		nullableString(participant.Organization),
		formatTime(participant.CreatedAt),
		formatTime(participant.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// UpdateParticipant updates an existing participant.
func (r *ParticipantRepository) UpdateParticipant(ctx context.Context, participant persistence.Participant) error {
	query := `
		UPDATE participants
		SET kind = ?, first_name = ?, last_name = ?, email = ?, attendance_count = ?, student_number = ?, department = ?, organization = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.helper.Exec(ctx, query,
		participant.Kind,
		participant.FirstName,
		participant.LastName,
		participant.Email,
		participant.AttendanceCount,
		nullableString(participant.StudentNumber),
		nullableString(participant.Department),
		nullableString(participant.Organization),
		formatTime(participant.UpdatedAt),
		participant.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowAffected(result)
}

// GetParticipant retrieves a participant by ID.
func (r *ParticipantRepository) GetParticipant(ctx context.Context, id string) (persistence.Participant, error) {
	if id == "" {
		return persistence.Participant{}, persistence.ErrNotFound
	}
	return r.scanParticipant(r.helper.QueryRow(ctx, `SELECT `+participantColumns+` FROM participants WHERE id = ?`, id))
}

// GetParticipantByEmail retrieves a participant by email. The column collates
// case-insensitively, so lookups match regardless of casing.
func (r *ParticipantRepository) GetParticipantByEmail(ctx context.Context, email string) (persistence.Participant, error) {
	return r.scanParticipant(r.helper.QueryRow(ctx, `SELECT `+participantColumns+` FROM participants WHERE email = ?`, email))
}

// ListParticipants returns all participants ordered by name.
func (r *ParticipantRepository) ListParticipants(ctx context.Context) ([]persistence.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants ORDER BY last_name ASC, first_name ASC, id ASC`
	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var participants []persistence.Participant
	for rows.Next() {
		participant, err := r.scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return participants, nil
}

// DeleteParticipant removes a participant. Existing inscriptions block the
// delete through the foreign key.
func (r *ParticipantRepository) DeleteParticipant(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM participants WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowAffected(result)
}

func (r *ParticipantRepository) scanParticipant(scanner rowScanner) (persistence.Participant, error) {
	var participant persistence.Participant
	var studentNumber, department, organization sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&participant.ID,
		&participant.Kind,
		&participant.FirstName,
		&participant.LastName,
		&participant.Email,
		&participant.AttendanceCount,
		&studentNumber,
		&department,
		&organization,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Participant{}, r.mapper.MapError(err)
	}

	participant.StudentNumber = stringPtr(studentNumber)
	participant.Department = stringPtr(department)
	participant.Organization = stringPtr(organization)
	if participant.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Participant{}, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
	}
	if participant.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Participant{}, fmt.Errorf("sqlite: failed to parse updated_at: %w", err)
	}
	return participant, nil
}
