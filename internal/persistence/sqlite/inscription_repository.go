package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/campus-events/internal/persistence"
)

// InscriptionRepository implements persistence.InscriptionRepository using
// SQLite. Inserts re-check capacity inside the write transaction; the unique
// (activity_id, participant_id) index blocks duplicate enrollments that race
// past the service-level check.
type InscriptionRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewInscriptionRepository creates a new SQLite inscription repository.
func NewInscriptionRepository(pool *ConnectionPool) *InscriptionRepository {
	return &InscriptionRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const inscriptionColumns = "id, activity_id, participant_id, attendance, created_at, updated_at"

// CreateInscription inserts a new inscription after re-counting seats within
// the same transaction.
func (r *InscriptionRepository) CreateInscription(ctx context.Context, inscription persistence.Inscription) error {
	if inscription.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var capacity, finalized, enrolled int
		row := r.helper.QueryRowTx(tx, `SELECT capacity, finalized FROM activities WHERE id = ?`, inscription.ActivityID)
		if err := row.Scan(&capacity, &finalized); err != nil {
			return r.mapper.MapError(err)
		}
		if finalized != 0 {
			return persistence.ErrConstraintViolation
		}

		row = r.helper.QueryRowTx(tx, `SELECT COUNT(*) FROM inscriptions WHERE activity_id = ?`, inscription.ActivityID)
		if err := row.Scan(&enrolled); err != nil {
			return r.mapper.MapError(err)
		}
		if enrolled >= capacity {
			return persistence.ErrConstraintViolation
		}

		query := `INSERT INTO inscriptions (` + inscriptionColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
		_, err := r.helper.ExecTx(tx, query,
			inscription.ID,
			inscription.ActivityID,
			inscription.ParticipantID,
			inscription.Attendance,
			formatTime(inscription.CreatedAt),
			formatTime(inscription.UpdatedAt),
		)
		return r.mapper.MapError(err)
	})
}

// GetInscription retrieves an inscription by ID.
func (r *InscriptionRepository) GetInscription(ctx context.Context, id string) (persistence.Inscription, error) {
	if id == "" {
		return persistence.Inscription{}, persistence.ErrNotFound
	}
	return r.scanInscription(r.helper.QueryRow(ctx, `SELECT `+inscriptionColumns+` FROM inscriptions WHERE id = ?`, id))
}

// GetInscriptionForPair retrieves the inscription linking an activity and a
// participant, if one exists.
func (r *InscriptionRepository) GetInscriptionForPair(ctx context.Context, activityID, participantID string) (persistence.Inscription, error) {
	query := `SELECT ` + inscriptionColumns + ` FROM inscriptions WHERE activity_id = ? AND participant_id = ?`
	return r.scanInscription(r.helper.QueryRow(ctx, query, activityID, participantID))
}

// UpdateInscription updates an existing inscription.
func (r *InscriptionRepository) UpdateInscription(ctx context.Context, inscription persistence.Inscription) error {
	query := `UPDATE inscriptions SET attendance = ?, updated_at = ? WHERE id = ?`
	result, err := r.helper.Exec(ctx, query,
		inscription.Attendance,
		formatTime(inscription.UpdatedAt),
		inscription.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowAffected(result)
}

// DeleteInscription removes an inscription.
func (r *InscriptionRepository) DeleteInscription(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM inscriptions WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowAffected(result)
}

// CountInscriptionsForActivity returns the number of seats taken.
func (r *InscriptionRepository) CountInscriptionsForActivity(ctx context.Context, activityID string) (int, error) {
	var count int
	row := r.helper.QueryRow(ctx, `SELECT COUNT(*) FROM inscriptions WHERE activity_id = ?`, activityID)
	if err := row.Scan(&count); err != nil {
		return 0, r.mapper.MapError(err)
	}
	return count, nil
}

// ListInscriptionsForActivity returns the activity's inscriptions in
// enrollment order.
func (r *InscriptionRepository) ListInscriptionsForActivity(ctx context.Context, activityID string) ([]persistence.Inscription, error) {
	query := `SELECT ` + inscriptionColumns + ` FROM inscriptions WHERE activity_id = ? ORDER BY created_at ASC, id ASC`
	return r.listInscriptions(ctx, query, activityID)
}

// ListInscriptionsForParticipant returns the participant's inscriptions in
// enrollment order.
func (r *InscriptionRepository) ListInscriptionsForParticipant(ctx context.Context, participantID string) ([]persistence.Inscription, error) {
	query := `SELECT ` + inscriptionColumns + ` FROM inscriptions WHERE participant_id = ? ORDER BY created_at ASC, id ASC`
	return r.listInscriptions(ctx, query, participantID)
}

func (r *InscriptionRepository) listInscriptions(ctx context.Context, query string, args ...any) ([]persistence.Inscription, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var inscriptions []persistence.Inscription
	for rows.Next() {
		inscription, err := r.scanInscription(rows)
		if err != nil {
			return nil, err
		}
		inscriptions = append(inscriptions, inscription)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return inscriptions, nil
}

func (r *InscriptionRepository) scanInscription(scanner rowScanner) (persistence.Inscription, error) {
	var inscription persistence.Inscription
	var createdAt, updatedAt string

	err := scanner.Scan(
		&inscription.ID,
		&inscription.ActivityID,
		&inscription.ParticipantID,
		&inscription.Attendance,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Inscription{}, r.mapper.MapError(err)
	}

	if inscription.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Inscription{}, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
	}
	if inscription.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Inscription{}, fmt.Errorf("sqlite: failed to parse updated_at: %w", err)
	}
	return inscription, nil
}
