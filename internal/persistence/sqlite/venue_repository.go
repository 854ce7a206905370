package sqlite

import (
	"context"
	"fmt"

	"github.com/example/campus-events/internal/persistence"
)

// VenueRepository implements persistence.VenueRepository using SQLite.
type VenueRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewVenueRepository creates a new SQLite venue repository.
func NewVenueRepository(pool *ConnectionPool) *VenueRepository {
	return &VenueRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const venueColumns = "id, name, type, capacity, created_at, updated_at"

// CreateVenue inserts a new venue.
func (r *VenueRepository) CreateVenue(ctx context.Context, venue persistence.Venue) error {
	if venue.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `INSERT INTO venues (` + venueColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.helper.Exec(ctx, query,
		venue.ID,
		venue.Name,
		venue.Type,
		venue.Capacity,
		formatTime(venue.CreatedAt),
		formatTime(venue.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// UpdateVenue updates an existing venue.
func (r *VenueRepository) UpdateVenue(ctx context.Context, venue persistence.Venue) error {
	query := `UPDATE venues SET name = ?, type = ?, capacity = ?, updated_at = ? WHERE id = ?`
	result, err := r.helper.Exec(ctx, query,
		venue.Name,
		venue.Type,
		venue.Capacity,
		formatTime(venue.UpdatedAt),
		venue.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowAffected(result)
}

// GetVenue retrieves a venue by ID.
func (r *VenueRepository) GetVenue(ctx context.Context, id string) (persistence.Venue, error) {
	if id == "" {
		return persistence.Venue{}, persistence.ErrNotFound
	}
	return r.scanVenue(r.helper.QueryRow(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, id))
}

// ListVenues returns all venues ordered by name.
func (r *VenueRepository) ListVenues(ctx context.Context) ([]persistence.Venue, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+venueColumns+` FROM venues ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var venues []persistence.Venue
	for rows.Next() {
		venue, err := r.scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return venues, nil
}

// DeleteVenue removes a venue by ID. Activities referencing the venue block
// the delete with a foreign key violation.
func (r *VenueRepository) DeleteVenue(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM venues WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowAffected(result)
}

func (r *VenueRepository) scanVenue(scanner rowScanner) (persistence.Venue, error) {
	var venue persistence.Venue
	var createdAt, updatedAt string

	err := scanner.Scan(
		&venue.ID,
		&venue.Name,
		&venue.Type,
		&venue.Capacity,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Venue{}, r.mapper.MapError(err)
	}

	if venue.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Venue{}, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
	}
	if venue.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Venue{}, fmt.Errorf("sqlite: failed to parse updated_at: %w", err)
	}
	return venue, nil
}
