package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devrim/hostelhub/internal/app/auth"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/db"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

// IHostelRepository defines the interface for hostel database operations
type IHostelRepository interface {
	Create(ctx context.Context, hostel *models.Hostel) error
	GetByID(ctx context.Context, id int64) (*models.Hostel, error)
	List(ctx context.Context, scope auth.AccessScope) ([]models.Hostel, error)
	Update(ctx context.Context, hostel *models.Hostel) error
	Delete(ctx context.Context, id int64) error
	HasDependents(ctx context.Context, id int64) (bool, error)
}

// HostelRepository handles hostel database operations
type HostelRepository struct {
	pool *pgxpool.Pool
}

// NewHostelRepository creates a new HostelRepository
func NewHostelRepository(pool *pgxpool.Pool) *HostelRepository {
	return &HostelRepository{pool: pool}
}

// Create inserts a new hostel
func (r *HostelRepository) Create(ctx context.Context, hostel *models.Hostel) error {
	q := db.QuerierFrom(ctx, r.pool)
	err := q.QueryRow(ctx, `
		INSERT INTO hostels (name, address, contact_person, contact_email, contact_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		hostel.Name, hostel.Address, hostel.ContactPerson, hostel.ContactEmail,
		hostel.ContactNumber).Scan(&hostel.ID, &hostel.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrHostelNameExists
		}
		return fmt.Errorf("error creating hostel: %w", err)
	}
	return nil
}

// GetByID retrieves a hostel by ID
func (r *HostelRepository) GetByID(ctx context.Context, id int64) (*models.Hostel, error) {
	q := db.QuerierFrom(ctx, r.pool)
	hostel := &models.Hostel{}
	err := q.QueryRow(ctx, `
		SELECT id, name, address, contact_person, contact_email, contact_number, created_at
		FROM hostels
		WHERE id = $1`,
		id).Scan(&hostel.ID, &hostel.Name, &hostel.Address, &hostel.ContactPerson,
		&hostel.ContactEmail, &hostel.ContactNumber, &hostel.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFoundOrDenied
		}
		return nil, fmt.Errorf("error getting hostel: %w", err)
	}
	return hostel, nil
}

// List retrieves hostels visible under the scope. Managers see only their
// own hostel; owners see all.
func (r *HostelRepository) List(ctx context.Context, scope auth.AccessScope) ([]models.Hostel, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		SELECT id, name, address, contact_person, contact_email, contact_number, created_at
		FROM hostels
		WHERE true`
	var args []any
	query, args = scoped(query, scope, "id", args)
	query += " ORDER BY name"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing hostels: %w", err)
	}
	defer rows.Close()

	var hostels []models.Hostel
	for rows.Next() {
		var h models.Hostel
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.ContactPerson,
			&h.ContactEmail, &h.ContactNumber, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning hostel: %w", err)
		}
		hostels = append(hostels, h)
	}
	return hostels, rows.Err()
}

// Update modifies a hostel's attributes
func (r *HostelRepository) Update(ctx context.Context, hostel *models.Hostel) error {
	q := db.QuerierFrom(ctx, r.pool)
	tag, err := q.Exec(ctx, `
		UPDATE hostels
		SET name = $1, address = $2, contact_person = $3, contact_email = $4, contact_number = $5
		WHERE id = $6`,
		hostel.Name, hostel.Address, hostel.ContactPerson, hostel.ContactEmail,
		hostel.ContactNumber, hostel.ID)

	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrHostelNameExists
		}
		return fmt.Errorf("error updating hostel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// HasDependents reports whether the hostel still owns rooms, students,
// fees, complaints, expenses or assigned managers. Deletion is a hard
// guard, not a cascade.
func (r *HostelRepository) HasDependents(ctx context.Context, id int64) (bool, error) {
	q := db.QuerierFrom(ctx, r.pool)
	var has bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM rooms WHERE hostel_id = $1)
			OR EXISTS(SELECT 1 FROM students WHERE hostel_id = $1)
			OR EXISTS(SELECT 1 FROM fees WHERE hostel_id = $1)
			OR EXISTS(SELECT 1 FROM complaints WHERE hostel_id = $1)
			OR EXISTS(SELECT 1 FROM expenses WHERE hostel_id = $1)
			OR EXISTS(SELECT 1 FROM users WHERE hostel_id = $1)`,
		id).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("error checking hostel dependents: %w", err)
	}
	return has, nil
}

// Delete removes an empty hostel
func (r *HostelRepository) Delete(ctx context.Context, id int64) error {
	q := db.QuerierFrom(ctx, r.pool)
	tag, err := q.Exec(ctx, `DELETE FROM hostels WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrHostelHasRelations
		}
		return fmt.Errorf("error deleting hostel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}
