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

// IComplaintRepository defines the interface for complaint database operations
type IComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Complaint, error)
	List(ctx context.Context, scope auth.AccessScope, status *models.ComplaintStatus) ([]models.Complaint, error)
	Update(ctx context.Context, complaint *models.Complaint, scope auth.AccessScope) error
	Delete(ctx context.Context, id int64, scope auth.AccessScope) error
}

// ComplaintRepository handles complaint database operations
type ComplaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository creates a new ComplaintRepository
func NewComplaintRepository(pool *pgxpool.Pool) *ComplaintRepository {
	return &ComplaintRepository{pool: pool}
}

// Create inserts a new complaint
func (r *ComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	q := db.QuerierFrom(ctx, r.pool)
	err := q.QueryRow(ctx, `
		INSERT INTO complaints (room_id, reported_by_id, description, priority, status,
		                        report_date, hostel_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		complaint.RoomID, complaint.ReportedByID, complaint.Description,
		complaint.Priority, complaint.Status, complaint.ReportDate,
		complaint.HostelID).Scan(&complaint.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationError("room, student or hostel does not exist")
		}
		return fmt.Errorf("error creating complaint: %w", err)
	}
	return nil
}

const complaintSelect = `
	SELECT c.id, c.room_id, c.reported_by_id, c.description, c.priority, c.status,
	       c.report_date, c.resolution_date, COALESCE(c.resolution_notes, ''),
	       c.hostel_id, COALESCE(r.room_number, '')
	FROM complaints c
	LEFT JOIN rooms r ON r.id = c.room_id`

func scanComplaint(row pgx.Row) (*models.Complaint, error) {
	complaint := &models.Complaint{}
	err := row.Scan(&complaint.ID, &complaint.RoomID, &complaint.ReportedByID,
		&complaint.Description, &complaint.Priority, &complaint.Status,
		&complaint.ReportDate, &complaint.ResolutionDate, &complaint.ResolutionNotes,
		&complaint.HostelID, &complaint.RoomNumber)
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

// GetByID retrieves a complaint by ID within the scope
func (r *ComplaintRepository) GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Complaint, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := complaintSelect + ` WHERE c.id = $1`
	args := []any{id}
	query, args = scoped(query, scope, "c.hostel_id", args)

	complaint, err := scanComplaint(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFoundOrDenied
		}
		return nil, fmt.Errorf("error getting complaint: %w", err)
	}
	return complaint, nil
}

// List retrieves complaints within the scope, optionally filtered by status
func (r *ComplaintRepository) List(ctx context.Context, scope auth.AccessScope, status *models.ComplaintStatus) ([]models.Complaint, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := complaintSelect + ` WHERE true`
	var args []any
	query, args = scoped(query, scope, "c.hostel_id", args)
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND c.status = $%d", len(args))
	}
	query += " ORDER BY c.report_date DESC, c.id DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing complaints: %w", err)
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning complaint: %w", err)
		}
		complaints = append(complaints, *complaint)
	}
	return complaints, rows.Err()
}

// Update modifies a complaint's attributes and lifecycle fields
func (r *ComplaintRepository) Update(ctx context.Context, complaint *models.Complaint, scope auth.AccessScope) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		UPDATE complaints
		SET description = $1, priority = $2, status = $3, resolution_date = $4,
		    resolution_notes = $5, room_id = $6
		WHERE id = $7`
	args := []any{complaint.Description, complaint.Priority, complaint.Status,
		complaint.ResolutionDate, complaint.ResolutionNotes, complaint.RoomID,
		complaint.ID}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// Delete removes a complaint within the scope
func (r *ComplaintRepository) Delete(ctx context.Context, id int64, scope auth.AccessScope) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `DELETE FROM complaints WHERE id = $1`
	args := []any{id}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}
