package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devrim/hostelhub/internal/app/auth"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/db"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

// IFeeRepository defines the interface for fee database operations
type IFeeRepository interface {
	Create(ctx context.Context, fee *models.Fee) error
	GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Fee, error)
	List(ctx context.Context, scope auth.AccessScope, status *models.FeeStatus) ([]models.Fee, error)
	Update(ctx context.Context, fee *models.Fee, scope auth.AccessScope) error
	Delete(ctx context.Context, id int64, scope auth.AccessScope) error
	MarkPaid(ctx context.Context, id int64, scope auth.AccessScope, paidDate time.Time) (int64, error)
	SweepOverdue(ctx context.Context, now time.Time) (map[int64]int64, error)
	SweepOverdueScoped(ctx context.Context, now time.Time, scope auth.AccessScope) (int64, error)
	TotalsByStatus(ctx context.Context, scope auth.AccessScope) (map[models.FeeStatus]float64, error)
}

// FeeRepository handles fee database operations
type FeeRepository struct {
	pool *pgxpool.Pool
}

// NewFeeRepository creates a new FeeRepository
func NewFeeRepository(pool *pgxpool.Pool) *FeeRepository {
	return &FeeRepository{pool: pool}
}

// Create inserts a new fee. HostelID must already be denormalized from the
// student by the caller.
func (r *FeeRepository) Create(ctx context.Context, fee *models.Fee) error {
	q := db.QuerierFrom(ctx, r.pool)
	err := q.QueryRow(ctx, `
		INSERT INTO fees (student_id, amount, due_date, paid_date, status, hostel_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		fee.StudentID, fee.Amount, fee.DueDate, fee.PaidDate, fee.Status,
		fee.HostelID).Scan(&fee.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrNotFoundOrDenied
		}
		return fmt.Errorf("error creating fee: %w", err)
	}
	return nil
}

const feeSelect = `
	SELECT f.id, f.student_id, f.amount, f.due_date, f.paid_date, f.status, f.hostel_id, s.name
	FROM fees f
	JOIN students s ON s.id = f.student_id`

func scanFee(row pgx.Row) (*models.Fee, error) {
	fee := &models.Fee{}
	err := row.Scan(&fee.ID, &fee.StudentID, &fee.Amount, &fee.DueDate,
		&fee.PaidDate, &fee.Status, &fee.HostelID, &fee.StudentName)
	if err != nil {
		return nil, err
	}
	return fee, nil
}

// GetByID retrieves a fee by ID within the scope
func (r *FeeRepository) GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Fee, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := feeSelect + ` WHERE f.id = $1`
	args := []any{id}
	query, args = scoped(query, scope, "f.hostel_id", args)

	fee, err := scanFee(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFoundOrDenied
		}
		return nil, fmt.Errorf("error getting fee: %w", err)
	}
	return fee, nil
}

// List retrieves fees within the scope, optionally filtered by status
func (r *FeeRepository) List(ctx context.Context, scope auth.AccessScope, status *models.FeeStatus) ([]models.Fee, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := feeSelect + ` WHERE true`
	var args []any
	query, args = scoped(query, scope, "f.hostel_id", args)
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND f.status = $%d", len(args))
	}
	query += " ORDER BY f.due_date, f.id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing fees: %w", err)
	}
	defer rows.Close()

	var fees []models.Fee
	for rows.Next() {
		fee, err := scanFee(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning fee: %w", err)
		}
		fees = append(fees, *fee)
	}
	return fees, rows.Err()
}

// Update modifies a fee's amount and due date. Status moves only through
// MarkPaid and the sweeps.
func (r *FeeRepository) Update(ctx context.Context, fee *models.Fee, scope auth.AccessScope) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `UPDATE fees SET amount = $1, due_date = $2 WHERE id = $3`
	args := []any{fee.Amount, fee.DueDate, fee.ID}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating fee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// Delete removes a fee within the scope
func (r *FeeRepository) Delete(ctx context.Context, id int64, scope auth.AccessScope) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `DELETE FROM fees WHERE id = $1`
	args := []any{id}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting fee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// MarkPaid moves a Pending or Overdue fee to Paid and stamps the paid date.
// The scope filter runs inside the same statement, so a manager probing a
// foreign tenant's fee gets the same zero-rows result as a nonexistent fee.
func (r *FeeRepository) MarkPaid(ctx context.Context, id int64, scope auth.AccessScope, paidDate time.Time) (int64, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		UPDATE fees
		SET status = $1, paid_date = $2
		WHERE id = $3 AND status IN ($4, $5)`
	args := []any{models.FeeStatusPaid, paidDate, id, models.FeeStatusPending, models.FeeStatusOverdue}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error marking fee paid: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SweepOverdue transitions every Pending fee past its due date to Overdue,
// across all tenants, and returns the number of rows changed per hostel.
// paid_date is never touched. Running it twice with the same now is a no-op
// the second time.
func (r *FeeRepository) SweepOverdue(ctx context.Context, now time.Time) (map[int64]int64, error) {
	q := db.QuerierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, `
		UPDATE fees
		SET status = $1
		WHERE status = $2 AND due_date < $3
		RETURNING hostel_id`,
		models.FeeStatusOverdue, models.FeeStatusPending, now)
	if err != nil {
		return nil, fmt.Errorf("error sweeping overdue fees: %w", err)
	}
	defer rows.Close()

	updated := make(map[int64]int64)
	for rows.Next() {
		var hostelID int64
		if err := rows.Scan(&hostelID); err != nil {
			return nil, fmt.Errorf("error scanning swept fee: %w", err)
		}
		updated[hostelID]++
	}
	return updated, rows.Err()
}

// SweepOverdueScoped is the per-request lazy variant limited to the
// caller's scope.
func (r *FeeRepository) SweepOverdueScoped(ctx context.Context, now time.Time, scope auth.AccessScope) (int64, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `UPDATE fees SET status = $1 WHERE status = $2 AND due_date < $3`
	args := []any{models.FeeStatusOverdue, models.FeeStatusPending, now}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error sweeping overdue fees: %w", err)
	}
	return tag.RowsAffected(), nil
}

// TotalsByStatus sums fee amounts per status within the scope
func (r *FeeRepository) TotalsByStatus(ctx context.Context, scope auth.AccessScope) (map[models.FeeStatus]float64, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `SELECT status, COALESCE(SUM(amount), 0) FROM fees WHERE true`
	var args []any
	query, args = scoped(query, scope, "hostel_id", args)
	query += " GROUP BY status"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error totaling fees: %w", err)
	}
	defer rows.Close()

	totals := make(map[models.FeeStatus]float64)
	for rows.Next() {
		var status models.FeeStatus
		var total float64
		if err := rows.Scan(&status, &total); err != nil {
			return nil, fmt.Errorf("error scanning fee totals: %w", err)
		}
		totals[status] = total
	}
	return totals, rows.Err()
}
