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

// IExpenseRepository defines the interface for expense database operations
type IExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Expense, error)
	List(ctx context.Context, scope auth.AccessScope, category string) ([]models.Expense, error)
	Update(ctx context.Context, expense *models.Expense, scope auth.AccessScope) error
	Delete(ctx context.Context, id int64, scope auth.AccessScope) error
	MonthTotal(ctx context.Context, scope auth.AccessScope, year int, month int) (float64, error)
}

// ExpenseRepository handles expense database operations
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	q := db.QuerierFrom(ctx, r.pool)
	err := q.QueryRow(ctx, `
		INSERT INTO expenses (description, amount, expense_date, category, expense_type,
		                      vendor_name, receipt_number, payment_method, approved_by,
		                      notes, hostel_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		expense.Description, expense.Amount, expense.ExpenseDate, expense.Category,
		expense.ExpenseType, expense.VendorName, expense.ReceiptNumber,
		expense.PaymentMethod, expense.ApprovedBy, expense.Notes,
		expense.HostelID).Scan(&expense.ID, &expense.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationError("hostel or approver does not exist")
		}
		return fmt.Errorf("error creating expense: %w", err)
	}
	return nil
}

const expenseSelect = `
	SELECT id, description, amount, expense_date, category, expense_type,
	       COALESCE(vendor_name, ''), COALESCE(receipt_number, ''), payment_method,
	       approved_by, COALESCE(notes, ''), hostel_id, created_at
	FROM expenses`

func scanExpense(row pgx.Row) (*models.Expense, error) {
	expense := &models.Expense{}
	err := row.Scan(&expense.ID, &expense.Description, &expense.Amount,
		&expense.ExpenseDate, &expense.Category, &expense.ExpenseType,
		&expense.VendorName, &expense.ReceiptNumber, &expense.PaymentMethod,
		&expense.ApprovedBy, &expense.Notes, &expense.HostelID, &expense.CreatedAt)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// GetByID retrieves an expense by ID within the scope
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Expense, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := expenseSelect + ` WHERE id = $1`
	args := []any{id}
	query, args = scoped(query, scope, "hostel_id", args)

	expense, err := scanExpense(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFoundOrDenied
		}
		return nil, fmt.Errorf("error getting expense: %w", err)
	}
	return expense, nil
}

// List retrieves expenses within the scope, optionally filtered by category
func (r *ExpenseRepository) List(ctx context.Context, scope auth.AccessScope, category string) ([]models.Expense, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := expenseSelect + ` WHERE true`
	var args []any
	query, args = scoped(query, scope, "hostel_id", args)
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY expense_date DESC, id DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	return expenses, rows.Err()
}

// Update modifies an expense's attributes
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense, scope auth.AccessScope) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		UPDATE expenses
		SET description = $1, amount = $2, expense_date = $3, category = $4,
		    expense_type = $5, vendor_name = $6, receipt_number = $7,
		    payment_method = $8, approved_by = $9, notes = $10
		WHERE id = $11`
	args := []any{expense.Description, expense.Amount, expense.ExpenseDate,
		expense.Category, expense.ExpenseType, expense.VendorName,
		expense.ReceiptNumber, expense.PaymentMethod, expense.ApprovedBy,
		expense.Notes, expense.ID}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationError("approver does not exist")
		}
		return fmt.Errorf("error updating expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// Delete removes an expense within the scope
func (r *ExpenseRepository) Delete(ctx context.Context, id int64, scope auth.AccessScope) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `DELETE FROM expenses WHERE id = $1`
	args := []any{id}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// MonthTotal sums expense amounts for a calendar month within the scope
func (r *ExpenseRepository) MonthTotal(ctx context.Context, scope auth.AccessScope, year int, month int) (float64, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE EXTRACT(YEAR FROM expense_date) = $1
		  AND EXTRACT(MONTH FROM expense_date) = $2`
	args := []any{year, month}
	query, args = scoped(query, scope, "hostel_id", args)

	var total float64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error totaling expenses: %w", err)
	}
	return total, nil
}
