package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devrim/hostelhub/internal/app/auth"
	"github.com/devrim/hostelhub/internal/app/events"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/repositories"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

// ExpenseService handles hostel expense tracking
type ExpenseService struct {
	expenseRepo repositories.IExpenseRepository
	publisher   *events.Publisher
	logger      zerolog.Logger
}

// NewExpenseService creates a new expense service instance
func NewExpenseService(expenseRepo repositories.IExpenseRepository, publisher *events.Publisher, logger zerolog.Logger) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// validateExpense validates expense data before database operations
func (s *ExpenseService) validateExpense(expense *models.Expense) error {
	if expense == nil {
		return apperrors.NewValidationError("expense is nil")
	}
	if strings.TrimSpace(expense.Description) == "" {
		return apperrors.NewValidationError("description cannot be empty")
	}
	if expense.Amount <= 0 {
		return apperrors.NewValidationError("amount must be positive")
	}
	if !models.ValidExpenseCategory(expense.Category) {
		return apperrors.NewValidationError("unknown expense category")
	}
	if !expense.ExpenseType.Valid() {
		return apperrors.NewValidationError("unknown expense type")
	}
	if expense.HostelID <= 0 {
		return apperrors.NewValidationError("hostel ID must be positive")
	}
	return nil
}

// CreateExpense records an expense against a hostel
func (s *ExpenseService) CreateExpense(ctx context.Context, expense *models.Expense, scope auth.AccessScope, actor string) error {
	if err := s.validateExpense(expense); err != nil {
		return err
	}
	if !scope.Allows(expense.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}
	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = time.Now().UTC()
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return err
	}

	s.publisher.Tenant(expense.HostelID, events.TypeExpenseAdded, actor, map[string]interface{}{
		"expense_id": expense.ID,
		"amount":     expense.Amount,
		"category":   expense.Category,
	})
	return nil
}

// GetExpense retrieves one expense within the scope
func (s *ExpenseService) GetExpense(ctx context.Context, id int64, scope auth.AccessScope) (*models.Expense, error) {
	return s.expenseRepo.GetByID(ctx, id, scope)
}

// ListExpenses retrieves expenses within the scope, optionally filtered by
// category
func (s *ExpenseService) ListExpenses(ctx context.Context, scope auth.AccessScope, category string) ([]models.Expense, error) {
	if category != "" && !models.ValidExpenseCategory(category) {
		return nil, apperrors.NewValidationError("unknown expense category")
	}
	return s.expenseRepo.List(ctx, scope, category)
}

// UpdateExpense modifies an expense's attributes
func (s *ExpenseService) UpdateExpense(ctx context.Context, expense *models.Expense, scope auth.AccessScope, actor string) error {
	existing, err := s.expenseRepo.GetByID(ctx, expense.ID, scope)
	if err != nil {
		return err
	}
	expense.HostelID = existing.HostelID

	if err := s.validateExpense(expense); err != nil {
		return err
	}

	if err := s.expenseRepo.Update(ctx, expense, scope); err != nil {
		return err
	}

	s.publisher.Tenant(expense.HostelID, events.TypeExpenseUpdated, actor, map[string]interface{}{
		"expense_id": expense.ID,
		"amount":     expense.Amount,
	})
	return nil
}

// DeleteExpense removes an expense within the scope
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64, scope auth.AccessScope, actor string) error {
	expense, err := s.expenseRepo.GetByID(ctx, id, scope)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(ctx, id, scope); err != nil {
		return err
	}

	s.publisher.Tenant(expense.HostelID, events.TypeExpenseDeleted, actor, map[string]interface{}{
		"expense_id": id,
	})
	return nil
}

// MonthTotal sums the scope's expenses for a calendar month
func (s *ExpenseService) MonthTotal(ctx context.Context, scope auth.AccessScope, year int, month int) (float64, error) {
	if month < 1 || month > 12 {
		return 0, apperrors.NewValidationError("month must be between 1 and 12")
	}
	return s.expenseRepo.MonthTotal(ctx, scope, year, month)
}
