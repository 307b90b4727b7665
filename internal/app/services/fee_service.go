package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/devrim/hostelhub/internal/app/auth"
	"github.com/devrim/hostelhub/internal/app/events"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/repositories"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
	"github.com/devrim/hostelhub/internal/pkg/email"
)

// FeeService handles the fee lifecycle. Pending -> Paid and Overdue -> Paid
// happen here; Pending -> Overdue is the sweeper's job.
type FeeService struct {
	feeRepo     repositories.IFeeRepository
	studentRepo repositories.IStudentRepository
	publisher   *events.Publisher
	mailer      *email.Sender
	logger      zerolog.Logger
}

// NewFeeService creates a new fee service instance
func NewFeeService(
	feeRepo repositories.IFeeRepository,
	studentRepo repositories.IStudentRepository,
	publisher *events.Publisher,
	mailer *email.Sender,
	logger zerolog.Logger,
) *FeeService {
	return &FeeService{
		feeRepo:     feeRepo,
		studentRepo: studentRepo,
		publisher:   publisher,
		mailer:      mailer,
		logger:      logger,
	}
}

// CreateFee records a fee against a student. The fee inherits the student's
// hostel so tenant filters stay join-free.
func (s *FeeService) CreateFee(ctx context.Context, fee *models.Fee, scope auth.AccessScope, actor string) error {
	if fee == nil {
		return apperrors.NewValidationError("fee is nil")
	}
	if fee.Amount <= 0 {
		return apperrors.NewValidationError("amount must be positive")
	}
	if fee.DueDate.IsZero() {
		return apperrors.NewValidationError("due date is required")
	}

	student, err := s.studentRepo.GetByID(ctx, fee.StudentID, scope)
	if err != nil {
		return err
	}

	fee.HostelID = student.HostelID
	fee.Status = models.FeeStatusPending
	fee.PaidDate = nil

	if err := s.feeRepo.Create(ctx, fee); err != nil {
		return err
	}

	s.publisher.Tenant(fee.HostelID, events.TypeFeeAdded, actor, map[string]interface{}{
		"fee_id":     fee.ID,
		"student_id": fee.StudentID,
		"amount":     fee.Amount,
	})
	return nil
}

// GetFee retrieves one fee within the scope
func (s *FeeService) GetFee(ctx context.Context, id int64, scope auth.AccessScope) (*models.Fee, error) {
	return s.feeRepo.GetByID(ctx, id, scope)
}

// ListFees retrieves fees within the scope, optionally filtered by status
func (s *FeeService) ListFees(ctx context.Context, scope auth.AccessScope, status *models.FeeStatus) ([]models.Fee, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.NewValidationError("unknown fee status")
	}
	return s.feeRepo.List(ctx, scope, status)
}

// UpdateFee changes a fee's amount or due date. Paid fees are immutable.
func (s *FeeService) UpdateFee(ctx context.Context, fee *models.Fee, scope auth.AccessScope, actor string) error {
	if fee.Amount <= 0 {
		return apperrors.NewValidationError("amount must be positive")
	}
	if fee.DueDate.IsZero() {
		return apperrors.NewValidationError("due date is required")
	}

	existing, err := s.feeRepo.GetByID(ctx, fee.ID, scope)
	if err != nil {
		return err
	}
	if existing.Status == models.FeeStatusPaid {
		return apperrors.ErrFeeAlreadyPaid
	}

	if err := s.feeRepo.Update(ctx, fee, scope); err != nil {
		return err
	}

	s.publisher.Tenant(existing.HostelID, events.TypeFeeUpdated, actor, map[string]interface{}{
		"fee_id": fee.ID,
		"amount": fee.Amount,
	})
	return nil
}

// MarkPaid settles a Pending or Overdue fee. The transition is a single
// conditional update; a zero-row result is disambiguated afterwards only to
// pick the right error, never to retry the write.
func (s *FeeService) MarkPaid(ctx context.Context, id int64, scope auth.AccessScope, actor string) (*models.Fee, error) {
	paidDate := time.Now().UTC()

	rows, err := s.feeRepo.MarkPaid(ctx, id, scope, paidDate)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		existing, err := s.feeRepo.GetByID(ctx, id, scope)
		if err != nil {
			return nil, err
		}
		if existing.Status == models.FeeStatusPaid {
			return nil, apperrors.ErrFeeAlreadyPaid
		}
		return nil, apperrors.ErrNotFoundOrDenied
	}

	fee, err := s.feeRepo.GetByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}

	s.publisher.Tenant(fee.HostelID, events.TypeFeePaid, actor, map[string]interface{}{
		"fee_id":     fee.ID,
		"student_id": fee.StudentID,
		"amount":     fee.Amount,
	})
	return fee, nil
}

// DeleteFee removes a fee within the scope. Paid fees are part of the
// payment record and cannot be deleted.
func (s *FeeService) DeleteFee(ctx context.Context, id int64, scope auth.AccessScope, actor string) error {
	fee, err := s.feeRepo.GetByID(ctx, id, scope)
	if err != nil {
		return err
	}
	if fee.Status == models.FeeStatusPaid {
		return apperrors.ErrFeeAlreadyPaid
	}
	if err := s.feeRepo.Delete(ctx, id, scope); err != nil {
		return err
	}

	s.publisher.Tenant(fee.HostelID, events.TypeFeeDeleted, actor, map[string]interface{}{
		"fee_id":     id,
		"student_id": fee.StudentID,
	})
	return nil
}

// SweepNow flips past-due Pending fees to Overdue on demand. An
// unrestricted caller sweeps every hostel; a scoped caller only touches
// their own. Unlike the background sweeper this bypasses the interval
// gate, so the next scheduled sweep still runs on time.
func (s *FeeService) SweepNow(ctx context.Context, scope auth.AccessScope, actor string) (int64, error) {
	now := time.Now().UTC()

	if scope.Unrestricted {
		byHostel, err := s.feeRepo.SweepOverdue(ctx, now)
		if err != nil {
			return 0, err
		}
		var total int64
		for hostelID, count := range byHostel {
			total += count
			s.publisher.Tenant(hostelID, events.TypeFeesSwept, actor, map[string]interface{}{
				"count": count,
			})
		}
		return total, nil
	}

	count, err := s.feeRepo.SweepOverdueScoped(ctx, now, scope)
	if err != nil {
		return 0, err
	}
	if count > 0 && scope.HostelID != nil {
		s.publisher.Tenant(*scope.HostelID, events.TypeFeesSwept, actor, map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}

// SendReminder emails the student an unpaid-fee notice. Settled fees have
// nothing to remind about.
func (s *FeeService) SendReminder(ctx context.Context, id int64, scope auth.AccessScope) error {
	fee, err := s.feeRepo.GetByID(ctx, id, scope)
	if err != nil {
		return err
	}
	if fee.Status == models.FeeStatusPaid {
		return apperrors.ErrFeeAlreadyPaid
	}

	student, err := s.studentRepo.GetByID(ctx, fee.StudentID, scope)
	if err != nil {
		return err
	}

	if err := s.mailer.FeeReminder(ctx, student.Email, student.Name, fee.Amount, fee.DueDate); err != nil {
		s.logger.Error().Err(err).
			Int64("feeID", id).
			Msg("Fee reminder email failed")
		return err
	}
	return nil
}
