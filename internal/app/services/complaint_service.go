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

// ComplaintService handles the complaint lifecycle
type ComplaintService struct {
	complaintRepo repositories.IComplaintRepository
	roomRepo      repositories.IRoomRepository
	publisher     *events.Publisher
	logger        zerolog.Logger
}

// NewComplaintService creates a new complaint service instance
func NewComplaintService(
	complaintRepo repositories.IComplaintRepository,
	roomRepo repositories.IRoomRepository,
	publisher *events.Publisher,
	logger zerolog.Logger,
) *ComplaintService {
	return &ComplaintService{
		complaintRepo: complaintRepo,
		roomRepo:      roomRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

// CreateComplaint files a complaint, optionally tied to a room
func (s *ComplaintService) CreateComplaint(ctx context.Context, complaint *models.Complaint, scope auth.AccessScope, actor string) error {
	if complaint == nil {
		return apperrors.NewValidationError("complaint is nil")
	}
	if strings.TrimSpace(complaint.Description) == "" {
		return apperrors.NewValidationError("description cannot be empty")
	}
	if !complaint.Priority.Valid() {
		return apperrors.NewValidationError("unknown priority")
	}
	if !scope.Allows(complaint.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}
	if complaint.RoomID != nil {
		room, err := s.roomRepo.GetByID(ctx, *complaint.RoomID, scope)
		if err != nil {
			return err
		}
		if room.HostelID != complaint.HostelID {
			return apperrors.NewValidationError("room belongs to a different hostel")
		}
	}

	complaint.Status = models.ComplaintStatusPending
	if complaint.ReportDate.IsZero() {
		complaint.ReportDate = time.Now().UTC()
	}
	complaint.ResolutionDate = nil
	complaint.ResolutionNotes = ""

	if err := s.complaintRepo.Create(ctx, complaint); err != nil {
		return err
	}

	s.publisher.Tenant(complaint.HostelID, events.TypeComplaintAdded, actor, map[string]interface{}{
		"complaint_id": complaint.ID,
		"priority":     complaint.Priority,
	})
	return nil
}

// GetComplaint retrieves one complaint within the scope
func (s *ComplaintService) GetComplaint(ctx context.Context, id int64, scope auth.AccessScope) (*models.Complaint, error) {
	return s.complaintRepo.GetByID(ctx, id, scope)
}

// ListComplaints retrieves complaints within the scope, optionally filtered
// by status
func (s *ComplaintService) ListComplaints(ctx context.Context, scope auth.AccessScope, status *models.ComplaintStatus) ([]models.Complaint, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.NewValidationError("unknown complaint status")
	}
	return s.complaintRepo.List(ctx, scope, status)
}

// UpdateComplaint moves a complaint through its lifecycle. Entering
// Resolved or Closed stamps the resolution date; leaving them clears it.
func (s *ComplaintService) UpdateComplaint(ctx context.Context, complaint *models.Complaint, scope auth.AccessScope, actor string) error {
	if strings.TrimSpace(complaint.Description) == "" {
		return apperrors.NewValidationError("description cannot be empty")
	}
	if !complaint.Priority.Valid() {
		return apperrors.NewValidationError("unknown priority")
	}
	if !complaint.Status.Valid() {
		return apperrors.NewValidationError("unknown status")
	}

	existing, err := s.complaintRepo.GetByID(ctx, complaint.ID, scope)
	if err != nil {
		return err
	}
	complaint.HostelID = existing.HostelID

	switch complaint.Status {
	case models.ComplaintStatusResolved, models.ComplaintStatusClosed:
		if existing.ResolutionDate != nil {
			complaint.ResolutionDate = existing.ResolutionDate
		} else {
			now := time.Now().UTC()
			complaint.ResolutionDate = &now
		}
	default:
		complaint.ResolutionDate = nil
	}

	if err := s.complaintRepo.Update(ctx, complaint, scope); err != nil {
		return err
	}

	s.publisher.Tenant(complaint.HostelID, events.TypeComplaintUpdated, actor, map[string]interface{}{
		"complaint_id": complaint.ID,
		"status":       complaint.Status,
	})
	return nil
}

// DeleteComplaint removes a complaint within the scope
func (s *ComplaintService) DeleteComplaint(ctx context.Context, id int64, scope auth.AccessScope, actor string) error {
	complaint, err := s.complaintRepo.GetByID(ctx, id, scope)
	if err != nil {
		return err
	}
	if err := s.complaintRepo.Delete(ctx, id, scope); err != nil {
		return err
	}

	s.publisher.Tenant(complaint.HostelID, events.TypeComplaintDeleted, actor, map[string]interface{}{
		"complaint_id": id,
	})
	return nil
}
