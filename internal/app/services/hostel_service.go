package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/devrim/hostelhub/internal/app/auth"
	"github.com/devrim/hostelhub/internal/app/events"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/repositories"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

// HostelService handles tenant root administration. Creation and deletion
// are owner-only; the routes enforce that.
type HostelService struct {
	hostelRepo repositories.IHostelRepository
	publisher  *events.Publisher
	logger     zerolog.Logger
}

// NewHostelService creates a new hostel service instance
func NewHostelService(hostelRepo repositories.IHostelRepository, publisher *events.Publisher, logger zerolog.Logger) *HostelService {
	return &HostelService{
		hostelRepo: hostelRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// validateHostel validates hostel data before database operations
func (s *HostelService) validateHostel(hostel *models.Hostel) error {
	if hostel == nil {
		return apperrors.NewValidationError("hostel is nil")
	}
	if strings.TrimSpace(hostel.Name) == "" {
		return apperrors.NewValidationError("name cannot be empty")
	}
	return nil
}

// CreateHostel registers a new hostel
func (s *HostelService) CreateHostel(ctx context.Context, hostel *models.Hostel, actor string) error {
	if err := s.validateHostel(hostel); err != nil {
		return err
	}
	if err := s.hostelRepo.Create(ctx, hostel); err != nil {
		return err
	}

	s.logger.Info().Str("name", hostel.Name).Int64("hostelID", hostel.ID).Msg("Hostel created")
	s.publisher.Owners(events.TypeSystemBroadcast, actor, map[string]interface{}{
		"message":   "hostel created",
		"hostel_id": hostel.ID,
		"name":      hostel.Name,
	})
	return nil
}

// GetHostel retrieves one hostel. The scope check keeps managers from
// reading other tenants' roots.
func (s *HostelService) GetHostel(ctx context.Context, id int64, scope auth.AccessScope) (*models.Hostel, error) {
	if !scope.Allows(id) {
		return nil, apperrors.ErrNotFoundOrDenied
	}
	return s.hostelRepo.GetByID(ctx, id)
}

// ListHostels retrieves hostels within the scope
func (s *HostelService) ListHostels(ctx context.Context, scope auth.AccessScope) ([]models.Hostel, error) {
	return s.hostelRepo.List(ctx, scope)
}

// UpdateHostel modifies a hostel's attributes
func (s *HostelService) UpdateHostel(ctx context.Context, hostel *models.Hostel, scope auth.AccessScope) error {
	if err := s.validateHostel(hostel); err != nil {
		return err
	}
	if !scope.Allows(hostel.ID) {
		return apperrors.ErrNotFoundOrDenied
	}
	return s.hostelRepo.Update(ctx, hostel)
}

// DeleteHostel removes an empty hostel. A hostel with rooms, students,
// records or managers is refused; the dependents must go first.
func (s *HostelService) DeleteHostel(ctx context.Context, id int64) error {
	if _, err := s.hostelRepo.GetByID(ctx, id); err != nil {
		return err
	}

	hasDependents, err := s.hostelRepo.HasDependents(ctx, id)
	if err != nil {
		return err
	}
	if hasDependents {
		return apperrors.ErrHostelHasRelations
	}

	if err := s.hostelRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("hostelID", id).Msg("Hostel deleted")
	return nil
}
