package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/repositories"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
	pkgauth "github.com/devrim/hostelhub/internal/pkg/auth"
)

// UserService handles manager account administration. Only owners reach
// these operations; the routes enforce that.
type UserService struct {
	userRepo   repositories.IUserRepository
	hostelRepo repositories.IHostelRepository
	logger     zerolog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repositories.IUserRepository, hostelRepo repositories.IHostelRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		hostelRepo: hostelRepo,
		logger:     logger,
	}
}

// validateUser validates account data before database operations
func (s *UserService) validateUser(user *models.User) error {
	if user == nil {
		return apperrors.NewValidationError("user is nil")
	}
	if strings.TrimSpace(user.Username) == "" {
		return apperrors.NewValidationError("username cannot be empty")
	}
	if strings.TrimSpace(user.FullName) == "" {
		return apperrors.NewValidationError("full name cannot be empty")
	}
	if !user.Role.Valid() {
		return apperrors.NewValidationError("unknown role")
	}
	switch user.Role {
	case models.RoleManager:
		if user.HostelID == nil {
			return apperrors.NewValidationError("manager accounts require a hostel")
		}
	case models.RoleOwner:
		if user.HostelID != nil {
			return apperrors.NewValidationError("owner accounts cannot be pinned to a hostel")
		}
	}
	return nil
}

// CreateManager creates a manager account pinned to a hostel
func (s *UserService) CreateManager(ctx context.Context, user *models.User, password string) error {
	user.Role = models.RoleManager
	if err := s.validateUser(user); err != nil {
		return err
	}
	if len(password) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters")
	}

	// Reject dangling hostel references up front with a clear error.
	if _, err := s.hostelRepo.GetByID(ctx, *user.HostelID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFoundOrDenied) {
			return apperrors.NewValidationError("hostel does not exist")
		}
		return err
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Info().
		Str("username", user.Username).
		Int64("hostelID", *user.HostelID).
		Msg("Manager account created")
	return nil
}

// GetUser retrieves a user account by ID
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListManagers retrieves all manager accounts with their hostels
func (s *UserService) ListManagers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListManagers(ctx)
}

// UpdateManager modifies a manager account. An empty password keeps the
// current one.
func (s *UserService) UpdateManager(ctx context.Context, user *models.User, password string) error {
	existing, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	if existing.Role != models.RoleManager {
		return apperrors.NewValidationError("account is not a manager")
	}

	user.Role = models.RoleManager
	if err := s.validateUser(user); err != nil {
		return err
	}

	if password != "" {
		if len(password) < 8 {
			return apperrors.NewValidationError("password must be at least 8 characters")
		}
		hash, err := pkgauth.HashPassword(password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	} else {
		user.PasswordHash = ""
	}

	if *user.HostelID != derefHostelID(existing.HostelID) {
		if _, err := s.hostelRepo.GetByID(ctx, *user.HostelID); err != nil {
			if apperrors.Is(err, apperrors.ErrNotFoundOrDenied) {
				return apperrors.NewValidationError("hostel does not exist")
			}
			return err
		}
	}

	return s.userRepo.Update(ctx, user)
}

// DeleteManager removes a manager account
func (s *UserService) DeleteManager(ctx context.Context, id int64, requesterID int64) error {
	if id == requesterID {
		return apperrors.NewValidationError("cannot delete your own account")
	}

	existing, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Role != models.RoleManager {
		return apperrors.NewValidationError("account is not a manager")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("username", existing.Username).Msg("Manager account deleted")
	return nil
}

func derefHostelID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
