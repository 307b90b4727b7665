package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/repositories"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
	"github.com/devrim/hostelhub/internal/pkg/auth"
)

const (
	defaultOwnerUsername = "owner"
	demoHostelName       = "Sunrise Hostel"
)

// CreateDefaultData creates the default owner account and a demo hostel if
// no users exist. Without it a fresh deployment has no way to log in and
// create managers.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)

	count, err := userRepo.CountAll(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		lgr.Debug().Int64("users", count).Msg("Users exist, skipping default owner")
		return nil
	}

	password := os.Getenv("DEFAULT_OWNER_PASSWORD")
	if password == "" {
		password = "changeme123"
		lgr.Warn().Msg("DEFAULT_OWNER_PASSWORD not set, using the insecure default password")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	owner := &models.User{
		Username:     defaultOwnerUsername,
		PasswordHash: hash,
		FullName:     "Default Owner",
		Role:         models.RoleOwner,
	}
	if err := userRepo.Create(ctx, owner); err != nil {
		// A concurrent instance may have seeded first.
		if errors.Is(err, apperrors.ErrUsernameExists) {
			return nil
		}
		return err
	}

	lgr.Info().Str("username", defaultOwnerUsername).Msg("Default owner account created")

	hostelRepo := repositories.NewHostelRepository(dbPool)
	hostel := &models.Hostel{
		Name:          demoHostelName,
		Address:       "12 College Road",
		ContactPerson: "Default Owner",
	}
	if err := hostelRepo.Create(ctx, hostel); err != nil {
		if errors.Is(err, apperrors.ErrHostelNameExists) {
			return nil
		}
		return err
	}

	lgr.Info().Str("name", demoHostelName).Msg("Demo hostel created")
	return nil
}
