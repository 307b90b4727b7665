package auth

import (
	"fmt"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

// AccessScope is the effective tenant filter for a request. Every store
// query against tenant-carrying entities is parameterized by one of these.
type AccessScope struct {
	// HostelID is the tenant the caller is limited to. Nil only when
	// Unrestricted is true.
	HostelID *int64
	// Unrestricted is true only for owners viewing all tenants.
	Unrestricted bool
}

// ScopeAll returns the unrestricted scope used by owner aggregate views and
// tenant-agnostic background jobs.
func ScopeAll() AccessScope {
	return AccessScope{Unrestricted: true}
}

// ScopeHostel returns a scope pinned to a single hostel.
func ScopeHostel(hostelID int64) AccessScope {
	return AccessScope{HostelID: &hostelID}
}

// Allows reports whether a row belonging to hostelID is visible under the scope.
func (s AccessScope) Allows(hostelID int64) bool {
	if s.Unrestricted {
		return true
	}
	return s.HostelID != nil && *s.HostelID == hostelID
}

// Resolve derives the effective scope from the caller and an optional
// hostel selection parameter.
//
// Managers are hard-pinned to their own hostel: the request parameter is
// ignored for access decisions, and a manager without a hostel is a broken
// account, not an all-tenants view. Owners get the selected hostel when one
// is supplied, otherwise the unrestricted scope.
func Resolve(user *models.User, requestedHostelID *int64) (AccessScope, error) {
	if user == nil {
		return AccessScope{}, apperrors.ErrPermissionDenied
	}

	switch user.Role {
	case models.RoleManager:
		if user.HostelID == nil {
			return AccessScope{}, fmt.Errorf("user %d: %w", user.ID, apperrors.ErrManagerWithoutHostel)
		}
		return ScopeHostel(*user.HostelID), nil
	case models.RoleOwner:
		if requestedHostelID != nil {
			return ScopeHostel(*requestedHostelID), nil
		}
		return ScopeAll(), nil
	default:
		return AccessScope{}, fmt.Errorf("unknown role %q: %w", user.Role, apperrors.ErrPermissionDenied)
	}
}
