package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

func int64Ptr(v int64) *int64 { return &v }

func TestResolve_Manager(t *testing.T) {
	manager := &models.User{ID: 7, Role: models.RoleManager, HostelID: int64Ptr(3)}

	t.Run("pinned to own hostel", func(t *testing.T) {
		scope, err := Resolve(manager, nil)
		require.NoError(t, err)
		assert.False(t, scope.Unrestricted)
		require.NotNil(t, scope.HostelID)
		assert.Equal(t, int64(3), *scope.HostelID)
	})

	t.Run("request parameter is ignored", func(t *testing.T) {
		scope, err := Resolve(manager, int64Ptr(9))
		require.NoError(t, err)
		require.NotNil(t, scope.HostelID)
		assert.Equal(t, int64(3), *scope.HostelID, "a manager-supplied hostel_id must not widen access")
	})

	t.Run("manager without hostel is an error, not all-tenants", func(t *testing.T) {
		broken := &models.User{ID: 8, Role: models.RoleManager}
		_, err := Resolve(broken, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrManagerWithoutHostel)
	})
}

func TestResolve_Owner(t *testing.T) {
	owner := &models.User{ID: 1, Role: models.RoleOwner}

	t.Run("no selection means all tenants", func(t *testing.T) {
		scope, err := Resolve(owner, nil)
		require.NoError(t, err)
		assert.True(t, scope.Unrestricted)
		assert.Nil(t, scope.HostelID)
	})

	t.Run("explicit selection narrows the scope", func(t *testing.T) {
		scope, err := Resolve(owner, int64Ptr(5))
		require.NoError(t, err)
		assert.False(t, scope.Unrestricted)
		require.NotNil(t, scope.HostelID)
		assert.Equal(t, int64(5), *scope.HostelID)
	})
}

func TestResolve_Invalid(t *testing.T) {
	_, err := Resolve(nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = Resolve(&models.User{ID: 2, Role: "tenant"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAccessScope_Allows(t *testing.T) {
	assert.True(t, ScopeAll().Allows(42))
	assert.True(t, ScopeHostel(42).Allows(42))
	assert.False(t, ScopeHostel(42).Allows(43))
	assert.False(t, AccessScope{}.Allows(42))
}
