package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/config"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
	pkgauth "github.com/devrim/hostelhub/internal/pkg/auth"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) add(user models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = &user
	return &user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return apperrors.ErrUsernameExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFoundOrDenied
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFoundOrDenied
}

func (r *fakeUserRepo) ListManagers(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, user := range r.users {
		if user.Role == models.RoleManager {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.ErrNotFoundOrDenied
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrNotFoundOrDenied
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		now := time.Now().UTC()
		user.LastLoginAt = &now
	}
	return nil
}

func (r *fakeUserRepo) CountAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type storedToken struct {
	userID    int64
	expiresAt time.Time
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]storedToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]storedToken{}}
}

func (r *fakeTokenRepo) Save(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *fakeTokenRepo) Consume(ctx context.Context, token string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenInvalid
	}
	delete(r.tokens, token)
	if time.Now().After(stored.expiresAt) {
		return 0, apperrors.ErrTokenExpired
	}
	return stored.userID, nil
}

func (r *fakeTokenRepo) DeleteForUser(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, stored := range r.tokens {
		if stored.userID == userID {
			delete(r.tokens, token)
		}
	}
	return nil
}

func (r *fakeTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

type authFixture struct {
	svc    *AuthService
	users  *fakeUserRepo
	tokens *fakeTokenRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "unit-test-secret"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.JWT.RefreshTokenExpiration = "720h"
	cfg.JWT.Issuer = "hostelhub.test"

	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	svc := NewAuthService(cfg, users, tokens, zerolog.Nop())
	return &authFixture{svc: svc, users: users, tokens: tokens}
}

func (f *authFixture) addUser(t *testing.T, username, password string, role models.Role, hostelID *int64) *models.User {
	t.Helper()
	hash, err := pkgauth.HashPassword(password)
	require.NoError(t, err)
	return f.users.add(models.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     "Test User",
		Role:         role,
		HostelID:     hostelID,
	})
}

func TestLoginIssuesTokenPair(t *testing.T) {
	f := newAuthFixture(t)
	hostelID := int64(1)
	f.addUser(t, "asha", "secret-pass", models.RoleManager, &hostelID)

	result, err := f.svc.Login(context.Background(), "asha", "secret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "asha", result.User.Username)
	assert.Equal(t, 1, f.tokens.count())
}

func TestLoginWrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "asha", "secret-pass", models.RoleOwner, nil)

	_, wrongPass := f.svc.Login(context.Background(), "asha", "not-it")
	_, unknown := f.svc.Login(context.Background(), "nobody", "whatever")

	assert.ErrorIs(t, wrongPass, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, apperrors.ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "asha", "secret-pass", models.RoleOwner, nil)

	first, err := f.svc.Login(context.Background(), "asha", "secret-pass")
	require.NoError(t, err)

	second, err := f.svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Single use: replaying the consumed token fails.
	_, err = f.svc.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = f.svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestRefreshForDeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "asha", "secret-pass", models.RoleOwner, nil)

	result, err := f.svc.Login(context.Background(), "asha", "secret-pass")
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(context.Background(), user.ID))
	_, err = f.svc.Refresh(context.Background(), result.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestChangePasswordRevokesRefreshTokens(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "asha", "secret-pass", models.RoleOwner, nil)

	result, err := f.svc.Login(context.Background(), "asha", "secret-pass")
	require.NoError(t, err)

	require.NoError(t, f.svc.ChangePassword(context.Background(), user.ID, "secret-pass", "fresh-pass-123"))
	assert.Equal(t, 0, f.tokens.count())

	_, err = f.svc.Refresh(context.Background(), result.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = f.svc.Login(context.Background(), "asha", "fresh-pass-123")
	assert.NoError(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "asha", "secret-pass", models.RoleOwner, nil)

	err := f.svc.ChangePassword(context.Background(), user.ID, "not-it", "fresh-pass-123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
