package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

// ITokenRepository defines the interface for refresh token storage
type ITokenRepository interface {
	Save(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	Consume(ctx context.Context, token string) (int64, error)
	DeleteForUser(ctx context.Context, userID int64) error
}

// TokenRepository stores opaque refresh tokens server-side so they can be
// rotated and revoked.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Save stores a freshly issued refresh token
func (r *TokenRepository) Save(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)`,
		token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("error storing refresh token: %w", err)
	}
	return nil
}

// Consume deletes the token and returns the owning user id. Each refresh
// token is single-use; an expired or unknown token is rejected.
func (r *TokenRepository) Consume(ctx context.Context, token string) (int64, error) {
	var userID int64
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, `
		DELETE FROM refresh_tokens
		WHERE token = $1
		RETURNING user_id, expires_at`,
		token).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTokenInvalid
		}
		return 0, fmt.Errorf("error consuming refresh token: %w", err)
	}
	if expiresAt.Before(time.Now()) {
		return 0, apperrors.ErrTokenExpired
	}
	return userID, nil
}

// DeleteForUser revokes every refresh token of one user
func (r *TokenRepository) DeleteForUser(ctx context.Context, userID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("error revoking refresh tokens: %w", err)
	}
	return nil
}
