package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/db"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

// IUserRepository defines the interface for user database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListManagers(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	UpdateLastLogin(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int64, error)
}

// UserRepository handles user database operations
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, username, password_hash, full_name, role, hostel_id, email, created_at, last_login_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.FullName,
		&user.Role, &user.HostelID, &user.Email, &user.CreatedAt, &user.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	q := db.QuerierFrom(ctx, r.pool)
	err := q.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, full_name, role, hostel_id, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		user.Username, user.PasswordHash, user.FullName, user.Role,
		user.HostelID, user.Email).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "users_username_key") {
			return apperrors.ErrUsernameExists
		}
		if isUniqueViolation(err, "") {
			return apperrors.ErrResourceAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationError("hostel does not exist")
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	q := db.QuerierFrom(ctx, r.pool)
	user, err := scanUser(q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFoundOrDenied
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	q := db.QuerierFrom(ctx, r.pool)
	user, err := scanUser(q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFoundOrDenied
		}
		return nil, fmt.Errorf("error getting user by username: %w", err)
	}
	return user, nil
}

// ListManagers retrieves all manager accounts with their hostel names
func (r *UserRepository) ListManagers(ctx context.Context) ([]models.User, error) {
	q := db.QuerierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, `
		SELECT u.id, u.username, u.password_hash, u.full_name, u.role, u.hostel_id,
		       u.email, u.created_at, u.last_login_at, h.name
		FROM users u
		LEFT JOIN hostels h ON h.id = u.hostel_id
		WHERE u.role = $1
		ORDER BY u.username`,
		models.RoleManager)
	if err != nil {
		return nil, fmt.Errorf("error listing managers: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var hostelName *string
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role,
			&u.HostelID, &u.Email, &u.CreatedAt, &u.LastLoginAt, &hostelName); err != nil {
			return nil, fmt.Errorf("error scanning manager: %w", err)
		}
		if hostelName != nil && u.HostelID != nil {
			u.Hostel = &models.Hostel{ID: *u.HostelID, Name: *hostelName}
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update modifies a user's attributes (password only when a new hash is set)
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	q := db.QuerierFrom(ctx, r.pool)
	tag, err := q.Exec(ctx, `
		UPDATE users
		SET username = $1, full_name = $2, role = $3, hostel_id = $4, email = $5,
		    password_hash = COALESCE(NULLIF($6, ''), password_hash)
		WHERE id = $7`,
		user.Username, user.FullName, user.Role, user.HostelID, user.Email,
		user.PasswordHash, user.ID)

	if err != nil {
		if isUniqueViolation(err, "users_username_key") {
			return apperrors.ErrUsernameExists
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationError("hostel does not exist")
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	q := db.QuerierFrom(ctx, r.pool)
	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	q := db.QuerierFrom(ctx, r.pool)
	_, err := q.Exec(ctx,
		`UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login time: %w", err)
	}
	return nil
}

// CountAll returns the total number of user accounts
func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	q := db.QuerierFrom(ctx, r.pool)
	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return count, nil
}
