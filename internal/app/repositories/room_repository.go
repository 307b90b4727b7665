package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devrim/hostelhub/internal/app/auth"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/db"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

// IRoomRepository defines the interface for room database operations
type IRoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Room, error)
	List(ctx context.Context, scope auth.AccessScope) ([]models.Room, error)
	ListAvailable(ctx context.Context, scope auth.AccessScope, minFreeSpots int) ([]models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id int64, scope auth.AccessScope) error
	BulkUpdateStatus(ctx context.Context, scope auth.AccessScope, ids []int64, status models.RoomStatus) (int64, error)
	StatusCounts(ctx context.Context, scope auth.AccessScope) (map[models.RoomStatus]int64, error)

	// Occupancy engine primitives. RoomForUpdate locks the row for the
	// remainder of the transaction; SetOccupancy is the single write path
	// for current_occupancy/status.
	RoomForUpdate(ctx context.Context, id int64) (*models.Room, error)
	CountOccupants(ctx context.Context, roomID int64) (int, error)
	SetOccupancy(ctx context.Context, roomID int64, occupancy int, status models.RoomStatus) error
}

// RoomRepository handles room database operations
type RoomRepository struct {
	pool *pgxpool.Pool
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// Create inserts a new room. New rooms start empty.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	q := db.QuerierFrom(ctx, r.pool)
	room.CurrentOccupancy = 0
	err := q.QueryRow(ctx, `
		INSERT INTO rooms (room_number, capacity, current_occupancy, status, hostel_id)
		VALUES ($1, $2, 0, $3, $4)
		RETURNING id`,
		room.RoomNumber, room.Capacity, room.Status, room.HostelID).Scan(&room.ID)

	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrRoomNumberExists
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationError("hostel does not exist")
		}
		return fmt.Errorf("error creating room: %w", err)
	}
	return nil
}

// GetByID retrieves a room by ID within the scope
func (r *RoomRepository) GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Room, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		SELECT r.id, r.room_number, r.capacity, r.current_occupancy, r.status, r.hostel_id, h.name
		FROM rooms r
		JOIN hostels h ON h.id = r.hostel_id
		WHERE r.id = $1`
	args := []any{id}
	query, args = scoped(query, scope, "r.hostel_id", args)

	room := &models.Room{}
	err := q.QueryRow(ctx, query, args...).Scan(&room.ID, &room.RoomNumber, &room.Capacity,
		&room.CurrentOccupancy, &room.Status, &room.HostelID, &room.HostelName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFoundOrDenied
		}
		return nil, fmt.Errorf("error getting room: %w", err)
	}
	return room, nil
}

// List retrieves rooms within the scope
func (r *RoomRepository) List(ctx context.Context, scope auth.AccessScope) ([]models.Room, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		SELECT r.id, r.room_number, r.capacity, r.current_occupancy, r.status, r.hostel_id, h.name
		FROM rooms r
		JOIN hostels h ON h.id = r.hostel_id
		WHERE true`
	var args []any
	query, args = scoped(query, scope, "r.hostel_id", args)
	query += " ORDER BY h.name, r.room_number"

	return r.queryRooms(ctx, q, query, args)
}

// ListAvailable retrieves rooms open for assignment, optionally requiring a
// minimum number of free spots.
func (r *RoomRepository) ListAvailable(ctx context.Context, scope auth.AccessScope, minFreeSpots int) ([]models.Room, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		SELECT r.id, r.room_number, r.capacity, r.current_occupancy, r.status, r.hostel_id, h.name
		FROM rooms r
		JOIN hostels h ON h.id = r.hostel_id
		WHERE r.status = $1 AND r.current_occupancy < r.capacity`
	args := []any{models.RoomStatusAvailable}
	query, args = scoped(query, scope, "r.hostel_id", args)
	if minFreeSpots > 0 {
		args = append(args, minFreeSpots)
		query += fmt.Sprintf(" AND (r.capacity - r.current_occupancy) >= $%d", len(args))
	}
	query += " ORDER BY h.name, r.room_number"

	return r.queryRooms(ctx, q, query, args)
}

func (r *RoomRepository) queryRooms(ctx context.Context, q db.Querier, query string, args []any) ([]models.Room, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.RoomNumber, &room.Capacity,
			&room.CurrentOccupancy, &room.Status, &room.HostelID, &room.HostelName); err != nil {
			return nil, fmt.Errorf("error scanning room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// Update modifies room_number, capacity and status. Occupancy is never
// written here; the engine owns it.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	q := db.QuerierFrom(ctx, r.pool)
	tag, err := q.Exec(ctx, `
		UPDATE rooms
		SET room_number = $1, capacity = $2, status = $3
		WHERE id = $4`,
		room.RoomNumber, room.Capacity, room.Status, room.ID)

	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrRoomNumberExists
		}
		return fmt.Errorf("error updating room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// Delete removes a room within the scope. Students keep their rows; their
// room_id is cleared by the FK's ON DELETE SET NULL.
func (r *RoomRepository) Delete(ctx context.Context, id int64, scope auth.AccessScope) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `DELETE FROM rooms WHERE id = $1`
	args := []any{id}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// BulkUpdateStatus sets the status of several rooms at once and returns the
// number of rooms changed. Only rooms inside the scope are touched.
func (r *RoomRepository) BulkUpdateStatus(ctx context.Context, scope auth.AccessScope, ids []int64, status models.RoomStatus) (int64, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `UPDATE rooms SET status = $1 WHERE id = ANY($2)`
	args := []any{status, ids}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error bulk updating rooms: %w", err)
	}
	return tag.RowsAffected(), nil
}

// StatusCounts returns the number of rooms per status within the scope
func (r *RoomRepository) StatusCounts(ctx context.Context, scope auth.AccessScope) (map[models.RoomStatus]int64, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `SELECT status, COUNT(*) FROM rooms WHERE true`
	var args []any
	query, args = scoped(query, scope, "hostel_id", args)
	query += " GROUP BY status"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting rooms: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.RoomStatus]int64)
	for rows.Next() {
		var status models.RoomStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning room counts: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// RoomForUpdate retrieves a room and locks its row until the enclosing
// transaction ends. Callers must be inside a transaction.
func (r *RoomRepository) RoomForUpdate(ctx context.Context, id int64) (*models.Room, error) {
	q := db.QuerierFrom(ctx, r.pool)
	room := &models.Room{}
	err := q.QueryRow(ctx, `
		SELECT id, room_number, capacity, current_occupancy, status, hostel_id
		FROM rooms
		WHERE id = $1
		FOR UPDATE`,
		id).Scan(&room.ID, &room.RoomNumber, &room.Capacity,
		&room.CurrentOccupancy, &room.Status, &room.HostelID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFoundOrDenied
		}
		return nil, fmt.Errorf("error locking room: %w", err)
	}
	return room, nil
}

// CountOccupants counts students currently assigned to the room. Inside a
// transaction this sees the transaction's own writes, which is what the
// recompute needs.
func (r *RoomRepository) CountOccupants(ctx context.Context, roomID int64) (int, error) {
	q := db.QuerierFrom(ctx, r.pool)
	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE room_id = $1`, roomID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting occupants: %w", err)
	}
	return count, nil
}

// SetOccupancy writes the derived occupancy and status. Only the occupancy
// engine calls this.
func (r *RoomRepository) SetOccupancy(ctx context.Context, roomID int64, occupancy int, status models.RoomStatus) error {
	q := db.QuerierFrom(ctx, r.pool)
	_, err := q.Exec(ctx,
		`UPDATE rooms SET current_occupancy = $1, status = $2 WHERE id = $3`,
		occupancy, status, roomID)
	if err != nil {
		return fmt.Errorf("error setting room occupancy: %w", err)
	}
	return nil
}
