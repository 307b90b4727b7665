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

// RoomService handles room inventory operations
type RoomService struct {
	tx        TxRunner
	roomRepo  repositories.IRoomRepository
	occupancy *OccupancyService
	publisher *events.Publisher
	logger    zerolog.Logger
}

// NewRoomService creates a new room service instance
func NewRoomService(
	tx TxRunner,
	roomRepo repositories.IRoomRepository,
	occupancy *OccupancyService,
	publisher *events.Publisher,
	logger zerolog.Logger,
) *RoomService {
	return &RoomService{
		tx:        tx,
		roomRepo:  roomRepo,
		occupancy: occupancy,
		publisher: publisher,
		logger:    logger,
	}
}

// validateRoom validates room data before database operations
func (s *RoomService) validateRoom(room *models.Room) error {
	if room == nil {
		return apperrors.NewValidationError("room is nil")
	}
	if strings.TrimSpace(room.RoomNumber) == "" {
		return apperrors.NewValidationError("room number cannot be empty")
	}
	if room.Capacity < 1 || room.Capacity > models.MaxRoomCapacity {
		return apperrors.NewValidationError("capacity must be between 1 and 50")
	}
	if room.HostelID <= 0 {
		return apperrors.NewValidationError("hostel ID must be positive")
	}
	if room.Status != "" && !room.Status.Valid() {
		return apperrors.NewValidationError("unknown room status")
	}
	return nil
}

// CreateRoom adds a room to a hostel. New rooms start empty and Available.
func (s *RoomService) CreateRoom(ctx context.Context, room *models.Room, scope auth.AccessScope, actor string) error {
	if err := s.validateRoom(room); err != nil {
		return err
	}
	if !scope.Allows(room.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return err
	}

	s.publisher.Tenant(room.HostelID, events.TypeRoomAdded, actor, map[string]interface{}{
		"room_id":     room.ID,
		"room_number": room.RoomNumber,
	})
	return nil
}

// GetRoom retrieves one room within the scope
func (s *RoomService) GetRoom(ctx context.Context, id int64, scope auth.AccessScope) (*models.Room, error) {
	return s.roomRepo.GetByID(ctx, id, scope)
}

// ListRooms retrieves rooms within the scope
func (s *RoomService) ListRooms(ctx context.Context, scope auth.AccessScope) ([]models.Room, error) {
	return s.roomRepo.List(ctx, scope)
}

// ListAvailableRooms retrieves rooms that can take at least one more occupant
func (s *RoomService) ListAvailableRooms(ctx context.Context, scope auth.AccessScope) ([]models.Room, error) {
	return s.roomRepo.ListAvailable(ctx, scope, 1)
}

// UpdateRoom modifies a room's number, capacity and status. A capacity
// reduction below the live occupant count is rejected; the check and the
// write share a transaction with the row locked, so a concurrent placement
// cannot slip between them. Occupancy is recomputed afterwards because a
// capacity or status change can alter the derived status.
func (s *RoomService) UpdateRoom(ctx context.Context, room *models.Room, scope auth.AccessScope, actor string) (*models.Room, error) {
	var updated *models.Room
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.roomRepo.RoomForUpdate(ctx, room.ID)
		if err != nil {
			return err
		}
		if !scope.Allows(existing.HostelID) {
			return apperrors.ErrNotFoundOrDenied
		}

		room.HostelID = existing.HostelID
		if err := s.validateRoom(room); err != nil {
			return err
		}

		count, err := s.roomRepo.CountOccupants(ctx, room.ID)
		if err != nil {
			return err
		}
		if room.Capacity < count {
			return apperrors.ErrCapacityBelowOccupancy
		}

		if err := s.roomRepo.Update(ctx, room); err != nil {
			return err
		}

		updated, err = s.occupancy.RecomputeRoom(ctx, room.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Tenant(updated.HostelID, events.TypeRoomStatusChanged, actor, map[string]interface{}{
		"room_id":     updated.ID,
		"room_number": updated.RoomNumber,
		"status":      updated.Status,
	})
	return updated, nil
}

// BulkUpdateStatus sets a manual status on many rooms at once, then
// recomputes each one so rooms flipped back to Available settle into the
// correct derived status.
func (s *RoomService) BulkUpdateStatus(ctx context.Context, ids []int64, status models.RoomStatus, scope auth.AccessScope, actor string) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.NewValidationError("no room IDs supplied")
	}
	if !status.Valid() {
		return 0, apperrors.NewValidationError("unknown room status")
	}

	var updated int64
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.roomRepo.BulkUpdateStatus(ctx, scope, ids, status)
		if err != nil {
			return err
		}
		if !status.Manual() {
			for _, id := range ids {
				if _, err := s.occupancy.RecomputeRoom(ctx, id); err != nil {
					if apperrors.Is(err, apperrors.ErrNotFoundOrDenied) {
						continue
					}
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if scope.HostelID != nil {
		s.publisher.Tenant(*scope.HostelID, events.TypeRoomsBulkUpdated, actor, map[string]interface{}{
			"count":  updated,
			"status": status,
		})
	} else {
		s.publisher.Owners(events.TypeRoomsBulkUpdated, actor, map[string]interface{}{
			"count":  updated,
			"status": status,
		})
	}
	return updated, nil
}

// DeleteRoom removes an empty room. Rooms with occupants cannot be deleted.
func (s *RoomService) DeleteRoom(ctx context.Context, id int64, scope auth.AccessScope, actor string) error {
	room, err := s.roomRepo.GetByID(ctx, id, scope)
	if err != nil {
		return err
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		count, err := s.roomRepo.CountOccupants(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.NewConflictError("room has occupants and cannot be deleted")
		}
		return s.roomRepo.Delete(ctx, id, scope)
	})
	if err != nil {
		return err
	}

	s.publisher.Tenant(room.HostelID, events.TypeRoomDeleted, actor, map[string]interface{}{
		"room_id":     id,
		"room_number": room.RoomNumber,
	})
	return nil
}
