package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/repositories"
)

// OccupancyService is the sole writer of a room's derived occupancy fields.
// Every mutation that touches a room's occupant set ends with a recompute;
// the stored current_occupancy and status are never edited directly.
type OccupancyService struct {
	roomRepo repositories.IRoomRepository
	logger   zerolog.Logger
}

// NewOccupancyService creates a new occupancy service instance
func NewOccupancyService(roomRepo repositories.IRoomRepository, logger zerolog.Logger) *OccupancyService {
	return &OccupancyService{roomRepo: roomRepo, logger: logger}
}

// RecomputeRoom recounts a room's occupants and stores the derived
// occupancy and status. Must run inside the same transaction as the
// mutation that changed the occupant set; the room row is locked for the
// duration so concurrent recomputes serialize.
//
// Manual statuses (Maintenance, Reserved, Out of Order) survive the
// recompute untouched. Otherwise a room with no occupants is Available,
// a room at capacity is Full, and anything in between stays Available.
func (s *OccupancyService) RecomputeRoom(ctx context.Context, roomID int64) (*models.Room, error) {
	room, err := s.roomRepo.RoomForUpdate(ctx, roomID)
	if err != nil {
		return nil, err
	}

	count, err := s.roomRepo.CountOccupants(ctx, roomID)
	if err != nil {
		return nil, err
	}

	status := room.Status
	if !room.Status.Manual() {
		switch {
		case count == 0:
			status = models.RoomStatusAvailable
		case count >= room.Capacity:
			status = models.RoomStatusFull
		default:
			status = models.RoomStatusAvailable
		}
	}

	if count == room.CurrentOccupancy && status == room.Status {
		return room, nil
	}

	if err := s.roomRepo.SetOccupancy(ctx, roomID, count, status); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("roomID", roomID).
		Int("occupancy", count).
		Str("status", string(status)).
		Msg("Room occupancy recomputed")

	room.CurrentOccupancy = count
	room.Status = status
	return room, nil
}
