package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devrim/hostelhub/internal/app/models"
)

func occupancyFixture(t *testing.T) (*OccupancyService, *fakeRoomRepo, *fakeStudentRepo) {
	t.Helper()
	students := newFakeStudentRepo()
	rooms := newFakeRoomRepo(students)
	return NewOccupancyService(rooms, zerolog.Nop()), rooms, students
}

func roomRef(id int64) *int64 { return &id }

func TestRecomputeRoomDerivesStatus(t *testing.T) {
	tests := []struct {
		name       string
		capacity   int
		occupants  int
		initial    models.RoomStatus
		wantStatus models.RoomStatus
	}{
		{"empty room is available", 4, 0, models.RoomStatusFull, models.RoomStatusAvailable},
		{"partial room is available", 4, 2, models.RoomStatusFull, models.RoomStatusAvailable},
		{"full room is full", 2, 2, models.RoomStatusAvailable, models.RoomStatusFull},
		{"single bed at capacity", 1, 1, models.RoomStatusAvailable, models.RoomStatusFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rooms, students := occupancyFixture(t)
			room := rooms.add(models.Room{RoomNumber: "A-101", Capacity: tt.capacity, Status: tt.initial, HostelID: 1})
			for i := 0; i < tt.occupants; i++ {
				students.add(models.Student{Name: "s", HostelID: 1, RoomID: roomRef(room.ID)})
			}

			updated, err := svc.RecomputeRoom(context.Background(), room.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.occupants, updated.CurrentOccupancy)
			assert.Equal(t, tt.wantStatus, updated.Status)
		})
	}
}

func TestRecomputeRoomKeepsManualStatus(t *testing.T) {
	for _, status := range []models.RoomStatus{
		models.RoomStatusMaintenance,
		models.RoomStatusReserved,
		models.RoomStatusOutOfOrder,
	} {
		t.Run(string(status), func(t *testing.T) {
			svc, rooms, students := occupancyFixture(t)
			room := rooms.add(models.Room{RoomNumber: "B-201", Capacity: 2, Status: status, HostelID: 1})
			students.add(models.Student{Name: "s1", HostelID: 1, RoomID: roomRef(room.ID)})
			students.add(models.Student{Name: "s2", HostelID: 1, RoomID: roomRef(room.ID)})

			updated, err := svc.RecomputeRoom(context.Background(), room.ID)
			require.NoError(t, err)
			// Occupancy tracks the truth even while the status is pinned.
			assert.Equal(t, 2, updated.CurrentOccupancy)
			assert.Equal(t, status, updated.Status)
		})
	}
}

func TestRecomputeRoomUnknownRoom(t *testing.T) {
	svc, _, _ := occupancyFixture(t)
	_, err := svc.RecomputeRoom(context.Background(), 999)
	assert.Error(t, err)
}
