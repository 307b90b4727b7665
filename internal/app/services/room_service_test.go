package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devrim/hostelhub/internal/app/auth"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

type roomFixture struct {
	svc      *RoomService
	rooms    *fakeRoomRepo
	students *fakeStudentRepo
	broker   *recordingBroker
}

func newRoomFixture(t *testing.T) *roomFixture {
	t.Helper()
	students := newFakeStudentRepo()
	rooms := newFakeRoomRepo(students)
	broker := &recordingBroker{}
	occupancy := NewOccupancyService(rooms, zerolog.Nop())
	svc := NewRoomService(passTx{}, rooms, occupancy, newTestPublisher(broker), zerolog.Nop())
	return &roomFixture{svc: svc, rooms: rooms, students: students, broker: broker}
}

func TestCreateRoomValidation(t *testing.T) {
	f := newRoomFixture(t)
	tests := []struct {
		name string
		room *models.Room
	}{
		{"empty number", &models.Room{Capacity: 2, HostelID: 1}},
		{"zero capacity", &models.Room{RoomNumber: "A-1", Capacity: 0, HostelID: 1}},
		{"capacity over limit", &models.Room{RoomNumber: "A-1", Capacity: models.MaxRoomCapacity + 1, HostelID: 1}},
		{"missing hostel", &models.Room{RoomNumber: "A-1", Capacity: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.CreateRoom(context.Background(), tt.room, auth.ScopeAll(), "owner")
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestUpdateRoomCapacityBelowOccupancy(t *testing.T) {
	f := newRoomFixture(t)
	room := f.rooms.add(models.Room{RoomNumber: "A-101", Capacity: 3, HostelID: 1})
	f.students.add(models.Student{Name: "s1", HostelID: 1, RoomID: roomRef(room.ID)})
	f.students.add(models.Student{Name: "s2", HostelID: 1, RoomID: roomRef(room.ID)})

	update := &models.Room{ID: room.ID, RoomNumber: "A-101", Capacity: 1, Status: models.RoomStatusAvailable, HostelID: 1}
	_, err := f.svc.UpdateRoom(context.Background(), update, auth.ScopeHostel(1), "manager")
	assert.ErrorIs(t, err, apperrors.ErrCapacityBelowOccupancy)

	// The room kept its capacity.
	unchanged, _ := f.rooms.GetByID(context.Background(), room.ID, auth.ScopeAll())
	assert.Equal(t, 3, unchanged.Capacity)
}

func TestUpdateRoomShrinkToExactOccupancyBecomesFull(t *testing.T) {
	f := newRoomFixture(t)
	room := f.rooms.add(models.Room{RoomNumber: "A-101", Capacity: 4, HostelID: 1})
	f.students.add(models.Student{Name: "s1", HostelID: 1, RoomID: roomRef(room.ID)})
	f.students.add(models.Student{Name: "s2", HostelID: 1, RoomID: roomRef(room.ID)})

	update := &models.Room{ID: room.ID, RoomNumber: "A-101", Capacity: 2, Status: models.RoomStatusAvailable, HostelID: 1}
	updated, err := f.svc.UpdateRoom(context.Background(), update, auth.ScopeHostel(1), "manager")
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusFull, updated.Status)
	assert.Equal(t, 2, updated.CurrentOccupancy)
}

func TestUpdateRoomGrowingFullRoomReopens(t *testing.T) {
	f := newRoomFixture(t)
	room := f.rooms.add(models.Room{RoomNumber: "A-101", Capacity: 1, Status: models.RoomStatusFull, HostelID: 1})
	f.students.add(models.Student{Name: "s1", HostelID: 1, RoomID: roomRef(room.ID)})

	update := &models.Room{ID: room.ID, RoomNumber: "A-101", Capacity: 3, Status: models.RoomStatusFull, HostelID: 1}
	updated, err := f.svc.UpdateRoom(context.Background(), update, auth.ScopeHostel(1), "manager")
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, updated.Status)
}

func TestUpdateRoomOutsideScope(t *testing.T) {
	f := newRoomFixture(t)
	room := f.rooms.add(models.Room{RoomNumber: "Z-1", Capacity: 2, HostelID: 2})

	update := &models.Room{ID: room.ID, RoomNumber: "Z-1", Capacity: 2, Status: models.RoomStatusAvailable, HostelID: 2}
	_, err := f.svc.UpdateRoom(context.Background(), update, auth.ScopeHostel(1), "manager")
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrDenied)
}

func TestBulkUpdateStatusRecomputesWhenReopening(t *testing.T) {
	f := newRoomFixture(t)
	full := f.rooms.add(models.Room{RoomNumber: "A-1", Capacity: 1, Status: models.RoomStatusMaintenance, HostelID: 1})
	empty := f.rooms.add(models.Room{RoomNumber: "A-2", Capacity: 2, Status: models.RoomStatusMaintenance, HostelID: 1})
	f.students.add(models.Student{Name: "s1", HostelID: 1, RoomID: roomRef(full.ID)})

	updated, err := f.svc.BulkUpdateStatus(context.Background(), []int64{full.ID, empty.ID}, models.RoomStatusAvailable, auth.ScopeHostel(1), "manager")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	// Reopened rooms settle into the derived status, not a blanket Available.
	r1, _ := f.rooms.GetByID(context.Background(), full.ID, auth.ScopeAll())
	assert.Equal(t, models.RoomStatusFull, r1.Status)
	r2, _ := f.rooms.GetByID(context.Background(), empty.ID, auth.ScopeAll())
	assert.Equal(t, models.RoomStatusAvailable, r2.Status)
}

func TestDeleteRoomWithOccupantsRefused(t *testing.T) {
	f := newRoomFixture(t)
	room := f.rooms.add(models.Room{RoomNumber: "A-101", Capacity: 2, HostelID: 1})
	f.students.add(models.Student{Name: "s1", HostelID: 1, RoomID: roomRef(room.ID)})

	err := f.svc.DeleteRoom(context.Background(), room.ID, auth.ScopeHostel(1), "manager")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.rooms.GetByID(context.Background(), room.ID, auth.ScopeAll())
	assert.NoError(t, err)
}

func TestDeleteEmptyRoom(t *testing.T) {
	f := newRoomFixture(t)
	room := f.rooms.add(models.Room{RoomNumber: "A-101", Capacity: 2, HostelID: 1})

	require.NoError(t, f.svc.DeleteRoom(context.Background(), room.ID, auth.ScopeHostel(1), "manager"))

	_, err := f.rooms.GetByID(context.Background(), room.ID, auth.ScopeAll())
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrDenied)
}
