package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devrim/hostelhub/internal/app/auth"
	"github.com/devrim/hostelhub/internal/app/events"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

type studentFixture struct {
	svc      *StudentService
	rooms    *fakeRoomRepo
	students *fakeStudentRepo
	broker   *recordingBroker
}

func newStudentFixture(t *testing.T) *studentFixture {
	t.Helper()
	students := newFakeStudentRepo()
	rooms := newFakeRoomRepo(students)
	broker := &recordingBroker{}
	occupancy := NewOccupancyService(rooms, zerolog.Nop())
	svc := NewStudentService(passTx{}, students, rooms, occupancy, newTestPublisher(broker), zerolog.Nop())
	return &studentFixture{svc: svc, rooms: rooms, students: students, broker: broker}
}

func validStudent(hostelID int64, roomID *int64) *models.Student {
	return &models.Student{
		Name:            "Nikhil Rao",
		StudentIDNumber: "STU-2026-001",
		Email:           "nikhil@students.example",
		AdmissionDate:   time.Now().UTC(),
		HostelID:        hostelID,
		RoomID:          roomID,
	}
}

func TestCreateStudentPlacesIntoRoom(t *testing.T) {
	f := newStudentFixture(t)
	room := f.rooms.add(models.Room{RoomNumber: "A-101", Capacity: 2, HostelID: 1})

	err := f.svc.CreateStudent(context.Background(), validStudent(1, roomRef(room.ID)), auth.ScopeHostel(1), "manager.sunrise")
	require.NoError(t, err)

	updated, err := f.rooms.GetByID(context.Background(), room.ID, auth.ScopeAll())
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CurrentOccupancy)
	assert.Equal(t, models.RoomStatusAvailable, updated.Status)

	added := f.broker.byType(events.TypeStudentAdded)
	require.Len(t, added, 2) // tenant topic + owners
	assert.Equal(t, "manager.sunrise", added[0].Event.Actor)
}

func TestCreateStudentRoomAtCapacity(t *testing.T) {
	f := newStudentFixture(t)
	room := f.rooms.add(models.Room{RoomNumber: "A-101", Capacity: 1, HostelID: 1})
	f.students.add(models.Student{Name: "first", HostelID: 1, RoomID: roomRef(room.ID)})

	student := validStudent(1, roomRef(room.ID))
	err := f.svc.CreateStudent(context.Background(), student, auth.ScopeHostel(1), "manager")
	assert.ErrorIs(t, err, apperrors.ErrRoomAtCapacity)
}

func TestCreateStudentCrossTenantRoom(t *testing.T) {
	f := newStudentFixture(t)
	room := f.rooms.add(models.Room{RoomNumber: "Z-900", Capacity: 4, HostelID: 2})

	err := f.svc.CreateStudent(context.Background(), validStudent(1, roomRef(room.ID)), auth.ScopeHostel(1), "manager")
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrDenied)
}

func TestCreateStudentOutsideScope(t *testing.T) {
	f := newStudentFixture(t)
	err := f.svc.CreateStudent(context.Background(), validStudent(2, nil), auth.ScopeHostel(1), "manager")
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrDenied)
}

func TestTransferRoomRecomputesBothRooms(t *testing.T) {
	f := newStudentFixture(t)
	oldRoom := f.rooms.add(models.Room{RoomNumber: "A-101", Capacity: 1, HostelID: 1})
	newRoom := f.rooms.add(models.Room{RoomNumber: "A-102", Capacity: 2, HostelID: 1})

	student := validStudent(1, roomRef(oldRoom.ID))
	require.NoError(t, f.svc.CreateStudent(context.Background(), student, auth.ScopeHostel(1), "manager"))

	before, _ := f.rooms.GetByID(context.Background(), oldRoom.ID, auth.ScopeAll())
	require.Equal(t, models.RoomStatusFull, before.Status)

	_, err := f.svc.TransferRoom(context.Background(), student.ID, roomRef(newRoom.ID), auth.ScopeHostel(1), "manager")
	require.NoError(t, err)

	freed, _ := f.rooms.GetByID(context.Background(), oldRoom.ID, auth.ScopeAll())
	assert.Equal(t, 0, freed.CurrentOccupancy)
	assert.Equal(t, models.RoomStatusAvailable, freed.Status)

	target, _ := f.rooms.GetByID(context.Background(), newRoom.ID, auth.ScopeAll())
	assert.Equal(t, 1, target.CurrentOccupancy)

	transfers := f.broker.byType(events.TypeStudentRoomTransfer)
	require.NotEmpty(t, transfers)
	assert.Equal(t, oldRoom.ID, transfers[0].Event.Payload["from_room_id"])
}

func TestTransferRoomToFullRoomFails(t *testing.T) {
	f := newStudentFixture(t)
	full := f.rooms.add(models.Room{RoomNumber: "A-101", Capacity: 1, HostelID: 1})
	f.students.add(models.Student{Name: "first", HostelID: 1, RoomID: roomRef(full.ID)})

	student := validStudent(1, nil)
	require.NoError(t, f.svc.CreateStudent(context.Background(), student, auth.ScopeHostel(1), "manager"))

	_, err := f.svc.TransferRoom(context.Background(), student.ID, roomRef(full.ID), auth.ScopeHostel(1), "manager")
	assert.ErrorIs(t, err, apperrors.ErrRoomAtCapacity)

	// Placement unchanged.
	unchanged, _ := f.students.GetByID(context.Background(), student.ID, auth.ScopeAll())
	assert.Nil(t, unchanged.RoomID)
}

func TestTransferRoomToNilChecksOut(t *testing.T) {
	f := newStudentFixture(t)
	room := f.rooms.add(models.Room{RoomNumber: "A-101", Capacity: 1, HostelID: 1})

	student := validStudent(1, roomRef(room.ID))
	require.NoError(t, f.svc.CreateStudent(context.Background(), student, auth.ScopeHostel(1), "manager"))

	_, err := f.svc.TransferRoom(context.Background(), student.ID, nil, auth.ScopeHostel(1), "manager")
	require.NoError(t, err)

	freed, _ := f.rooms.GetByID(context.Background(), room.ID, auth.ScopeAll())
	assert.Equal(t, 0, freed.CurrentOccupancy)
	assert.Equal(t, models.RoomStatusAvailable, freed.Status)
}

func TestDeleteStudentFreesRoomSpot(t *testing.T) {
	f := newStudentFixture(t)
	room := f.rooms.add(models.Room{RoomNumber: "A-101", Capacity: 1, HostelID: 1})

	student := validStudent(1, roomRef(room.ID))
	require.NoError(t, f.svc.CreateStudent(context.Background(), student, auth.ScopeHostel(1), "manager"))

	require.NoError(t, f.svc.DeleteStudent(context.Background(), student.ID, auth.ScopeHostel(1), "manager"))

	freed, _ := f.rooms.GetByID(context.Background(), room.ID, auth.ScopeAll())
	assert.Equal(t, 0, freed.CurrentOccupancy)
	assert.Equal(t, models.RoomStatusAvailable, freed.Status)
}

func TestStudentInvisibleAcrossTenants(t *testing.T) {
	f := newStudentFixture(t)
	student := validStudent(1, nil)
	require.NoError(t, f.svc.CreateStudent(context.Background(), student, auth.ScopeHostel(1), "manager"))

	_, err := f.svc.GetStudent(context.Background(), student.ID, auth.ScopeHostel(2))
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrDenied)

	err = f.svc.DeleteStudent(context.Background(), student.ID, auth.ScopeHostel(2), "other")
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrDenied)
}
