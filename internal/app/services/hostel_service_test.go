package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

type hostelFixture struct {
	svc     *HostelService
	hostels *fakeHostelRepo
	broker  *recordingBroker
}

func newHostelFixture(t *testing.T) *hostelFixture {
	t.Helper()
	hostels := newFakeHostelRepo()
	broker := &recordingBroker{}
	svc := NewHostelService(hostels, newTestPublisher(broker), zerolog.Nop())
	return &hostelFixture{svc: svc, hostels: hostels, broker: broker}
}

func TestDeleteHostelWithDependentsRefused(t *testing.T) {
	f := newHostelFixture(t)
	hostel := f.hostels.add(models.Hostel{Name: "Sunrise Hostel"})
	f.hostels.setDependents(hostel.ID, true)

	err := f.svc.DeleteHostel(context.Background(), hostel.ID)
	assert.ErrorIs(t, err, apperrors.ErrHostelHasRelations)

	kept, getErr := f.hostels.GetByID(context.Background(), hostel.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "Sunrise Hostel", kept.Name)
}

func TestDeleteEmptyHostel(t *testing.T) {
	f := newHostelFixture(t)
	hostel := f.hostels.add(models.Hostel{Name: "Sunrise Hostel"})

	require.NoError(t, f.svc.DeleteHostel(context.Background(), hostel.ID))

	_, err := f.hostels.GetByID(context.Background(), hostel.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrDenied)
}

func TestDeleteUnknownHostel(t *testing.T) {
	f := newHostelFixture(t)

	err := f.svc.DeleteHostel(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrDenied)
}

func TestCreateHostelDuplicateName(t *testing.T) {
	f := newHostelFixture(t)
	f.hostels.add(models.Hostel{Name: "Sunrise Hostel"})

	err := f.svc.CreateHostel(context.Background(),
		&models.Hostel{Name: "Sunrise Hostel", Address: "12 College Road"}, "owner")
	assert.ErrorIs(t, err, apperrors.ErrHostelNameExists)
}
