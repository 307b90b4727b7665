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

type complaintFixture struct {
	svc        *ComplaintService
	complaints *fakeComplaintRepo
	rooms      *fakeRoomRepo
	broker     *recordingBroker
}

func newComplaintFixture(t *testing.T) *complaintFixture {
	t.Helper()
	complaints := newFakeComplaintRepo()
	rooms := newFakeRoomRepo(newFakeStudentRepo())
	broker := &recordingBroker{}
	svc := NewComplaintService(complaints, rooms, newTestPublisher(broker), zerolog.Nop())
	return &complaintFixture{svc: svc, complaints: complaints, rooms: rooms, broker: broker}
}

func (f *complaintFixture) update(t *testing.T, complaint models.Complaint) *models.Complaint {
	t.Helper()
	require.NoError(t, f.svc.UpdateComplaint(context.Background(), &complaint, auth.ScopeHostel(1), "manager"))
	updated, err := f.complaints.GetByID(context.Background(), complaint.ID, auth.ScopeHostel(1))
	require.NoError(t, err)
	return updated
}

func TestResolvingComplaintStampsResolutionDate(t *testing.T) {
	f := newComplaintFixture(t)
	complaint := f.complaints.add(models.Complaint{
		Description: "Leaking tap",
		Priority:    models.ComplaintPriorityMedium,
		Status:      models.ComplaintStatusPending,
		HostelID:    1,
	})

	resolved := f.update(t, models.Complaint{
		ID:              complaint.ID,
		Description:     "Leaking tap",
		Priority:        models.ComplaintPriorityMedium,
		Status:          models.ComplaintStatusResolved,
		ResolutionNotes: "Washer replaced",
	})

	require.NotNil(t, resolved.ResolutionDate)
	assert.Equal(t, "Washer replaced", resolved.ResolutionNotes)
}

func TestClosingResolvedComplaintKeepsOriginalResolutionDate(t *testing.T) {
	f := newComplaintFixture(t)
	complaint := f.complaints.add(models.Complaint{
		Description: "Leaking tap",
		Priority:    models.ComplaintPriorityMedium,
		Status:      models.ComplaintStatusPending,
		HostelID:    1,
	})

	resolved := f.update(t, models.Complaint{
		ID:          complaint.ID,
		Description: "Leaking tap",
		Priority:    models.ComplaintPriorityMedium,
		Status:      models.ComplaintStatusResolved,
	})
	require.NotNil(t, resolved.ResolutionDate)

	closed := f.update(t, models.Complaint{
		ID:          complaint.ID,
		Description: "Leaking tap",
		Priority:    models.ComplaintPriorityMedium,
		Status:      models.ComplaintStatusClosed,
	})
	require.NotNil(t, closed.ResolutionDate)
	assert.Equal(t, *resolved.ResolutionDate, *closed.ResolutionDate)
}

func TestReopeningComplaintClearsResolutionDate(t *testing.T) {
	f := newComplaintFixture(t)
	complaint := f.complaints.add(models.Complaint{
		Description: "Leaking tap",
		Priority:    models.ComplaintPriorityMedium,
		Status:      models.ComplaintStatusPending,
		HostelID:    1,
	})

	resolved := f.update(t, models.Complaint{
		ID:          complaint.ID,
		Description: "Leaking tap",
		Priority:    models.ComplaintPriorityMedium,
		Status:      models.ComplaintStatusResolved,
	})
	require.NotNil(t, resolved.ResolutionDate)

	reopened := f.update(t, models.Complaint{
		ID:          complaint.ID,
		Description: "Leaking tap",
		Priority:    models.ComplaintPriorityMedium,
		Status:      models.ComplaintStatusInProgress,
	})
	assert.Nil(t, reopened.ResolutionDate)
}

func TestUpdateComplaintUnknownStatus(t *testing.T) {
	f := newComplaintFixture(t)
	complaint := f.complaints.add(models.Complaint{
		Description: "Leaking tap",
		Priority:    models.ComplaintPriorityMedium,
		Status:      models.ComplaintStatusPending,
		HostelID:    1,
	})

	err := f.svc.UpdateComplaint(context.Background(), &models.Complaint{
		ID:          complaint.ID,
		Description: "Leaking tap",
		Priority:    models.ComplaintPriorityMedium,
		Status:      models.ComplaintStatus("Done"),
	}, auth.ScopeHostel(1), "manager")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateComplaintCrossTenantLooksMissing(t *testing.T) {
	f := newComplaintFixture(t)
	complaint := f.complaints.add(models.Complaint{
		Description: "Leaking tap",
		Priority:    models.ComplaintPriorityMedium,
		Status:      models.ComplaintStatusPending,
		HostelID:    2,
	})

	err := f.svc.UpdateComplaint(context.Background(), &models.Complaint{
		ID:          complaint.ID,
		Description: "Leaking tap",
		Priority:    models.ComplaintPriorityMedium,
		Status:      models.ComplaintStatusResolved,
	}, auth.ScopeHostel(1), "manager")
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrDenied)
}
