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

// StudentService handles student lifecycle and room placement. Placement
// changes run inside a transaction together with the occupancy recompute of
// every affected room, so derived room state never drifts from the truth.
type StudentService struct {
	tx          TxRunner
	studentRepo repositories.IStudentRepository
	roomRepo    repositories.IRoomRepository
	occupancy   *OccupancyService
	publisher   *events.Publisher
	logger      zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(
	tx TxRunner,
	studentRepo repositories.IStudentRepository,
	roomRepo repositories.IRoomRepository,
	occupancy *OccupancyService,
	publisher *events.Publisher,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		tx:          tx,
		studentRepo: studentRepo,
		roomRepo:    roomRepo,
		occupancy:   occupancy,
		publisher:   publisher,
		logger:      logger,
	}
}

// validateStudent validates student data before database operations
func (s *StudentService) validateStudent(student *models.Student) error {
	if student == nil {
		return apperrors.NewValidationError("student is nil")
	}
	if strings.TrimSpace(student.Name) == "" {
		return apperrors.NewValidationError("name cannot be empty")
	}
	if strings.TrimSpace(student.StudentIDNumber) == "" {
		return apperrors.NewValidationError("student ID number cannot be empty")
	}
	if strings.TrimSpace(student.Email) == "" {
		return apperrors.NewValidationError("email cannot be empty")
	}
	if student.HostelID <= 0 {
		return apperrors.NewValidationError("hostel ID must be positive")
	}
	if student.AdmissionDate.IsZero() {
		return apperrors.NewValidationError("admission date is required")
	}
	return nil
}

// claimRoomSpot locks the target room and verifies it can take one more
// occupant from the student's hostel. Must run inside a transaction.
func (s *StudentService) claimRoomSpot(ctx context.Context, roomID, hostelID int64) error {
	room, err := s.roomRepo.RoomForUpdate(ctx, roomID)
	if err != nil {
		return err
	}
	if room.HostelID != hostelID {
		// A room in another hostel is indistinguishable from a missing one.
		return apperrors.ErrNotFoundOrDenied
	}
	count, err := s.roomRepo.CountOccupants(ctx, roomID)
	if err != nil {
		return err
	}
	if count >= room.Capacity {
		return apperrors.ErrRoomAtCapacity
	}
	return nil
}

// CreateStudent registers a student, optionally placing them in a room.
// The placement and the room's recompute commit atomically with the insert.
func (s *StudentService) CreateStudent(ctx context.Context, student *models.Student, scope auth.AccessScope, actor string) error {
	if err := s.validateStudent(student); err != nil {
		return err
	}
	if !scope.Allows(student.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if student.RoomID != nil {
			if err := s.claimRoomSpot(ctx, *student.RoomID, student.HostelID); err != nil {
				return err
			}
		}
		if err := s.studentRepo.Create(ctx, student); err != nil {
			return err
		}
		if student.Details != nil {
			student.Details.StudentID = student.ID
			if err := s.studentRepo.UpsertDetails(ctx, student.Details); err != nil {
				return err
			}
		}
		if student.RoomID != nil {
			if _, err := s.occupancy.RecomputeRoom(ctx, *student.RoomID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.Tenant(student.HostelID, events.TypeStudentAdded, actor, map[string]interface{}{
		"student_id": student.ID,
		"name":       student.Name,
	})
	return nil
}

// GetStudent retrieves one student with their extended profile
func (s *StudentService) GetStudent(ctx context.Context, id int64, scope auth.AccessScope) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	details, err := s.studentRepo.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	student.Details = details
	return student, nil
}

// ListStudents retrieves students within the scope
func (s *StudentService) ListStudents(ctx context.Context, scope auth.AccessScope) ([]models.Student, error) {
	return s.studentRepo.List(ctx, scope)
}

// UpdateStudent modifies a student's own attributes. Room placement is not
// touched here; TransferRoom is the only way to move a student.
func (s *StudentService) UpdateStudent(ctx context.Context, student *models.Student, scope auth.AccessScope, actor string) error {
	if err := s.validateStudent(student); err != nil {
		return err
	}

	existing, err := s.studentRepo.GetByID(ctx, student.ID, scope)
	if err != nil {
		return err
	}
	// The hostel a student belongs to is fixed at admission.
	student.HostelID = existing.HostelID

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.studentRepo.Update(ctx, student, scope); err != nil {
			return err
		}
		if student.Details != nil {
			student.Details.StudentID = student.ID
			if err := s.studentRepo.UpsertDetails(ctx, student.Details); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.Tenant(student.HostelID, events.TypeStudentUpdated, actor, map[string]interface{}{
		"student_id": student.ID,
		"name":       student.Name,
	})
	return nil
}

// TransferRoom moves a student between rooms, or out of any room when
// roomID is nil. Both affected rooms are recomputed in the same transaction.
func (s *StudentService) TransferRoom(ctx context.Context, studentID int64, roomID *int64, scope auth.AccessScope, actor string) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID, scope)
	if err != nil {
		return nil, err
	}

	oldRoomID := student.RoomID
	if equalRoomIDs(oldRoomID, roomID) {
		return student, nil
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if roomID != nil {
			if err := s.claimRoomSpot(ctx, *roomID, student.HostelID); err != nil {
				return err
			}
		}
		if err := s.studentRepo.SetRoom(ctx, studentID, roomID, scope); err != nil {
			return err
		}
		for _, id := range orderedRoomIDs(oldRoomID, roomID) {
			if _, err := s.occupancy.RecomputeRoom(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	student.RoomID = roomID
	payload := map[string]interface{}{
		"student_id": studentID,
		"name":       student.Name,
	}
	if oldRoomID != nil {
		payload["from_room_id"] = *oldRoomID
	}
	if roomID != nil {
		payload["to_room_id"] = *roomID
	}
	s.publisher.Tenant(student.HostelID, events.TypeStudentRoomTransfer, actor, payload)
	return student, nil
}

// DeleteStudent removes a student and frees their room spot
func (s *StudentService) DeleteStudent(ctx context.Context, id int64, scope auth.AccessScope, actor string) error {
	student, err := s.studentRepo.GetByID(ctx, id, scope)
	if err != nil {
		return err
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.studentRepo.Delete(ctx, id, scope); err != nil {
			return err
		}
		if student.RoomID != nil {
			if _, err := s.occupancy.RecomputeRoom(ctx, *student.RoomID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.Tenant(student.HostelID, events.TypeStudentDeleted, actor, map[string]interface{}{
		"student_id": id,
		"name":       student.Name,
	})
	return nil
}

// UpdateDetails replaces a student's extended profile
func (s *StudentService) UpdateDetails(ctx context.Context, studentID int64, details *models.StudentDetails, scope auth.AccessScope) error {
	if details == nil {
		return apperrors.NewValidationError("details are required")
	}
	// Scope check rides on the student lookup.
	if _, err := s.studentRepo.GetByID(ctx, studentID, scope); err != nil {
		return err
	}
	details.StudentID = studentID
	return s.studentRepo.UpsertDetails(ctx, details)
}

func equalRoomIDs(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// orderedRoomIDs returns the distinct non-nil ids in ascending order.
func orderedRoomIDs(a, b *int64) []int64 {
	var ids []int64
	if a != nil {
		ids = append(ids, *a)
	}
	if b != nil && (a == nil || *b != *a) {
		ids = append(ids, *b)
	}
	if len(ids) == 2 && ids[0] > ids[1] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return ids
}
