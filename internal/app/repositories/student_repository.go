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

// IStudentRepository defines the interface for student database operations
type IStudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Student, error)
	List(ctx context.Context, scope auth.AccessScope) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student, scope auth.AccessScope) error
	Delete(ctx context.Context, id int64, scope auth.AccessScope) error
	SetRoom(ctx context.Context, studentID int64, roomID *int64, scope auth.AccessScope) error
	UpsertDetails(ctx context.Context, details *models.StudentDetails) error
	GetDetails(ctx context.Context, studentID int64) (*models.StudentDetails, error)
	Count(ctx context.Context, scope auth.AccessScope) (int64, error)
}

// StudentRepository handles student database operations
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func mapStudentUniqueErr(err error) error {
	switch {
	case isUniqueViolation(err, "students_student_id_number_key"):
		return apperrors.ErrStudentIDExists
	case isUniqueViolation(err, "students_email_key"):
		return apperrors.ErrStudentEmailExists
	case isUniqueViolation(err, ""):
		return apperrors.ErrResourceAlreadyExists
	}
	return nil
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	q := db.QuerierFrom(ctx, r.pool)
	err := q.QueryRow(ctx, `
		INSERT INTO students (name, student_id_number, contact, email, admission_date,
		                      expected_checkout_date, course, room_id, hostel_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		student.Name, student.StudentIDNumber, student.Contact, student.Email,
		student.AdmissionDate, student.ExpectedCheckoutDate, student.Course,
		student.RoomID, student.HostelID).Scan(&student.ID)

	if err != nil {
		if mapped := mapStudentUniqueErr(err); mapped != nil {
			return mapped
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationError("room or hostel does not exist")
		}
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

const studentSelect = `
	SELECT s.id, s.name, s.student_id_number, s.contact, s.email, s.admission_date,
	       s.expected_checkout_date, s.course, s.room_id, s.hostel_id,
	       COALESCE(r.room_number, ''), h.name
	FROM students s
	LEFT JOIN rooms r ON r.id = s.room_id
	JOIN hostels h ON h.id = s.hostel_id`

func scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{}
	err := row.Scan(&student.ID, &student.Name, &student.StudentIDNumber, &student.Contact,
		&student.Email, &student.AdmissionDate, &student.ExpectedCheckoutDate,
		&student.Course, &student.RoomID, &student.HostelID,
		&student.RoomNumber, &student.HostelName)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// GetByID retrieves a student by ID within the scope
func (r *StudentRepository) GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Student, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := studentSelect + ` WHERE s.id = $1`
	args := []any{id}
	query, args = scoped(query, scope, "s.hostel_id", args)

	student, err := scanStudent(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFoundOrDenied
		}
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return student, nil
}

// List retrieves students within the scope
func (r *StudentRepository) List(ctx context.Context, scope auth.AccessScope) ([]models.Student, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := studentSelect + ` WHERE true`
	var args []any
	query, args = scoped(query, scope, "s.hostel_id", args)
	query += " ORDER BY s.name"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, *student)
	}
	return students, rows.Err()
}

// Update modifies a student's attributes except room assignment; SetRoom
// owns room moves so occupancy recomputes are never skipped.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student, scope auth.AccessScope) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		UPDATE students
		SET name = $1, student_id_number = $2, contact = $3, email = $4,
		    admission_date = $5, expected_checkout_date = $6, course = $7
		WHERE id = $8`
	args := []any{student.Name, student.StudentIDNumber, student.Contact, student.Email,
		student.AdmissionDate, student.ExpectedCheckoutDate, student.Course, student.ID}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if mapped := mapStudentUniqueErr(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// SetRoom changes the student's room assignment (nil checks the student out)
func (r *StudentRepository) SetRoom(ctx context.Context, studentID int64, roomID *int64, scope auth.AccessScope) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `UPDATE students SET room_id = $1 WHERE id = $2`
	args := []any{roomID, studentID}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationError("room does not exist")
		}
		return fmt.Errorf("error assigning room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// Delete removes a student within the scope. Fees and details cascade at
// the schema level.
func (r *StudentRepository) Delete(ctx context.Context, id int64, scope auth.AccessScope) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `DELETE FROM students WHERE id = $1`
	args := []any{id}
	query, args = scoped(query, scope, "hostel_id", args)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFoundOrDenied
	}
	return nil
}

// UpsertDetails inserts or replaces the student's extended profile
func (r *StudentRepository) UpsertDetails(ctx context.Context, details *models.StudentDetails) error {
	q := db.QuerierFrom(ctx, r.pool)
	_, err := q.Exec(ctx, `
		INSERT INTO student_details (student_id, home_address, city, state, zip_code,
		                             parent_name, parent_contact, emergency_contact_name,
		                             emergency_contact_phone, additional_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (student_id) DO UPDATE SET
			home_address = EXCLUDED.home_address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			parent_name = EXCLUDED.parent_name,
			parent_contact = EXCLUDED.parent_contact,
			emergency_contact_name = EXCLUDED.emergency_contact_name,
			emergency_contact_phone = EXCLUDED.emergency_contact_phone,
			additional_notes = EXCLUDED.additional_notes`,
		details.StudentID, details.HomeAddress, details.City, details.State,
		details.ZipCode, details.ParentName, details.ParentContact,
		details.EmergencyContactName, details.EmergencyContactPhone,
		details.AdditionalNotes)

	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrNotFoundOrDenied
		}
		return fmt.Errorf("error saving student details: %w", err)
	}
	return nil
}

// GetDetails retrieves the student's extended profile, nil when absent
func (r *StudentRepository) GetDetails(ctx context.Context, studentID int64) (*models.StudentDetails, error) {
	q := db.QuerierFrom(ctx, r.pool)
	details := &models.StudentDetails{}
	err := q.QueryRow(ctx, `
		SELECT student_id, home_address, city, state, zip_code, parent_name,
		       parent_contact, emergency_contact_name, emergency_contact_phone, additional_notes
		FROM student_details
		WHERE student_id = $1`,
		studentID).Scan(&details.StudentID, &details.HomeAddress, &details.City,
		&details.State, &details.ZipCode, &details.ParentName, &details.ParentContact,
		&details.EmergencyContactName, &details.EmergencyContactPhone, &details.AdditionalNotes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting student details: %w", err)
	}
	return details, nil
}

// Count returns the number of students within the scope
func (r *StudentRepository) Count(ctx context.Context, scope auth.AccessScope) (int64, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `SELECT COUNT(*) FROM students WHERE true`
	var args []any
	query, args = scoped(query, scope, "hostel_id", args)

	var count int64
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}
