package dto

import (
	"time"

	"github.com/devrim/hostelhub/internal/app/models"
)

// StudentDetailsRequest represents the extended student profile
type StudentDetailsRequest struct {
	HomeAddress           string `json:"homeAddress"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	ZipCode               string `json:"zipCode"`
	ParentName            string `json:"parentName"`
	ParentContact         string `json:"parentContact"`
	EmergencyContactName  string `json:"emergencyContactName"`
	EmergencyContactPhone string `json:"emergencyContactPhone"`
	AdditionalNotes       string `json:"additionalNotes"`
}

// ToModel maps the request to the details model
func (r *StudentDetailsRequest) ToModel(studentID int64) *models.StudentDetails {
	return &models.StudentDetails{
		StudentID:             studentID,
		HomeAddress:           r.HomeAddress,
		City:                  r.City,
		State:                 r.State,
		ZipCode:               r.ZipCode,
		ParentName:            r.ParentName,
		ParentContact:         r.ParentContact,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		AdditionalNotes:       r.AdditionalNotes,
	}
}

// CreateStudentRequest represents a new student admission
type CreateStudentRequest struct {
	Name                 string                 `json:"name" binding:"required" example:"Nikhil Rao"`
	StudentIDNumber      string                 `json:"studentIdNumber" binding:"required" example:"STU-2026-017"`
	Contact              string                 `json:"contact" example:"+91-9811111111"`
	Email                string                 `json:"email" binding:"required,email" example:"nikhil@students.example"`
	AdmissionDate        time.Time              `json:"admissionDate" binding:"required"`
	ExpectedCheckoutDate *time.Time             `json:"expectedCheckoutDate,omitempty"`
	Course               string                 `json:"course" example:"B.Tech CSE"`
	RoomID               *int64                 `json:"roomId,omitempty" example:"101"`
	HostelID             int64                  `json:"hostelId" binding:"required" example:"1"`
	Details              *StudentDetailsRequest `json:"details,omitempty"`
}

// UpdateStudentRequest represents student changes. Room placement is
// excluded; the transfer endpoint handles it.
type UpdateStudentRequest struct {
	Name                 string                 `json:"name" binding:"required"`
	StudentIDNumber      string                 `json:"studentIdNumber" binding:"required"`
	Contact              string                 `json:"contact"`
	Email                string                 `json:"email" binding:"required,email"`
	AdmissionDate        time.Time              `json:"admissionDate" binding:"required"`
	ExpectedCheckoutDate *time.Time             `json:"expectedCheckoutDate,omitempty"`
	Course               string                 `json:"course"`
	Details              *StudentDetailsRequest `json:"details,omitempty"`
}

// TransferRoomRequest represents a room transfer. A nil room checks the
// student out of any room.
type TransferRoomRequest struct {
	RoomID *int64 `json:"roomId"`
}
