package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID                   int64      `json:"id" db:"id" example:"1"`
	Name                 string     `json:"name" db:"name" example:"Nikhil Rao"`
	StudentIDNumber      string     `json:"studentIdNumber" db:"student_id_number" example:"STU-2024-017"`
	Contact              string     `json:"contact" db:"contact" example:"+91-9811111111"`
	Email                string     `json:"email" db:"email" example:"nikhil@students.example"`
	AdmissionDate        time.Time  `json:"admissionDate" db:"admission_date"`
	ExpectedCheckoutDate *time.Time `json:"expectedCheckoutDate,omitempty" db:"expected_checkout_date"`
	Course               string     `json:"course" db:"course" example:"B.Tech CSE"`
	RoomID               *int64     `json:"roomId,omitempty" db:"room_id" example:"101"`
	HostelID             int64      `json:"hostelId" db:"hostel_id" example:"1"`

	RoomNumber string `json:"roomNumber,omitempty"` // Joined column, no db tag
	HostelName string `json:"hostelName,omitempty"` // Joined column, no db tag

	Details *StudentDetails `json:"details,omitempty"` // Relation, no db tag
}

// StudentDetails defines the extended profile based on the 'student_details' table
type StudentDetails struct {
	StudentID             int64  `json:"studentId" db:"student_id"`
	HomeAddress           string `json:"homeAddress" db:"home_address"`
	City                  string `json:"city" db:"city"`
	State                 string `json:"state" db:"state"`
	ZipCode               string `json:"zipCode" db:"zip_code"`
	ParentName            string `json:"parentName" db:"parent_name"`
	ParentContact         string `json:"parentContact" db:"parent_contact"`
	EmergencyContactName  string `json:"emergencyContactName" db:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergencyContactPhone" db:"emergency_contact_phone"`
	AdditionalNotes       string `json:"additionalNotes" db:"additional_notes"`
}
