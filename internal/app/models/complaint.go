package models

import "time"

// Complaint defines the complaint model based on the 'complaints' table
type Complaint struct {
	ID              int64             `json:"id" db:"id" example:"1"`
	RoomID          *int64            `json:"roomId,omitempty" db:"room_id" example:"101"`
	ReportedByID    *int64            `json:"reportedById,omitempty" db:"reported_by_id" example:"1"`
	Description     string            `json:"description" db:"description" example:"Leaking tap in bathroom"`
	Priority        ComplaintPriority `json:"priority" db:"priority" example:"Medium"`
	Status          ComplaintStatus   `json:"status" db:"status" example:"Pending"`
	ReportDate      time.Time         `json:"reportDate" db:"report_date"`
	ResolutionDate  *time.Time        `json:"resolutionDate,omitempty" db:"resolution_date"`
	ResolutionNotes string            `json:"resolutionNotes,omitempty" db:"resolution_notes"`
	HostelID        int64             `json:"hostelId" db:"hostel_id" example:"1"`

	RoomNumber string `json:"roomNumber,omitempty"` // Joined column, no db tag
}
