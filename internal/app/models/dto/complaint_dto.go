package dto

import "github.com/devrim/hostelhub/internal/app/models"

// CreateComplaintRequest represents a new complaint
type CreateComplaintRequest struct {
	RoomID       *int64                   `json:"roomId,omitempty" example:"101"`
	ReportedByID *int64                   `json:"reportedById,omitempty" example:"1"`
	Description  string                   `json:"description" binding:"required" example:"Leaking tap in bathroom"`
	Priority     models.ComplaintPriority `json:"priority" binding:"required" example:"Medium"`
	HostelID     int64                    `json:"hostelId" binding:"required" example:"1"`
}

// UpdateComplaintRequest represents complaint changes and lifecycle moves
type UpdateComplaintRequest struct {
	RoomID          *int64                   `json:"roomId,omitempty"`
	Description     string                   `json:"description" binding:"required"`
	Priority        models.ComplaintPriority `json:"priority" binding:"required"`
	Status          models.ComplaintStatus   `json:"status" binding:"required"`
	ResolutionNotes string                   `json:"resolutionNotes"`
}
