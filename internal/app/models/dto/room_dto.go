package dto

import "github.com/devrim/hostelhub/internal/app/models"

// CreateRoomRequest represents a new room. Occupancy is not accepted:
// rooms always start empty.
type CreateRoomRequest struct {
	RoomNumber string `json:"roomNumber" binding:"required" example:"A-101"`
	Capacity   int    `json:"capacity" binding:"required,min=1" example:"4"`
	HostelID   int64  `json:"hostelId" binding:"required" example:"1"`
}

// UpdateRoomRequest represents room changes. Occupancy is derived and
// cannot be set.
type UpdateRoomRequest struct {
	RoomNumber string            `json:"roomNumber" binding:"required"`
	Capacity   int               `json:"capacity" binding:"required,min=1"`
	Status     models.RoomStatus `json:"status" binding:"required"`
}

// BulkRoomStatusRequest represents a bulk status change
type BulkRoomStatusRequest struct {
	RoomIDs []int64           `json:"roomIds" binding:"required,min=1"`
	Status  models.RoomStatus `json:"status" binding:"required"`
}
