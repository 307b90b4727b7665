package dto

import "time"

// CreateFeeRequest represents a new fee. Status is not accepted: fees are
// always created Pending.
type CreateFeeRequest struct {
	StudentID int64     `json:"studentId" binding:"required" example:"1"`
	Amount    float64   `json:"amount" binding:"required,gt=0" example:"4500"`
	DueDate   time.Time `json:"dueDate" binding:"required"`
}

// UpdateFeeRequest represents fee changes. Status transitions go through
// the pay endpoint and the sweeper, never through an update.
type UpdateFeeRequest struct {
	Amount  float64   `json:"amount" binding:"required,gt=0"`
	DueDate time.Time `json:"dueDate" binding:"required"`
}

// SweepResponse reports how many fees an on-demand sweep flipped to Overdue
type SweepResponse struct {
	MarkedOverdue int64 `json:"markedOverdue" example:"3"`
}
