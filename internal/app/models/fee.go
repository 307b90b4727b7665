package models

import "time"

// Fee defines the fee model based on the 'fees' table. HostelID is
// denormalized from the student so tenant filters don't need a join.
// State machine: Pending -> Paid (payment), Pending -> Overdue (sweeper),
// Overdue -> Paid (payment). Paid is terminal.
type Fee struct {
	ID        int64      `json:"id" db:"id" example:"1"`
	StudentID int64      `json:"studentId" db:"student_id" example:"1"`
	Amount    float64    `json:"amount" db:"amount" example:"4500"`
	DueDate   time.Time  `json:"dueDate" db:"due_date"`
	PaidDate  *time.Time `json:"paidDate,omitempty" db:"paid_date"`
	Status    FeeStatus  `json:"status" db:"status" example:"Pending"`
	HostelID  int64      `json:"hostelId" db:"hostel_id" example:"1"`

	StudentName string `json:"studentName,omitempty"` // Joined column, no db tag
}
