package dto

import (
	"time"

	"github.com/devrim/hostelhub/internal/app/models"
)

// ExpenseRequest represents expense creation and update payloads
type ExpenseRequest struct {
	Description   string             `json:"description" binding:"required" example:"Water tank cleaning"`
	Amount        float64            `json:"amount" binding:"required,gt=0" example:"1200"`
	ExpenseDate   time.Time          `json:"expenseDate"`
	Category      string             `json:"category" binding:"required" example:"Cleaning"`
	ExpenseType   models.ExpenseType `json:"expenseType" binding:"required" example:"Operational"`
	VendorName    string             `json:"vendorName"`
	ReceiptNumber string             `json:"receiptNumber"`
	PaymentMethod string             `json:"paymentMethod" example:"Cash"`
	ApprovedBy    *int64             `json:"approvedBy,omitempty"`
	Notes         string             `json:"notes"`
	HostelID      int64              `json:"hostelId" binding:"required" example:"1"`
}

// MonthTotalResponse carries the expense sum for one calendar month
type MonthTotalResponse struct {
	Year  int     `json:"year" example:"2026"`
	Month int     `json:"month" example:"8"`
	Total float64 `json:"total" example:"15400"`
}
