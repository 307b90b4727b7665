package models

import "time"

// Expense defines the expense model based on the 'expenses' table
type Expense struct {
	ID            int64       `json:"id" db:"id" example:"1"`
	Description   string      `json:"description" db:"description" example:"Water tank cleaning"`
	Amount        float64     `json:"amount" db:"amount" example:"1200"`
	ExpenseDate   time.Time   `json:"expenseDate" db:"expense_date"`
	Category      string      `json:"category" db:"category" example:"Cleaning"`
	ExpenseType   ExpenseType `json:"expenseType" db:"expense_type" example:"Operational"`
	VendorName    string      `json:"vendorName,omitempty" db:"vendor_name"`
	ReceiptNumber string      `json:"receiptNumber,omitempty" db:"receipt_number"`
	PaymentMethod string      `json:"paymentMethod" db:"payment_method" example:"Cash"`
	ApprovedBy    *int64      `json:"approvedBy,omitempty" db:"approved_by"`
	Notes         string      `json:"notes,omitempty" db:"notes"`
	HostelID      int64       `json:"hostelId" db:"hostel_id" example:"1"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
}
