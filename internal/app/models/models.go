package models

// Role defines the user role type
type Role string

const (
	// RoleOwner sees every hostel and manages managers
	RoleOwner Role = "owner"
	// RoleManager is pinned to exactly one hostel
	RoleManager Role = "manager"
)

// Valid reports whether the role is a known value
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleManager
}

// RoomStatus defines the room lifecycle states
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "Available"
	RoomStatusFull        RoomStatus = "Full"
	RoomStatusMaintenance RoomStatus = "Maintenance"
	RoomStatusReserved    RoomStatus = "Reserved"
	RoomStatusOutOfOrder  RoomStatus = "Out of Order"
)

// Valid reports whether the status is a known value
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusFull, RoomStatusMaintenance,
		RoomStatusReserved, RoomStatusOutOfOrder:
		return true
	}
	return false
}

// Manual reports whether the status is set by operators and must never be
// overridden by the occupancy recompute.
func (s RoomStatus) Manual() bool {
	switch s {
	case RoomStatusMaintenance, RoomStatusReserved, RoomStatusOutOfOrder:
		return true
	}
	return false
}

// FeeStatus defines the fee lifecycle states
type FeeStatus string

const (
	FeeStatusPending FeeStatus = "Pending"
	FeeStatusPaid    FeeStatus = "Paid"
	FeeStatusOverdue FeeStatus = "Overdue"
)

// Valid reports whether the status is a known value
func (s FeeStatus) Valid() bool {
	return s == FeeStatusPending || s == FeeStatusPaid || s == FeeStatusOverdue
}

// ComplaintPriority defines complaint urgency levels
type ComplaintPriority string

const (
	ComplaintPriorityLow      ComplaintPriority = "Low"
	ComplaintPriorityMedium   ComplaintPriority = "Medium"
	ComplaintPriorityHigh     ComplaintPriority = "High"
	ComplaintPriorityCritical ComplaintPriority = "Critical"
)

// Valid reports whether the priority is a known value
func (p ComplaintPriority) Valid() bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityMedium,
		ComplaintPriorityHigh, ComplaintPriorityCritical:
		return true
	}
	return false
}

// ComplaintStatus defines the complaint lifecycle states
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
	ComplaintStatusClosed     ComplaintStatus = "Closed"
)

// Valid reports whether the status is a known value
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress,
		ComplaintStatusResolved, ComplaintStatusClosed:
		return true
	}
	return false
}

// ExpenseType classifies expenses by their nature
type ExpenseType string

const (
	ExpenseTypeOperational ExpenseType = "Operational"
	ExpenseTypeCapital     ExpenseType = "Capital"
	ExpenseTypeEmergency   ExpenseType = "Emergency"
)

// Valid reports whether the type is a known value
func (t ExpenseType) Valid() bool {
	return t == ExpenseTypeOperational || t == ExpenseTypeCapital || t == ExpenseTypeEmergency
}

// ExpenseCategories is the allowed set of expense categories
var ExpenseCategories = []string{
	"Utilities", "Maintenance", "Supplies", "Salaries",
	"Food", "Cleaning", "Security", "Other",
}

// ValidExpenseCategory reports whether category is in the allowed set
func ValidExpenseCategory(category string) bool {
	for _, c := range ExpenseCategories {
		if c == category {
			return true
		}
	}
	return false
}

// MaxRoomCapacity bounds room capacity
const MaxRoomCapacity = 50
