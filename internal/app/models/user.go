package models

import "time"

// User defines the authenticated principal based on the 'users' table.
// Invariant: a manager's HostelID references an existing hostel; an owner's
// HostelID is always nil (an owner sees all tenants).
type User struct {
	ID           int64      `json:"id" db:"id" example:"1"`
	Username     string     `json:"username" db:"username" example:"manager.sunrise"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"fullName" db:"full_name" example:"Asha Verma"`
	Role         Role       `json:"role" db:"role" example:"manager"`
	HostelID     *int64     `json:"hostelId,omitempty" db:"hostel_id" example:"1"`
	Email        string     `json:"email" db:"email" example:"asha@sunrise.example"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`

	Hostel *Hostel `json:"hostel,omitempty"` // Relation, no db tag
}
