package models

import "time"

// Hostel defines the tenant root based on the 'hostels' table
type Hostel struct {
	ID            int64     `json:"id" db:"id" example:"1"`
	Name          string    `json:"name" db:"name" example:"Sunrise Hostel"`
	Address       string    `json:"address" db:"address" example:"12 College Road"`
	ContactPerson string    `json:"contactPerson" db:"contact_person" example:"R. Sharma"`
	ContactEmail  string    `json:"contactEmail" db:"contact_email" example:"office@sunrise.example"`
	ContactNumber string    `json:"contactNumber" db:"contact_number" example:"+91-9800000000"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
