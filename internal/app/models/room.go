package models

// Room defines the room model based on the 'rooms' table.
// CurrentOccupancy and Status are derived values: only the occupancy engine
// writes them. CurrentOccupancy <= Capacity holds at all times.
type Room struct {
	ID               int64      `json:"id" db:"id" example:"101"`
	RoomNumber       string     `json:"roomNumber" db:"room_number" example:"A-101"`
	Capacity         int        `json:"capacity" db:"capacity" example:"4"`
	CurrentOccupancy int        `json:"currentOccupancy" db:"current_occupancy" example:"2"`
	Status           RoomStatus `json:"status" db:"status" example:"Available"`
	HostelID         int64      `json:"hostelId" db:"hostel_id" example:"1"`

	HostelName string `json:"hostelName,omitempty"` // Joined column, no db tag
}
