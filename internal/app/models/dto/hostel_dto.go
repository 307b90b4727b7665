package dto

// HostelRequest represents hostel creation and update payloads
type HostelRequest struct {
	Name          string `json:"name" binding:"required" example:"Sunrise Hostel"`
	Address       string `json:"address" example:"12 College Road"`
	ContactPerson string `json:"contactPerson" example:"R. Sharma"`
	ContactEmail  string `json:"contactEmail" binding:"omitempty,email" example:"office@sunrise.example"`
	ContactNumber string `json:"contactNumber" example:"+91-9800000000"`
}
