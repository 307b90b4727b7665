package dto

// CreateManagerRequest represents a new manager account
type CreateManagerRequest struct {
	Username string `json:"username" binding:"required" example:"manager.sunrise"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required" example:"Asha Verma"`
	Email    string `json:"email" binding:"omitempty,email" example:"asha@sunrise.example"`
	HostelID int64  `json:"hostelId" binding:"required" example:"1"`
}

// UpdateManagerRequest represents manager account changes. An empty
// password keeps the current one.
type UpdateManagerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"omitempty,min=8"`
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	HostelID int64  `json:"hostelId" binding:"required"`
}
