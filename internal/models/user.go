package models

import "time"

// User is provisioned lazily: the first verified OTP for a phone number
// creates the account with a placeholder name.
type User struct {
	ID        int       `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

const DefaultUserName = "New User"

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}
