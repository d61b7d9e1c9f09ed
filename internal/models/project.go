package models

import "time"

type Project struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	OwnerID   int       `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ProjectMember struct {
	ProjectID int       `json:"project_id"`
	UserID    int       `json:"user_id"`
	Role      string    `json:"role"` // "owner" or "member"
	AddedAt   time.Time `json:"added_at"`

	// filled on list queries
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ProjectRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
}

type AddMemberRequest struct {
	UserID int    `json:"user_id" binding:"required"`
	Email  string `json:"email"` // optional, triggers an invite mail
}
