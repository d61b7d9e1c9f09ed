package models

import "time"

// Party is an external counterparty on a project: vendor, labour,
// subcontractor or client.
type Party struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

var PartyTypes = []string{"vendor", "labour", "subcontractor", "client"}

func IsValidPartyType(t string) bool {
	for _, v := range PartyTypes {
		if v == t {
			return true
		}
	}
	return false
}

type PartyRequest struct {
	Name  string `json:"name" binding:"required"`
	Type  string `json:"type" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}
