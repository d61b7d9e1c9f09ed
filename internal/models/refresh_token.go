package models

import "time"

// RefreshToken is an allow-list row for one opaque refresh token. Rotation
// keeps the consumed row (revoked + rotated_at set) so a replay of an
// already-rotated token is distinguishable from a token we never issued.
type RefreshToken struct {
	ID        int64      `json:"id"`
	Token     string     `json:"-"`
	UserID    int        `json:"user_id"`
	ExpiresAt time.Time  `json:"expires_at"`
	Revoked   bool       `json:"revoked"`
	RotatedAt *time.Time `json:"rotated_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
