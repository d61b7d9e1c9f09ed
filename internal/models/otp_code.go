package models

import "time"

// OTPCodeState is the explicit lifecycle tag of a code record. It is derived
// in exactly one place (OTPCode.State) instead of being inferred ad hoc from
// the verified/attempts/expiry fields.
type OTPCodeState string

const (
	OTPStatePending   OTPCodeState = "PENDING"
	OTPStateVerified  OTPCodeState = "VERIFIED"
	OTPStateExhausted OTPCodeState = "EXHAUSTED"
	OTPStateExpired   OTPCodeState = "EXPIRED"
)

// OTPCode is one send of a verification code. Only the bcrypt hash of the
// code is stored, never the plaintext.
type OTPCode struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	CodeHash  string    `json:"-"`
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	Verified  bool      `json:"verified"`
}

// State reports the record's lifecycle state at the given instant.
// VERIFIED, EXHAUSTED and EXPIRED are terminal; only PENDING records may be
// checked against a submitted code.
func (c *OTPCode) State(now time.Time, maxAttempts int) OTPCodeState {
	switch {
	case c.Verified:
		return OTPStateVerified
	case now.After(c.ExpiresAt):
		return OTPStateExpired
	case c.Attempts >= maxAttempts:
		return OTPStateExhausted
	default:
		return OTPStatePending
	}
}
