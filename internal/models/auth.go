package models

import "time"

type SendOTPRequest struct {
	Phone       string `json:"phone" binding:"required"`
	CountryCode string `json:"countryCode"`
}

type VerifyOTPRequest struct {
	Phone       string `json:"phone" binding:"required"`
	CountryCode string `json:"countryCode"`
	Code        string `json:"code" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPair is what a successful verification or rotation hands back.
// RefreshToken is empty in cookie transport mode (the cookie carries it).
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds until the access token expires
	RefreshToken string `json:"refreshToken,omitempty"`
}

type SendOTPResponse struct {
	Message   string    `json:"message"`
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expiresAt"`
	DevHint   string    `json:"devHint,omitempty"`
}
