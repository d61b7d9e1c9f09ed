package services

import (
	"errors"
	"fmt"
	"log"

	"siteworks/internal/models"
	"siteworks/internal/utils"
)

// AuthUserStore is the user access the orchestrator needs. Satisfied by
// repositories.UserRepository.
type AuthUserStore interface {
	GetByID(id int) (*models.User, error)
	FindOrCreate(phone string) (*models.User, bool, error)
}

// Alerter is an out-of-band ops channel for security events.
type Alerter interface {
	SecurityAlert(text string)
}

// VerifyResult is everything the verify-otp endpoint reports.
type VerifyResult struct {
	User      *models.User
	Tokens    *models.TokenPair
	IsNewUser bool
}

// AuthService composes the OTP manager, user provisioning and the token
// service into the send / verify / refresh / logout cycle.
type AuthService struct {
	OTP     *OTPService
	Tokens  *TokenService
	Users   AuthUserStore
	Alerter Alerter
}

func NewAuthService(otp *OTPService, tokens *TokenService, users AuthUserStore, alerter Alerter) *AuthService {
	return &AuthService{OTP: otp, Tokens: tokens, Users: users, Alerter: alerter}
}

// SendOTP normalizes the phone and issues a code. Whether the phone belongs
// to an existing account is deliberately not observable from the response.
func (s *AuthService) SendOTP(phone, countryCode string) (*models.SendOTPResponse, error) {
	normalized, err := utils.NormalizePhone(phone, countryCode)
	if err != nil {
		return nil, err
	}

	res, err := s.OTP.SendCode(normalized)
	if err != nil {
		return nil, err
	}

	out := &models.SendOTPResponse{
		Message:   "Verification code sent",
		Phone:     normalized,
		ExpiresAt: res.ExpiresAt,
	}
	if res.DevCode != "" {
		out.DevHint = res.DevCode
	}
	return out, nil
}

// VerifyOTP checks the code, provisions the account on first success and
// issues the session's token pair.
func (s *AuthService) VerifyOTP(phone, countryCode, code string) (*VerifyResult, error) {
	normalized, err := utils.NormalizePhone(phone, countryCode)
	if err != nil {
		return nil, err
	}

	if err := s.OTP.VerifyCode(normalized, code); err != nil {
		return nil, err
	}

	user, created, err := s.Users.FindOrCreate(normalized)
	if err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}
	if created {
		log.Printf("[auth][verify] provisioned user_id=%d", user.ID)
	}

	pair, err := s.Tokens.GenerateTokens(user.ID, user.Phone)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	return &VerifyResult{User: user, Tokens: pair, IsNewUser: created}, nil
}

// Refresh rotates the session. A replayed (already-consumed) token raises a
// security alert before being rejected like any other bad token.
func (s *AuthService) Refresh(refreshToken string) (*models.TokenPair, error) {
	pair, err := s.Tokens.RefreshAccessToken(refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshReplayed) && s.Alerter != nil {
			s.Alerter.SecurityAlert("refresh token replay detected; a consumed token was presented again")
			return nil, ErrRefreshRejected
		}
		return nil, err
	}
	return pair, nil
}

// Logout revokes the refresh token. Idempotent.
func (s *AuthService) Logout(refreshToken string) error {
	return s.Tokens.RevokeRefreshToken(refreshToken)
}

func (s *AuthService) CurrentUser(userID int) (*models.User, error) {
	return s.Users.GetByID(userID)
}
