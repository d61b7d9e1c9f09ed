package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"siteworks/internal/middleware"
	"siteworks/internal/models"
	"siteworks/internal/repositories"
	"siteworks/internal/utils"
)

var (
	// ErrRefreshRejected covers every terminal refresh failure: expired,
	// malformed, unknown, revoked. The caller restarts the OTP flow.
	ErrRefreshRejected = errors.New("refresh token rejected")

	// ErrRefreshReplayed is a rejection with a security signal attached: the
	// token was valid once and has already been rotated away, which means
	// someone replayed a consumed credential.
	ErrRefreshReplayed = errors.New("refresh token replayed")
)

// RefreshTokenStore is the allow-list persistence behind rotation.
// Satisfied by repositories.RefreshTokenRepository.
type RefreshTokenStore interface {
	Create(token string, userID int, expiresAt time.Time) error
	GetByToken(token string) (*models.RefreshToken, error)
	Consume(token string, now time.Time) (int, error)
	Revoke(token string) error
	DeleteExpired(now time.Time) (int64, error)
}

// TokenUserStore is the slice of the user repository the token service
// needs when minting a fresh pair during rotation.
type TokenUserStore interface {
	GetByID(id int) (*models.User, error)
}

// TokenService mints access/refresh pairs. Access tokens are stateless
// HS256 JWTs; refresh tokens are opaque random values whose validity lives
// entirely in the refresh_tokens table and which are rotated on every use.
type TokenService struct {
	Store RefreshTokenStore
	Users TokenUserStore

	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	now func() time.Time
}

func NewTokenService(store RefreshTokenStore, users TokenUserStore, secret []byte, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		Store:      store,
		Users:      users,
		Secret:     secret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// GenerateTokens issues a new pair for the user and registers the refresh
// token in the allow-list.
func (s *TokenService) GenerateTokens(userID int, phone string) (*models.TokenPair, error) {
	now := s.now()
	claims := &middleware.Claims{
		UserID: userID,
		Phone:  phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.AccessTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.Store.Create(refresh, userID, now.Add(s.RefreshTTL)); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:  access,
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
		RefreshToken: refresh,
	}, nil
}

// RefreshAccessToken rotates: it consumes the presented refresh token in a
// single conditional update and issues a brand-new pair. The consumed token
// can never mint again; a second call with the same value fails, and if the
// row is found already rotated the failure is reported as a replay.
func (s *TokenService) RefreshAccessToken(refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrRefreshRejected
	}

	userID, err := s.Store.Consume(refreshToken, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, s.classifyRejection(refreshToken)
		}
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}

	user, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("load user for refresh: %w", err)
	}
	if user == nil {
		return nil, ErrRefreshRejected
	}

	pair, err := s.GenerateTokens(user.ID, user.Phone)
	if err != nil {
		return nil, err
	}
	log.Printf("[token][refresh] rotated for user_id=%d", user.ID)
	return pair, nil
}

// classifyRejection decides whether a failed consume was garbage or a
// replay of a token we already rotated away.
func (s *TokenService) classifyRejection(refreshToken string) error {
	row, err := s.Store.GetByToken(refreshToken)
	if err != nil || row == nil {
		return ErrRefreshRejected
	}
	if row.Revoked && row.RotatedAt != nil {
		log.Printf("[token][refresh] replay detected: user_id=%d rotated_at=%s", row.UserID, row.RotatedAt.Format(time.RFC3339))
		return ErrRefreshReplayed
	}
	return ErrRefreshRejected
}

// RevokeRefreshToken makes the token unusable for future rotation.
// Idempotent; revoking an unknown token succeeds.
func (s *TokenService) RevokeRefreshToken(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Store.Revoke(refreshToken)
}

// CleanupExpired prunes refresh rows past their expiry.
func (s *TokenService) CleanupExpired() (int64, error) {
	return s.Store.DeleteExpired(s.now())
}
