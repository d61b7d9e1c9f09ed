package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"siteworks/internal/models"
	"siteworks/internal/sms"
)

var (
	ErrDelivery        = errors.New("code delivery failed")
	ErrCodeExpired     = errors.New("code expired or not found")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrCodeInvalid     = errors.New("invalid code")
)

// InvalidCodeError is ErrCodeInvalid plus the number of attempts the caller
// has left. errors.Is(err, ErrCodeInvalid) matches it.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid code, %d attempts remaining", e.Remaining)
}

func (e *InvalidCodeError) Unwrap() error { return ErrCodeInvalid }

// OTPStore is the persistence the manager needs. Satisfied by
// repositories.OTPRepository.
type OTPStore interface {
	Create(phone, codeHash string, sentAt, expiresAt time.Time) (int64, error)
	DeleteUnverifiedByPhone(phone string) error
	GetLatestUnverifiedByPhone(phone string) (*models.OTPCode, error)
	IncrementAttempts(id int64) (int, error)
	MarkVerified(id int64) error
	MarkVerifiedByPhone(phone string) error
	DeleteExpiredOrVerified(now time.Time) (int64, error)
}

// OTPService issues and verifies short numeric codes bound to a phone
// number. Codes are stored bcrypt-hashed with a fixed TTL and an attempt
// ceiling; every new send invalidates the previous ones.
type OTPService struct {
	Store   OTPStore
	Gateway sms.Gateway

	TTL         time.Duration
	MaxAttempts int

	// DevMode enables the bypass code and exposes the plaintext code to the
	// caller. Must stay off outside development deployments.
	DevMode    bool
	BypassCode string

	now func() time.Time
}

func NewOTPService(store OTPStore, gateway sms.Gateway, ttl time.Duration, maxAttempts int, devMode bool, bypassCode string) *OTPService {
	return &OTPService{
		Store:       store,
		Gateway:     gateway,
		TTL:         ttl,
		MaxAttempts: maxAttempts,
		DevMode:     devMode,
		BypassCode:  bypassCode,
		now:         time.Now,
	}
}

// SendResult reports when the freshly issued code stops being valid.
// DevCode carries the plaintext only in dev mode; production callers never
// see it.
type SendResult struct {
	ExpiresAt time.Time
	DevCode   string
}

// SendCode invalidates any open codes for the phone, issues a new one and
// hands it to the SMS gateway. Store and gateway failures both surface as
// ErrDelivery; the distinction is logged, not returned.
func (s *OTPService) SendCode(phone string) (*SendResult, error) {
	if err := s.Store.DeleteUnverifiedByPhone(phone); err != nil {
		log.Printf("[otp][send] invalidate failed: phone=%s err=%v", phone, err)
		return nil, ErrDelivery
	}

	code, err := generateCode()
	if err != nil {
		log.Printf("[otp][send] generate failed: err=%v", err)
		return nil, ErrDelivery
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[otp][send] hash failed: err=%v", err)
		return nil, ErrDelivery
	}

	sentAt := s.now()
	expiresAt := sentAt.Add(s.TTL)
	if _, err := s.Store.Create(phone, string(hash), sentAt, expiresAt); err != nil {
		log.Printf("[otp][send] persist failed: phone=%s err=%v", phone, err)
		return nil, ErrDelivery
	}

	if err := s.Gateway.SendOTP(phone, code); err != nil {
		log.Printf("[otp][send] gateway failed: phone=%s err=%v", phone, err)
		return nil, ErrDelivery
	}

	log.Printf("[otp][send] ok: phone=%s expires_at=%s", phone, expiresAt.Format(time.RFC3339))
	res := &SendResult{ExpiresAt: expiresAt}
	if s.DevMode {
		res.DevCode = code
	}
	return res, nil
}

// VerifyCode checks a submitted code against the latest open record.
//
// The attempt counter is raised before the hash comparison, so a crash
// mid-verification still burns the attempt. The ceiling check runs against
// the counter as it stood before this call: the attempt that lands exactly
// on the ceiling still fails as invalid-code with 0 remaining, and
// ErrTooManyAttempts is returned only by a later call that finds the ceiling
// already struck.
func (s *OTPService) VerifyCode(phone, submitted string) error {
	if s.DevMode && s.BypassCode != "" && submitted == s.BypassCode {
		if err := s.Store.MarkVerifiedByPhone(phone); err != nil {
			log.Printf("[otp][verify] bypass bookkeeping failed: phone=%s err=%v", phone, err)
		}
		log.Printf("[otp][verify] dev bypass: phone=%s", phone)
		return nil
	}

	rec, err := s.Store.GetLatestUnverifiedByPhone(phone)
	if err != nil {
		return fmt.Errorf("otp lookup: %w", err)
	}
	if rec == nil {
		return ErrCodeExpired
	}

	switch rec.State(s.now(), s.MaxAttempts) {
	case models.OTPStateExpired:
		return ErrCodeExpired
	case models.OTPStateExhausted:
		return ErrTooManyAttempts
	}

	attempts, err := s.Store.IncrementAttempts(rec.ID)
	if err != nil {
		return fmt.Errorf("otp attempt increment: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(submitted)); err != nil {
		remaining := s.MaxAttempts - attempts
		if remaining < 0 {
			remaining = 0
		}
		log.Printf("[otp][verify] mismatch: phone=%s attempts=%d remaining=%d", phone, attempts, remaining)
		return &InvalidCodeError{Remaining: remaining}
	}

	if err := s.Store.MarkVerified(rec.ID); err != nil {
		return fmt.Errorf("otp mark verified: %w", err)
	}
	log.Printf("[otp][verify] ok: phone=%s attempts=%d", phone, attempts)
	return nil
}

// CleanupExpired removes verified and expired records; returns rows removed.
func (s *OTPService) CleanupExpired() (int64, error) {
	n, err := s.Store.DeleteExpiredOrVerified(s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("[otp][cleanup] removed=%d", n)
	}
	return n, nil
}

// generateCode samples a 6-digit code uniformly from [0, 999999]; no modulo
// bias, zero-padded so leading zeros are as likely as any other digit.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
