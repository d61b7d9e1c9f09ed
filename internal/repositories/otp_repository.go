package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"siteworks/internal/models"
)

type OTPRepository struct {
	DB *sql.DB
}

func NewOTPRepository(db *sql.DB) *OTPRepository {
	return &OTPRepository{DB: db}
}

// Create persists a fresh code record (attempts=0, verified=false).
func (r *OTPRepository) Create(phone, codeHash string, sentAt, expiresAt time.Time) (int64, error) {
	const q = `
		INSERT INTO otp_codes (phone, code_hash, sent_at, expires_at, attempts, verified)
		VALUES ($1, $2, $3, $4, 0, FALSE)
		RETURNING id
	`
	var id int64
	if err := r.DB.QueryRow(q, phone, codeHash, sentAt, expiresAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("otp create: %w", err)
	}
	return id, nil
}

// DeleteUnverifiedByPhone invalidates all prior sends for the phone. Called
// before every new send so at most one active code survives.
func (r *OTPRepository) DeleteUnverifiedByPhone(phone string) error {
	if _, err := r.DB.Exec(`DELETE FROM otp_codes WHERE phone = $1 AND verified = FALSE`, phone); err != nil {
		return fmt.Errorf("otp delete unverified: %w", err)
	}
	return nil
}

// GetLatestUnverifiedByPhone returns the most recent unverified record, or
// nil. Expiry is the caller's call: an expired row and a missing row are the
// same condition to the user.
func (r *OTPRepository) GetLatestUnverifiedByPhone(phone string) (*models.OTPCode, error) {
	const q = `
		SELECT id, phone, code_hash, sent_at, expires_at, attempts, verified
		FROM otp_codes
		WHERE phone = $1 AND verified = FALSE
		ORDER BY sent_at DESC
		LIMIT 1
	`
	var c models.OTPCode
	err := r.DB.QueryRow(q, phone).Scan(
		&c.ID, &c.Phone, &c.CodeHash, &c.SentAt, &c.ExpiresAt, &c.Attempts, &c.Verified,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("otp latest unverified: %w", err)
	}
	return &c, nil
}

// IncrementAttempts bumps the counter atomically and returns the new value.
// Single-statement so concurrent verifies for the same phone never lose an
// attempt.
func (r *OTPRepository) IncrementAttempts(id int64) (int, error) {
	const q = `
		UPDATE otp_codes
		SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.DB.QueryRow(q, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("otp increment attempts: %w", err)
	}
	return attempts, nil
}

func (r *OTPRepository) MarkVerified(id int64) error {
	if _, err := r.DB.Exec(`UPDATE otp_codes SET verified = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("otp mark verified: %w", err)
	}
	return nil
}

// MarkVerifiedByPhone flags every open record for the phone. Used by the
// dev-mode bypass so leftover rows fall to the cleanup sweep.
func (r *OTPRepository) MarkVerifiedByPhone(phone string) error {
	if _, err := r.DB.Exec(`UPDATE otp_codes SET verified = TRUE WHERE phone = $1 AND verified = FALSE`, phone); err != nil {
		return fmt.Errorf("otp mark verified by phone: %w", err)
	}
	return nil
}

// DeleteExpiredOrVerified is the maintenance sweep; returns rows removed.
func (r *OTPRepository) DeleteExpiredOrVerified(now time.Time) (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM otp_codes WHERE verified = TRUE OR expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("otp cleanup: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
