package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"siteworks/internal/models"
)

// ErrNotFound is returned when a lookup or conditional update matched no row.
var ErrNotFound = errors.New("not found")

type RefreshTokenRepository struct {
	DB *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{DB: db}
}

func (r *RefreshTokenRepository) Create(token string, userID int, expiresAt time.Time) error {
	const q = `
		INSERT INTO refresh_tokens (token, user_id, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())
	`
	if _, err := r.DB.Exec(q, token, userID, expiresAt); err != nil {
		return fmt.Errorf("refresh token create: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByToken(token string) (*models.RefreshToken, error) {
	const q = `
		SELECT id, token, user_id, expires_at, revoked, rotated_at, created_at
		FROM refresh_tokens
		WHERE token = $1
	`
	var t models.RefreshToken
	err := r.DB.QueryRow(q, token).Scan(
		&t.ID, &t.Token, &t.UserID, &t.ExpiresAt, &t.Revoked, &t.RotatedAt, &t.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("refresh token get: %w", err)
	}
	return &t, nil
}

// Consume retires a live token in one conditional UPDATE and reports the
// owning user. A token that is unknown, expired, revoked or already rotated
// does not match, so two concurrent rotations of the same value succeed at
// most once. The consumed row stays behind, flagged, for replay detection.
func (r *RefreshTokenRepository) Consume(token string, now time.Time) (int, error) {
	const q = `
		UPDATE refresh_tokens
		SET revoked = TRUE, rotated_at = $2
		WHERE token = $1 AND revoked = FALSE AND expires_at > $2
		RETURNING user_id
	`
	var userID int
	if err := r.DB.QueryRow(q, token, now).Scan(&userID); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("refresh token consume: %w", err)
	}
	return userID, nil
}

// Revoke marks the token unusable. Idempotent: revoking an unknown or
// already-revoked token is not an error.
func (r *RefreshTokenRepository) Revoke(token string) error {
	if _, err := r.DB.Exec(`UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token); err != nil {
		return fmt.Errorf("refresh token revoke: %w", err)
	}
	return nil
}

// DeleteExpired prunes rows past their expiry; returns rows removed.
func (r *RefreshTokenRepository) DeleteExpired(now time.Time) (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM refresh_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("refresh token cleanup: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
