package repositories

import (
	"database/sql"
	"fmt"

	"siteworks/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) GetByID(id int) (*models.User, error) {
	const q = `
		SELECT id, phone, name, created_at
		FROM users
		WHERE id = $1
	`
	var u models.User
	if err := r.DB.QueryRow(q, id).Scan(&u.ID, &u.Phone, &u.Name, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get by id: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByPhone(phone string) (*models.User, error) {
	const q = `
		SELECT id, phone, name, created_at
		FROM users
		WHERE phone = $1
	`
	var u models.User
	if err := r.DB.QueryRow(q, phone).Scan(&u.ID, &u.Phone, &u.Name, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user find by phone: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Create(phone, name string) (*models.User, error) {
	const q = `
		INSERT INTO users (phone, name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, phone, name, created_at
	`
	var u models.User
	if err := r.DB.QueryRow(q, phone, name).Scan(&u.ID, &u.Phone, &u.Name, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("user create: %w", err)
	}
	return &u, nil
}

// FindOrCreate provisions the account on first verification. The unique
// index on phone makes this idempotent under concurrent calls: the insert
// is a no-op on conflict and the follow-up select wins either way.
func (r *UserRepository) FindOrCreate(phone string) (*models.User, bool, error) {
	existing, err := r.FindByPhone(phone)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	const q = `
		INSERT INTO users (phone, name, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (phone) DO NOTHING
		RETURNING id, phone, name, created_at
	`
	var u models.User
	err = r.DB.QueryRow(q, phone, models.DefaultUserName).Scan(&u.ID, &u.Phone, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		// lost the race; the row exists now
		existing, err = r.FindByPhone(phone)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("user find or create: %w", err)
	}
	return &u, true, nil
}

func (r *UserRepository) UpdateName(id int, name string) error {
	if _, err := r.DB.Exec(`UPDATE users SET name = $1 WHERE id = $2`, name, id); err != nil {
		return fmt.Errorf("user update name: %w", err)
	}
	return nil
}
