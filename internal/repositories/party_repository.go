package repositories

import (
	"database/sql"
	"fmt"

	"siteworks/internal/models"
)

type PartyRepository struct {
	DB *sql.DB
}

func NewPartyRepository(db *sql.DB) *PartyRepository {
	return &PartyRepository{DB: db}
}

func (r *PartyRepository) Create(p *models.Party) (int, error) {
	const q = `
		INSERT INTO parties (name, type, phone, email, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, p.Name, p.Type, p.Phone, p.Email).Scan(&p.ID, &p.CreatedAt); err != nil {
		return 0, fmt.Errorf("party create: %w", err)
	}
	return p.ID, nil
}

func (r *PartyRepository) GetByID(id int) (*models.Party, error) {
	const q = `
		SELECT id, name, type, phone, email, created_at
		FROM parties
		WHERE id = $1
	`
	var p models.Party
	if err := r.DB.QueryRow(q, id).Scan(&p.ID, &p.Name, &p.Type, &p.Phone, &p.Email, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("party get: %w", err)
	}
	return &p, nil
}

// List returns all parties, optionally filtered by type.
func (r *PartyRepository) List(partyType string) ([]*models.Party, error) {
	q := `
		SELECT id, name, type, phone, email, created_at
		FROM parties
	`
	var args []any
	if partyType != "" {
		q += ` WHERE type = $1`
		args = append(args, partyType)
	}
	q += ` ORDER BY name`

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("party list: %w", err)
	}
	defer rows.Close()

	var out []*models.Party
	for rows.Next() {
		var p models.Party
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Phone, &p.Email, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("party scan: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *PartyRepository) Update(p *models.Party) error {
	const q = `
		UPDATE parties
		SET name = $1, type = $2, phone = $3, email = $4
		WHERE id = $5
	`
	if _, err := r.DB.Exec(q, p.Name, p.Type, p.Phone, p.Email, p.ID); err != nil {
		return fmt.Errorf("party update: %w", err)
	}
	return nil
}

func (r *PartyRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM parties WHERE id = $1`, id); err != nil {
		return fmt.Errorf("party delete: %w", err)
	}
	return nil
}
