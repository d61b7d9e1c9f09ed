package repositories

import (
	"database/sql"
	"fmt"

	"siteworks/internal/models"
)

type ProjectRepository struct {
	DB *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

func (r *ProjectRepository) Create(p *models.Project) (int, error) {
	const q = `
		INSERT INTO projects (name, location, owner_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, p.Name, p.Location, p.OwnerID).Scan(&p.ID, &p.CreatedAt); err != nil {
		return 0, fmt.Errorf("project create: %w", err)
	}
	return p.ID, nil
}

func (r *ProjectRepository) GetByID(id int) (*models.Project, error) {
	const q = `
		SELECT id, name, location, owner_id, created_at
		FROM projects
		WHERE id = $1
	`
	var p models.Project
	if err := r.DB.QueryRow(q, id).Scan(&p.ID, &p.Name, &p.Location, &p.OwnerID, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("project get: %w", err)
	}
	return &p, nil
}

// ListForUser returns projects the user owns or is a member of.
func (r *ProjectRepository) ListForUser(userID int) ([]*models.Project, error) {
	const q = `
		SELECT DISTINCT p.id, p.name, p.location, p.owner_id, p.created_at
		FROM projects p
		LEFT JOIN project_members m ON m.project_id = p.id
		WHERE p.owner_id = $1 OR m.user_id = $1
		ORDER BY p.id
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("project list: %w", err)
	}
	defer rows.Close()

	var out []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Location, &p.OwnerID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("project scan: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) Update(p *models.Project) error {
	const q = `
		UPDATE projects
		SET name = $1, location = $2
		WHERE id = $3
	`
	if _, err := r.DB.Exec(q, p.Name, p.Location, p.ID); err != nil {
		return fmt.Errorf("project update: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("project delete: %w", err)
	}
	return nil
}

func (r *ProjectRepository) AddMember(projectID, userID int, role string) error {
	const q = `
		INSERT INTO project_members (project_id, user_id, role, added_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (project_id, user_id) DO NOTHING
	`
	if _, err := r.DB.Exec(q, projectID, userID, role); err != nil {
		return fmt.Errorf("project add member: %w", err)
	}
	return nil
}

func (r *ProjectRepository) ListMembers(projectID int) ([]*models.ProjectMember, error) {
	const q = `
		SELECT m.project_id, m.user_id, m.role, m.added_at, u.name, u.phone
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.added_at
	`
	rows, err := r.DB.Query(q, projectID)
	if err != nil {
		return nil, fmt.Errorf("project list members: %w", err)
	}
	defer rows.Close()

	var out []*models.ProjectMember
	for rows.Next() {
		var m models.ProjectMember
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.AddedAt, &m.Name, &m.Phone); err != nil {
			return nil, fmt.Errorf("project member scan: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) IsMember(projectID, userID int) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM projects WHERE id = $1 AND owner_id = $2
			UNION
			SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2
		)
	`
	var ok bool
	if err := r.DB.QueryRow(q, projectID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("project is member: %w", err)
	}
	return ok, nil
}
