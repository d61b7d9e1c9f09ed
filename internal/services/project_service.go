package services

import (
	"errors"
	"log"

	"siteworks/internal/models"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNotOwner        = errors.New("only the project owner may do this")
	ErrNotMember       = errors.New("not a member of this project")
)

// ProjectStore is the persistence the service needs. Satisfied by
// repositories.ProjectRepository.
type ProjectStore interface {
	Create(p *models.Project) (int, error)
	GetByID(id int) (*models.Project, error)
	ListForUser(userID int) ([]*models.Project, error)
	Update(p *models.Project) error
	Delete(id int) error
	AddMember(projectID, userID int, role string) error
	ListMembers(projectID int) ([]*models.ProjectMember, error)
	IsMember(projectID, userID int) (bool, error)
}

// ProjectUserStore is the slice of the user repository the service needs
// when vetting a member to add.
type ProjectUserStore interface {
	GetByID(id int) (*models.User, error)
}

type ProjectService struct {
	Repo  ProjectStore
	Users ProjectUserStore
	Mail  EmailService
}

func NewProjectService(repo ProjectStore, users ProjectUserStore, mail EmailService) *ProjectService {
	return &ProjectService{Repo: repo, Users: users, Mail: mail}
}

func (s *ProjectService) Create(ownerID int, req *models.ProjectRequest) (*models.Project, error) {
	p := &models.Project{Name: req.Name, Location: req.Location, OwnerID: ownerID}
	if _, err := s.Repo.Create(p); err != nil {
		return nil, err
	}
	if err := s.Repo.AddMember(p.ID, ownerID, "owner"); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) ListForUser(userID int) ([]*models.Project, error) {
	return s.Repo.ListForUser(userID)
}

// Get returns the project if the user owns it or is on its team.
func (s *ProjectService) Get(projectID, userID int) (*models.Project, error) {
	p, err := s.Repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	ok, err := s.Repo.IsMember(projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}
	return p, nil
}

func (s *ProjectService) Update(projectID, userID int, req *models.ProjectRequest) (*models.Project, error) {
	p, err := s.requireOwner(projectID, userID)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.Location = req.Location
	if err := s.Repo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Delete(projectID, userID int) error {
	if _, err := s.requireOwner(projectID, userID); err != nil {
		return err
	}
	return s.Repo.Delete(projectID)
}

// AddMember puts a user on the project team (owner only) and mails an
// invite when an email is supplied. Mail failure is logged, not fatal; the
// membership row is the source of truth.
func (s *ProjectService) AddMember(projectID, actorID int, req *models.AddMemberRequest) error {
	p, err := s.requireOwner(projectID, actorID)
	if err != nil {
		return err
	}
	member, err := s.Users.GetByID(req.UserID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrUserNotFound
	}
	if err := s.Repo.AddMember(projectID, req.UserID, "member"); err != nil {
		return err
	}
	if req.Email != "" && s.Mail != nil {
		if err := s.Mail.SendProjectInvite(req.Email, member.Name, p.Name); err != nil {
			log.Printf("[project][invite] mail failed: project_id=%d user_id=%d err=%v", projectID, req.UserID, err)
		}
	}
	return nil
}

func (s *ProjectService) ListMembers(projectID, userID int) ([]*models.ProjectMember, error) {
	if _, err := s.Get(projectID, userID); err != nil {
		return nil, err
	}
	return s.Repo.ListMembers(projectID)
}

func (s *ProjectService) requireOwner(projectID, userID int) (*models.Project, error) {
	p, err := s.Repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	if p.OwnerID != userID {
		return nil, ErrNotOwner
	}
	return p, nil
}
