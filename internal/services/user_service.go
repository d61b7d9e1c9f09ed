package services

import (
	"siteworks/internal/models"
	"siteworks/internal/repositories"
)

type UserService struct {
	Repo *repositories.UserRepository
}

func NewUserService(repo *repositories.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

func (s *UserService) GetByID(id int) (*models.User, error) {
	return s.Repo.GetByID(id)
}

func (s *UserService) UpdateName(id int, name string) (*models.User, error) {
	if err := s.Repo.UpdateName(id, name); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(id)
}
