package services

import (
	"errors"

	"siteworks/internal/models"
	"siteworks/internal/repositories"
)

var (
	ErrPartyNotFound    = errors.New("party not found")
	ErrInvalidPartyType = errors.New("invalid party type")
)

type PartyService struct {
	Repo *repositories.PartyRepository
}

func NewPartyService(repo *repositories.PartyRepository) *PartyService {
	return &PartyService{Repo: repo}
}

func (s *PartyService) Create(req *models.PartyRequest) (*models.Party, error) {
	if !models.IsValidPartyType(req.Type) {
		return nil, ErrInvalidPartyType
	}
	p := &models.Party{Name: req.Name, Type: req.Type, Phone: req.Phone, Email: req.Email}
	if _, err := s.Repo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PartyService) Get(id int) (*models.Party, error) {
	p, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPartyNotFound
	}
	return p, nil
}

func (s *PartyService) List(partyType string) ([]*models.Party, error) {
	if partyType != "" && !models.IsValidPartyType(partyType) {
		return nil, ErrInvalidPartyType
	}
	return s.Repo.List(partyType)
}

func (s *PartyService) Update(id int, req *models.PartyRequest) (*models.Party, error) {
	if !models.IsValidPartyType(req.Type) {
		return nil, ErrInvalidPartyType
	}
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.Type = req.Type
	p.Phone = req.Phone
	p.Email = req.Email
	if err := s.Repo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PartyService) Delete(id int) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}
