package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository"
)

var ErrOrganizerNotFound = repository.ErrOrganizerNotFound

type OrganizerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Organizer, error)
}

type OrganizerService struct {
	repo OrganizerRepository
}

func NewOrganizerService(repo OrganizerRepository) *OrganizerService {
	return &OrganizerService{
		repo: repo,
	}
}

func (s *OrganizerService) GetOrganizer(ctx context.Context, id uuid.UUID) (domain.Organizer, error) {
	organizer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Organizer{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return organizer, nil
}
