package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository/dao"
)

var (
	ErrOrganizerEmailExists = dao.ErrOrganizerEmailExists
	ErrOrganizerNotFound    = domain.ErrOrganizerNotFound
)

type OrganizerDAO interface {
	Insert(ctx context.Context, organizer dao.Organizer) (dao.Organizer, error)
	FindByID(ctx context.Context, id uuid.UUID) (dao.Organizer, error)
	FindByEmail(ctx context.Context, email string) (dao.Organizer, error)
}

type OrganizerRepository struct {
	dao OrganizerDAO
}

func NewOrganizerRepository(dao OrganizerDAO) *OrganizerRepository {
	return &OrganizerRepository{
		dao: dao,
	}
}

func (r *OrganizerRepository) Create(ctx context.Context, organizer domain.Organizer) (domain.Organizer, error) {
	created, err := r.dao.Insert(ctx, dao.Organizer{
		Email:     organizer.Email,
		Password:  organizer.Password,
		Name:      organizer.Name,
		CreatedAt: organizer.CreatedAt,
		UpdatedAt: organizer.UpdatedAt,
	})
	if err != nil {
		return domain.Organizer{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return organizerDaoToDomain(created), nil
}

func (r *OrganizerRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Organizer, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Organizer{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return organizerDaoToDomain(found), nil
}

func (r *OrganizerRepository) FindByEmail(ctx context.Context, email string) (domain.Organizer, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.Organizer{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return organizerDaoToDomain(found), nil
}
