package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository/dao"
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event, badges []dao.Badge) (dao.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (dao.Event, error)
	FindByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]dao.Event, error)
	Update(ctx context.Context, id uuid.UUID, fn func(event *dao.Event) error) (dao.Event, error)
	Stats(ctx context.Context, id uuid.UUID) (dao.EventStats, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event, badges []domain.Badge) (domain.Event, error) {
	daoBadges := make([]dao.Badge, 0, len(badges))
	for _, b := range badges {
		daoBadges = append(daoBadges, badgeDomainToDao(b))
	}

	created, err := r.dao.Insert(ctx, eventDomainToDao(event), daoBadges)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDaoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return eventDaoToDomain(found), nil
}

func (r *EventRepository) FindByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]domain.Event, error) {
	found, err := r.dao.FindByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByOrganizer -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, eventDaoToDomain(e))
	}

	return events, nil
}

// Update applies fn to the locked event and stores the result.
func (r *EventRepository) Update(ctx context.Context, id uuid.UUID, fn func(event *domain.Event) error) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, id, func(row *dao.Event) error {
		event := eventDaoToDomain(*row)
		if err := fn(&event); err != nil {
			return err
		}
		*row = eventDomainToDao(event)
		return nil
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return eventDaoToDomain(updated), nil
}

func (r *EventRepository) Stats(ctx context.Context, id uuid.UUID) (domain.EventStats, error) {
	stats, err := r.dao.Stats(ctx, id)
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("r.dao.Stats -> %w", err)
	}

	return domain.EventStats{
		TotalParticipants:   stats.TotalParticipants,
		TotalCirculating:    stats.TotalCirculating,
		TotalVendorEarnings: stats.TotalVendorEarnings,
	}, nil
}
