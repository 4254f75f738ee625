package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mintly/mintly-api/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event, badges []domain.Badge) (domain.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Event, error)
	FindByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]domain.Event, error)
	Update(ctx context.Context, id uuid.UUID, fn func(event *domain.Event) error) (domain.Event, error)
	Stats(ctx context.Context, id uuid.UUID) (domain.EventStats, error)
}

type EventService struct {
	repo EventRepository
	options
}

func NewEventService(repo EventRepository, opts ...Option) *EventService {
	return &EventService{
		repo:    repo,
		options: newOptions(opts),
	}
}

// CreateEvent validates the configuration and stores the event with the
// default badge set. The event starts active and expires DurationHours later.
func (s *EventService) CreateEvent(ctx context.Context, organizerID uuid.UUID, event domain.Event) (domain.Event, error) {
	if err := event.Normalize(); err != nil {
		return domain.Event{}, err
	}

	now := s.now()
	event.ID = uuid.New()
	event.OrganizerID = organizerID
	event.IsActive = true
	event.CreatedAt = now
	event.UpdatedAt = now
	event.ExpiresAt = now.Add(time.Duration(event.DurationHours) * time.Hour)

	badges := domain.DefaultBadges(event.ID)
	for i := range badges {
		badges[i].ID = uuid.New()
		badges[i].CreatedAt = now
	}

	created, err := s.repo.Create(ctx, event, badges)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListMyEvents(ctx context.Context, organizerID uuid.UUID) ([]domain.Event, error) {
	events, err := s.repo.FindByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByOrganizer -> %w", err)
	}

	return events, nil
}

// OwnedEvent loads the event and checks it belongs to organizerID.
func (s *EventService) OwnedEvent(ctx context.Context, eventID, organizerID uuid.UUID) (domain.Event, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event.OrganizerID != organizerID {
		return domain.Event{}, domain.ErrNotEventOrganizer
	}

	return event, nil
}

// UpdateEvent applies the organizer's changes. Existing wallets keep their
// balance even when the starting balance changes.
func (s *EventService) UpdateEvent(ctx context.Context, eventID, organizerID uuid.UUID, update domain.EventUpdate) (domain.Event, error) {
	if _, err := s.OwnedEvent(ctx, eventID, organizerID); err != nil {
		return domain.Event{}, err
	}

	// Apply runs against the locked row.
	updated, err := s.repo.Update(ctx, eventID, func(event *domain.Event) error {
		if err := update.Apply(event); err != nil {
			return err
		}
		event.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *EventService) GetEventStats(ctx context.Context, eventID, organizerID uuid.UUID) (domain.EventStats, error) {
	event, err := s.OwnedEvent(ctx, eventID, organizerID)
	if err != nil {
		return domain.EventStats{}, err
	}

	stats, err := s.repo.Stats(ctx, eventID)
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("s.repo.Stats -> %w", err)
	}
	stats.TimeRemainingSeconds = int64(event.TimeRemaining(s.now()).Seconds())

	return stats, nil
}
