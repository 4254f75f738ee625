package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mintly/mintly-api/internal/domain"
)

type Event struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrganizerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name            string          `gorm:"size:100;not null"`
	CurrencyName    string          `gorm:"size:30;not null"`
	CurrencySymbol  string          `gorm:"size:10;not null"`
	ExchangeRate    decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	StartingBalance decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	DurationHours   int             `gorm:"not null"`
	IsActive        bool            `gorm:"not null"`
	ExpiresAt       time.Time       `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"not null;index"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	return nil
}

type EventStats struct {
	TotalParticipants   int64
	TotalCirculating    decimal.Decimal
	TotalVendorEarnings decimal.Decimal
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

// Insert creates the event together with its badges.
func (d *EventDAO) Insert(ctx context.Context, event Event, badges []Badge) (Event, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		for i := range badges {
			badges[i].EventID = event.ID
			if badges[i].CreatedAt.IsZero() {
				badges[i].CreatedAt = event.CreatedAt
			}
		}
		if len(badges) > 0 {
			if err := tx.Create(&badges).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uuid.UUID) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, domain.ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// Update locks the event row, lets fn modify it and writes the editable
// columns back in the same transaction.
func (d *EventDAO) Update(ctx context.Context, id uuid.UUID, fn func(event *Event) error) (Event, error) {
	var event Event

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, "id = ?", id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domain.ErrEventNotFound
			}

			return result.Error
		}

		if err := fn(&event); err != nil {
			return err
		}

		return tx.Model(&Event{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"name":             event.Name,
				"currency_name":    event.CurrencyName,
				"currency_symbol":  event.CurrencySymbol,
				"exchange_rate":    event.ExchangeRate,
				"starting_balance": event.StartingBalance,
				"is_active":        event.IsActive,
				"updated_at":       event.UpdatedAt,
			}).Error
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

// Stats sums money columns in Go so SQLite's REAL storage cannot drift the totals.
func (d *EventDAO) Stats(ctx context.Context, id uuid.UUID) (EventStats, error) {
	var stats EventStats
	db := d.db.WithContext(ctx)

	if err := db.Model(&Participant{}).Where("event_id = ?", id).Count(&stats.TotalParticipants).Error; err != nil {
		return EventStats{}, err
	}

	var balances []decimal.Decimal
	if err := db.Model(&Wallet{}).Where("event_id = ?", id).Pluck("balance", &balances).Error; err != nil {
		return EventStats{}, err
	}
	stats.TotalCirculating = decimal.Sum(decimal.Zero, balances...)

	var earnings []decimal.Decimal
	if err := db.Unscoped().Model(&Vendor{}).Where("event_id = ?", id).Pluck("total_earnings", &earnings).Error; err != nil {
		return EventStats{}, err
	}
	stats.TotalVendorEarnings = decimal.Sum(decimal.Zero, earnings...)

	return stats, nil
}
