package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mintly/mintly-api/internal/domain"
)

type Participant struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"size:50;not null"`
	JoinCode string    `gorm:"size:16;not null;uniqueIndex"`
	JoinedAt time.Time `gorm:"not null;index"`
	Wallet   *Wallet   `gorm:"foreignKey:ParticipantID"`
}

func (p *Participant) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	return nil
}

type Wallet struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ParticipantID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	EventID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Balance       decimal.Decimal `gorm:"type:numeric(20,2);not null;check:balance >= 0"`
	Version       int64           `gorm:"not null"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

func (w *Wallet) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}

	return nil
}

type ParticipantDAO struct {
	db *gorm.DB
}

func NewParticipantDAO(db *gorm.DB) *ParticipantDAO {
	return &ParticipantDAO{
		db: db,
	}
}

func (d *ParticipantDAO) FindByID(ctx context.Context, id uuid.UUID) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).Preload("Wallet").First(&participant, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, domain.ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

// FindByJoinCode expects code to be normalized already.
func (d *ParticipantDAO) FindByJoinCode(ctx context.Context, code string) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).Preload("Wallet").First(&participant, "join_code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, domain.ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

// FindByEvent lists the participants of an event with their wallets, newest first.
func (d *ParticipantDAO) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]Participant, error) {
	var participants []Participant

	result := d.db.WithContext(ctx).
		Preload("Wallet").
		Where("event_id = ?", eventID).
		Order("joined_at DESC").
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

func (d *ParticipantDAO) FindWalletByID(ctx context.Context, id uuid.UUID) (Wallet, error) {
	var wallet Wallet

	result := d.db.WithContext(ctx).First(&wallet, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Wallet{}, domain.ErrWalletNotFound
		}

		return Wallet{}, result.Error
	}

	return wallet, nil
}
