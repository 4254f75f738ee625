package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintly/mintly-api/internal/domain"
)

var ErrOrganizerEmailExists = errors.New("organizer already exists")

type Organizer struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Email    string `gorm:"size:255;unique;not null"`
	Password string `gorm:"not null"`
	Name     string `gorm:"size:100;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (o *Organizer) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}

	return nil
}

type OrganizerDAO struct {
	db *gorm.DB
}

func NewOrganizerDAO(db *gorm.DB) *OrganizerDAO {
	return &OrganizerDAO{
		db: db,
	}
}

func (d *OrganizerDAO) Insert(ctx context.Context, organizer Organizer) (Organizer, error) {
	result := d.db.WithContext(ctx).Create(&organizer)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "email") {
			return Organizer{}, ErrOrganizerEmailExists
		}

		return Organizer{}, result.Error
	}

	return organizer, nil
}

func (d *OrganizerDAO) FindByID(ctx context.Context, id uuid.UUID) (Organizer, error) {
	var organizer Organizer

	result := d.db.WithContext(ctx).First(&organizer, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Organizer{}, domain.ErrOrganizerNotFound
		}

		return Organizer{}, result.Error
	}

	return organizer, nil
}

func (d *OrganizerDAO) FindByEmail(ctx context.Context, email string) (Organizer, error) {
	var organizer Organizer

	result := d.db.WithContext(ctx).First(&organizer, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Organizer{}, domain.ErrOrganizerNotFound
		}

		return Organizer{}, result.Error
	}

	return organizer, nil
}
