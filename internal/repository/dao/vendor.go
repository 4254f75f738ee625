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

// Vendor rows are soft deleted so past transactions keep their label.
type Vendor struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EventID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"size:50;not null"`
	VendorCode    string          `gorm:"size:16;not null;uniqueIndex"`
	TotalEarnings decimal.Decimal `gorm:"type:numeric(20,2);not null;check:total_earnings >= 0"`
	Version       int64           `gorm:"not null"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
	DeletedAt     gorm.DeletedAt  `gorm:"index"`
}

func (v *Vendor) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}

	return nil
}

type VendorDAO struct {
	db *gorm.DB
}

func NewVendorDAO(db *gorm.DB) *VendorDAO {
	return &VendorDAO{
		db: db,
	}
}

// Insert returns domain.ErrCodeTaken when the vendor code is already used.
func (d *VendorDAO) Insert(ctx context.Context, vendor Vendor) (Vendor, error) {
	result := d.db.WithContext(ctx).Create(&vendor)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "vendor_code") {
			return Vendor{}, domain.ErrCodeTaken
		}

		return Vendor{}, result.Error
	}

	return vendor, nil
}

// CodeInUse checks both participant and vendor codes, deleted vendors included.
func (d *VendorDAO) CodeInUse(ctx context.Context, code string) (bool, error) {
	return codeInUse(d.db.WithContext(ctx), code)
}

func codeInUse(db *gorm.DB, code string) (bool, error) {
	var n int64
	if err := db.Model(&Participant{}).Where("join_code = ?", code).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	if err := db.Unscoped().Model(&Vendor{}).Where("vendor_code = ?", code).Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}

func (d *VendorDAO) FindByID(ctx context.Context, id uuid.UUID) (Vendor, error) {
	var vendor Vendor

	result := d.db.WithContext(ctx).First(&vendor, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Vendor{}, domain.ErrVendorNotFound
		}

		return Vendor{}, result.Error
	}

	return vendor, nil
}

func (d *VendorDAO) FindByCode(ctx context.Context, code string) (Vendor, error) {
	var vendor Vendor

	result := d.db.WithContext(ctx).First(&vendor, "vendor_code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Vendor{}, domain.ErrVendorNotFound
		}

		return Vendor{}, result.Error
	}

	return vendor, nil
}

// FindByEvent lists active vendors, highest earnings first.
func (d *VendorDAO) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]Vendor, error) {
	var vendors []Vendor

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("total_earnings DESC").
		Order("created_at ASC").
		Find(&vendors)
	if result.Error != nil {
		return nil, result.Error
	}

	return vendors, nil
}

func (d *VendorDAO) UpdateName(ctx context.Context, id uuid.UUID, name string, now time.Time) (Vendor, error) {
	result := d.db.WithContext(ctx).
		Model(&Vendor{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "updated_at": now})
	if result.Error != nil {
		return Vendor{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Vendor{}, domain.ErrVendorNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *VendorDAO) Delete(ctx context.Context, id uuid.UUID) error {
	result := d.db.WithContext(ctx).Delete(&Vendor{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrVendorNotFound
	}

	return nil
}
