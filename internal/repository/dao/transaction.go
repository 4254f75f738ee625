package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionPayment  TransactionType = "payment"
	TransactionTransfer TransactionType = "transfer"
	TransactionReward   TransactionType = "reward"
	TransactionRefund   TransactionType = "refund"
)

// Transaction rows are append only. Nothing in this package updates or
// deletes them.
type Transaction struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EventID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type         TransactionType `gorm:"size:16;not null;index"`
	Amount       decimal.Decimal `gorm:"type:numeric(20,2);not null;check:amount > 0"`
	FromWalletID *uuid.UUID      `gorm:"type:uuid;index"`
	ToWalletID   *uuid.UUID      `gorm:"type:uuid;index"`
	VendorID     *uuid.UUID      `gorm:"type:uuid;index"`
	Description  string          `gorm:"size:200;not null;default:''"`
	CreatedAt    time.Time       `gorm:"not null;index"`
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	return nil
}

// TransactionWithVendor carries the display name of the vendor, if any.
type TransactionWithVendor struct {
	Transaction
	VendorName *string
}

type TransactionDAO struct {
	db *gorm.DB
}

func NewTransactionDAO(db *gorm.DB) *TransactionDAO {
	return &TransactionDAO{
		db: db,
	}
}

func (d *TransactionDAO) withVendor(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).
		Table("transactions").
		Select("transactions.*, vendors.name AS vendor_name").
		Joins("LEFT JOIN vendors ON vendors.id = transactions.vendor_id")
}

// FindByWallet lists every transaction the wallet sent or received, newest first.
func (d *TransactionDAO) FindByWallet(ctx context.Context, walletID uuid.UUID) ([]TransactionWithVendor, error) {
	var txns []TransactionWithVendor

	result := d.withVendor(ctx).
		Where("transactions.from_wallet_id = ? OR transactions.to_wallet_id = ?", walletID, walletID).
		Order("transactions.created_at DESC").
		Scan(&txns)
	if result.Error != nil {
		return nil, result.Error
	}

	return txns, nil
}

func (d *TransactionDAO) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]TransactionWithVendor, error) {
	var txns []TransactionWithVendor

	result := d.withVendor(ctx).
		Where("transactions.event_id = ?", eventID).
		Order("transactions.created_at DESC").
		Scan(&txns)
	if result.Error != nil {
		return nil, result.Error
	}

	return txns, nil
}
