package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository/dao"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, dao.InitTables(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestLedgerTx_InsertTransactionRejectsBadShape(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLedgerRepository(dao.NewLedgerDAO(db, time.Second), dao.NewTransactionDAO(db))
	from, to, vendor := uuid.New(), uuid.New(), uuid.New()
	ten := decimal.NewFromInt(10)

	tests := []struct {
		name string
		txn  domain.Transaction
		want error
	}{
		{"payment without vendor", domain.Transaction{Type: domain.TransactionPayment, Amount: ten, FromWalletID: &from}, domain.ErrInvalidInput},
		{"payment to a wallet", domain.Transaction{Type: domain.TransactionPayment, Amount: ten, FromWalletID: &from, VendorID: &vendor, ToWalletID: &to}, domain.ErrInvalidInput},
		{"transfer to itself", domain.Transaction{Type: domain.TransactionTransfer, Amount: ten, FromWalletID: &from, ToWalletID: &from}, domain.ErrSameWallet},
		{"reward with source", domain.Transaction{Type: domain.TransactionReward, Amount: ten, FromWalletID: &from, ToWalletID: &to}, domain.ErrInvalidInput},
		{"zero amount", domain.Transaction{Type: domain.TransactionReward, Amount: decimal.Zero, ToWalletID: &to}, domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.txn.EventID = uuid.New()
			err := repo.Atomic(context.Background(), func(tx *LedgerTx) error {
				_, err := tx.InsertTransaction(context.Background(), tt.txn)
				return err
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var n int64
	require.NoError(t, db.Model(&dao.Transaction{}).Count(&n).Error)
	assert.Zero(t, n)
}
