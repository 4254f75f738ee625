package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_CheckShape(t *testing.T) {
	a, b, v := uuid.New(), uuid.New(), uuid.New()
	amount := decimal.NewFromInt(5)

	assert.NoError(t, Transaction{Type: TransactionPayment, Amount: amount, FromWalletID: &a, VendorID: &v}.CheckShape())
	assert.NoError(t, Transaction{Type: TransactionTransfer, Amount: amount, FromWalletID: &a, ToWalletID: &b}.CheckShape())
	assert.NoError(t, Transaction{Type: TransactionReward, Amount: amount, ToWalletID: &b}.CheckShape())

	assert.ErrorIs(t, Transaction{Type: TransactionPayment, Amount: amount, FromWalletID: &a}.CheckShape(), ErrInvalidInput)
	assert.ErrorIs(t, Transaction{Type: TransactionTransfer, Amount: amount, FromWalletID: &a, ToWalletID: &a}.CheckShape(), ErrSameWallet)
	assert.ErrorIs(t, Transaction{Type: TransactionReward, Amount: amount, FromWalletID: &a, ToWalletID: &b}.CheckShape(), ErrInvalidInput)
	assert.ErrorIs(t, Transaction{Type: TransactionReward, Amount: decimal.Zero, ToWalletID: &b}.CheckShape(), ErrInvalidAmount)
}

func TestNewTransactionEvent(t *testing.T) {
	from, to := uuid.New(), uuid.New()
	tx := Transaction{ID: uuid.New(), EventID: uuid.New(), Type: TransactionTransfer, Amount: decimal.NewFromInt(7), FromWalletID: &from, ToWalletID: &to}

	ev := NewTransactionEvent(tx)
	assert.Equal(t, KindTransfer, ev.Kind)
	assert.Equal(t, tx.ID, *ev.TransactionID)
	assert.Equal(t, &to, ev.ToWalletID)
}
