package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionPayment  TransactionType = "payment"
	TransactionTransfer TransactionType = "transfer"
	TransactionReward   TransactionType = "reward"
	TransactionRefund   TransactionType = "refund"
)

const DefaultRewardDescription = "Reward from organizer"

// Transaction is an immutable ledger record.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	EventID      uuid.UUID       `json:"event_id"`
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	FromWalletID *uuid.UUID      `json:"from_wallet_id"`
	ToWalletID   *uuid.UUID      `json:"to_wallet_id"`
	VendorID     *uuid.UUID      `json:"vendor_id"`
	VendorName   string          `json:"vendor_name,omitempty"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CheckShape verifies the account columns match the transaction type.
func (t Transaction) CheckShape() error {
	switch t.Type {
	case TransactionPayment:
		if t.FromWalletID == nil || t.VendorID == nil || t.ToWalletID != nil {
			return InvalidInput("payment needs a source wallet and a vendor")
		}
	case TransactionTransfer:
		if t.FromWalletID == nil || t.ToWalletID == nil || t.VendorID != nil {
			return InvalidInput("transfer needs a source and a destination wallet")
		}
		if *t.FromWalletID == *t.ToWalletID {
			return ErrSameWallet
		}
	case TransactionReward, TransactionRefund:
		if t.ToWalletID == nil || t.FromWalletID != nil {
			return InvalidInput("%s needs a destination wallet only", t.Type)
		}
	default:
		return InvalidInput("unknown transaction type %q", t.Type)
	}

	return ValidateAmount(t.Amount)
}
