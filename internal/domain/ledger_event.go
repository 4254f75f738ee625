package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routing keys of the messages published after a ledger mutation commits.
const (
	KindPayment           = "ledger.payment"
	KindTransfer          = "ledger.transfer"
	KindReward            = "ledger.reward"
	KindParticipantJoined = "participant.joined"
)

type LedgerEvent struct {
	Kind          string          `json:"kind"`
	EventID       uuid.UUID       `json:"event_id"`
	TransactionID *uuid.UUID      `json:"transaction_id,omitempty"`
	ParticipantID *uuid.UUID      `json:"participant_id,omitempty"`
	FromWalletID  *uuid.UUID      `json:"from_wallet_id,omitempty"`
	ToWalletID    *uuid.UUID      `json:"to_wallet_id,omitempty"`
	VendorID      *uuid.UUID      `json:"vendor_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func NewTransactionEvent(t Transaction) LedgerEvent {
	id := t.ID
	ev := LedgerEvent{
		EventID:       t.EventID,
		TransactionID: &id,
		FromWalletID:  t.FromWalletID,
		ToWalletID:    t.ToWalletID,
		VendorID:      t.VendorID,
		Amount:        t.Amount,
		OccurredAt:    t.CreatedAt,
	}

	switch t.Type {
	case TransactionPayment:
		ev.Kind = KindPayment
	case TransactionTransfer:
		ev.Kind = KindTransfer
	case TransactionReward:
		ev.Kind = KindReward
	default:
		ev.Kind = "ledger." + string(t.Type)
	}

	return ev
}

// IdempotencyPendingTimeout bounds how long a reserved key blocks retries when
// the request that reserved it never completes.
const IdempotencyPendingTimeout = time.Minute

// IdempotentResponse is the stored first response for an Idempotency-Key.
// Status is zero while the request holding the key is still running.
type IdempotentResponse struct {
	Key       string    `json:"key"`
	RequestID string    `json:"request_id"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (r IdempotentResponse) Pending() bool {
	return r.Status == 0
}
