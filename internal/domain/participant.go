package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinParticipantNameLength = 1
	MaxParticipantNameLength = 50
)

type Participant struct {
	ID       uuid.UUID `json:"id"`
	EventID  uuid.UUID `json:"event_id"`
	Name     string    `json:"name"`
	JoinCode string    `json:"join_code"`
	JoinedAt time.Time `json:"joined_at"`
}

// Wallet belongs to exactly one participant. Version increments on every
// balance write and guards against lost updates.
type Wallet struct {
	ID            uuid.UUID       `json:"id"`
	ParticipantID uuid.UUID       `json:"participant_id"`
	EventID       uuid.UUID       `json:"event_id"`
	Balance       decimal.Decimal `json:"balance"`
	Version       int64           `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ParticipantWallet struct {
	Participant
	Wallet Wallet `json:"wallet"`
}

type JoinResult struct {
	ParticipantID uuid.UUID       `json:"participant_id"`
	WalletID      uuid.UUID       `json:"wallet_id"`
	JoinCode      string          `json:"join_code"`
	Balance       decimal.Decimal `json:"balance"`
}
