package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinDurationHours = 1
	MaxDurationHours = 168
)

var (
	MaxExchangeRate    = decimal.NewFromInt(10_000)
	MaxStartingBalance = decimal.NewFromInt(1_000_000)
)

type Event struct {
	ID              uuid.UUID       `json:"id"`
	OrganizerID     uuid.UUID       `json:"organizer_id"`
	Name            string          `json:"name"`
	CurrencyName    string          `json:"currency_name"`
	CurrencySymbol  string          `json:"currency_symbol"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	DurationHours   int             `json:"duration_hours"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	ExpiresAt       time.Time       `json:"expires_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CheckAcceptsMutations reports whether wallets of the event may still change at now.
func (e Event) CheckAcceptsMutations(now time.Time) error {
	if !e.IsActive {
		return ErrEventInactive
	}
	if !now.Before(e.ExpiresAt) {
		return ErrEventExpired
	}

	return nil
}

func (e Event) TimeRemaining(now time.Time) time.Duration {
	if remaining := e.ExpiresAt.Sub(now); remaining > 0 {
		return remaining
	}

	return 0
}

// Normalize trims the textual fields and validates every configurable field.
func (e *Event) Normalize() error {
	var err error
	if e.Name, err = NormalizeName("name", e.Name, 3, 100); err != nil {
		return err
	}
	if e.CurrencyName, err = NormalizeName("currency name", e.CurrencyName, 2, 30); err != nil {
		return err
	}
	if e.CurrencySymbol, err = NormalizeName("currency symbol", e.CurrencySymbol, 1, 10); err != nil {
		return err
	}
	if !e.ExchangeRate.IsPositive() || e.ExchangeRate.GreaterThan(MaxExchangeRate) {
		return InvalidInput("exchange rate must be greater than 0 and at most %s", MaxExchangeRate)
	}
	if e.StartingBalance.IsNegative() || e.StartingBalance.GreaterThan(MaxStartingBalance) {
		return InvalidInput("starting balance must be between 0 and %s", MaxStartingBalance)
	}
	if !e.StartingBalance.Equal(e.StartingBalance.Round(AmountDecimals)) {
		return InvalidInput("starting balance must have at most %d decimals", AmountDecimals)
	}
	if e.DurationHours < MinDurationHours || e.DurationHours > MaxDurationHours {
		return InvalidInput("duration must be between %d and %d hours", MinDurationHours, MaxDurationHours)
	}

	return nil
}

// EventUpdate holds the organizer editable fields. Nil fields are left untouched.
type EventUpdate struct {
	Name            *string
	CurrencyName    *string
	CurrencySymbol  *string
	ExchangeRate    *decimal.Decimal
	StartingBalance *decimal.Decimal
	IsActive        *bool
}

// Apply copies the set fields onto e and re-validates it.
func (u EventUpdate) Apply(e *Event) error {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.CurrencyName != nil {
		e.CurrencyName = *u.CurrencyName
	}
	if u.CurrencySymbol != nil {
		e.CurrencySymbol = *u.CurrencySymbol
	}
	if u.ExchangeRate != nil {
		e.ExchangeRate = *u.ExchangeRate
	}
	if u.StartingBalance != nil {
		e.StartingBalance = *u.StartingBalance
	}
	if u.IsActive != nil {
		e.IsActive = *u.IsActive
	}

	return e.Normalize()
}

type EventStats struct {
	TotalParticipants    int64           `json:"total_participants"`
	TotalCirculating     decimal.Decimal `json:"total_circulating"`
	TotalVendorEarnings  decimal.Decimal `json:"total_vendor_earnings"`
	TimeRemainingSeconds int64           `json:"time_remaining_seconds"`
}
