package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/mintly/mintly-api/internal/domain"
)

type CreateEventRequest struct {
	Name            string          `json:"name"`
	CurrencyName    string          `json:"currency_name"`
	CurrencySymbol  string          `json:"currency_symbol"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate" swaggertype:"string" example:"1.25"`
	StartingBalance decimal.Decimal `json:"starting_balance" swaggertype:"string" example:"50"`
	DurationHours   int             `json:"duration_hours"`
}

// Validate checks presence only. Ranges are enforced by domain.Event.
func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.CurrencyName, validation.Required),
		validation.Field(&req.CurrencySymbol, validation.Required),
		validation.Field(&req.DurationHours, validation.Required),
	)
}

func (req *CreateEventRequest) ToDomain() domain.Event {
	return domain.Event{
		Name:            req.Name,
		CurrencyName:    req.CurrencyName,
		CurrencySymbol:  req.CurrencySymbol,
		ExchangeRate:    req.ExchangeRate,
		StartingBalance: req.StartingBalance,
		DurationHours:   req.DurationHours,
	}
}

type UpdateEventRequest struct {
	Name            *string          `json:"name,omitempty"`
	CurrencyName    *string          `json:"currency_name,omitempty"`
	CurrencySymbol  *string          `json:"currency_symbol,omitempty"`
	ExchangeRate    *decimal.Decimal `json:"exchange_rate,omitempty" swaggertype:"string"`
	StartingBalance *decimal.Decimal `json:"starting_balance,omitempty" swaggertype:"string"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

func (req *UpdateEventRequest) ToDomain() domain.EventUpdate {
	return domain.EventUpdate{
		Name:            req.Name,
		CurrencyName:    req.CurrencyName,
		CurrencySymbol:  req.CurrencySymbol,
		ExchangeRate:    req.ExchangeRate,
		StartingBalance: req.StartingBalance,
		IsActive:        req.IsActive,
	}
}
