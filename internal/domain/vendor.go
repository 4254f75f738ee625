package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinVendorNameLength = 2
	MaxVendorNameLength = 50
)

type Vendor struct {
	ID            uuid.UUID       `json:"id"`
	EventID       uuid.UUID       `json:"event_id"`
	Name          string          `json:"name"`
	VendorCode    string          `json:"vendor_code"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	Version       int64           `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
