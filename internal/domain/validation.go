package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxDescriptionLength = 200
	AmountDecimals       = 2
)

var MaxAmount = decimal.NewFromInt(1_000_000)

// ValidateAmount rejects amounts outside (0, 1000000] or with sub-cent precision.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(MaxAmount) {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(AmountDecimals)) {
		return ErrInvalidAmount
	}

	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return InvalidInput("description must be at most %d characters", MaxDescriptionLength)
	}

	return nil
}

// NormalizeName trims s and checks its length in characters.
func NormalizeName(field, s string, minLen, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(s)
	n := utf8.RuneCountInString(trimmed)
	if n < minLen || n > maxLen {
		return "", InvalidInput("%s must be between %d and %d characters", field, minLen, maxLen)
	}

	return trimmed, nil
}
