package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "smallest unit", amount: "0.01"},
		{name: "upper bound", amount: "1000000"},
		{name: "trailing zeros", amount: "12.500"},
		{name: "zero", amount: "0", wantErr: true},
		{name: "negative", amount: "-5", wantErr: true},
		{name: "above upper bound", amount: "1000000.01", wantErr: true},
		{name: "sub cent", amount: "1.005", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateDescription(t *testing.T) {
	assert.NoError(t, ValidateDescription(""))
	assert.NoError(t, ValidateDescription(strings.Repeat("é", MaxDescriptionLength)))
	assert.ErrorIs(t, ValidateDescription(strings.Repeat("a", MaxDescriptionLength+1)), ErrInvalidInput)
}

func TestNormalizeName(t *testing.T) {
	name, err := NormalizeName("name", "  Alice  ", 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, "Alice", name)

	_, err = NormalizeName("name", "   ", 1, 50)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NormalizeName("name", strings.Repeat("x", 51), 1, 50)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestErrorClasses(t *testing.T) {
	classes := map[error]error{
		ErrInvalidAmount:     ErrValidation,
		ErrEventNotFound:     ErrNotFound,
		ErrWalletNotFound:    ErrNotFound,
		ErrSameWallet:        ErrState,
		ErrCrossEvent:        ErrState,
		ErrEventExpired:      ErrState,
		ErrBusy:              ErrConcurrency,
		ErrNotEventOrganizer: ErrUnauthorized,
	}

	for err, class := range classes {
		assert.True(t, errors.Is(err, class), "%v should be a %v", err, class)
	}
	assert.Equal(t, "wallet not found", ErrWalletNotFound.Error())
}
