package request

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintly/mintly-api/internal/domain"
)

var (
	errRequiredID     = errors.New("is required")
	errInvalidAmount  = errors.New("must be a positive amount of at most 1000000 with at most 2 decimals")
	errDescriptionLen = errors.New("must be at most 200 characters")
)

func requiredID(value any) error {
	if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
		return errRequiredID
	}

	return nil
}

func validAmount(value any) error {
	amount, ok := value.(decimal.Decimal)
	if !ok {
		return errInvalidAmount
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return errInvalidAmount
	}

	return nil
}

// trimmedLength checks the length in characters after trimming.
func trimmedLength(minLen, maxLen int) validation.Rule {
	return validation.By(func(value any) error {
		s, _ := value.(string)
		n := utf8.RuneCountInString(strings.TrimSpace(s))
		if n < minLen || n > maxLen {
			return fmt.Errorf("the length must be between %d and %d", minLen, maxLen)
		}

		return nil
	})
}

func optionalDescription(value any) error {
	desc, _ := value.(*string)
	if desc == nil {
		return nil
	}
	if utf8.RuneCountInString(strings.TrimSpace(*desc)) > domain.MaxDescriptionLength {
		return errDescriptionLen
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
