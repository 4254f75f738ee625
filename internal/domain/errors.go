package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the ledger wraps exactly one of them,
// so callers can branch with errors.Is on the class or on the specific error.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrState             = errors.New("invalid state")
	ErrConcurrency       = errors.New("concurrent update")
	ErrUnauthorized      = errors.New("unauthorized")
)

var (
	ErrInvalidAmount = fmt.Errorf("%w: amount must be positive, at most 1000000 and have at most 2 decimals", ErrValidation)
	ErrInvalidInput  = fmt.Errorf("%w: invalid input", ErrValidation)

	ErrEventNotFound       = fmt.Errorf("event %w", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("participant %w", ErrNotFound)
	ErrWalletNotFound      = fmt.Errorf("wallet %w", ErrNotFound)
	ErrVendorNotFound      = fmt.Errorf("vendor %w", ErrNotFound)
	ErrOrganizerNotFound   = fmt.Errorf("organizer %w", ErrNotFound)

	ErrSameWallet    = fmt.Errorf("%w: source and destination wallets are the same", ErrState)
	ErrCrossEvent    = fmt.Errorf("%w: accounts belong to different events", ErrState)
	ErrEventInactive = fmt.Errorf("%w: event is not active", ErrState)
	ErrEventExpired  = fmt.Errorf("%w: event has expired", ErrState)

	ErrBusy = fmt.Errorf("%w: account is busy, retry the operation", ErrConcurrency)

	ErrNotEventOrganizer = fmt.Errorf("%w: caller is not the event organizer", ErrUnauthorized)

	ErrCodeTaken     = errors.New("code already in use")
	ErrCodeExhausted = errors.New("could not allocate a unique code")
)

// InvalidInput returns an ErrInvalidInput carrying a field specific message.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
