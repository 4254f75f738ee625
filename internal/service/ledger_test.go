package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintly/mintly-api/internal/domain"
)

func TestLedger_FairScenario(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)

	alice := env.join(t, event.ID, "Alice")
	bob := env.join(t, event.ID, "Bob")
	assert.Equal(t, "50.00", alice.Balance.StringFixed(2))
	vendor := env.createVendor(t, event.ID, organizerID, "Lemonade")

	_, err := env.ledger.ProcessPayment(ctx, alice.WalletID, vendor.ID, amount("12.50"), "lemonade")
	require.NoError(t, err)
	assert.Equal(t, "37.50", env.balance(t, alice.WalletID))
	assert.Equal(t, "12.50", env.earnings(t, vendor.ID))

	env.clock.Advance(time.Minute)
	_, err = env.ledger.TransferFunds(ctx, alice.WalletID, bob.WalletID, amount("7"), "")
	require.NoError(t, err)
	assert.Equal(t, "30.50", env.balance(t, alice.WalletID))
	assert.Equal(t, "57.00", env.balance(t, bob.WalletID))

	env.clock.Advance(time.Minute)
	_, err = env.ledger.SendReward(ctx, event.ID, alice.ParticipantID, amount("10"), "", organizerID)
	require.NoError(t, err)
	assert.Equal(t, "40.50", env.balance(t, alice.WalletID))

	_, err = env.ledger.ProcessPayment(ctx, alice.WalletID, vendor.ID, amount("100"), "")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, "40.50", env.balance(t, alice.WalletID))
	assert.Equal(t, "12.50", env.earnings(t, vendor.ID))

	history, err := env.ledger.WalletTransactions(ctx, alice.WalletID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.TransactionReward, history[0].Type)
	assert.Equal(t, domain.DefaultRewardDescription, history[0].Description)
	assert.Equal(t, domain.TransactionTransfer, history[1].Type)
	assert.Equal(t, domain.TransactionPayment, history[2].Type)

	all, err := env.ledger.EventTransactions(ctx, event.ID, organizerID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.Equal(t, []string{
		domain.KindParticipantJoined,
		domain.KindParticipantJoined,
		domain.KindPayment,
		domain.KindTransfer,
		domain.KindReward,
	}, env.feed.Kinds())
}

func TestLedger_ConcurrentPayments(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)
	alice := env.join(t, event.ID, "Alice")
	vendor := env.createVendor(t, event.ID, organizerID, "Snacks")

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	var succeeded, insufficient int
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.ledger.ProcessPayment(ctx, alice.WalletID, vendor.ID, amount("7"), "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientFunds):
				insufficient++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	// floor(50 / 7)
	assert.Equal(t, 7, succeeded)
	assert.Equal(t, attempts-7, insufficient)
	assert.Equal(t, "1.00", env.balance(t, alice.WalletID))
	assert.Equal(t, "49.00", env.earnings(t, vendor.ID))
}

func TestLedger_ConcurrentOpposingTransfers(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	event := env.createEvent(t, uuid.New())
	alice := env.join(t, event.ID, "Alice")
	bob := env.join(t, event.ID, "Bob")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := env.ledger.TransferFunds(ctx, alice.WalletID, bob.WalletID, amount("3"), "")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := env.ledger.TransferFunds(ctx, bob.WalletID, alice.WalletID, amount("2"), "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, "45.00", env.balance(t, alice.WalletID))
	assert.Equal(t, "55.00", env.balance(t, bob.WalletID))
}

func TestLedger_ProcessPaymentRejections(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)
	other := env.createEvent(t, organizerID)
	alice := env.join(t, event.ID, "Alice")
	vendor := env.createVendor(t, event.ID, organizerID, "Lemonade")
	foreignVendor := env.createVendor(t, other.ID, organizerID, "Popcorn")

	tests := []struct {
		name     string
		walletID uuid.UUID
		vendorID uuid.UUID
		amount   string
		desc     string
		want     error
	}{
		{"zero amount", alice.WalletID, vendor.ID, "0", "", domain.ErrInvalidAmount},
		{"negative amount", alice.WalletID, vendor.ID, "-5", "", domain.ErrInvalidAmount},
		{"three decimals", alice.WalletID, vendor.ID, "1.005", "", domain.ErrInvalidAmount},
		{"above maximum", alice.WalletID, vendor.ID, "1000000.01", "", domain.ErrInvalidAmount},
		{"unknown wallet", uuid.New(), vendor.ID, "1", "", domain.ErrWalletNotFound},
		{"unknown vendor", alice.WalletID, uuid.New(), "1", "", domain.ErrVendorNotFound},
		{"cross event vendor", alice.WalletID, foreignVendor.ID, "1", "", domain.ErrCrossEvent},
		{"long description", alice.WalletID, vendor.ID, "1", strings.Repeat("x", 201), domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := env.ledger.ProcessPayment(ctx, tt.walletID, tt.vendorID, amount(tt.amount), tt.desc)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, uuid.Nil, id)
		})
	}

	assert.Equal(t, "50.00", env.balance(t, alice.WalletID))
	assert.Equal(t, "0.00", env.earnings(t, vendor.ID))
	assert.Equal(t, "0.00", env.earnings(t, foreignVendor.ID))
}

func TestLedger_PaymentToDeletedVendor(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)
	alice := env.join(t, event.ID, "Alice")
	vendor := env.createVendor(t, event.ID, organizerID, "Lemonade")

	_, err := env.ledger.ProcessPayment(ctx, alice.WalletID, vendor.ID, amount("5"), "")
	require.NoError(t, err)
	require.NoError(t, env.vendors.DeleteVendor(ctx, vendor.ID, organizerID))

	_, err = env.ledger.ProcessPayment(ctx, alice.WalletID, vendor.ID, amount("5"), "")
	require.ErrorIs(t, err, domain.ErrVendorNotFound)

	history, err := env.ledger.WalletTransactions(ctx, alice.WalletID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, vendor.ID, *history[0].VendorID)
}

func TestLedger_TransferRejections(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)
	other := env.createEvent(t, organizerID)
	alice := env.join(t, event.ID, "Alice")
	bob := env.join(t, event.ID, "Bob")
	carol := env.join(t, other.ID, "Carol")

	_, err := env.ledger.TransferFunds(ctx, alice.WalletID, alice.WalletID, amount("1"), "")
	require.ErrorIs(t, err, domain.ErrSameWallet)

	_, err = env.ledger.TransferFunds(ctx, alice.WalletID, carol.WalletID, amount("1"), "")
	require.ErrorIs(t, err, domain.ErrCrossEvent)

	_, err = env.ledger.TransferFunds(ctx, alice.WalletID, uuid.New(), amount("1"), "")
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	_, err = env.ledger.TransferFunds(ctx, alice.WalletID, bob.WalletID, amount("50.01"), "")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = env.ledger.TransferFunds(ctx, alice.WalletID, bob.WalletID, amount("50"), "everything")
	require.NoError(t, err)

	assert.Equal(t, "0.00", env.balance(t, alice.WalletID))
	assert.Equal(t, "100.00", env.balance(t, bob.WalletID))
	assert.Equal(t, "50.00", env.balance(t, carol.WalletID))
}

func TestLedger_InactiveAndExpiredEvents(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)
	alice := env.join(t, event.ID, "Alice")
	bob := env.join(t, event.ID, "Bob")
	vendor := env.createVendor(t, event.ID, organizerID, "Lemonade")

	inactive := false
	_, err := env.events.UpdateEvent(ctx, event.ID, organizerID, domain.EventUpdate{IsActive: &inactive})
	require.NoError(t, err)

	_, err = env.ledger.ProcessPayment(ctx, alice.WalletID, vendor.ID, amount("1"), "")
	require.ErrorIs(t, err, domain.ErrEventInactive)
	_, err = env.ledger.TransferFunds(ctx, alice.WalletID, bob.WalletID, amount("1"), "")
	require.ErrorIs(t, err, domain.ErrEventInactive)
	_, err = env.ledger.SendReward(ctx, event.ID, alice.ParticipantID, amount("1"), "", organizerID)
	require.ErrorIs(t, err, domain.ErrEventInactive)
	_, err = env.participants.JoinEvent(ctx, event.ID, "Late")
	require.ErrorIs(t, err, domain.ErrEventInactive)

	active := true
	_, err = env.events.UpdateEvent(ctx, event.ID, organizerID, domain.EventUpdate{IsActive: &active})
	require.NoError(t, err)
	env.clock.Advance(24 * time.Hour)

	_, err = env.ledger.ProcessPayment(ctx, alice.WalletID, vendor.ID, amount("1"), "")
	require.ErrorIs(t, err, domain.ErrEventExpired)
	_, err = env.ledger.TransferFunds(ctx, alice.WalletID, bob.WalletID, amount("1"), "")
	require.ErrorIs(t, err, domain.ErrEventExpired)
	_, err = env.ledger.SendReward(ctx, event.ID, alice.ParticipantID, amount("1"), "", organizerID)
	require.ErrorIs(t, err, domain.ErrEventExpired)
	_, err = env.participants.JoinEvent(ctx, event.ID, "Late")
	require.ErrorIs(t, err, domain.ErrEventExpired)

	assert.Equal(t, "50.00", env.balance(t, alice.WalletID))
	assert.Equal(t, "50.00", env.balance(t, bob.WalletID))
}

func TestLedger_SendRewardRejections(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)
	other := env.createEvent(t, organizerID)
	alice := env.join(t, event.ID, "Alice")
	carol := env.join(t, other.ID, "Carol")

	_, err := env.ledger.SendReward(ctx, event.ID, alice.ParticipantID, amount("5"), "", uuid.New())
	require.ErrorIs(t, err, domain.ErrNotEventOrganizer)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.ledger.SendReward(ctx, event.ID, carol.ParticipantID, amount("5"), "", organizerID)
	require.ErrorIs(t, err, domain.ErrParticipantNotFound)

	_, err = env.ledger.SendReward(ctx, uuid.New(), alice.ParticipantID, amount("5"), "", organizerID)
	require.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = env.ledger.SendReward(ctx, event.ID, alice.ParticipantID, amount("0.001"), "", organizerID)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	assert.Equal(t, "50.00", env.balance(t, alice.WalletID))

	_, err = env.ledger.SendReward(ctx, event.ID, alice.ParticipantID, amount("1000000"), "jackpot", organizerID)
	require.NoError(t, err)
	assert.Equal(t, "1000050.00", env.balance(t, alice.WalletID))
}

func TestLedger_EventTransactionsRequiresOwner(t *testing.T) {
	env := setupEnv(t)
	event := env.createEvent(t, uuid.New())

	_, err := env.ledger.EventTransactions(context.Background(), event.ID, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotEventOrganizer)
}

func TestLedger_WalletTransactionsUnknownWallet(t *testing.T) {
	env := setupEnv(t)

	txns, err := env.ledger.WalletTransactions(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, txns)
}
