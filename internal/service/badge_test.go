package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository"
)

func (e *testEnv) earned(t *testing.T, participantID uuid.UUID) []domain.BadgeCriteria {
	t.Helper()
	badges, err := e.badges.ParticipantBadges(context.Background(), participantID)
	require.NoError(t, err)

	criteria := make([]domain.BadgeCriteria, 0, len(badges))
	for _, b := range badges {
		require.NotNil(t, b.Badge)
		criteria = append(criteria, b.Badge.Criteria)
	}
	sort.Slice(criteria, func(i, j int) bool { return criteria[i] < criteria[j] })

	return criteria
}

func TestBadgeService_AwardsAfterMutations(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)
	vendor := env.createVendor(t, event.ID, organizerID, "Lemonade")

	alice := env.join(t, event.ID, "Alice")
	assert.Equal(t, []domain.BadgeCriteria{domain.CriteriaFirstHour}, env.earned(t, alice.ParticipantID))

	_, err := env.ledger.ProcessPayment(ctx, alice.WalletID, vendor.ID, amount("50"), "")
	require.NoError(t, err)
	assert.Equal(t, []domain.BadgeCriteria{
		domain.CriteriaFirstHour,
		domain.CriteriaSpend50,
		domain.CriteriaTop10Percent,
	}, env.earned(t, alice.ParticipantID))

	env.clock.Advance(2 * time.Hour)
	bob := env.join(t, event.ID, "Bob")
	assert.Empty(t, env.earned(t, bob.ParticipantID))

	for i := 0; i < 5; i++ {
		_, err = env.ledger.ProcessPayment(ctx, bob.WalletID, vendor.ID, amount("1"), "")
		require.NoError(t, err)
	}
	assert.Equal(t, []domain.BadgeCriteria{domain.CriteriaTransactions5}, env.earned(t, bob.ParticipantID))
}

func TestBadgeService_SpendFiftyInCents(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)
	vendor := env.createVendor(t, event.ID, organizerID, "Lemonade")
	alice := env.join(t, event.ID, "Alice")

	for _, a := range []string{"37.66", "5.94", "6.40"} {
		_, err := env.ledger.ProcessPayment(ctx, alice.WalletID, vendor.ID, amount(a), "")
		require.NoError(t, err)
	}

	assert.Equal(t, "0.00", env.balance(t, alice.WalletID))
	assert.Contains(t, env.earned(t, alice.ParticipantID), domain.CriteriaSpend50)

	stats, err := env.events.GetEventStats(ctx, event.ID, organizerID)
	require.NoError(t, err)
	assert.True(t, stats.TotalCirculating.IsZero(), stats.TotalCirculating.String())
	assert.Equal(t, "50.00", stats.TotalVendorEarnings.StringFixed(2))
	assert.True(t, amount("50").Equal(stats.TotalVendorEarnings), stats.TotalVendorEarnings.String())
}

func TestBadgeService_EvaluateIsIdempotent(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	event := env.createEvent(t, uuid.New())
	alice := env.join(t, event.ID, "Alice")

	awarded, err := env.badges.Evaluate(ctx, alice.ParticipantID)
	require.NoError(t, err)
	assert.Empty(t, awarded)
	assert.Len(t, env.earned(t, alice.ParticipantID), 1)
}

func TestBadgeService_UnknownParticipant(t *testing.T) {
	env := setupEnv(t)

	_, err := env.badges.Evaluate(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrParticipantNotFound)

	_, err = env.badges.ParticipantBadges(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrParticipantNotFound)

	_, err = env.badges.EventBadges(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

type failingBadges struct{}

func (failingBadges) Evaluate(context.Context, uuid.UUID) ([]domain.Badge, error) {
	return nil, errors.New("badge store unavailable")
}

func TestLedger_BadgeFailureKeepsPayment(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)
	alice := env.join(t, event.ID, "Alice")
	vendor := env.createVendor(t, event.ID, organizerID, "Lemonade")

	ledger := NewLedgerService(env.ledger.repo, env.events, failingBadges{}, nil, WithClock(env.clock.Now))
	id, err := ledger.ProcessPayment(ctx, alice.WalletID, vendor.ID, amount("5"), "")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, "45.00", env.balance(t, alice.WalletID))
}

func TestTopSpender(t *testing.T) {
	ranking := func(spent ...int64) []repository.WalletSpend {
		out := make([]repository.WalletSpend, 0, len(spent))
		for _, s := range spent {
			out = append(out, repository.WalletSpend{WalletID: uuid.New(), Spent: decimal.NewFromInt(s)})
		}
		return out
	}

	tests := []struct {
		name         string
		ranking      []repository.WalletSpend
		own          int64
		participants int64
		want         bool
	}{
		{"single participant", ranking(10), 10, 1, true},
		{"first of twenty", ranking(30, 20, 10), 30, 20, true},
		{"second of twenty", ranking(30, 20, 10), 20, 20, true},
		{"third of twenty", ranking(30, 20, 10), 10, 20, false},
		{"second of ten", ranking(30, 20), 20, 10, false},
		{"tie at the top of ten", ranking(30, 30, 5), 30, 10, true},
		{"two slots for eleven", ranking(30, 20, 10), 10, 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, topSpender(tt.ranking, decimal.NewFromInt(tt.own), tt.participants))
		})
	}
}
