package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository"
	"github.com/mintly/mintly-api/internal/repository/dao"
)

var testNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type recordingFeed struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

func (f *recordingFeed) Broadcast(ev domain.LedgerEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, ev)
}

func (f *recordingFeed) Kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	kinds := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		kinds = append(kinds, ev.Kind)
	}

	return kinds
}

type testEnv struct {
	db           *gorm.DB
	clock        *testClock
	feed         *recordingFeed
	events       *EventService
	participants *ParticipantService
	vendors      *VendorService
	ledger       *LedgerService
	badges       *BadgeService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := dao.InitTables(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func setupEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	return newTestEnv(t, setupTestDB(t), 10*time.Second, opts...)
}

func newTestEnv(t *testing.T, db *gorm.DB, lockTimeout time.Duration, opts ...Option) *testEnv {
	t.Helper()
	clock := &testClock{now: testNow}
	opts = append([]Option{WithClock(clock.Now)}, opts...)

	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	vendorRepo := repository.NewVendorRepository(dao.NewVendorDAO(db))
	badgeRepo := repository.NewBadgeRepository(dao.NewBadgeDAO(db))
	ledgerRepo := repository.NewLedgerRepository(dao.NewLedgerDAO(db, lockTimeout), dao.NewTransactionDAO(db))

	feed := &recordingFeed{}
	notifier := NewNotifier(nil, feed)
	events := NewEventService(eventRepo, opts...)
	badges := NewBadgeService(badgeRepo, participantRepo, eventRepo, opts...)

	return &testEnv{
		db:           db,
		clock:        clock,
		feed:         feed,
		events:       events,
		participants: NewParticipantService(participantRepo, ledgerRepo, events, badges, notifier, opts...),
		vendors:      NewVendorService(vendorRepo, events, opts...),
		ledger:       NewLedgerService(ledgerRepo, events, badges, notifier, opts...),
		badges:       badges,
	}
}

func (e *testEnv) createEvent(t *testing.T, organizerID uuid.UUID) domain.Event {
	t.Helper()
	event, err := e.events.CreateEvent(context.Background(), organizerID, domain.Event{
		Name:            "Summer Fair",
		CurrencyName:    "Fair Coins",
		CurrencySymbol:  "FC",
		ExchangeRate:    decimal.RequireFromString("1.25"),
		StartingBalance: decimal.NewFromInt(50),
		DurationHours:   24,
	})
	require.NoError(t, err)
	return event
}

func (e *testEnv) join(t *testing.T, eventID uuid.UUID, name string) domain.JoinResult {
	t.Helper()
	res, err := e.participants.JoinEvent(context.Background(), eventID, name)
	require.NoError(t, err)
	return res
}

func (e *testEnv) createVendor(t *testing.T, eventID, organizerID uuid.UUID, name string) domain.Vendor {
	t.Helper()
	vendor, err := e.vendors.CreateVendor(context.Background(), eventID, organizerID, name)
	require.NoError(t, err)
	return vendor
}

func (e *testEnv) balance(t *testing.T, walletID uuid.UUID) string {
	t.Helper()
	wallet, err := e.participants.GetWallet(context.Background(), walletID)
	require.NoError(t, err)
	return wallet.Balance.StringFixed(2)
}

func (e *testEnv) earnings(t *testing.T, vendorID uuid.UUID) string {
	t.Helper()
	var vendor dao.Vendor
	require.NoError(t, e.db.Unscoped().First(&vendor, "id = ?", vendorID).Error)
	return vendor.TotalEarnings.StringFixed(2)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
