package dao

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mintly/mintly-api/internal/domain"
)

// LedgerDAO runs wallet mutations inside database transactions. Rows are
// locked with SELECT ... FOR UPDATE where the dialect supports it, and every
// balance write is additionally guarded by the row version.
type LedgerDAO struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func NewLedgerDAO(db *gorm.DB, lockTimeout time.Duration) *LedgerDAO {
	return &LedgerDAO{
		db:          db,
		lockTimeout: lockTimeout,
	}
}

// Transaction commits when fn returns nil and rolls everything back otherwise.
// Waiting on locks longer than the configured timeout fails with domain.ErrBusy.
func (d *LedgerDAO) Transaction(ctx context.Context, fn func(tx *LedgerTx) error) error {
	if d.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.lockTimeout)
		defer cancel()
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" && d.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", d.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}

		return fn(&LedgerTx{db: tx})
	})

	return translateTxErr(ctx, err)
}

// LedgerTx is only valid inside the callback passed to LedgerDAO.Transaction.
type LedgerTx struct {
	db *gorm.DB
}

func (t *LedgerTx) locked() *gorm.DB {
	return t.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (t *LedgerTx) FindEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	var event Event

	if err := t.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Event{}, domain.ErrEventNotFound
		}

		return Event{}, err
	}

	return event, nil
}

func (t *LedgerTx) FindParticipant(ctx context.Context, id uuid.UUID) (Participant, error) {
	var participant Participant

	if err := t.db.WithContext(ctx).First(&participant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Participant{}, domain.ErrParticipantNotFound
		}

		return Participant{}, err
	}

	return participant, nil
}

func (t *LedgerTx) LockWallet(ctx context.Context, id uuid.UUID) (Wallet, error) {
	var wallet Wallet

	if err := t.locked().WithContext(ctx).First(&wallet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Wallet{}, domain.ErrWalletNotFound
		}

		return Wallet{}, err
	}

	return wallet, nil
}

// LockWallets locks the wallets one by one in ascending id order, so two
// transfers between the same pair of wallets can never deadlock.
func (t *LedgerTx) LockWallets(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]Wallet, error) {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})

	wallets := make(map[uuid.UUID]Wallet, len(sorted))
	for _, id := range sorted {
		if _, ok := wallets[id]; ok {
			continue
		}

		wallet, err := t.LockWallet(ctx, id)
		if err != nil {
			return nil, err
		}
		wallets[id] = wallet
	}

	return wallets, nil
}

func (t *LedgerTx) LockWalletByParticipant(ctx context.Context, participantID uuid.UUID) (Wallet, error) {
	var wallet Wallet

	if err := t.locked().WithContext(ctx).First(&wallet, "participant_id = ?", participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Wallet{}, domain.ErrWalletNotFound
		}

		return Wallet{}, err
	}

	return wallet, nil
}

// LockVendor ignores soft deleted vendors.
func (t *LedgerTx) LockVendor(ctx context.Context, id uuid.UUID) (Vendor, error) {
	var vendor Vendor

	if err := t.locked().WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Vendor{}, domain.ErrVendorNotFound
		}

		return Vendor{}, err
	}

	return vendor, nil
}

// UpdateWalletBalance writes balance if the wallet still has the version it
// was read with.
func (t *LedgerTx) UpdateWalletBalance(ctx context.Context, wallet Wallet, balance decimal.Decimal, now time.Time) error {
	result := t.db.WithContext(ctx).
		Model(&Wallet{}).
		Where("id = ? AND version = ?", wallet.ID, wallet.Version).
		Updates(map[string]any{
			"balance":    balance,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrBusy
	}

	return nil
}

func (t *LedgerTx) UpdateVendorEarnings(ctx context.Context, vendor Vendor, earnings decimal.Decimal, now time.Time) error {
	result := t.db.WithContext(ctx).
		Model(&Vendor{}).
		Where("id = ? AND version = ?", vendor.ID, vendor.Version).
		Updates(map[string]any{
			"total_earnings": earnings,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrBusy
	}

	return nil
}

func (t *LedgerTx) InsertTransaction(ctx context.Context, txn Transaction) (Transaction, error) {
	if err := t.db.WithContext(ctx).Create(&txn).Error; err != nil {
		return Transaction{}, err
	}

	return txn, nil
}

func (t *LedgerTx) CodeInUse(ctx context.Context, code string) (bool, error) {
	return codeInUse(t.db.WithContext(ctx), code)
}

// InsertParticipant creates the participant and its wallet under a savepoint.
// A join code collision rolls back to the savepoint and reports
// domain.ErrCodeTaken, leaving the surrounding transaction usable.
func (t *LedgerTx) InsertParticipant(ctx context.Context, participant Participant, wallet Wallet) (Participant, Wallet, error) {
	err := t.db.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		if err := sp.Omit("Wallet").Create(&participant).Error; err != nil {
			if isUniqueViolation(err, "join_code") {
				return domain.ErrCodeTaken
			}

			return err
		}

		wallet.ParticipantID = participant.ID
		wallet.EventID = participant.EventID

		return sp.Create(&wallet).Error
	})
	if err != nil {
		return Participant{}, Wallet{}, err
	}

	return participant, wallet, nil
}
